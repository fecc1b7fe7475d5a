package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/catalog"
	"github.com/fabshop/backend/internal/domain/invoicing"
	"github.com/fabshop/backend/internal/domain/partner"
	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/production"
	"github.com/fabshop/backend/internal/domain/quoting"
	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

func newTestCustomer(t *testing.T, name string) *partner.Customer {
	t.Helper()
	address, err := valueobject.NewAddress("12 Industrial Estate", "Pune", "Maharashtra")
	require.NoError(t, err)
	customer, err := partner.NewCustomer(name, address)
	require.NoError(t, err)
	return customer
}

func newStoredQuotation(t *testing.T, number string) *quoting.Quotation {
	t.Helper()
	quotation, err := quoting.NewQuotation(number, uuid.New(), "Apex Engineering")
	require.NoError(t, err)
	return quotation
}

func newStoredInvoice(t *testing.T, number string) *invoicing.Invoice {
	t.Helper()
	source := invoicing.QuotationRef{ID: uuid.New(), Number: "QTN-250101-0001"}
	invoice, err := invoicing.NewInvoice(number, source, uuid.New(), "Apex Engineering",
		nil, decimal.Zero, nil, pricing.ZeroDocumentTotals(), "Net 30",
		time.Now().AddDate(0, 0, 30))
	require.NoError(t, err)
	return invoice
}

// ============================================================================
// CustomerRepository Tests
// ============================================================================

func TestCustomerRepository_SaveAndFind(t *testing.T) {
	store := NewMemoryStore()
	repo := NewCustomerRepository(store, zap.NewNop())
	ctx := context.Background()

	customer := newTestCustomer(t, "Apex Engineering")
	require.NoError(t, repo.Save(ctx, customer))

	found, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apex Engineering", found.Name)

	// A fresh repository over the same store sees the persisted value
	reopened := NewCustomerRepository(store, zap.NewNop())
	all, err := reopened.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, customer.ID, all[0].ID)
}

func TestCustomerRepository_FindByIDNotFound(t *testing.T) {
	repo := NewCustomerRepository(NewMemoryStore(), zap.NewNop())

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerRepository_ExistsByNameCaseInsensitive(t *testing.T) {
	repo := NewCustomerRepository(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestCustomer(t, "Apex Engineering")))

	exists, err := repo.ExistsByName(ctx, "apex engineering")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "Zenith Fabricators")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCustomerRepository_SaveUpdatesExisting(t *testing.T) {
	repo := NewCustomerRepository(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	customer := newTestCustomer(t, "Apex Engineering")
	require.NoError(t, repo.Save(ctx, customer))

	require.NoError(t, customer.Update("Apex Engineering Works"))
	require.NoError(t, repo.Save(ctx, customer))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Apex Engineering Works", all[0].Name)
}

func TestCustomerRepository_Delete(t *testing.T) {
	repo := NewCustomerRepository(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	customer := newTestCustomer(t, "Apex Engineering")
	require.NoError(t, repo.Save(ctx, customer))
	require.NoError(t, repo.Delete(ctx, customer.ID))

	_, err := repo.FindByID(ctx, customer.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.Delete(ctx, customer.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ============================================================================
// Catalog Repository Tests
// ============================================================================

func TestMaterialRepository_FindByProcessID(t *testing.T) {
	store := NewMemoryStore()
	repo := NewMaterialRepository(store, zap.NewNop())
	ctx := context.Background()

	process, err := catalog.NewProcess("CNC Machining")
	require.NoError(t, err)

	aluminium, err := catalog.NewMaterial(process.ID, "Aluminium 6061", decimal.NewFromInt(12))
	require.NoError(t, err)
	steel, err := catalog.NewMaterial(process.ID, "Mild Steel", decimal.NewFromInt(8))
	require.NoError(t, err)
	other, err := catalog.NewMaterial(uuid.New(), "ABS", decimal.NewFromInt(5))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, aluminium))
	require.NoError(t, repo.Save(ctx, steel))
	require.NoError(t, repo.Save(ctx, other))

	materials, err := repo.FindByProcessID(ctx, process.ID)
	require.NoError(t, err)
	assert.Len(t, materials, 2)
}

// ============================================================================
// Document Repository Tests
// ============================================================================

func TestQuotationRepository_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	repo := NewQuotationRepository(store, zap.NewNop())
	ctx := context.Background()

	quotation := newStoredQuotation(t, "QTN-250101-0001")
	require.NoError(t, repo.Save(ctx, quotation))

	reopened := NewQuotationRepository(store, zap.NewNop())
	found, err := reopened.FindByID(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, "QTN-250101-0001", found.Number)
	assert.Equal(t, quoting.QuotationStatusDraft, found.Status)
}

func TestQuotationRepository_FindAllNewestFirst(t *testing.T) {
	repo := NewQuotationRepository(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	older := newStoredQuotation(t, "QTN-250101-0001")
	older.CreatedAt = time.Now().Add(-2 * time.Hour)
	newer := newStoredQuotation(t, "QTN-250101-0002")
	newer.CreatedAt = time.Now().Add(-time.Hour)

	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "QTN-250101-0002", all[0].Number)
	assert.Equal(t, "QTN-250101-0001", all[1].Number)
}

func TestQuotationRepository_DeleteNotFound(t *testing.T) {
	repo := NewQuotationRepository(NewMemoryStore(), zap.NewNop())
	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInvoiceRepository_RoundTripPreservesLedger(t *testing.T) {
	store := NewMemoryStore()
	repo := NewInvoiceRepository(store, zap.NewNop())
	ctx := context.Background()

	invoice := newStoredInvoice(t, "INV-250101-0001")
	require.NoError(t, repo.Save(ctx, invoice))

	reopened := NewInvoiceRepository(store, zap.NewNop())
	found, err := reopened.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-250101-0001", found.Number)
	assert.Equal(t, invoice.SourceQuotation.Number, found.SourceQuotation.Number)
	assert.True(t, found.RemainingAmount.Equal(invoice.RemainingAmount))
	assert.Empty(t, found.Payments)
}

func TestOrderRepository_FindByInvoiceID(t *testing.T) {
	repo := NewOrderRepository(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	invoiceRef := production.InvoiceRef{ID: uuid.New(), Number: "INV-250101-0001"}
	order, err := production.NewOrder("ORD-250101-0001", invoiceRef, uuid.New(), "Apex Engineering", nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByInvoiceID(ctx, invoiceRef.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-250101-0001", found.Number)

	_, err = repo.FindByInvoiceID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
