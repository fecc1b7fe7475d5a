package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoicingapp "github.com/fabshop/backend/internal/application/invoicing"
	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/tests/testutil"
)

// The payment ledger owns the PAID status: settling flips the invoice
// to PAID, removing a payment reopens it.
func TestInvoicePaymentWalk(t *testing.T) {
	ctx := context.Background()
	engine := testutil.NewEngine(t)
	_, material := testutil.SeedCatalog(t, engine, decimal.NewFromInt(2))
	customer := testutil.SeedCustomer(t, engine, "Apex Engineering", "Maharashtra", "Net 30")

	quotation := testutil.BuildQuotation(t, engine, customer, material, decimal.NewFromInt(250), 2)
	promoted, err := engine.Lifecycle.Promote(ctx, quotation.ID)
	require.NoError(t, err)

	invoiceID := promoted.InvoiceID

	invoice, err := engine.Invoicing.UpdateStatus(ctx, invoiceID, invoicingapp.UpdateInvoiceStatusRequest{Status: "SENT"})
	require.NoError(t, err)
	require.True(t, invoice.RemainingAmount.Equal(decimal.NewFromInt(1180)))

	invoice, err = engine.Invoicing.RecordPayment(ctx, invoiceID, invoicingapp.RecordPaymentRequest{
		Amount: decimal.NewFromInt(1100),
		Method: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, "SENT", invoice.Status)
	assert.True(t, invoice.RemainingAmount.Equal(decimal.NewFromInt(80)))

	invoice, err = engine.Invoicing.RecordPayment(ctx, invoiceID, invoicingapp.RecordPaymentRequest{
		Amount: decimal.NewFromInt(80),
		Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", invoice.Status)
	assert.True(t, invoice.RemainingAmount.IsZero())

	t.Run("overpayment is refused", func(t *testing.T) {
		_, err := engine.Invoicing.RecordPayment(ctx, invoiceID, invoicingapp.RecordPaymentRequest{
			Amount: decimal.NewFromInt(1),
			Method: "cash",
		})
		require.Error(t, err)
	})

	t.Run("removing a payment reopens the settled invoice", func(t *testing.T) {
		settled, err := engine.Invoicing.Get(ctx, invoiceID)
		require.NoError(t, err)
		require.Len(t, settled.Payments, 2)

		reopened, err := engine.Invoicing.RemovePayment(ctx, invoiceID, settled.Payments[1].ID)
		require.NoError(t, err)
		// due date is 30 days out, so the open balance is not overdue
		assert.Equal(t, "SENT", reopened.Status)
		assert.True(t, reopened.RemainingAmount.Equal(decimal.NewFromInt(80)))
	})

	t.Run("paid can never be entered by hand", func(t *testing.T) {
		_, err := engine.Invoicing.RecordPayment(ctx, invoiceID, invoicingapp.RecordPaymentRequest{
			Amount: decimal.NewFromInt(80),
			Method: "cash",
		})
		require.NoError(t, err)

		_, err = engine.Invoicing.UpdateStatus(ctx, invoiceID, invoicingapp.UpdateInvoiceStatusRequest{Status: "PAID"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}
