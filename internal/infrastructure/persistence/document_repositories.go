package persistence

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/invoicing"
	"github.com/fabshop/backend/internal/domain/production"
	"github.com/fabshop/backend/internal/domain/quoting"
	"github.com/fabshop/backend/internal/domain/shared"
)

// QuotationRepository persists quotations as one serialized collection
type QuotationRepository struct {
	quotations *collection[quoting.Quotation]
}

// NewQuotationRepository creates a quotation repository over the store
func NewQuotationRepository(store Store, logger *zap.Logger) *QuotationRepository {
	return &QuotationRepository{
		quotations: newCollection[quoting.Quotation](store, KeyQuotations, logger),
	}
}

// FindByID finds a quotation by its ID
func (r *QuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quoting.Quotation, error) {
	for _, q := range r.quotations.load(ctx) {
		if q.ID == id {
			found := q
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every quotation, newest first
func (r *QuotationRepository) FindAll(ctx context.Context) ([]quoting.Quotation, error) {
	items := r.quotations.load(ctx)
	result := make([]quoting.Quotation, len(items))
	copy(result, items)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Save creates or updates a quotation
func (r *QuotationRepository) Save(ctx context.Context, quotation *quoting.Quotation) error {
	return r.quotations.mutate(ctx, func(items []quoting.Quotation) ([]quoting.Quotation, error) {
		for i := range items {
			if items[i].ID == quotation.ID {
				items[i] = *quotation
				return items, nil
			}
		}
		return append(items, *quotation), nil
	})
}

// Delete deletes a quotation
func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.quotations.mutate(ctx, func(items []quoting.Quotation) ([]quoting.Quotation, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, shared.ErrNotFound
	})
}

var _ quoting.QuotationRepository = (*QuotationRepository)(nil)

// InvoiceRepository persists invoices as one serialized collection
type InvoiceRepository struct {
	invoices *collection[invoicing.Invoice]
}

// NewInvoiceRepository creates an invoice repository over the store
func NewInvoiceRepository(store Store, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		invoices: newCollection[invoicing.Invoice](store, KeyInvoices, logger),
	}
}

// FindByID finds an invoice by its ID
func (r *InvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	for _, inv := range r.invoices.load(ctx) {
		if inv.ID == id {
			found := inv
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every invoice, newest first
func (r *InvoiceRepository) FindAll(ctx context.Context) ([]invoicing.Invoice, error) {
	items := r.invoices.load(ctx)
	result := make([]invoicing.Invoice, len(items))
	copy(result, items)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Save creates or updates an invoice
func (r *InvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.invoices.mutate(ctx, func(items []invoicing.Invoice) ([]invoicing.Invoice, error) {
		for i := range items {
			if items[i].ID == invoice.ID {
				items[i] = *invoice
				return items, nil
			}
		}
		return append(items, *invoice), nil
	})
}

// Delete deletes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.invoices.mutate(ctx, func(items []invoicing.Invoice) ([]invoicing.Invoice, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, shared.ErrNotFound
	})
}

var _ invoicing.InvoiceRepository = (*InvoiceRepository)(nil)

// OrderRepository persists production orders as one serialized
// collection
type OrderRepository struct {
	orders *collection[production.Order]
}

// NewOrderRepository creates an order repository over the store
func NewOrderRepository(store Store, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		orders: newCollection[production.Order](store, KeyOrders, logger),
	}
}

// FindByID finds an order by its ID
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Order, error) {
	for _, o := range r.orders.load(ctx) {
		if o.ID == id {
			found := o
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByInvoiceID finds the order spawned by an invoice, if any
func (r *OrderRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*production.Order, error) {
	for _, o := range r.orders.load(ctx) {
		if o.Invoice.ID == invoiceID {
			found := o
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every order, newest first
func (r *OrderRepository) FindAll(ctx context.Context) ([]production.Order, error) {
	items := r.orders.load(ctx)
	result := make([]production.Order, len(items))
	copy(result, items)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Save creates or updates an order
func (r *OrderRepository) Save(ctx context.Context, order *production.Order) error {
	return r.orders.mutate(ctx, func(items []production.Order) ([]production.Order, error) {
		for i := range items {
			if items[i].ID == order.ID {
				items[i] = *order
				return items, nil
			}
		}
		return append(items, *order), nil
	})
}

// Delete deletes an order
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.orders.mutate(ctx, func(items []production.Order) ([]production.Order, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, shared.ErrNotFound
	})
}

var _ production.OrderRepository = (*OrderRepository)(nil)
