package production

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for production order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByInvoiceID finds the order spawned by an invoice, if any
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*Order, error)

	// FindAll returns every order, newest first
	FindAll(ctx context.Context) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order
	Delete(ctx context.Context, id uuid.UUID) error
}
