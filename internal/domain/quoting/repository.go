package quoting

import (
	"context"

	"github.com/google/uuid"
)

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByID finds a quotation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindAll returns every quotation, newest first
	FindAll(ctx context.Context) ([]Quotation, error)

	// Save creates or updates a quotation
	Save(ctx context.Context, quotation *Quotation) error

	// Delete deletes a quotation
	Delete(ctx context.Context, id uuid.UUID) error
}

// DraftRepository persists the single draft workspace. Load applies
// the lazy staleness check: a stale draft is discarded and a fresh
// empty one returned.
type DraftRepository interface {
	// Load returns the current draft workspace
	Load(ctx context.Context) (*DraftWorkspace, error)

	// Save persists the draft workspace
	Save(ctx context.Context, draft *DraftWorkspace) error

	// Clear discards the draft workspace
	Clear(ctx context.Context) error
}
