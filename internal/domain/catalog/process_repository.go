package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProcessRepository defines the interface for process persistence
type ProcessRepository interface {
	// FindByID finds a process by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Process, error)

	// FindAll returns every process in the catalog
	FindAll(ctx context.Context) ([]Process, error)

	// Save creates or updates a process
	Save(ctx context.Context, process *Process) error

	// Delete deletes a process
	Delete(ctx context.Context, id uuid.UUID) error
}

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	// FindByID finds a material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)

	// FindAll returns every material in the catalog
	FindAll(ctx context.Context) ([]Material, error)

	// FindByProcessID returns the materials offered under a process
	FindByProcessID(ctx context.Context, processID uuid.UUID) ([]Material, error)

	// Save creates or updates a material
	Save(ctx context.Context, material *Material) error

	// Delete deletes a material
	Delete(ctx context.Context, id uuid.UUID) error
}
