package quoting

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabshop/backend/internal/application/catalog"
	"github.com/fabshop/backend/internal/domain/numbering"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

// GeometryProvider measures model files. The engine treats geometry
// extraction as an external collaborator: the provider decides which
// file formats it understands and returns an error for the rest.
type GeometryProvider interface {
	// Extract measures the model file at path and returns its geometry
	Extract(ctx context.Context, path string) (valueobject.Geometry, error)
}

// CatalogResolver resolves process and material references against the
// catalog. Satisfied by catalog.CatalogService.
type CatalogResolver interface {
	GetProcess(ctx context.Context, id uuid.UUID) (*catalog.ProcessResponse, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*catalog.MaterialResponse, error)
}

// NumberAllocator issues the next document number for a family,
// persisting the advanced counter before the number is handed out
type NumberAllocator interface {
	NextNumber(ctx context.Context, family numbering.Family) (string, error)
}
