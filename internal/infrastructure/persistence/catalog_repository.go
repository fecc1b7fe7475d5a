package persistence

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/catalog"
	"github.com/fabshop/backend/internal/domain/shared"
)

// ProcessRepository persists the process catalog as one serialized
// collection
type ProcessRepository struct {
	processes *collection[catalog.Process]
}

// NewProcessRepository creates a process repository over the store
func NewProcessRepository(store Store, logger *zap.Logger) *ProcessRepository {
	return &ProcessRepository{
		processes: newCollection[catalog.Process](store, KeyProcesses, logger),
	}
}

// FindByID finds a process by its ID
func (r *ProcessRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Process, error) {
	for _, p := range r.processes.load(ctx) {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every process in the catalog
func (r *ProcessRepository) FindAll(ctx context.Context) ([]catalog.Process, error) {
	items := r.processes.load(ctx)
	result := make([]catalog.Process, len(items))
	copy(result, items)
	return result, nil
}

// Save creates or updates a process
func (r *ProcessRepository) Save(ctx context.Context, process *catalog.Process) error {
	return r.processes.mutate(ctx, func(items []catalog.Process) ([]catalog.Process, error) {
		for i := range items {
			if items[i].ID == process.ID {
				items[i] = *process
				return items, nil
			}
		}
		return append(items, *process), nil
	})
}

// Delete deletes a process
func (r *ProcessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.processes.mutate(ctx, func(items []catalog.Process) ([]catalog.Process, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, shared.ErrNotFound
	})
}

var _ catalog.ProcessRepository = (*ProcessRepository)(nil)

// MaterialRepository persists the material catalog as one serialized
// collection
type MaterialRepository struct {
	materials *collection[catalog.Material]
}

// NewMaterialRepository creates a material repository over the store
func NewMaterialRepository(store Store, logger *zap.Logger) *MaterialRepository {
	return &MaterialRepository{
		materials: newCollection[catalog.Material](store, KeyMaterials, logger),
	}
}

// FindByID finds a material by its ID
func (r *MaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	for _, m := range r.materials.load(ctx) {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every material in the catalog
func (r *MaterialRepository) FindAll(ctx context.Context) ([]catalog.Material, error) {
	items := r.materials.load(ctx)
	result := make([]catalog.Material, len(items))
	copy(result, items)
	return result, nil
}

// FindByProcessID returns the materials offered under a process
func (r *MaterialRepository) FindByProcessID(ctx context.Context, processID uuid.UUID) ([]catalog.Material, error) {
	result := make([]catalog.Material, 0)
	for _, m := range r.materials.load(ctx) {
		if m.ProcessID == processID {
			result = append(result, m)
		}
	}
	return result, nil
}

// Save creates or updates a material
func (r *MaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	return r.materials.mutate(ctx, func(items []catalog.Material) ([]catalog.Material, error) {
		for i := range items {
			if items[i].ID == material.ID {
				items[i] = *material
				return items, nil
			}
		}
		return append(items, *material), nil
	})
}

// Delete deletes a material
func (r *MaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.materials.mutate(ctx, func(items []catalog.Material) ([]catalog.Material, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, shared.ErrNotFound
	})
}

var _ catalog.MaterialRepository = (*MaterialRepository)(nil)
