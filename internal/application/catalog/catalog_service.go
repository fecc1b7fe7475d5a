package catalog

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/catalog"
	"github.com/fabshop/backend/internal/domain/shared"
)

var validate = validator.New()

// CatalogService manages the process/material catalog. The
// (process, material) pair drives line item pricing: quoting resolves
// material rates through this service.
type CatalogService struct {
	processRepo    catalog.ProcessRepository
	materialRepo   catalog.MaterialRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(processRepo catalog.ProcessRepository, materialRepo catalog.MaterialRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		processRepo:  processRepo,
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CatalogService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateProcess adds a manufacturing process to the catalog
func (s *CatalogService) CreateProcess(ctx context.Context, req CreateProcessRequest) (*ProcessResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	process, err := catalog.NewProcess(req.Name)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := process.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.processRepo.Save(ctx, process); err != nil {
		return nil, err
	}

	s.publish(ctx, process.GetDomainEvents()...)
	process.ClearDomainEvents()

	s.logger.Info("process created",
		zap.String("process_id", process.ID.String()),
		zap.String("name", process.Name),
	)

	return toProcessResponse(process), nil
}

// UpdateProcess updates a process's basic information
func (s *CatalogService) UpdateProcess(ctx context.Context, id uuid.UUID, req UpdateProcessRequest) (*ProcessResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	process, err := s.processRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := process.Name
	description := process.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := process.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.processRepo.Save(ctx, process); err != nil {
		return nil, err
	}

	s.publish(ctx, process.GetDomainEvents()...)
	process.ClearDomainEvents()

	return toProcessResponse(process), nil
}

// GetProcess retrieves a process by ID
func (s *CatalogService) GetProcess(ctx context.Context, id uuid.UUID) (*ProcessResponse, error) {
	process, err := s.processRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProcessResponse(process), nil
}

// DeleteProcess removes a process and every material offered under it
func (s *CatalogService) DeleteProcess(ctx context.Context, id uuid.UUID) error {
	if _, err := s.processRepo.FindByID(ctx, id); err != nil {
		return err
	}

	materials, err := s.materialRepo.FindByProcessID(ctx, id)
	if err != nil {
		return err
	}
	for i := range materials {
		if err := s.materialRepo.Delete(ctx, materials[i].ID); err != nil {
			return err
		}
	}

	if err := s.processRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("process deleted",
		zap.String("process_id", id.String()),
		zap.Int("materials_removed", len(materials)),
	)

	return nil
}

// CreateMaterial adds a material under a process
func (s *CatalogService) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	// The parent process must exist so parts never reference a
	// dangling process through their material.
	if _, err := s.processRepo.FindByID(ctx, req.ProcessID); err != nil {
		return nil, err
	}

	material, err := catalog.NewMaterial(req.ProcessID, req.Name, req.Rate)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := material.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}

	s.publish(ctx, material.GetDomainEvents()...)
	material.ClearDomainEvents()

	return toMaterialResponse(material), nil
}

// UpdateMaterial updates a material's name, description or rate.
// Rate changes affect future pricing only: existing documents keep
// their priced blocks untouched.
func (s *CatalogService) UpdateMaterial(ctx context.Context, id uuid.UUID, req UpdateMaterialRequest) (*MaterialResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := material.Name
		description := material.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := material.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Rate != nil {
		if err := material.UpdateRate(*req.Rate); err != nil {
			return nil, err
		}
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}

	s.publish(ctx, material.GetDomainEvents()...)
	material.ClearDomainEvents()

	return toMaterialResponse(material), nil
}

// GetMaterial retrieves a material by ID
func (s *CatalogService) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// DeleteMaterial removes a material from the catalog
func (s *CatalogService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return s.materialRepo.Delete(ctx, id)
}

// MaterialsForProcess lists the materials offered under a process
func (s *CatalogService) MaterialsForProcess(ctx context.Context, processID uuid.UUID) ([]MaterialResponse, error) {
	materials, err := s.materialRepo.FindByProcessID(ctx, processID)
	if err != nil {
		return nil, err
	}

	responses := make([]MaterialResponse, len(materials))
	for i := range materials {
		responses[i] = *toMaterialResponse(&materials[i])
	}
	return responses, nil
}

// List returns the full catalog
func (s *CatalogService) List(ctx context.Context) (*CatalogListResponse, error) {
	processes, err := s.processRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	materials, err := s.materialRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &CatalogListResponse{
		Processes: make([]ProcessResponse, len(processes)),
		Materials: make([]MaterialResponse, len(materials)),
	}
	for i := range processes {
		resp.Processes[i] = *toProcessResponse(&processes[i])
	}
	for i := range materials {
		resp.Materials[i] = *toMaterialResponse(&materials[i])
	}
	return resp, nil
}

// MaterialRate resolves the current rate for a material, consumed by
// quoting when repricing parts
func (s *CatalogService) MaterialRate(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return decimal.Zero, err
	}
	return material.Rate, nil
}

func (s *CatalogService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
