package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/catalog"
)

// =============================================================================
// Process DTOs
// =============================================================================

// CreateProcessRequest represents a request to add a manufacturing process
type CreateProcessRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateProcessRequest represents a request to update a process
type UpdateProcessRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// ProcessResponse represents a process in API responses
type ProcessResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// =============================================================================
// Material DTOs
// =============================================================================

// CreateMaterialRequest represents a request to add a material under a process
type CreateMaterialRequest struct {
	ProcessID   uuid.UUID       `json:"process_id" validate:"required"`
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Rate        decimal.Decimal `json:"rate"`
}

// UpdateMaterialRequest represents a request to update a material
type UpdateMaterialRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Rate        *decimal.Decimal `json:"rate"`
}

// MaterialResponse represents a material in API responses
type MaterialResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProcessID   uuid.UUID       `json:"process_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CatalogListResponse wraps the full process/material catalog
type CatalogListResponse struct {
	Processes []ProcessResponse  `json:"processes"`
	Materials []MaterialResponse `json:"materials"`
}

func toProcessResponse(process *catalog.Process) *ProcessResponse {
	return &ProcessResponse{
		ID:          process.ID,
		Name:        process.Name,
		Description: process.Description,
		Status:      string(process.Status),
		CreatedAt:   process.CreatedAt,
		UpdatedAt:   process.UpdatedAt,
	}
}

func toMaterialResponse(material *catalog.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:          material.ID,
		ProcessID:   material.ProcessID,
		Name:        material.Name,
		Description: material.Description,
		Rate:        material.Rate,
		Status:      string(material.Status),
		CreatedAt:   material.CreatedAt,
		UpdatedAt:   material.UpdatedAt,
	}
}
