package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeMaterial = "Material"

// Event type constants
const (
	EventTypeMaterialCreated     = "MaterialCreated"
	EventTypeMaterialUpdated     = "MaterialUpdated"
	EventTypeMaterialRateChanged = "MaterialRateChanged"
)

// MaterialCreatedEvent is published when a new material is created
type MaterialCreatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID       `json:"material_id"`
	ProcessID  uuid.UUID       `json:"process_id"`
	Name       string          `json:"name"`
	Rate       decimal.Decimal `json:"rate"`
}

// NewMaterialCreatedEvent creates a new MaterialCreatedEvent
func NewMaterialCreatedEvent(material *Material) *MaterialCreatedEvent {
	return &MaterialCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialCreated, AggregateTypeMaterial, material.ID),
		MaterialID:      material.ID,
		ProcessID:       material.ProcessID,
		Name:            material.Name,
		Rate:            material.Rate,
	}
}

// MaterialUpdatedEvent is published when a material is updated
type MaterialUpdatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID `json:"material_id"`
	Name       string    `json:"name"`
}

// NewMaterialUpdatedEvent creates a new MaterialUpdatedEvent
func NewMaterialUpdatedEvent(material *Material) *MaterialUpdatedEvent {
	return &MaterialUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialUpdated, AggregateTypeMaterial, material.ID),
		MaterialID:      material.ID,
		Name:            material.Name,
	}
}

// MaterialRateChangedEvent is published when a material's rate changes
type MaterialRateChangedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID       `json:"material_id"`
	Name       string          `json:"name"`
	OldRate    decimal.Decimal `json:"old_rate"`
	NewRate    decimal.Decimal `json:"new_rate"`
}

// NewMaterialRateChangedEvent creates a new MaterialRateChangedEvent
func NewMaterialRateChangedEvent(material *Material, oldRate, newRate decimal.Decimal) *MaterialRateChangedEvent {
	return &MaterialRateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialRateChanged, AggregateTypeMaterial, material.ID),
		MaterialID:      material.ID,
		Name:            material.Name,
		OldRate:         oldRate,
		NewRate:         newRate,
	}
}
