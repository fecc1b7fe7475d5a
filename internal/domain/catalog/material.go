package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
)

// MaterialStatus represents the status of a material
type MaterialStatus string

const (
	MaterialStatusActive   MaterialStatus = "active"
	MaterialStatusArchived MaterialStatus = "archived"
)

// Material represents a material offered under a specific process,
// such as "Aluminium 6061" under CNC machining. The rate is the
// price per cubic centimeter of part volume and drives line pricing.
type Material struct {
	shared.BaseAggregateRoot
	ProcessID   uuid.UUID       `json:"process_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Rate        decimal.Decimal `json:"rate"`
	SortOrder   int             `json:"sort_order"`
	Status      MaterialStatus  `json:"status"`
}

// NewMaterial creates a new material under the given process
func NewMaterial(processID uuid.UUID, name string, rate decimal.Decimal) (*Material, error) {
	if processID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROCESS", "Material must belong to a process")
	}
	if err := validateMaterialName(name); err != nil {
		return nil, err
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Material rate cannot be negative")
	}

	material := &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProcessID:         processID,
		Name:              strings.TrimSpace(name),
		Rate:              rate,
		Status:            MaterialStatusActive,
	}

	material.AddDomainEvent(NewMaterialCreatedEvent(material))

	return material, nil
}

// Update updates the material's basic information
func (m *Material) Update(name, description string) error {
	if err := validateMaterialName(name); err != nil {
		return err
	}

	m.Name = strings.TrimSpace(name)
	m.Description = description
	m.Touch()
	m.IncrementVersion()

	m.AddDomainEvent(NewMaterialUpdatedEvent(m))

	return nil
}

// UpdateRate changes the per-volume price. Existing documents keep
// the pricing captured at edit time; only future pricing passes see
// the new rate.
func (m *Material) UpdateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Material rate cannot be negative")
	}

	oldRate := m.Rate
	m.Rate = rate
	m.Touch()
	m.IncrementVersion()

	m.AddDomainEvent(NewMaterialRateChangedEvent(m, oldRate, rate))

	return nil
}

// SetSortOrder sets the display sort order
func (m *Material) SetSortOrder(order int) {
	m.SortOrder = order
	m.Touch()
	m.IncrementVersion()
}

// Archive removes the material from active offering
func (m *Material) Archive() error {
	if m.Status == MaterialStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Material is already archived")
	}

	m.Status = MaterialStatusArchived
	m.Touch()
	m.IncrementVersion()

	return nil
}

// Restore returns an archived material to the active offering
func (m *Material) Restore() error {
	if m.Status == MaterialStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Material is already active")
	}

	m.Status = MaterialStatusActive
	m.Touch()
	m.IncrementVersion()

	return nil
}

// IsActive returns true if the material is active
func (m *Material) IsActive() bool {
	return m.Status == MaterialStatusActive
}

func validateMaterialName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot exceed 100 characters")
	}
	return nil
}
