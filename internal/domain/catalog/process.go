package catalog

import (
	"strings"

	"github.com/fabshop/backend/internal/domain/shared"
)

// ProcessStatus represents the status of a manufacturing process
type ProcessStatus string

const (
	ProcessStatusActive   ProcessStatus = "active"
	ProcessStatusArchived ProcessStatus = "archived"
)

// Process represents a manufacturing process the shop offers,
// such as CNC machining or vacuum casting. It is the aggregate
// root for process-related operations. Materials reference their
// process by id; parts carry a denormalized process name snapshot.
type Process struct {
	shared.BaseAggregateRoot
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	SortOrder   int           `json:"sort_order"`
	Status      ProcessStatus `json:"status"`
}

// NewProcess creates a new manufacturing process
func NewProcess(name string) (*Process, error) {
	if err := validateProcessName(name); err != nil {
		return nil, err
	}

	process := &Process{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Status:            ProcessStatusActive,
	}

	process.AddDomainEvent(NewProcessCreatedEvent(process))

	return process, nil
}

// Update updates the process's basic information
func (p *Process) Update(name, description string) error {
	if err := validateProcessName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProcessUpdatedEvent(p))

	return nil
}

// SetSortOrder sets the display sort order
func (p *Process) SetSortOrder(order int) {
	p.SortOrder = order
	p.Touch()
	p.IncrementVersion()
}

// Archive removes the process from active offering. Archived
// processes stay resolvable so existing documents keep pricing.
func (p *Process) Archive() error {
	if p.Status == ProcessStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Process is already archived")
	}

	p.Status = ProcessStatusArchived
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProcessArchivedEvent(p))

	return nil
}

// Restore returns an archived process to the active offering
func (p *Process) Restore() error {
	if p.Status == ProcessStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Process is already active")
	}

	p.Status = ProcessStatusActive
	p.Touch()
	p.IncrementVersion()

	return nil
}

// IsActive returns true if the process is active
func (p *Process) IsActive() bool {
	return p.Status == ProcessStatusActive
}

func validateProcessName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Process name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Process name cannot exceed 100 characters")
	}
	return nil
}
