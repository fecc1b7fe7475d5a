package catalog

import (
	"github.com/google/uuid"

	"github.com/fabshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProcess = "Process"

// Event type constants
const (
	EventTypeProcessCreated  = "ProcessCreated"
	EventTypeProcessUpdated  = "ProcessUpdated"
	EventTypeProcessArchived = "ProcessArchived"
)

// ProcessCreatedEvent is published when a new process is created
type ProcessCreatedEvent struct {
	shared.BaseDomainEvent
	ProcessID uuid.UUID `json:"process_id"`
	Name      string    `json:"name"`
}

// NewProcessCreatedEvent creates a new ProcessCreatedEvent
func NewProcessCreatedEvent(process *Process) *ProcessCreatedEvent {
	return &ProcessCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcessCreated, AggregateTypeProcess, process.ID),
		ProcessID:       process.ID,
		Name:            process.Name,
	}
}

// ProcessUpdatedEvent is published when a process is updated
type ProcessUpdatedEvent struct {
	shared.BaseDomainEvent
	ProcessID uuid.UUID `json:"process_id"`
	Name      string    `json:"name"`
}

// NewProcessUpdatedEvent creates a new ProcessUpdatedEvent
func NewProcessUpdatedEvent(process *Process) *ProcessUpdatedEvent {
	return &ProcessUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcessUpdated, AggregateTypeProcess, process.ID),
		ProcessID:       process.ID,
		Name:            process.Name,
	}
}

// ProcessArchivedEvent is published when a process is archived
type ProcessArchivedEvent struct {
	shared.BaseDomainEvent
	ProcessID uuid.UUID `json:"process_id"`
	Name      string    `json:"name"`
}

// NewProcessArchivedEvent creates a new ProcessArchivedEvent
func NewProcessArchivedEvent(process *Process) *ProcessArchivedEvent {
	return &ProcessArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcessArchived, AggregateTypeProcess, process.ID),
		ProcessID:       process.ID,
		Name:            process.Name,
	}
}
