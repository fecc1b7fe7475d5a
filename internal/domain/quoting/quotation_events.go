package quoting

import (
	"github.com/google/uuid"

	"github.com/fabshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeQuotation = "Quotation"

// Event type constants
const (
	EventTypeQuotationCreated       = "QuotationCreated"
	EventTypeQuotationStatusChanged = "QuotationStatusChanged"
	EventTypeQuotationDeleted       = "QuotationDeleted"
)

// QuotationCreatedEvent is published when a new quotation is created
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(quotation *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
	}
}

// QuotationStatusChangedEvent is published when a quotation's status changes
type QuotationStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID       `json:"quotation_id"`
	Number      string          `json:"number"`
	OldStatus   QuotationStatus `json:"old_status"`
	NewStatus   QuotationStatus `json:"new_status"`
}

// NewQuotationStatusChangedEvent creates a new QuotationStatusChangedEvent
func NewQuotationStatusChangedEvent(quotation *Quotation, oldStatus, newStatus QuotationStatus) *QuotationStatusChangedEvent {
	return &QuotationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationStatusChanged, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// QuotationDeletedEvent is published when a quotation is deleted,
// whether explicitly or by promotion to an invoice
type QuotationDeletedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
	Promoted    bool      `json:"promoted"`
}

// NewQuotationDeletedEvent creates a new QuotationDeletedEvent
func NewQuotationDeletedEvent(quotation *Quotation, promoted bool) *QuotationDeletedEvent {
	return &QuotationDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationDeleted, AggregateTypeQuotation, quotation.ID),
		QuotationID:     quotation.ID,
		Number:          quotation.Number,
		Promoted:        promoted,
	}
}
