package production

import (
	"strings"

	"github.com/google/uuid"

	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a production order
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusProduced   OrderStatus = "PRODUCED"
	OrderStatusDispatched OrderStatus = "DISPATCHED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProduced, OrderStatusDispatched, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target
// status. Production moves forward only; Dispatched and Cancelled are
// terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusNew:
		return target == OrderStatusProduced || target == OrderStatusCancelled
	case OrderStatusProduced:
		return target == OrderStatusDispatched || target == OrderStatusCancelled
	case OrderStatusDispatched, OrderStatusCancelled:
		return false
	}
	return false
}

// InvoiceRef is the back-reference to the owning invoice
type InvoiceRef struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
}

// Part is a line item reduced to its production-relevant fields.
// Pricing never reaches the shop floor.
type Part struct {
	Serial       int                  `json:"serial"`
	Name         string               `json:"name"`
	Geometry     valueobject.Geometry `json:"geometry"`
	ProcessName  string               `json:"process_name"`
	MaterialName string               `json:"material_name"`
	Quantity     int                  `json:"quantity"`
	Comment      string               `json:"comment,omitempty"`
}

// Order represents a production order spawned from an invoice. It is
// created automatically whenever an invoice is created and destroyed
// whenever that invoice is destroyed; at most one order exists per
// invoice.
type Order struct {
	shared.BaseAggregateRoot
	Number             string      `json:"number"`
	Invoice            InvoiceRef  `json:"invoice"`
	CustomerID         uuid.UUID   `json:"customer_id"`
	CustomerName       string      `json:"customer_name"`
	Parts              []Part      `json:"parts"`
	ChargeDescriptions []string    `json:"charge_descriptions,omitempty"`
	Status             OrderStatus `json:"status"`
	LeadTime           string      `json:"lead_time,omitempty"`
	Notes              string      `json:"notes,omitempty"`
}

// NewOrder creates a production order for an invoice
func NewOrder(number string, invoice InvoiceRef, customerID uuid.UUID, customerName string,
	parts []Part, chargeDescriptions []string) (*Order, error) {

	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if invoice.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Order must reference its invoice")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Number:             number,
		Invoice:            invoice,
		CustomerID:         customerID,
		CustomerName:       customerName,
		Parts:              parts,
		ChargeDescriptions: chargeDescriptions,
		Status:             OrderStatusNew,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// UpdateStatus performs a status transition on the production floor
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition order from "+o.Status.String()+" to "+target.String())
	}

	oldStatus := o.Status
	o.Status = target
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, target))

	return nil
}

// SetLeadTime sets the expected production lead time
func (o *Order) SetLeadTime(leadTime string) {
	o.LeadTime = leadTime
	o.Touch()
	o.IncrementVersion()
}

// SetNotes replaces the production notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.Touch()
	o.IncrementVersion()
}

// IsTerminal reports whether no further transitions are possible
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDispatched || o.Status == OrderStatusCancelled
}
