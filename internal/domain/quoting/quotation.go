package quoting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/shared"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusApproved QuotationStatus = "APPROVED"
	QuotationStatusRejected QuotationStatus = "REJECTED"
	QuotationStatusExpired  QuotationStatus = "EXPIRED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusApproved,
		QuotationStatusRejected, QuotationStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target
// status. Transitions out of Draft and Sent are operator-driven and
// free; Approved, Rejected and Expired only leave through a re-save,
// which resets the document to Draft outside this machine.
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	if !target.IsValid() || target == s {
		return false
	}
	switch s {
	case QuotationStatusDraft:
		return true
	case QuotationStatusSent:
		return target != QuotationStatusDraft
	case QuotationStatusApproved, QuotationStatusRejected, QuotationStatusExpired:
		return false
	}
	return false
}

// ValidityDays is the length of a quotation's validity window
const ValidityDays = 30

// AddressChoice selects which customer address a document ships to
type AddressChoice string

const (
	AddressChoiceShipping AddressChoice = "shipping"
	AddressChoiceBilling  AddressChoice = "billing"
)

// IsValid checks if the address choice is valid
func (c AddressChoice) IsValid() bool {
	return c == AddressChoiceShipping || c == AddressChoiceBilling
}

// Overrides carries the optional per-document overrides of customer
// defaults. Empty fields mean the customer default applies.
type Overrides struct {
	PaymentTerms  string        `json:"payment_terms,omitempty"`
	LeadTime      string        `json:"lead_time,omitempty"`
	AddressChoice AddressChoice `json:"address_choice,omitempty"`
}

// Quotation represents a priced offer to a customer. It is the
// aggregate root for quotation-related operations. Parts are kept in
// serial order; totals are recomputed on every content change, never
// patched incrementally.
type Quotation struct {
	shared.BaseAggregateRoot
	Number          string                  `json:"number"`
	CustomerID      uuid.UUID               `json:"customer_id"`
	CustomerName    string                  `json:"customer_name"`
	Parts           []pricing.Part          `json:"parts"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	ServiceCharges  []pricing.ServiceCharge `json:"service_charges,omitempty"`
	Totals          pricing.DocumentTotals  `json:"totals"`
	Status          QuotationStatus         `json:"status"`
	ValidUntil      time.Time               `json:"valid_until"`
	Notes           string                  `json:"notes,omitempty"`
	Overrides       Overrides               `json:"overrides"`
}

// NewQuotation creates a quotation with an allocated human number.
// The validity window runs from creation.
func NewQuotation(number string, customerID uuid.UUID, customerName string) (*Quotation, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quotation number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	quotation := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Parts:             make([]pricing.Part, 0),
		DiscountPercent:   decimal.Zero,
		Totals:            pricing.ZeroDocumentTotals(),
		Status:            QuotationStatusDraft,
	}
	quotation.ValidUntil = quotation.CreatedAt.AddDate(0, 0, ValidityDays)

	quotation.AddDomainEvent(NewQuotationCreatedEvent(quotation))

	return quotation, nil
}

// ReplaceParts replaces the full part list, renumbering serials
// densely in list order. The caller recalculates totals afterwards.
func (q *Quotation) ReplaceParts(parts []pricing.Part) {
	q.Parts = parts
	pricing.Renumber(q.Parts)
	q.Touch()
	q.IncrementVersion()
}

// SetDiscountPercent sets the document-level discount rate
func (q *Quotation) SetDiscountPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	q.DiscountPercent = percent
	q.Touch()
	q.IncrementVersion()
	return nil
}

// AddServiceCharge appends a flat service charge
func (q *Quotation) AddServiceCharge(charge pricing.ServiceCharge) {
	q.ServiceCharges = append(q.ServiceCharges, charge)
	q.Touch()
	q.IncrementVersion()
}

// RemoveServiceCharge removes a service charge by id
func (q *Quotation) RemoveServiceCharge(chargeID uuid.UUID) error {
	for i, c := range q.ServiceCharges {
		if c.ID == chargeID {
			q.ServiceCharges = append(q.ServiceCharges[:i], q.ServiceCharges[i+1:]...)
			q.Touch()
			q.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Service charge not found")
}

// SetNotes replaces the free-text notes
func (q *Quotation) SetNotes(notes string) {
	q.Notes = notes
	q.Touch()
	q.IncrementVersion()
}

// SetOverrides replaces the per-document overrides
func (q *Quotation) SetOverrides(overrides Overrides) error {
	if overrides.AddressChoice != "" && !overrides.AddressChoice.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown address choice")
	}
	q.Overrides = overrides
	q.Touch()
	q.IncrementVersion()
	return nil
}

// RecalculateTotals recomputes the aggregate totals from the current
// parts, discount and service charges using a single document-level
// tax pass over the delivery jurisdiction.
func (q *Quotation) RecalculateTotals(engine *pricing.TaxEngine, deliveryJurisdiction string) error {
	totals, err := pricing.ComputeDocumentTotals(engine, q.Parts, q.DiscountPercent, q.ServiceCharges, deliveryJurisdiction)
	if err != nil {
		return err
	}
	q.Totals = totals
	q.Touch()
	return nil
}

// UpdateStatus performs an operator-driven status transition
func (q *Quotation) UpdateStatus(target QuotationStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown quotation status")
	}
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition quotation from "+q.Status.String()+" to "+target.String())
	}

	oldStatus := q.Status
	q.Status = target
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationStatusChangedEvent(q, oldStatus, target))

	return nil
}

// ResetToDraft returns the quotation to Draft on a re-save, keeping
// its id and number. Unlike UpdateStatus this is allowed from any
// status: an edit invalidates whatever the document had become.
func (q *Quotation) ResetToDraft() {
	if q.Status == QuotationStatusDraft {
		return
	}
	oldStatus := q.Status
	q.Status = QuotationStatusDraft
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationStatusChangedEvent(q, oldStatus, QuotationStatusDraft))
}

// SetCustomer updates the customer reference and name snapshot
func (q *Quotation) SetCustomer(customerID uuid.UUID, customerName string) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	q.CustomerID = customerID
	q.CustomerName = customerName
	q.Touch()
	q.IncrementVersion()
	return nil
}

// IsExpired reports whether the validity window has passed
func (q *Quotation) IsExpired(now time.Time) bool {
	return now.After(q.ValidUntil)
}
