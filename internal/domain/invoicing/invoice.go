package invoicing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/shared"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if an operator may move the status to the
// target. Paid is entered and exited by the ledger, never manually.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if !target.IsValid() || target == s || target == InvoiceStatusPaid {
		return false
	}
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusOverdue ||
			target == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusOverdue:
		return target == InvoiceStatusSent || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false
	}
	return false
}

// timeNow is swapped out in tests to pin the overdue check.
var timeNow = time.Now

var netTermsPattern = regexp.MustCompile(`(?i)^net\s+(\d+)$`)

// DueDateFromTerms derives an invoice due date from the effective
// payment terms. "advance" is due immediately, "on delivery" a week
// out, "Net N" in N days, anything else falls back to 30 days.
func DueDateFromTerms(terms string, now time.Time) time.Time {
	normalized := strings.ToLower(strings.TrimSpace(terms))
	switch normalized {
	case "advance":
		return now
	case "on delivery":
		return now.AddDate(0, 0, 7)
	}
	if m := netTermsPattern.FindStringSubmatch(normalized); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return now.AddDate(0, 0, days)
		}
	}
	return now.AddDate(0, 0, 30)
}

// QuotationRef is the back-reference to the consumed source quotation
type QuotationRef struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
}

// Invoice represents a bill issued to a customer. It carries the shape
// of the quotation it was promoted from plus a payment ledger. The
// ledger totals are always recomputed fresh from the full payment
// list, never accumulated incrementally, so they cannot drift.
type Invoice struct {
	shared.BaseAggregateRoot
	Number          string                  `json:"number"`
	SourceQuotation QuotationRef            `json:"source_quotation"`
	CustomerID      uuid.UUID               `json:"customer_id"`
	CustomerName    string                  `json:"customer_name"`
	Parts           []pricing.Part          `json:"parts"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	ServiceCharges  []pricing.ServiceCharge `json:"service_charges,omitempty"`
	Totals          pricing.DocumentTotals  `json:"totals"`
	Status          InvoiceStatus           `json:"status"`
	DueDate         time.Time               `json:"due_date"`
	PaymentTerms    string                  `json:"payment_terms,omitempty"`
	LeadTime        string                  `json:"lead_time,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Payments        []Payment               `json:"payments"`
	TotalPaid       decimal.Decimal         `json:"total_paid"`
	RemainingAmount decimal.Decimal         `json:"remaining_amount"`
}

// NewInvoice creates an invoice from the content of a promoted
// quotation. Parts, charges and totals are copied verbatim; the
// ledger starts empty with the full final price remaining.
func NewInvoice(number string, source QuotationRef, customerID uuid.UUID, customerName string,
	parts []pricing.Part, discountPercent decimal.Decimal, charges []pricing.ServiceCharge,
	totals pricing.DocumentTotals, paymentTerms string, dueDate time.Time) (*Invoice, error) {

	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if source.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invoice must reference its source quotation")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	copiedParts := make([]pricing.Part, len(parts))
	copy(copiedParts, parts)
	copiedCharges := make([]pricing.ServiceCharge, len(charges))
	copy(copiedCharges, charges)

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		SourceQuotation:   source,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Parts:             copiedParts,
		DiscountPercent:   discountPercent,
		ServiceCharges:    copiedCharges,
		Totals:            totals,
		Status:            InvoiceStatusDraft,
		DueDate:           dueDate,
		PaymentTerms:      paymentTerms,
		Payments:          make([]Payment, 0),
		TotalPaid:         decimal.Zero,
		RemainingAmount:   totals.FinalPrice,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddPayment validates the payment against the open balance, appends
// it and re-derives the ledger totals and settlement status.
func (inv *Invoice) AddPayment(payment Payment) error {
	if !payment.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if payment.Amount.GreaterThan(inv.RemainingAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount exceeds the remaining balance")
	}

	inv.Payments = append(inv.Payments, payment)
	inv.recomputeLedger()
	inv.Touch()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewPaymentRecordedEvent(inv, payment))
	return nil
}

// RemovePayment removes a payment by id and re-derives the ledger
// totals and settlement status
func (inv *Invoice) RemovePayment(paymentID uuid.UUID) error {
	for i, p := range inv.Payments {
		if p.ID == paymentID {
			removed := p
			inv.Payments = append(inv.Payments[:i], inv.Payments[i+1:]...)
			inv.recomputeLedger()
			inv.Touch()
			inv.IncrementVersion()

			inv.AddDomainEvent(NewPaymentRemovedEvent(inv, removed))
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Payment not found on this invoice")
}

// recomputeLedger derives the totals fresh from the full payment list
// and re-derives the settlement status. Paid is entered when nothing
// remains; when a balance reappears after a removal, Paid exits to
// Overdue if the due date has passed, otherwise to Sent.
func (inv *Invoice) recomputeLedger() {
	totalPaid := decimal.Zero
	for _, p := range inv.Payments {
		totalPaid = totalPaid.Add(p.Amount)
	}
	inv.TotalPaid = totalPaid
	inv.RemainingAmount = inv.Totals.FinalPrice.Sub(totalPaid)

	settled := inv.RemainingAmount.LessThanOrEqual(decimal.Zero)
	switch {
	case settled && inv.Status != InvoiceStatusPaid:
		oldStatus := inv.Status
		inv.Status = InvoiceStatusPaid
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
		inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, oldStatus, InvoiceStatusPaid))
	case !settled && inv.Status == InvoiceStatusPaid:
		target := InvoiceStatusSent
		if timeNow().After(inv.DueDate) {
			target = InvoiceStatusOverdue
		}
		inv.Status = target
		inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, InvoiceStatusPaid, target))
	}
}

// UpdateStatus performs an operator-driven status transition. Paid is
// owned by the ledger and cannot be entered manually.
func (inv *Invoice) UpdateStatus(target InvoiceStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition invoice from "+inv.Status.String()+" to "+target.String())
	}

	oldStatus := inv.Status
	inv.Status = target
	inv.Touch()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, oldStatus, target))

	return nil
}

// IsSettled reports whether nothing remains to pay
func (inv *Invoice) IsSettled() bool {
	return inv.RemainingAmount.LessThanOrEqual(decimal.Zero)
}

// IsOverdue reports whether an open balance remains past the due date
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return !inv.IsSettled() && now.After(inv.DueDate)
}
