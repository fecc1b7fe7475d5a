package quoting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/shared"
)

// DefaultDraftTTL is how long an untouched draft survives before the
// lazy staleness check discards it
const DefaultDraftTTL = 24 * time.Hour

// DraftWorkspace is the transient working copy of a not-yet-saved
// quotation. One exists per operator session; it expires lazily when
// untouched past its TTL and is cleared on successful save or an
// explicit new-document action. While EditingQuotationID is set the
// workspace re-edits a previously saved quotation and a save keeps
// that document's id and number.
type DraftWorkspace struct {
	CustomerID         *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName       string          `json:"customer_name,omitempty"`
	Parts              []pricing.Part  `json:"parts"`
	DiscountPercent    decimal.Decimal `json:"discount_percent"`
	Notes              string          `json:"notes,omitempty"`
	Overrides          Overrides       `json:"overrides"`
	EditingQuotationID *uuid.UUID      `json:"editing_quotation_id,omitempty"`
	EditingNumber      string          `json:"editing_number,omitempty"`
	LastModified       time.Time       `json:"last_modified"`
}

// NewDraftWorkspace returns a fresh empty workspace
func NewDraftWorkspace() *DraftWorkspace {
	return &DraftWorkspace{
		Parts:           make([]pricing.Part, 0),
		DiscountPercent: decimal.Zero,
		LastModified:    time.Now(),
	}
}

// Stale reports whether the workspace has been untouched longer than
// the TTL. Checked lazily on load, never by a background timer.
func (d *DraftWorkspace) Stale(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return now.Sub(d.LastModified) > ttl
}

// Touch refreshes the last-modified timestamp
func (d *DraftWorkspace) Touch() {
	d.LastModified = time.Now()
}

// SetCustomer selects the customer the draft prices against
func (d *DraftWorkspace) SetCustomer(customerID uuid.UUID, customerName string) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	d.CustomerID = &customerID
	d.CustomerName = customerName
	d.Touch()
	return nil
}

// SetDiscountPercent sets the working discount rate
func (d *DraftWorkspace) SetDiscountPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	d.DiscountPercent = percent
	d.Touch()
	return nil
}

// SetNotes replaces the working notes
func (d *DraftWorkspace) SetNotes(notes string) {
	d.Notes = notes
	d.Touch()
}

// SetOverrides replaces the working overrides
func (d *DraftWorkspace) SetOverrides(overrides Overrides) error {
	if overrides.AddressChoice != "" && !overrides.AddressChoice.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown address choice")
	}
	d.Overrides = overrides
	d.Touch()
	return nil
}

// AddPart appends a part and assigns it the next dense serial
func (d *DraftWorkspace) AddPart(part pricing.Part) {
	d.Parts = append(d.Parts, part)
	pricing.Renumber(d.Parts)
	d.Touch()
}

// FindPart returns the working part with the given id
func (d *DraftWorkspace) FindPart(partID uuid.UUID) (*pricing.Part, error) {
	for i := range d.Parts {
		if d.Parts[i].ID == partID {
			return &d.Parts[i], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Part not found in draft")
}

// UpdatePart replaces the working part with the same id
func (d *DraftWorkspace) UpdatePart(part pricing.Part) error {
	for i := range d.Parts {
		if d.Parts[i].ID == part.ID {
			part.Serial = d.Parts[i].Serial
			d.Parts[i] = part
			d.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Part not found in draft")
}

// RemovePart removes a part by id and renumbers the remaining serials
// densely so they stay 1-based without gaps
func (d *DraftWorkspace) RemovePart(partID uuid.UUID) error {
	for i := range d.Parts {
		if d.Parts[i].ID == partID {
			d.Parts = append(d.Parts[:i], d.Parts[i+1:]...)
			pricing.Renumber(d.Parts)
			d.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Part not found in draft")
}

// ReplaceParts swaps in a complete replacement part list, as returned
// by a bulk edit pass
func (d *DraftWorkspace) ReplaceParts(parts []pricing.Part) {
	d.Parts = parts
	pricing.Renumber(d.Parts)
	d.Touch()
}

// StartEditing loads a saved quotation into the workspace for
// re-editing. A later save keeps the quotation's id and number and
// resets its status to Draft.
func (d *DraftWorkspace) StartEditing(quotation *Quotation) {
	id := quotation.ID
	customerID := quotation.CustomerID

	d.CustomerID = &customerID
	d.CustomerName = quotation.CustomerName
	d.Parts = make([]pricing.Part, len(quotation.Parts))
	copy(d.Parts, quotation.Parts)
	d.DiscountPercent = quotation.DiscountPercent
	d.Notes = quotation.Notes
	d.Overrides = quotation.Overrides
	d.EditingQuotationID = &id
	d.EditingNumber = quotation.Number
	d.Touch()
}

// IsEditing reports whether the workspace re-edits a saved quotation
func (d *DraftWorkspace) IsEditing() bool {
	return d.EditingQuotationID != nil
}

// IsEmpty reports whether the workspace carries no content worth
// recovering
func (d *DraftWorkspace) IsEmpty() bool {
	return d.CustomerID == nil && len(d.Parts) == 0 &&
		d.Notes == "" && d.EditingQuotationID == nil
}
