package printing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind identifies which document a payload describes
type DocumentKind string

const (
	DocumentKindQuotation DocumentKind = "quotation"
	DocumentKindInvoice   DocumentKind = "invoice"
	DocumentKindOrder     DocumentKind = "order"
	DocumentKindManifest  DocumentKind = "manifest"
)

// PartyBlock is the customer block of a printed document. Placeholder
// is set when the customer record no longer exists; the document still
// prints with the name snapshot it carries.
type PartyBlock struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	Placeholder  bool   `json:"placeholder,omitempty"`
}

// LineBlock is one printed line item
type LineBlock struct {
	Serial       int             `json:"serial"`
	Name         string          `json:"name"`
	ProcessName  string          `json:"process_name,omitempty"`
	MaterialName string          `json:"material_name,omitempty"`
	Volume       decimal.Decimal `json:"volume"`
	BoundingBox  string          `json:"bounding_box,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Comment      string          `json:"comment,omitempty"`
}

// ChargeBlock is one printed flat charge
type ChargeBlock struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// TotalsBlock is the printed totals table including the tax split
type TotalsBlock struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ChargeTotal    decimal.Decimal `json:"charge_total"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	TaxComponentA  decimal.Decimal `json:"tax_component_a"`
	TaxComponentB  decimal.Decimal `json:"tax_component_b"`
	TaxComponentC  decimal.Decimal `json:"tax_component_c"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	TaxMode        string          `json:"tax_mode"`
	FinalPrice     decimal.Decimal `json:"final_price"`
}

// PaymentBlock is one printed ledger entry
type PaymentBlock struct {
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

// RenderPayload is the fully resolved content of one printable
// document. All repository references are already substituted; the
// renderer needs nothing but this.
type RenderPayload struct {
	Kind          DocumentKind    `json:"kind"`
	Title         string          `json:"title"`
	Number        string          `json:"number"`
	IssuedOn      time.Time       `json:"issued_on"`
	Status        string          `json:"status"`
	Customer      PartyBlock      `json:"customer"`
	Lines         []LineBlock     `json:"lines"`
	Charges       []ChargeBlock   `json:"charges,omitempty"`
	Totals        *TotalsBlock    `json:"totals,omitempty"`
	Payments      []PaymentBlock  `json:"payments,omitempty"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	PaymentTerms  string          `json:"payment_terms,omitempty"`
	LeadTime      string          `json:"lead_time,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	SourceNumber  string          `json:"source_number,omitempty"`
	ChargeSummary []string        `json:"charge_summary,omitempty"`
}

// Artifact is a rendered document ready to hand to the operator
type Artifact struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Content  []byte `json:"-"`
}

// Renderer turns a resolved payload into a printable artifact. The
// layout engine behind it is an external collaborator.
type Renderer interface {
	Render(ctx context.Context, payload RenderPayload) (*Artifact, error)
}
