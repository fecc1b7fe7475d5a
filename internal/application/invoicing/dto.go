package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/invoicing"
	"github.com/fabshop/backend/internal/domain/pricing"
)

// =============================================================================
// Request DTOs
// =============================================================================

// RecordPaymentRequest represents a payment recorded against an invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date"`
	Method    string          `json:"method" validate:"required,oneof=cash bank_transfer cheque upi card other"`
	Reference string          `json:"reference" validate:"max=100"`
	Note      string          `json:"note" validate:"max=500"`
}

// UpdateInvoiceStatusRequest moves an invoice through its operator
// transitions. Paid cannot be requested; the ledger owns it.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// PaymentResponse represents one ledger entry in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	Note       string          `json:"note,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// InvoiceLineResponse represents one billed part
type InvoiceLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	Serial       int             `json:"serial"`
	Name         string          `json:"name"`
	ProcessName  string          `json:"process_name,omitempty"`
	MaterialName string          `json:"material_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	FinalPrice   decimal.Decimal `json:"final_price"`
}

// ServiceChargeResponse represents a flat charge carried over from the
// source quotation
type ServiceChargeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// TotalsResponse represents the frozen document totals
type TotalsResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ChargeTotal    decimal.Decimal `json:"charge_total"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	TaxMode        string          `json:"tax_mode"`
	FinalPrice     decimal.Decimal `json:"final_price"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID               `json:"id"`
	Number          string                  `json:"number"`
	SourceQuotation string                  `json:"source_quotation"`
	CustomerID      uuid.UUID               `json:"customer_id"`
	CustomerName    string                  `json:"customer_name"`
	Lines           []InvoiceLineResponse   `json:"lines"`
	ServiceCharges  []ServiceChargeResponse `json:"service_charges,omitempty"`
	Totals          TotalsResponse          `json:"totals"`
	Status          string                  `json:"status"`
	DueDate         time.Time               `json:"due_date"`
	Overdue         bool                    `json:"overdue"`
	PaymentTerms    string                  `json:"payment_terms,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Payments        []PaymentResponse       `json:"payments"`
	TotalPaid       decimal.Decimal         `json:"total_paid"`
	RemainingAmount decimal.Decimal         `json:"remaining_amount"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ListInvoicesResponse wraps the invoice listing
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
}

func toTotalsResponse(totals pricing.DocumentTotals) TotalsResponse {
	return TotalsResponse{
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		ChargeTotal:    totals.ChargeTotal,
		BaseAmount:     totals.BaseAmount,
		TaxTotal:       totals.Tax.Total,
		TaxMode:        totals.Tax.Mode.String(),
		FinalPrice:     totals.FinalPrice,
	}
}

func toLineResponses(parts []pricing.Part) []InvoiceLineResponse {
	lines := make([]InvoiceLineResponse, len(parts))
	for i, part := range parts {
		lines[i] = InvoiceLineResponse{
			ID:           part.ID,
			Serial:       part.Serial,
			Name:         part.Name,
			ProcessName:  part.ProcessName,
			MaterialName: part.MaterialName,
			Quantity:     part.Quantity,
			UnitPrice:    part.Pricing.UnitPrice,
			LineTotal:    part.Pricing.LineTotal,
			FinalPrice:   part.Pricing.FinalPrice,
		}
	}
	return lines
}

func toPaymentResponses(payments []invoicing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = PaymentResponse{
			ID:         payment.ID,
			Amount:     payment.Amount,
			Date:       payment.Date,
			Method:     payment.Method.String(),
			Reference:  payment.Reference,
			Note:       payment.Note,
			RecordedAt: payment.RecordedAt,
		}
	}
	return responses
}

func toServiceChargeResponses(charges []pricing.ServiceCharge) []ServiceChargeResponse {
	if len(charges) == 0 {
		return nil
	}
	responses := make([]ServiceChargeResponse, len(charges))
	for i, charge := range charges {
		responses[i] = ServiceChargeResponse{
			ID:          charge.ID,
			Description: charge.Description,
			Amount:      charge.Amount,
		}
	}
	return responses
}

func toInvoiceResponse(invoice *invoicing.Invoice, now time.Time) *InvoiceResponse {
	return &InvoiceResponse{
		ID:              invoice.ID,
		Number:          invoice.Number,
		SourceQuotation: invoice.SourceQuotation.Number,
		CustomerID:      invoice.CustomerID,
		CustomerName:    invoice.CustomerName,
		Lines:           toLineResponses(invoice.Parts),
		ServiceCharges:  toServiceChargeResponses(invoice.ServiceCharges),
		Totals:          toTotalsResponse(invoice.Totals),
		Status:          invoice.Status.String(),
		DueDate:         invoice.DueDate,
		Overdue:         invoice.IsOverdue(now),
		PaymentTerms:    invoice.PaymentTerms,
		Notes:           invoice.Notes,
		Payments:        toPaymentResponses(invoice.Payments),
		TotalPaid:       invoice.TotalPaid,
		RemainingAmount: invoice.RemainingAmount,
		CreatedAt:       invoice.CreatedAt,
		UpdatedAt:       invoice.UpdatedAt,
	}
}
