package quoting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/quoting"
)

// =============================================================================
// Draft DTOs
// =============================================================================

// OverridesInput carries per-document overrides of customer defaults
type OverridesInput struct {
	PaymentTerms  string `json:"payment_terms" validate:"max=100"`
	LeadTime      string `json:"lead_time" validate:"max=100"`
	AddressChoice string `json:"address_choice" validate:"omitempty,oneof=shipping billing"`
}

// UpdateDraftRequest is the autosave payload for the draft workspace.
// Nil fields leave the current value untouched.
type UpdateDraftRequest struct {
	CustomerID      *uuid.UUID       `json:"customer_id"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	Notes           *string          `json:"notes"`
	Overrides       *OverridesInput  `json:"overrides"`
}

// AddPartFromModelRequest adds a part measured from a model file
type AddPartFromModelRequest struct {
	ModelPath string `json:"model_path" validate:"required"`
	Name      string `json:"name" validate:"max=200"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// AddManualPartRequest adds a part with hand-entered volume and no
// bounding box
type AddManualPartRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Volume   decimal.Decimal `json:"volume"`
	Quantity int             `json:"quantity" validate:"min=1"`
	Comment  string          `json:"comment" validate:"max=500"`
}

// UpdatePartRequest edits one working part. Nil fields leave the
// current value untouched; selecting a material reprices, selecting a
// process without a material zeroes the pricing block.
type UpdatePartRequest struct {
	PartID     uuid.UUID  `json:"part_id" validate:"required"`
	Name       *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Quantity   *int       `json:"quantity" validate:"omitempty,min=1"`
	ProcessID  *uuid.UUID `json:"process_id"`
	MaterialID *uuid.UUID `json:"material_id"`
	Comment    *string    `json:"comment" validate:"omitempty,max=500"`
}

// Bulk edit actions
const (
	BulkActionSetQuantity = "set_quantity"
	BulkActionSetMaterial = "set_material"
	BulkActionSetProcess  = "set_process"
)

// BulkEditRequest applies one field change across the selected parts
type BulkEditRequest struct {
	PartIDs    []uuid.UUID `json:"part_ids" validate:"required,min=1"`
	Action     string      `json:"action" validate:"required,oneof=set_quantity set_material set_process"`
	Quantity   *int        `json:"quantity" validate:"omitempty,min=1"`
	MaterialID *uuid.UUID  `json:"material_id"`
	ProcessID  *uuid.UUID  `json:"process_id"`
}

// =============================================================================
// Quotation DTOs
// =============================================================================

// UpdateQuotationStatusRequest moves a saved quotation through its
// status machine
type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AddServiceChargeRequest appends a flat charge to a saved quotation
type AddServiceChargeRequest struct {
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Amount      decimal.Decimal `json:"amount"`
}

// PartResponse represents one part in API responses
type PartResponse struct {
	ID           uuid.UUID       `json:"id"`
	Serial       int             `json:"serial"`
	Name         string          `json:"name"`
	Volume       decimal.Decimal `json:"volume"`
	BoundingBox  string          `json:"bounding_box,omitempty"`
	ProcessID    uuid.UUID       `json:"process_id,omitempty"`
	ProcessName  string          `json:"process_name,omitempty"`
	MaterialID   uuid.UUID       `json:"material_id,omitempty"`
	MaterialName string          `json:"material_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	FinalPrice   decimal.Decimal `json:"final_price"`
	Comment      string          `json:"comment,omitempty"`
}

// ServiceChargeResponse represents a flat charge in API responses
type ServiceChargeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// TotalsResponse represents document totals in API responses
type TotalsResponse struct {
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

// OverridesResponse represents per-document overrides in API responses
type OverridesResponse struct {
	PaymentTerms  string `json:"payment_terms,omitempty"`
	LeadTime      string `json:"lead_time,omitempty"`
	AddressChoice string `json:"address_choice,omitempty"`
}

// DraftResponse represents the draft workspace state
type DraftResponse struct {
	CustomerID         *uuid.UUID        `json:"customer_id,omitempty"`
	CustomerName       string            `json:"customer_name,omitempty"`
	Parts              []PartResponse    `json:"parts"`
	DiscountPercent    decimal.Decimal   `json:"discount_percent"`
	Notes              string            `json:"notes,omitempty"`
	Overrides          OverridesResponse `json:"overrides"`
	EditingQuotationID *uuid.UUID        `json:"editing_quotation_id,omitempty"`
	EditingNumber      string            `json:"editing_number,omitempty"`
	LastModified       time.Time         `json:"last_modified"`
}

// QuotationResponse represents a saved quotation
type QuotationResponse struct {
	ID              uuid.UUID               `json:"id"`
	Number          string                  `json:"number"`
	CustomerID      uuid.UUID               `json:"customer_id"`
	CustomerName    string                  `json:"customer_name"`
	Parts           []PartResponse          `json:"parts"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	ServiceCharges  []ServiceChargeResponse `json:"service_charges"`
	Totals          TotalsResponse          `json:"totals"`
	Status          string                  `json:"status"`
	ValidUntil      time.Time               `json:"valid_until"`
	Expired         bool                    `json:"expired"`
	Notes           string                  `json:"notes,omitempty"`
	Overrides       OverridesResponse       `json:"overrides"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ListQuotationsResponse wraps a quotation listing
type ListQuotationsResponse struct {
	Quotations []QuotationResponse `json:"quotations"`
	Total      int                 `json:"total"`
}

func toPartResponse(part *pricing.Part) PartResponse {
	resp := PartResponse{
		ID:           part.ID,
		Serial:       part.Serial,
		Name:         part.Name,
		Volume:       part.Geometry.Volume(),
		ProcessID:    part.ProcessID,
		ProcessName:  part.ProcessName,
		MaterialID:   part.MaterialID,
		MaterialName: part.MaterialName,
		Quantity:     part.Quantity,
		UnitPrice:    part.Pricing.UnitPrice,
		LineTotal:    part.Pricing.LineTotal,
		TaxAmount:    part.Pricing.TaxAmount,
		FinalPrice:   part.Pricing.FinalPrice,
		Comment:      part.Comment,
	}
	if box, ok := part.Geometry.BoundingBox(); ok {
		resp.BoundingBox = box.String()
	}
	return resp
}

func toPartResponses(parts []pricing.Part) []PartResponse {
	responses := make([]PartResponse, len(parts))
	for i := range parts {
		responses[i] = toPartResponse(&parts[i])
	}
	return responses
}

func toTotalsResponse(totals pricing.DocumentTotals) TotalsResponse {
	return TotalsResponse{
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		ChargeTotal:    totals.ChargeTotal,
		BaseAmount:     totals.BaseAmount,
		TaxComponentA:  totals.Tax.ComponentA,
		TaxComponentB:  totals.Tax.ComponentB,
		TaxComponentC:  totals.Tax.ComponentC,
		TaxTotal:       totals.Tax.Total,
		TaxMode:        totals.Tax.Mode.String(),
		FinalPrice:     totals.FinalPrice,
	}
}

func toOverridesResponse(overrides quoting.Overrides) OverridesResponse {
	return OverridesResponse{
		PaymentTerms:  overrides.PaymentTerms,
		LeadTime:      overrides.LeadTime,
		AddressChoice: string(overrides.AddressChoice),
	}
}

func toDraftResponse(draft *quoting.DraftWorkspace) *DraftResponse {
	return &DraftResponse{
		CustomerID:         draft.CustomerID,
		CustomerName:       draft.CustomerName,
		Parts:              toPartResponses(draft.Parts),
		DiscountPercent:    draft.DiscountPercent,
		Notes:              draft.Notes,
		Overrides:          toOverridesResponse(draft.Overrides),
		EditingQuotationID: draft.EditingQuotationID,
		EditingNumber:      draft.EditingNumber,
		LastModified:       draft.LastModified,
	}
}

func toServiceChargeResponses(charges []pricing.ServiceCharge) []ServiceChargeResponse {
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

func toQuotationResponse(quotation *quoting.Quotation, now time.Time) *QuotationResponse {
	return &QuotationResponse{
		ID:              quotation.ID,
		Number:          quotation.Number,
		CustomerID:      quotation.CustomerID,
		CustomerName:    quotation.CustomerName,
		Parts:           toPartResponses(quotation.Parts),
		DiscountPercent: quotation.DiscountPercent,
		ServiceCharges:  toServiceChargeResponses(quotation.ServiceCharges),
		Totals:          toTotalsResponse(quotation.Totals),
		Status:          quotation.Status.String(),
		ValidUntil:      quotation.ValidUntil,
		Expired:         quotation.IsExpired(now),
		Notes:           quotation.Notes,
		Overrides:       toOverridesResponse(quotation.Overrides),
		CreatedAt:       quotation.CreatedAt,
		UpdatedAt:       quotation.UpdatedAt,
	}
}
