package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/production"
)

// UpdateOrderStatusRequest moves an order along the production flow
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderRequest edits the production annotations of an order
type UpdateOrderRequest struct {
	LeadTime *string `json:"lead_time" validate:"omitempty,max=100"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

// OrderPartResponse represents one part as the shop floor sees it:
// geometry and quantities, no pricing
type OrderPartResponse struct {
	Serial       int             `json:"serial"`
	Name         string          `json:"name"`
	Volume       decimal.Decimal `json:"volume"`
	BoundingBox  string          `json:"bounding_box,omitempty"`
	ProcessName  string          `json:"process_name,omitempty"`
	MaterialName string          `json:"material_name,omitempty"`
	Quantity     int             `json:"quantity"`
	Comment      string          `json:"comment,omitempty"`
}

// OrderResponse represents a production order in API responses
type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Number             string              `json:"number"`
	InvoiceID          uuid.UUID           `json:"invoice_id"`
	InvoiceNumber      string              `json:"invoice_number"`
	CustomerID         uuid.UUID           `json:"customer_id"`
	CustomerName       string              `json:"customer_name"`
	Parts              []OrderPartResponse `json:"parts"`
	ChargeDescriptions []string            `json:"charge_descriptions,omitempty"`
	Status             string              `json:"status"`
	LeadTime           string              `json:"lead_time,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ListOrdersResponse wraps the order listing
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

func toOrderPartResponses(parts []production.Part) []OrderPartResponse {
	responses := make([]OrderPartResponse, len(parts))
	for i, part := range parts {
		response := OrderPartResponse{
			Serial:       part.Serial,
			Name:         part.Name,
			Volume:       part.Geometry.Volume(),
			ProcessName:  part.ProcessName,
			MaterialName: part.MaterialName,
			Quantity:     part.Quantity,
			Comment:      part.Comment,
		}
		if box, ok := part.Geometry.BoundingBox(); ok {
			response.BoundingBox = box.String()
		}
		responses[i] = response
	}
	return responses
}

func toOrderResponse(order *production.Order) *OrderResponse {
	return &OrderResponse{
		ID:                 order.ID,
		Number:             order.Number,
		InvoiceID:          order.Invoice.ID,
		InvoiceNumber:      order.Invoice.Number,
		CustomerID:         order.CustomerID,
		CustomerName:       order.CustomerName,
		Parts:              toOrderPartResponses(order.Parts),
		ChargeDescriptions: order.ChargeDescriptions,
		Status:             order.Status.String(),
		LeadTime:           order.LeadTime,
		Notes:              order.Notes,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}
