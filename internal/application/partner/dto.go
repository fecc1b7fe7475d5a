package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/partner"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// AddressInput carries one postal address in a request
type AddressInput struct {
	Street       string `json:"street" validate:"max=500"`
	City         string `json:"city" validate:"max=100"`
	Jurisdiction string `json:"jurisdiction" validate:"required,min=1,max=100"`
	PostalCode   string `json:"postal_code" validate:"max=20"`
	Country      string `json:"country" validate:"max=100"`
}

// CreateCustomerRequest represents a request to register a new customer
type CreateCustomerRequest struct {
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	ContactName     string           `json:"contact_name" validate:"max=100"`
	Phone           string           `json:"phone" validate:"max=50"`
	Email           string           `json:"email" validate:"omitempty,email,max=200"`
	ShippingAddress AddressInput     `json:"shipping_address" validate:"required"`
	BillingAddress  *AddressInput    `json:"billing_address" validate:"omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	PaymentTerms    string           `json:"payment_terms" validate:"max=100"`
	Notes           string           `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ContactName     *string          `json:"contact_name" validate:"omitempty,max=100"`
	Phone           *string          `json:"phone" validate:"omitempty,max=50"`
	Email           *string          `json:"email" validate:"omitempty,email,max=200"`
	ShippingAddress *AddressInput    `json:"shipping_address" validate:"omitempty"`
	BillingAddress  *AddressInput    `json:"billing_address" validate:"omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	PaymentTerms    *string          `json:"payment_terms" validate:"omitempty,max=100"`
	Notes           *string          `json:"notes"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	Jurisdiction string `json:"jurisdiction"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	FullAddress  string `json:"full_address"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	ContactName     string          `json:"contact_name"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	ShippingAddress AddressResponse `json:"shipping_address"`
	BillingAddress  AddressResponse `json:"billing_address"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	PaymentTerms    string          `json:"payment_terms"`
	Notes           string          `json:"notes"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ListCustomersResponse wraps a customer listing
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Total     int                `json:"total"`
}

func toAddressResponse(addr valueobject.Address) AddressResponse {
	return AddressResponse{
		Street:       addr.Street(),
		City:         addr.City(),
		Jurisdiction: addr.Jurisdiction(),
		PostalCode:   addr.PostalCode(),
		Country:      addr.Country(),
		FullAddress:  addr.FullAddress(),
	}
}

func toCustomerResponse(customer *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:              customer.ID,
		Name:            customer.Name,
		ContactName:     customer.ContactName,
		Phone:           customer.Phone,
		Email:           customer.Email,
		ShippingAddress: toAddressResponse(customer.ShippingAddress),
		BillingAddress:  toAddressResponse(customer.BillingAddress),
		DiscountPercent: customer.DiscountPercent,
		PaymentTerms:    customer.PaymentTerms,
		Notes:           customer.Notes,
		Status:          string(customer.Status),
		CreatedAt:       customer.CreatedAt,
		UpdatedAt:       customer.UpdatedAt,
	}
}
