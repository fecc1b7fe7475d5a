package partner

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer represents a buyer in the customer registry.
// It is the aggregate root for customer-related operations.
// Documents reference customers by id plus a denormalized name
// snapshot, never by embedded value.
type Customer struct {
	shared.BaseAggregateRoot
	Name            string              `json:"name"`
	ContactName     string              `json:"contact_name,omitempty"`
	Phone           string              `json:"phone,omitempty"`
	Email           string              `json:"email,omitempty"`
	BillingAddress  valueobject.Address `json:"billing_address"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	PaymentTerms    string              `json:"payment_terms,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Status          CustomerStatus      `json:"status"`
}

// NewCustomer creates a new customer. The shipping address is required
// because its jurisdiction drives tax mode selection on every document.
func NewCustomer(name string, shippingAddress valueobject.Address) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if shippingAddress.Jurisdiction() == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address must carry a jurisdiction")
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ShippingAddress:   shippingAddress,
		BillingAddress:    shippingAddress,
		DiscountPercent:   decimal.Zero,
		Status:            CustomerStatusActive,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's display name
func (c *Customer) Update(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = name
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetAddresses sets the billing and shipping addresses. The shipping
// address must keep a jurisdiction; an empty billing address falls back
// to the shipping address.
func (c *Customer) SetAddresses(billing, shipping valueobject.Address) error {
	if shipping.Jurisdiction() == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping address must carry a jurisdiction")
	}
	if billing.IsEmpty() {
		billing = shipping
	}

	c.BillingAddress = billing
	c.ShippingAddress = shipping
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetDiscountPercent sets the customer's default discount rate
func (c *Customer) SetDiscountPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}

	c.DiscountPercent = percent
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetPaymentTerms sets the customer's default payment terms
// (free text such as "advance", "on delivery" or "Net 15")
func (c *Customer) SetPaymentTerms(terms string) error {
	terms = strings.TrimSpace(terms)
	if len(terms) > 100 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot exceed 100 characters")
	}

	c.PaymentTerms = terms
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.Touch()
	c.IncrementVersion()
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusActive
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusActive))

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusInactive
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusInactive))

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// ShippingJurisdiction returns the jurisdiction tax mode selection uses
func (c *Customer) ShippingJurisdiction() string {
	return c.ShippingAddress.Jurisdiction()
}

// Validation functions

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
