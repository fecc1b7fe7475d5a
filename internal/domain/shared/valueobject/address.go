package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a postal address.
// It is immutable - all operations return new Address instances.
// Jurisdiction is the state/region used for tax mode selection.
type Address struct {
	street       string
	city         string
	jurisdiction string
	postalCode   string
	country      string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address. Jurisdiction is required; street,
// city, postal code and country are optional.
func NewAddress(street, city, jurisdiction string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	jurisdiction = strings.TrimSpace(jurisdiction)

	if jurisdiction == "" {
		return Address{}, fmt.Errorf("jurisdiction cannot be empty")
	}
	if len(jurisdiction) > 100 {
		return Address{}, fmt.Errorf("jurisdiction cannot exceed 100 characters")
	}
	if len(street) > 500 {
		return Address{}, fmt.Errorf("street cannot exceed 500 characters")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}

	addr := Address{
		street:       street,
		city:         city,
		jurisdiction: jurisdiction,
		country:      "India",
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, jurisdiction string, opts ...AddressOption) Address {
	addr, err := NewAddress(street, city, jurisdiction, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Jurisdiction returns the state/region used for tax mode selection
func (a Address) Jurisdiction() string {
	return a.jurisdiction
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no jurisdiction and no street
func (a Address) IsEmpty() bool {
	return a.jurisdiction == "" && a.street == "" && a.city == ""
}

// MatchesJurisdiction reports whether the address jurisdiction equals the
// given one, compared case-insensitively
func (a Address) MatchesJurisdiction(jurisdiction string) bool {
	return strings.EqualFold(strings.TrimSpace(a.jurisdiction), strings.TrimSpace(jurisdiction))
}

// FullAddress returns the complete formatted address string
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 5)
	if a.street != "" {
		parts = append(parts, a.street)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	if a.jurisdiction != "" {
		parts = append(parts, a.jurisdiction)
	}
	if a.postalCode != "" {
		parts = append(parts, a.postalCode)
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.jurisdiction == other.jurisdiction &&
		a.postalCode == other.postalCode &&
		a.country == other.country
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	Jurisdiction string `json:"jurisdiction"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:       a.street,
		City:         a.city,
		Jurisdiction: a.jurisdiction,
		PostalCode:   a.postalCode,
		Country:      a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Empty addresses are allowed so optional fields round-trip.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v.Jurisdiction == "" && v.Street == "" && v.City == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.Street, v.City, v.Jurisdiction,
		WithPostalCode(v.PostalCode), WithCountry(v.Country))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
