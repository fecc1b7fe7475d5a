package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
)

// TaxMode identifies how a tax total is split across components
type TaxMode string

const (
	// TaxModeDual splits the tax into two equal components for deliveries
	// within the shop's home jurisdiction (CGST + SGST)
	TaxModeDual TaxMode = "DUAL"
	// TaxModeSingle levies the full tax as one component for deliveries
	// into another jurisdiction (IGST)
	TaxModeSingle TaxMode = "SINGLE"
)

// IsValid checks if the tax mode is valid
func (m TaxMode) IsValid() bool {
	return m == TaxModeDual || m == TaxModeSingle
}

// String returns the string representation
func (m TaxMode) String() string {
	return string(m)
}

// TaxBreakdown is the result of one tax computation.
// ComponentA and ComponentB carry the two halves in dual mode,
// ComponentC carries the whole tax in single mode. Total is always
// the amount times the combined rate, independent of mode.
type TaxBreakdown struct {
	ComponentA decimal.Decimal `json:"component_a"`
	ComponentB decimal.Decimal `json:"component_b"`
	ComponentC decimal.Decimal `json:"component_c"`
	Total      decimal.Decimal `json:"total"`
	Mode       TaxMode         `json:"mode"`
}

// DefaultCombinedTaxRate is the combined tax percentage applied to every
// taxable amount
var DefaultCombinedTaxRate = decimal.NewFromInt(18)

// TaxEngine computes the split tax for deliveries from the shop's home
// jurisdiction. The combined rate is a percentage; the dual-mode halves
// are each combined/2 so the split always sums to the total.
type TaxEngine struct {
	homeJurisdiction string
	combinedRate     decimal.Decimal
}

// NewTaxEngine creates a tax engine with the default combined rate
func NewTaxEngine(homeJurisdiction string) (*TaxEngine, error) {
	return NewTaxEngineWithRate(homeJurisdiction, DefaultCombinedTaxRate)
}

// NewTaxEngineWithRate creates a tax engine with an explicit combined rate
func NewTaxEngineWithRate(homeJurisdiction string, combinedRate decimal.Decimal) (*TaxEngine, error) {
	homeJurisdiction = strings.TrimSpace(homeJurisdiction)
	if homeJurisdiction == "" {
		return nil, shared.NewDomainError("INVALID_JURISDICTION", "Home jurisdiction cannot be empty")
	}
	if combinedRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Combined tax rate cannot be negative")
	}
	return &TaxEngine{
		homeJurisdiction: homeJurisdiction,
		combinedRate:     combinedRate,
	}, nil
}

// HomeJurisdiction returns the seller's home jurisdiction
func (e *TaxEngine) HomeJurisdiction() string {
	return e.homeJurisdiction
}

// CombinedRate returns the combined tax percentage
func (e *TaxEngine) CombinedRate() decimal.Decimal {
	return e.combinedRate
}

// ComputeTax derives the tax breakdown for an amount delivered to the
// given jurisdiction. The jurisdiction comparison is a case-insensitive
// exact match against the home jurisdiction: equal means dual mode with
// two equal components, different means single mode with one component.
// A zero amount yields an all-zero breakdown; there are no error cases.
func (e *TaxEngine) ComputeTax(amount decimal.Decimal, deliveryJurisdiction string) TaxBreakdown {
	total := amount.Mul(e.combinedRate).Div(decimal.NewFromInt(100))

	if strings.EqualFold(strings.TrimSpace(deliveryJurisdiction), e.homeJurisdiction) {
		half := total.Div(decimal.NewFromInt(2))
		return TaxBreakdown{
			ComponentA: half,
			ComponentB: half,
			ComponentC: decimal.Zero,
			Total:      total,
			Mode:       TaxModeDual,
		}
	}

	return TaxBreakdown{
		ComponentA: decimal.Zero,
		ComponentB: decimal.Zero,
		ComponentC: total,
		Total:      total,
		Mode:       TaxModeSingle,
	}
}
