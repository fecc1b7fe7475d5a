package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
)

// LineItemPricer derives the pricing block of a single part from its
// geometry, a material rate and the delivery jurisdiction.
type LineItemPricer struct {
	taxEngine *TaxEngine
}

// NewLineItemPricer creates a pricer backed by the given tax engine
func NewLineItemPricer(taxEngine *TaxEngine) *LineItemPricer {
	return &LineItemPricer{taxEngine: taxEngine}
}

// TaxEngine returns the tax engine the pricer computes with
func (p *LineItemPricer) TaxEngine() *TaxEngine {
	return p.taxEngine
}

// Price computes a fresh pricing block for the part.
// Unit price is volume times material rate, line total is unit price
// times quantity. A nil jurisdiction means no customer is selected:
// unit price and line total still update, while tax and final price
// keep the part's previous values so the operator sees a degraded but
// stable figure until a customer is chosen.
func (p *LineItemPricer) Price(part Part, materialRate decimal.Decimal, jurisdiction *string) (PricingBlock, error) {
	if materialRate.IsNegative() {
		return PricingBlock{}, shared.NewDomainError("INVALID_RATE", "Material rate cannot be negative")
	}
	if part.Quantity < 1 {
		return PricingBlock{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	unitPrice := part.Geometry.Volume().Mul(materialRate)
	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(part.Quantity)))

	if jurisdiction == nil {
		return PricingBlock{
			UnitPrice:  unitPrice,
			LineTotal:  lineTotal,
			TaxAmount:  part.Pricing.TaxAmount,
			FinalPrice: part.Pricing.FinalPrice,
		}, nil
	}

	tax := p.taxEngine.ComputeTax(lineTotal, *jurisdiction)
	return PricingBlock{
		UnitPrice:  unitPrice,
		LineTotal:  lineTotal,
		TaxAmount:  tax.Total,
		FinalPrice: lineTotal.Add(tax.Total),
	}, nil
}

// RepriceQuantity recomputes a pricing block for a quantity change,
// reusing the part's existing unit price rather than deriving it from
// geometry again.
func (p *LineItemPricer) RepriceQuantity(part Part, quantity int, jurisdiction *string) (PricingBlock, error) {
	if quantity < 1 {
		return PricingBlock{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	lineTotal := part.Pricing.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	if jurisdiction == nil {
		return PricingBlock{
			UnitPrice:  part.Pricing.UnitPrice,
			LineTotal:  lineTotal,
			TaxAmount:  part.Pricing.TaxAmount,
			FinalPrice: part.Pricing.FinalPrice,
		}, nil
	}

	tax := p.taxEngine.ComputeTax(lineTotal, *jurisdiction)
	return PricingBlock{
		UnitPrice:  part.Pricing.UnitPrice,
		LineTotal:  lineTotal,
		TaxAmount:  tax.Total,
		FinalPrice: lineTotal.Add(tax.Total),
	}, nil
}
