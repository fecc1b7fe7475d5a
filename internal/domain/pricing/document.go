package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
)

// DocumentTotals holds the aggregate amounts of a priced document.
// BaseAmount is the taxable amount after discount plus service
// charges; the tax pass runs once over it at document level.
type DocumentTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ChargeTotal    decimal.Decimal `json:"charge_total"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Tax            TaxBreakdown    `json:"tax"`
	FinalPrice     decimal.Decimal `json:"final_price"`
}

// ZeroDocumentTotals returns all-zero totals in single mode
func ZeroDocumentTotals() DocumentTotals {
	return DocumentTotals{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		ChargeTotal:    decimal.Zero,
		BaseAmount:     decimal.Zero,
		Tax: TaxBreakdown{
			ComponentA: decimal.Zero,
			ComponentB: decimal.Zero,
			ComponentC: decimal.Zero,
			Total:      decimal.Zero,
			Mode:       TaxModeSingle,
		},
		FinalPrice: decimal.Zero,
	}
}

// ComputeDocumentTotals derives a document's aggregate amounts from
// its part list, discount and service charges. Subtotal sums the line
// totals, the discount percentage comes off the subtotal, service
// charges are added flat, and the tax engine runs once over the
// resulting base amount.
func ComputeDocumentTotals(engine *TaxEngine, parts []Part, discountPercent decimal.Decimal, charges []ServiceCharge, deliveryJurisdiction string) (DocumentTotals, error) {
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return DocumentTotals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}

	subtotal := decimal.Zero
	for _, p := range parts {
		subtotal = subtotal.Add(p.Pricing.LineTotal)
	}

	discountAmount := subtotal.Mul(discountPercent).Div(decimal.NewFromInt(100))
	chargeTotal := TotalCharges(charges)
	baseAmount := subtotal.Sub(discountAmount).Add(chargeTotal)
	tax := engine.ComputeTax(baseAmount, deliveryJurisdiction)

	return DocumentTotals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		ChargeTotal:    chargeTotal,
		BaseAmount:     baseAmount,
		Tax:            tax,
		FinalPrice:     baseAmount.Add(tax.Total),
	}, nil
}
