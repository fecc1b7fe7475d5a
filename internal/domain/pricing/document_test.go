package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedPart(t *testing.T, lineTotal decimal.Decimal) Part {
	t.Helper()
	part := Part{
		Quantity: 1,
		Pricing: PricingBlock{
			UnitPrice: lineTotal,
			LineTotal: lineTotal,
		},
	}
	return part
}

func TestComputeDocumentTotals(t *testing.T) {
	engine := newTestTaxEngine(t)

	t.Run("sums line totals and taxes the base amount once", func(t *testing.T) {
		parts := []Part{
			pricedPart(t, decimal.NewFromInt(600)),
			pricedPart(t, decimal.NewFromInt(400)),
		}

		totals, err := ComputeDocumentTotals(engine, parts, decimal.Zero, nil, "Maharashtra")
		require.NoError(t, err)

		assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, totals.BaseAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, totals.Tax.Total.Equal(decimal.NewFromInt(180)))
		assert.Equal(t, TaxModeDual, totals.Tax.Mode)
		assert.True(t, totals.FinalPrice.Equal(decimal.NewFromInt(1180)))
	})

	t.Run("applies discount before service charges", func(t *testing.T) {
		parts := []Part{pricedPart(t, decimal.NewFromInt(1000))}
		charge, err := NewServiceCharge("Tooling setup", decimal.NewFromInt(150))
		require.NoError(t, err)

		totals, err := ComputeDocumentTotals(engine, parts, decimal.NewFromInt(10), []ServiceCharge{charge}, "Karnataka")
		require.NoError(t, err)

		// 1000 - 100 discount + 150 charge = 1050 base
		assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, totals.ChargeTotal.Equal(decimal.NewFromInt(150)))
		assert.True(t, totals.BaseAmount.Equal(decimal.NewFromInt(1050)))
		assert.Equal(t, TaxModeSingle, totals.Tax.Mode)
		assert.True(t, totals.Tax.Total.Equal(decimal.NewFromInt(189)))
		assert.True(t, totals.FinalPrice.Equal(decimal.NewFromInt(1239)))
	})

	t.Run("yields all-zero totals for an empty document", func(t *testing.T) {
		totals, err := ComputeDocumentTotals(engine, nil, decimal.Zero, nil, "Maharashtra")
		require.NoError(t, err)

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.BaseAmount.IsZero())
		assert.True(t, totals.Tax.Total.IsZero())
		assert.True(t, totals.FinalPrice.IsZero())
	})

	t.Run("rejects discount outside the percent range", func(t *testing.T) {
		_, err := ComputeDocumentTotals(engine, nil, decimal.NewFromInt(101), nil, "Maharashtra")
		assert.Error(t, err)

		_, err = ComputeDocumentTotals(engine, nil, decimal.NewFromInt(-1), nil, "Maharashtra")
		assert.Error(t, err)
	})
}
