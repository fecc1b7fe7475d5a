package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

func newTestPricer(t *testing.T) *LineItemPricer {
	return NewLineItemPricer(newTestTaxEngine(t))
}

func testPart(t *testing.T, volume string, quantity int) Part {
	geometry, err := valueobject.NewGeometry(decimal.RequireFromString(volume))
	require.NoError(t, err)
	part, err := NewPart("bracket", geometry, quantity)
	require.NoError(t, err)
	return *part
}

func jurisdiction(s string) *string {
	return &s
}

// ============================================
// Price Tests
// ============================================

func TestLineItemPricer_Price(t *testing.T) {
	pricer := newTestPricer(t)

	t.Run("derives unit price from volume and material rate", func(t *testing.T) {
		part := testPart(t, "10.5", 1)

		block, err := pricer.Price(part, decimal.RequireFromString("3.50"), jurisdiction("Karnataka"))
		require.NoError(t, err)

		assert.Equal(t, "36.75", block.UnitPrice.StringFixed(2))
		assert.Equal(t, "36.75", block.LineTotal.StringFixed(2))
	})

	t.Run("multiplies line total by quantity", func(t *testing.T) {
		part := testPart(t, "10", 4)

		block, err := pricer.Price(part, decimal.NewFromInt(2), jurisdiction("Karnataka"))
		require.NoError(t, err)

		assert.True(t, block.UnitPrice.Equal(decimal.NewFromInt(20)))
		assert.True(t, block.LineTotal.Equal(decimal.NewFromInt(80)))
	})

	t.Run("adds tax on the line total", func(t *testing.T) {
		part := testPart(t, "100", 1)

		block, err := pricer.Price(part, decimal.NewFromInt(10), jurisdiction("Maharashtra"))
		require.NoError(t, err)

		assert.True(t, block.LineTotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, block.TaxAmount.Equal(decimal.NewFromInt(180)), "tax should be 180, got %s", block.TaxAmount)
		assert.True(t, block.FinalPrice.Equal(decimal.NewFromInt(1180)))
	})

	t.Run("keeps previous tax and final price when no customer is selected", func(t *testing.T) {
		part := testPart(t, "10", 1)
		part.Pricing = PricingBlock{
			UnitPrice:  decimal.NewFromInt(5),
			LineTotal:  decimal.NewFromInt(5),
			TaxAmount:  decimal.RequireFromString("0.90"),
			FinalPrice: decimal.RequireFromString("5.90"),
		}

		block, err := pricer.Price(part, decimal.NewFromInt(3), nil)
		require.NoError(t, err)

		assert.True(t, block.UnitPrice.Equal(decimal.NewFromInt(30)))
		assert.True(t, block.LineTotal.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, "0.90", block.TaxAmount.StringFixed(2))
		assert.Equal(t, "5.90", block.FinalPrice.StringFixed(2))
	})

	t.Run("zero volume prices to zero", func(t *testing.T) {
		part := testPart(t, "0", 2)

		block, err := pricer.Price(part, decimal.NewFromInt(10), jurisdiction("Maharashtra"))
		require.NoError(t, err)

		assert.True(t, block.UnitPrice.IsZero())
		assert.True(t, block.LineTotal.IsZero())
		assert.True(t, block.TaxAmount.IsZero())
		assert.True(t, block.FinalPrice.IsZero())
	})

	t.Run("fails with negative material rate", func(t *testing.T) {
		part := testPart(t, "10", 1)

		_, err := pricer.Price(part, decimal.NewFromInt(-1), jurisdiction("Maharashtra"))
		assert.Error(t, err)
	})

	t.Run("fails with quantity below one", func(t *testing.T) {
		part := testPart(t, "10", 1)
		part.Quantity = 0

		_, err := pricer.Price(part, decimal.NewFromInt(1), jurisdiction("Maharashtra"))
		assert.Error(t, err)
	})

	t.Run("returns identical output for identical input", func(t *testing.T) {
		part := testPart(t, "12.25", 3)
		rate := decimal.RequireFromString("7.77")

		first, err := pricer.Price(part, rate, jurisdiction("Maharashtra"))
		require.NoError(t, err)
		second, err := pricer.Price(part, rate, jurisdiction("Maharashtra"))
		require.NoError(t, err)

		assert.True(t, first.UnitPrice.Equal(second.UnitPrice))
		assert.True(t, first.LineTotal.Equal(second.LineTotal))
		assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
		assert.True(t, first.FinalPrice.Equal(second.FinalPrice))
	})
}

// ============================================
// RepriceQuantity Tests
// ============================================

func TestLineItemPricer_RepriceQuantity(t *testing.T) {
	pricer := newTestPricer(t)

	t.Run("recomputes from the existing unit price", func(t *testing.T) {
		part := testPart(t, "10", 1)
		part.Pricing = PricingBlock{
			UnitPrice:  decimal.NewFromInt(10),
			LineTotal:  decimal.NewFromInt(10),
			TaxAmount:  decimal.RequireFromString("1.80"),
			FinalPrice: decimal.RequireFromString("11.80"),
		}

		block, err := pricer.RepriceQuantity(part, 3, jurisdiction("Maharashtra"))
		require.NoError(t, err)

		assert.True(t, block.UnitPrice.Equal(decimal.NewFromInt(10)))
		assert.True(t, block.LineTotal.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, "5.40", block.TaxAmount.StringFixed(2))
		assert.Equal(t, "35.40", block.FinalPrice.StringFixed(2))
	})

	t.Run("keeps previous tax without a customer", func(t *testing.T) {
		part := testPart(t, "10", 1)
		part.Pricing = PricingBlock{
			UnitPrice:  decimal.NewFromInt(10),
			LineTotal:  decimal.NewFromInt(10),
			TaxAmount:  decimal.RequireFromString("1.80"),
			FinalPrice: decimal.RequireFromString("11.80"),
		}

		block, err := pricer.RepriceQuantity(part, 5, nil)
		require.NoError(t, err)

		assert.True(t, block.LineTotal.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "1.80", block.TaxAmount.StringFixed(2))
		assert.Equal(t, "11.80", block.FinalPrice.StringFixed(2))
	})

	t.Run("fails with quantity below one", func(t *testing.T) {
		part := testPart(t, "10", 1)

		_, err := pricer.RepriceQuantity(part, 0, jurisdiction("Maharashtra"))
		assert.Error(t, err)
	})
}
