package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedTestParts(t *testing.T, pricer *LineItemPricer) []Part {
	volumes := []string{"10", "20", "30"}
	rate := decimal.NewFromInt(2)
	processID := uuid.New()
	materialID := uuid.New()

	parts := make([]Part, 0, len(volumes))
	for _, v := range volumes {
		part := testPart(t, v, 1)
		require.NoError(t, part.SetMaterial(processID, "CNC milling", materialID, "Aluminium"))
		block, err := pricer.Price(part, rate, jurisdiction("Maharashtra"))
		require.NoError(t, err)
		part.Pricing = block
		parts = append(parts, part)
	}
	Renumber(parts)
	return parts
}

// ============================================
// ApplyBulk Tests
// ============================================

func TestBulkEditCoordinator_ApplyBulk(t *testing.T) {
	pricer := newTestPricer(t)
	coordinator := NewBulkEditCoordinator(pricer)

	t.Run("updates only the selected parts", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)
		selected := []uuid.UUID{parts[0].ID, parts[2].ID}

		updated, err := coordinator.ApplyBulk(parts, selected, SetQuantity{Quantity: 5}, jurisdiction("Maharashtra"))
		require.NoError(t, err)
		require.Len(t, updated, 3)

		assert.Equal(t, 5, updated[0].Quantity)
		assert.Equal(t, 5, updated[2].Quantity)
		assert.Equal(t, parts[1], updated[1], "unselected part must pass through unchanged")
	})

	t.Run("preserves serial numbers", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)
		selected := []uuid.UUID{parts[1].ID}

		updated, err := coordinator.ApplyBulk(parts, selected, SetQuantity{Quantity: 2}, jurisdiction("Maharashtra"))
		require.NoError(t, err)

		for i := range updated {
			assert.Equal(t, i+1, updated[i].Serial)
		}
	})

	t.Run("quantity update recomputes from the existing unit price", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)
		selected := []uuid.UUID{parts[0].ID}

		updated, err := coordinator.ApplyBulk(parts, selected, SetQuantity{Quantity: 3}, jurisdiction("Maharashtra"))
		require.NoError(t, err)

		// volume 10 at rate 2: unit price 20 stays, line total becomes 60
		assert.True(t, updated[0].Pricing.UnitPrice.Equal(decimal.NewFromInt(20)))
		assert.True(t, updated[0].Pricing.LineTotal.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, "10.80", updated[0].Pricing.TaxAmount.StringFixed(2))
		assert.Equal(t, "70.80", updated[0].Pricing.FinalPrice.StringFixed(2))
	})

	t.Run("material update reprices each part from its own volume", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)
		selected := []uuid.UUID{parts[0].ID, parts[1].ID, parts[2].ID}
		intent := SetMaterial{
			ProcessID:    uuid.New(),
			ProcessName:  "SLS printing",
			MaterialID:   uuid.New(),
			MaterialName: "Nylon PA12",
			Rate:         decimal.NewFromInt(5),
		}

		updated, err := coordinator.ApplyBulk(parts, selected, intent, jurisdiction("Maharashtra"))
		require.NoError(t, err)

		assert.True(t, updated[0].Pricing.UnitPrice.Equal(decimal.NewFromInt(50)))
		assert.True(t, updated[1].Pricing.UnitPrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, updated[2].Pricing.UnitPrice.Equal(decimal.NewFromInt(150)))
		for i := range updated {
			assert.Equal(t, "Nylon PA12", updated[i].MaterialName)
			assert.Equal(t, "SLS printing", updated[i].ProcessName)
		}
	})

	t.Run("process-only update zeroes pricing and clears the material", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)
		selected := []uuid.UUID{parts[1].ID}
		intent := SetProcessOnly{ProcessID: uuid.New(), ProcessName: "Vacuum casting"}

		updated, err := coordinator.ApplyBulk(parts, selected, intent, jurisdiction("Maharashtra"))
		require.NoError(t, err)

		assert.Equal(t, "Vacuum casting", updated[1].ProcessName)
		assert.False(t, updated[1].HasMaterial())
		assert.True(t, updated[1].Pricing.IsZero())

		// the other parts keep their prices
		assert.False(t, updated[0].Pricing.IsZero())
		assert.False(t, updated[2].Pricing.IsZero())
	})

	t.Run("returns error and leaves input untouched on invalid quantity", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)
		before := make([]Part, len(parts))
		copy(before, parts)
		selected := []uuid.UUID{parts[0].ID}

		_, err := coordinator.ApplyBulk(parts, selected, SetQuantity{Quantity: 0}, jurisdiction("Maharashtra"))
		assert.Error(t, err)
		assert.Equal(t, before, parts)
	})

	t.Run("selection ids absent from the list are ignored", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)
		selected := []uuid.UUID{uuid.New()}

		updated, err := coordinator.ApplyBulk(parts, selected, SetQuantity{Quantity: 9}, jurisdiction("Maharashtra"))
		require.NoError(t, err)
		assert.Equal(t, parts, updated)
	})

	t.Run("fails with nil intent", func(t *testing.T) {
		parts := pricedTestParts(t, pricer)

		_, err := coordinator.ApplyBulk(parts, []uuid.UUID{parts[0].ID}, nil, jurisdiction("Maharashtra"))
		assert.Error(t, err)
	})
}
