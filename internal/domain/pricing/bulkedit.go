package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
)

// UpdateIntent is the one field change a bulk edit applies per call.
// The sealed set of implementations makes the precedence between
// quantity, material and process updates exhaustive: an intent carries
// exactly one of them, never a combination.
type UpdateIntent interface {
	isUpdateIntent()
}

// SetQuantity recomputes line totals from each part's existing unit
// price and the shared new quantity
type SetQuantity struct {
	Quantity int
}

// SetMaterial reprices each part from its own volume with the shared
// material. The material's owning process is carried along so the
// process/material pair stays coherent.
type SetMaterial struct {
	ProcessID    uuid.UUID
	ProcessName  string
	MaterialID   uuid.UUID
	MaterialName string
	Rate         decimal.Decimal
}

// SetProcessOnly selects a process without a material, zeroing each
// part's pricing block until a material is re-selected
type SetProcessOnly struct {
	ProcessID   uuid.UUID
	ProcessName string
}

func (SetQuantity) isUpdateIntent()    {}
func (SetMaterial) isUpdateIntent()    {}
func (SetProcessOnly) isUpdateIntent() {}

// BulkEditCoordinator propagates one update intent across a selection
// of parts, repricing each with its own geometry.
type BulkEditCoordinator struct {
	pricer *LineItemPricer
}

// NewBulkEditCoordinator creates a coordinator backed by the given pricer
func NewBulkEditCoordinator(pricer *LineItemPricer) *BulkEditCoordinator {
	return &BulkEditCoordinator{pricer: pricer}
}

// ApplyBulk applies the intent to every part whose id is in the
// selection and returns the complete replacement list. Parts outside
// the selection pass through unchanged and serial numbers are
// preserved. On any error the original list is left untouched.
func (c *BulkEditCoordinator) ApplyBulk(parts []Part, selected []uuid.UUID, intent UpdateIntent, jurisdiction *string) ([]Part, error) {
	if intent == nil {
		return nil, shared.NewDomainError("INVALID_INTENT", "Bulk update intent cannot be empty")
	}

	selection := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		selection[id] = struct{}{}
	}

	updated := make([]Part, len(parts))
	copy(updated, parts)

	for i := range updated {
		if _, ok := selection[updated[i].ID]; !ok {
			continue
		}
		if err := c.applyToPart(&updated[i], intent, jurisdiction); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

func (c *BulkEditCoordinator) applyToPart(part *Part, intent UpdateIntent, jurisdiction *string) error {
	switch u := intent.(type) {
	case SetQuantity:
		block, err := c.pricer.RepriceQuantity(*part, u.Quantity, jurisdiction)
		if err != nil {
			return err
		}
		part.Quantity = u.Quantity
		part.Pricing = block
		return nil

	case SetMaterial:
		if err := part.SetMaterial(u.ProcessID, u.ProcessName, u.MaterialID, u.MaterialName); err != nil {
			return err
		}
		block, err := c.pricer.Price(*part, u.Rate, jurisdiction)
		if err != nil {
			return err
		}
		part.Pricing = block
		return nil

	case SetProcessOnly:
		return part.SetProcess(u.ProcessID, u.ProcessName)

	default:
		return shared.NewDomainError("INVALID_INTENT", "Unknown bulk update intent")
	}
}
