package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

// PricingBlock holds the derived prices of one part.
// It is valid (non-zero) only while both process and material are set.
type PricingBlock struct {
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// ZeroPricingBlock returns an all-zero pricing block
func ZeroPricingBlock() PricingBlock {
	return PricingBlock{
		UnitPrice:  decimal.Zero,
		LineTotal:  decimal.Zero,
		TaxAmount:  decimal.Zero,
		FinalPrice: decimal.Zero,
	}
}

// IsZero returns true if every derived price is zero
func (b PricingBlock) IsZero() bool {
	return b.UnitPrice.IsZero() && b.LineTotal.IsZero() &&
		b.TaxAmount.IsZero() && b.FinalPrice.IsZero()
}

// Part is one manufacturable line item within a document.
// Serial numbers are 1-based and dense; the owning list renumbers
// on deletion. Process and material names are denormalized snapshots
// of the catalog entries selected at pricing time.
type Part struct {
	ID           uuid.UUID            `json:"id"`
	Serial       int                  `json:"serial"`
	Name         string               `json:"name"`
	Geometry     valueobject.Geometry `json:"geometry"`
	ProcessID    uuid.UUID            `json:"process_id"`
	ProcessName  string               `json:"process_name"`
	MaterialID   uuid.UUID            `json:"material_id"`
	MaterialName string               `json:"material_name"`
	Quantity     int                  `json:"quantity"`
	Pricing      PricingBlock         `json:"pricing"`
	Comment      string               `json:"comment"`
}

// NewPart creates a part with an unassigned serial and zero pricing
func NewPart(name string, geometry valueobject.Geometry, quantity int) (*Part, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PART_NAME", "Part name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PART_NAME", "Part name cannot exceed 200 characters")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	return &Part{
		ID:       uuid.New(),
		Name:     name,
		Geometry: geometry,
		Quantity: quantity,
		Pricing:  ZeroPricingBlock(),
	}, nil
}

// HasProcess returns true if a process is selected
func (p *Part) HasProcess() bool {
	return p.ProcessID != uuid.Nil
}

// HasMaterial returns true if a material is selected
func (p *Part) HasMaterial() bool {
	return p.MaterialID != uuid.Nil
}

// CanPrice returns true if both process and material are selected
func (p *Part) CanPrice() bool {
	return p.HasProcess() && p.HasMaterial()
}

// SetProcess selects a process without a material. The old material no
// longer applies, so it is cleared and the pricing block is zeroed.
func (p *Part) SetProcess(processID uuid.UUID, processName string) error {
	if processID == uuid.Nil {
		return shared.NewDomainError("INVALID_PROCESS", "Process ID cannot be empty")
	}
	p.ProcessID = processID
	p.ProcessName = processName
	p.MaterialID = uuid.Nil
	p.MaterialName = ""
	p.Pricing = ZeroPricingBlock()
	return nil
}

// SetMaterial selects a material belonging to the given process.
// The caller reprices afterwards.
func (p *Part) SetMaterial(processID uuid.UUID, processName string, materialID uuid.UUID, materialName string) error {
	if processID == uuid.Nil {
		return shared.NewDomainError("INVALID_PROCESS", "Process ID cannot be empty")
	}
	if materialID == uuid.Nil {
		return shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	p.ProcessID = processID
	p.ProcessName = processName
	p.MaterialID = materialID
	p.MaterialName = materialName
	return nil
}

// SetQuantity updates the quantity. The caller reprices afterwards.
func (p *Part) SetQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	p.Quantity = quantity
	return nil
}

// SetComment replaces the free-text comment
func (p *Part) SetComment(comment string) {
	p.Comment = comment
}

// Renumber assigns dense 1-based serials in list order
func Renumber(parts []Part) {
	for i := range parts {
		parts[i].Serial = i + 1
	}
}

// ServiceCharge is a flat addition to a document's base amount
type ServiceCharge struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewServiceCharge creates a service charge
func NewServiceCharge(description string, amount decimal.Decimal) (ServiceCharge, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return ServiceCharge{}, shared.NewDomainError("INVALID_DESCRIPTION", "Charge description cannot be empty")
	}
	if amount.IsNegative() {
		return ServiceCharge{}, shared.NewDomainError("INVALID_AMOUNT", "Charge amount cannot be negative")
	}
	return ServiceCharge{
		ID:          uuid.New(),
		Description: description,
		Amount:      amount,
	}, nil
}

// TotalCharges sums the amounts of the given service charges
func TotalCharges(charges []ServiceCharge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
	}
	return total
}
