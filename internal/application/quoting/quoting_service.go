package quoting

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/numbering"
	"github.com/fabshop/backend/internal/domain/partner"
	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/quoting"
	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

var validate = validator.New()

// QuotingService drives the draft workspace and the saved quotation
// collection. All part editing happens on the draft; saving
// materializes it into a numbered quotation and clears the workspace.
type QuotingService struct {
	draftRepo      quoting.DraftRepository
	quotationRepo  quoting.QuotationRepository
	customerRepo   partner.CustomerRepository
	catalog        CatalogResolver
	geometry       GeometryProvider
	numbers        NumberAllocator
	taxEngine      *pricing.TaxEngine
	pricer         *pricing.LineItemPricer
	bulkEditor     *pricing.BulkEditCoordinator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewQuotingService creates a new QuotingService
func NewQuotingService(
	draftRepo quoting.DraftRepository,
	quotationRepo quoting.QuotationRepository,
	customerRepo partner.CustomerRepository,
	catalog CatalogResolver,
	geometry GeometryProvider,
	numbers NumberAllocator,
	taxEngine *pricing.TaxEngine,
	logger *zap.Logger,
) *QuotingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	pricer := pricing.NewLineItemPricer(taxEngine)
	return &QuotingService{
		draftRepo:     draftRepo,
		quotationRepo: quotationRepo,
		customerRepo:  customerRepo,
		catalog:       catalog,
		geometry:      geometry,
		numbers:       numbers,
		taxEngine:     taxEngine,
		pricer:        pricer,
		bulkEditor:    pricing.NewBulkEditCoordinator(pricer),
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuotingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// =============================================================================
// Draft workspace
// =============================================================================

// LoadDraft returns the current draft workspace. Stale drafts are
// discarded by the repository's lazy check.
func (s *QuotingService) LoadDraft(ctx context.Context) (*DraftResponse, error) {
	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(draft), nil
}

// UpdateDraft is the autosave path for customer selection, discount,
// notes and overrides. Changing the customer or the address choice
// moves the delivery jurisdiction, so priceable parts are repriced.
func (s *QuotingService) UpdateDraft(ctx context.Context, req UpdateDraftRequest) (*DraftResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	jurisdictionMoved := false

	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if err := draft.SetCustomer(customer.ID, customer.Name); err != nil {
			return nil, err
		}
		jurisdictionMoved = true
	}

	if req.DiscountPercent != nil {
		if err := draft.SetDiscountPercent(*req.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		draft.SetNotes(*req.Notes)
	}

	if req.Overrides != nil {
		overrides := quoting.Overrides{
			PaymentTerms:  req.Overrides.PaymentTerms,
			LeadTime:      req.Overrides.LeadTime,
			AddressChoice: quoting.AddressChoice(req.Overrides.AddressChoice),
		}
		if overrides.AddressChoice != draft.Overrides.AddressChoice {
			jurisdictionMoved = true
		}
		if err := draft.SetOverrides(overrides); err != nil {
			return nil, err
		}
	}

	if jurisdictionMoved {
		s.repriceDraftParts(ctx, draft)
	}

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}

	return toDraftResponse(draft), nil
}

// ClearDraft discards the workspace for a new document
func (s *QuotingService) ClearDraft(ctx context.Context) error {
	return s.draftRepo.Clear(ctx)
}

// AddPartFromModel measures a model file through the geometry provider
// and adds the resulting part to the draft. Provider rejections (an
// unrecognized file format, an unreadable file) surface as validation
// errors without touching the draft.
func (s *QuotingService) AddPartFromModel(ctx context.Context, req AddPartFromModelRequest) (*DraftResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	geometry, err := s.geometry.Extract(ctx, req.ModelPath)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		base := filepath.Base(req.ModelPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	part, err := pricing.NewPart(name, geometry, req.Quantity)
	if err != nil {
		return nil, err
	}

	return s.addPart(ctx, *part)
}

// AddManualPart adds a part with a hand-entered volume and no
// bounding box
func (s *QuotingService) AddManualPart(ctx context.Context, req AddManualPartRequest) (*DraftResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	geometry, err := valueobject.NewGeometry(req.Volume)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	part, err := pricing.NewPart(req.Name, geometry, req.Quantity)
	if err != nil {
		return nil, err
	}
	if req.Comment != "" {
		part.SetComment(req.Comment)
	}

	return s.addPart(ctx, *part)
}

func (s *QuotingService) addPart(ctx context.Context, part pricing.Part) (*DraftResponse, error) {
	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	draft.AddPart(part)

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return toDraftResponse(draft), nil
}

// UpdatePart edits one working part. Selecting a material triggers a
// full reprice; selecting a process without re-selecting a material
// zeroes the pricing block until one is chosen.
func (s *QuotingService) UpdatePart(ctx context.Context, req UpdatePartRequest) (*DraftResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	part, err := draft.FindPart(req.PartID)
	if err != nil {
		return nil, err
	}
	updated := *part

	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Comment != nil {
		updated.SetComment(*req.Comment)
	}
	if req.Quantity != nil {
		if err := updated.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}

	var rate *pricing.PricingBlock

	switch {
	case req.MaterialID != nil:
		material, err := s.catalog.GetMaterial(ctx, *req.MaterialID)
		if err != nil {
			return nil, err
		}
		process, err := s.catalog.GetProcess(ctx, material.ProcessID)
		if err != nil {
			return nil, err
		}
		if err := updated.SetMaterial(process.ID, process.Name, material.ID, material.Name); err != nil {
			return nil, err
		}
		block, err := s.pricer.Price(updated, material.Rate, s.draftJurisdiction(ctx, draft))
		if err != nil {
			return nil, err
		}
		rate = &block

	case req.ProcessID != nil:
		process, err := s.catalog.GetProcess(ctx, *req.ProcessID)
		if err != nil {
			return nil, err
		}
		if err := updated.SetProcess(process.ID, process.Name); err != nil {
			return nil, err
		}

	case req.Quantity != nil && updated.CanPrice():
		block, err := s.pricer.RepriceQuantity(updated, updated.Quantity, s.draftJurisdiction(ctx, draft))
		if err != nil {
			return nil, err
		}
		rate = &block
	}

	if rate != nil {
		updated.Pricing = *rate
	}

	if err := draft.UpdatePart(updated); err != nil {
		return nil, err
	}

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return toDraftResponse(draft), nil
}

// RemovePart removes a working part; the remaining serials stay dense
func (s *QuotingService) RemovePart(ctx context.Context, partID uuid.UUID) (*DraftResponse, error) {
	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := draft.RemovePart(partID); err != nil {
		return nil, err
	}

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return toDraftResponse(draft), nil
}

// ApplyBulkEdit propagates one field change across the selected parts.
// Exactly one of quantity, material or process applies per call.
func (s *QuotingService) ApplyBulkEdit(ctx context.Context, req BulkEditRequest) (*DraftResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	intent, err := s.buildIntent(ctx, req)
	if err != nil {
		return nil, err
	}

	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.bulkEditor.ApplyBulk(draft.Parts, req.PartIDs, intent, s.draftJurisdiction(ctx, draft))
	if err != nil {
		return nil, err
	}
	draft.ReplaceParts(updated)

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return toDraftResponse(draft), nil
}

func (s *QuotingService) buildIntent(ctx context.Context, req BulkEditRequest) (pricing.UpdateIntent, error) {
	switch req.Action {
	case BulkActionSetQuantity:
		if req.Quantity == nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity is required for a quantity update")
		}
		return pricing.SetQuantity{Quantity: *req.Quantity}, nil

	case BulkActionSetMaterial:
		if req.MaterialID == nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Material is required for a material update")
		}
		material, err := s.catalog.GetMaterial(ctx, *req.MaterialID)
		if err != nil {
			return nil, err
		}
		process, err := s.catalog.GetProcess(ctx, material.ProcessID)
		if err != nil {
			return nil, err
		}
		return pricing.SetMaterial{
			ProcessID:    process.ID,
			ProcessName:  process.Name,
			MaterialID:   material.ID,
			MaterialName: material.Name,
			Rate:         material.Rate,
		}, nil

	case BulkActionSetProcess:
		if req.ProcessID == nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Process is required for a process update")
		}
		process, err := s.catalog.GetProcess(ctx, *req.ProcessID)
		if err != nil {
			return nil, err
		}
		return pricing.SetProcessOnly{ProcessID: process.ID, ProcessName: process.Name}, nil
	}

	return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown bulk edit action")
}

// =============================================================================
// Saved quotations
// =============================================================================

// SaveQuotation materializes the draft into a saved quotation. A new
// document allocates the next quotation number; a re-edited one keeps
// its id and number and returns to Draft status. The workspace is
// cleared on success.
func (s *QuotingService) SaveQuotation(ctx context.Context) (*QuotationResponse, error) {
	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if len(draft.Parts) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot save a quotation without parts")
	}
	if draft.CustomerID == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot save a quotation without a customer")
	}

	customer, err := s.customerRepo.FindByID(ctx, *draft.CustomerID)
	if err != nil {
		return nil, err
	}
	jurisdiction := deliveryJurisdiction(customer, draft.Overrides)

	parts := make([]pricing.Part, len(draft.Parts))
	copy(parts, draft.Parts)

	var quotation *quoting.Quotation
	if draft.IsEditing() {
		quotation, err = s.quotationRepo.FindByID(ctx, *draft.EditingQuotationID)
		if err != nil {
			return nil, err
		}
		if err := quotation.SetCustomer(customer.ID, customer.Name); err != nil {
			return nil, err
		}
		quotation.ReplaceParts(parts)
		quotation.ResetToDraft()
	} else {
		number, err := s.numbers.NextNumber(ctx, numbering.FamilyQuotation)
		if err != nil {
			return nil, err
		}
		quotation, err = quoting.NewQuotation(number, customer.ID, customer.Name)
		if err != nil {
			return nil, err
		}
		quotation.ReplaceParts(parts)
	}

	if err := quotation.SetDiscountPercent(draft.DiscountPercent); err != nil {
		return nil, err
	}
	quotation.SetNotes(draft.Notes)
	if err := quotation.SetOverrides(draft.Overrides); err != nil {
		return nil, err
	}
	if err := quotation.RecalculateTotals(s.taxEngine, jurisdiction); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	if err := s.draftRepo.Clear(ctx); err != nil {
		// The quotation is durable; a leftover draft only costs the
		// operator an explicit new-document action.
		s.logger.Warn("failed to clear draft after save", zap.Error(err))
	}

	s.logger.Info("quotation saved",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("number", quotation.Number),
		zap.String("status", quotation.Status.String()),
	)

	return toQuotationResponse(quotation, time.Now()), nil
}

// GetQuotation retrieves a saved quotation by ID
func (s *QuotingService) GetQuotation(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation, time.Now()), nil
}

// ListQuotations returns every saved quotation, newest first
func (s *QuotingService) ListQuotations(ctx context.Context) (*ListQuotationsResponse, error) {
	quotations, err := s.quotationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = *toQuotationResponse(&quotations[i], now)
	}
	return &ListQuotationsResponse{Quotations: responses, Total: len(responses)}, nil
}

// UpdateStatus performs an operator-driven status transition on a
// saved quotation
func (s *QuotingService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateQuotationStatusRequest) (*QuotationResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := quoting.QuotationStatus(strings.ToUpper(req.Status))
	if err := quotation.UpdateStatus(target); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return toQuotationResponse(quotation, time.Now()), nil
}

// AddServiceCharge appends a flat charge to a saved quotation and
// recalculates its totals
func (s *QuotingService) AddServiceCharge(ctx context.Context, id uuid.UUID, req AddServiceChargeRequest) (*QuotationResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	charge, err := pricing.NewServiceCharge(req.Description, req.Amount)
	if err != nil {
		return nil, err
	}

	return s.mutateQuotation(ctx, id, func(quotation *quoting.Quotation) error {
		quotation.AddServiceCharge(charge)
		return nil
	})
}

// RemoveServiceCharge removes a flat charge from a saved quotation and
// recalculates its totals
func (s *QuotingService) RemoveServiceCharge(ctx context.Context, id, chargeID uuid.UUID) (*QuotationResponse, error) {
	return s.mutateQuotation(ctx, id, func(quotation *quoting.Quotation) error {
		return quotation.RemoveServiceCharge(chargeID)
	})
}

// EditQuotation loads a saved quotation back into the draft workspace.
// A later save keeps the document's id and number.
func (s *QuotingService) EditQuotation(ctx context.Context, id uuid.UUID) (*DraftResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	draft, err := s.draftRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	draft.StartEditing(quotation)

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("quotation loaded for editing",
		zap.String("quotation_id", id.String()),
		zap.String("number", quotation.Number),
	)

	return toDraftResponse(draft), nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *QuotingService) mutateQuotation(ctx context.Context, id uuid.UUID, fn func(*quoting.Quotation) error) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(quotation); err != nil {
		return nil, err
	}

	jurisdiction := ""
	customer, err := s.customerRepo.FindByID(ctx, quotation.CustomerID)
	if err != nil {
		// Totals still recompute; the tax pass falls back to the
		// out-of-state rate until the reference is repaired.
		s.logger.Warn("quotation customer missing, recalculating without jurisdiction",
			zap.String("quotation_id", quotation.ID.String()),
			zap.String("customer_id", quotation.CustomerID.String()),
		)
	} else {
		jurisdiction = deliveryJurisdiction(customer, quotation.Overrides)
	}

	if err := quotation.RecalculateTotals(s.taxEngine, jurisdiction); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return toQuotationResponse(quotation, time.Now()), nil
}

// draftJurisdiction resolves the draft's delivery jurisdiction, or nil
// while no customer is selected so pricing degrades per the pricer's
// nil-jurisdiction path.
func (s *QuotingService) draftJurisdiction(ctx context.Context, draft *quoting.DraftWorkspace) *string {
	if draft.CustomerID == nil {
		return nil
	}
	customer, err := s.customerRepo.FindByID(ctx, *draft.CustomerID)
	if err != nil {
		s.logger.Warn("draft customer missing, pricing without jurisdiction",
			zap.String("customer_id", draft.CustomerID.String()),
		)
		return nil
	}
	jurisdiction := deliveryJurisdiction(customer, draft.Overrides)
	return &jurisdiction
}

// repriceDraftParts reprices every priceable part after a jurisdiction
// move. Parts whose material no longer exists keep their previous
// block; the gap is logged, not fatal.
func (s *QuotingService) repriceDraftParts(ctx context.Context, draft *quoting.DraftWorkspace) {
	jurisdiction := s.draftJurisdiction(ctx, draft)
	for i := range draft.Parts {
		part := &draft.Parts[i]
		if !part.CanPrice() {
			continue
		}
		material, err := s.catalog.GetMaterial(ctx, part.MaterialID)
		if err != nil {
			s.logger.Warn("part material missing, keeping previous pricing",
				zap.String("part_id", part.ID.String()),
				zap.String("material_id", part.MaterialID.String()),
			)
			continue
		}
		block, err := s.pricer.Price(*part, material.Rate, jurisdiction)
		if err != nil {
			s.logger.Warn("failed to reprice part",
				zap.String("part_id", part.ID.String()),
				zap.Error(err),
			)
			continue
		}
		part.Pricing = block
	}
}

func (s *QuotingService) publishEvents(ctx context.Context, quotation *quoting.Quotation) {
	if s.eventPublisher != nil {
		events := quotation.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
	}
	quotation.ClearDomainEvents()
}

// deliveryJurisdiction picks the jurisdiction documents tax against:
// the shipping address unless the overrides route to billing
func deliveryJurisdiction(customer *partner.Customer, overrides quoting.Overrides) string {
	if overrides.AddressChoice == quoting.AddressChoiceBilling {
		return customer.BillingAddress.Jurisdiction()
	}
	return customer.ShippingJurisdiction()
}
