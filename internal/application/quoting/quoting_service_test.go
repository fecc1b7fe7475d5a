package quoting

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/fabshop/backend/internal/application/catalog"
	partnerapp "github.com/fabshop/backend/internal/application/partner"
	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/quoting"
	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
	"github.com/fabshop/backend/internal/infrastructure/config"
	"github.com/fabshop/backend/internal/infrastructure/persistence"
)

// stubGeometryProvider measures every model file as the same volume,
// or refuses outright when err is set.
type stubGeometryProvider struct {
	volume decimal.Decimal
	err    error
}

func (p *stubGeometryProvider) Extract(_ context.Context, _ string) (valueobject.Geometry, error) {
	if p.err != nil {
		return valueobject.Geometry{}, p.err
	}
	return valueobject.NewGeometry(p.volume)
}

type quotingFixture struct {
	t         *testing.T
	service   *QuotingService
	customers *partnerapp.CustomerService
	catalog   *catalogapp.CatalogService
	geometry  *stubGeometryProvider
}

func newQuotingFixture(t *testing.T) *quotingFixture {
	t.Helper()

	store := persistence.NewMemoryStore()
	logger := zap.NewNop()

	customerRepo := persistence.NewCustomerRepository(store, logger)
	processRepo := persistence.NewProcessRepository(store, logger)
	materialRepo := persistence.NewMaterialRepository(store, logger)
	quotationRepo := persistence.NewQuotationRepository(store, logger)
	draftRepo := persistence.NewDraftRepository(store, 0, logger)

	allocator, err := persistence.NewNumberAllocator(store, config.NumberingConfig{
		QuotationPrefix: "QTN",
		InvoicePrefix:   "INV",
		OrderPrefix:     "ORD",
		SerialWidth:     4,
	}, logger)
	require.NoError(t, err)

	taxEngine, err := pricing.NewTaxEngine("Maharashtra")
	require.NoError(t, err)

	catalogSvc := catalogapp.NewCatalogService(processRepo, materialRepo, logger)
	geometry := &stubGeometryProvider{volume: decimal.NewFromInt(120)}

	return &quotingFixture{
		t:         t,
		service:   NewQuotingService(draftRepo, quotationRepo, customerRepo, catalogSvc, geometry, allocator, taxEngine, logger),
		customers: partnerapp.NewCustomerService(customerRepo, logger),
		catalog:   catalogSvc,
		geometry:  geometry,
	}
}

func (f *quotingFixture) createCustomer(name, jurisdiction string) *partnerapp.CustomerResponse {
	f.t.Helper()
	customer, err := f.customers.Create(context.Background(), partnerapp.CreateCustomerRequest{
		Name: name,
		ShippingAddress: partnerapp.AddressInput{
			Street:       "12 Industrial Estate",
			City:         "Pune",
			Jurisdiction: jurisdiction,
		},
	})
	require.NoError(f.t, err)
	return customer
}

func (f *quotingFixture) createMaterial(rate decimal.Decimal) *catalogapp.MaterialResponse {
	f.t.Helper()
	process, err := f.catalog.CreateProcess(context.Background(), catalogapp.CreateProcessRequest{Name: "CNC Milling"})
	require.NoError(f.t, err)
	material, err := f.catalog.CreateMaterial(context.Background(), catalogapp.CreateMaterialRequest{
		ProcessID: process.ID,
		Name:      "Aluminium 6061",
		Rate:      rate,
	})
	require.NoError(f.t, err)
	return material
}

func (f *quotingFixture) addModelPart(path string) *DraftResponse {
	f.t.Helper()
	draft, err := f.service.AddPartFromModel(context.Background(), AddPartFromModelRequest{
		ModelPath: path,
		Quantity:  1,
	})
	require.NoError(f.t, err)
	return draft
}

// selectCustomer points the draft at the given customer
func (f *quotingFixture) selectCustomer(customerID uuid.UUID) {
	f.t.Helper()
	_, err := f.service.UpdateDraft(context.Background(), UpdateDraftRequest{CustomerID: &customerID})
	require.NoError(f.t, err)
}

func TestQuotingService_Draft(t *testing.T) {
	ctx := context.Background()

	t.Run("should start with an empty workspace", func(t *testing.T) {
		f := newQuotingFixture(t)

		draft, err := f.service.LoadDraft(ctx)

		require.NoError(t, err)
		assert.Nil(t, draft.CustomerID)
		assert.Empty(t, draft.Parts)
		assert.True(t, draft.DiscountPercent.IsZero())
	})

	t.Run("should autosave customer discount and notes", func(t *testing.T) {
		f := newQuotingFixture(t)
		customer := f.createCustomer("Apex Engineering", "Maharashtra")
		discount := decimal.NewFromInt(5)
		notes := "Anodize all brackets"

		_, err := f.service.UpdateDraft(ctx, UpdateDraftRequest{
			CustomerID:      &customer.ID,
			DiscountPercent: &discount,
			Notes:           &notes,
		})
		require.NoError(t, err)

		draft, err := f.service.LoadDraft(ctx)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, *draft.CustomerID)
		assert.Equal(t, "Apex Engineering", draft.CustomerName)
		assert.True(t, discount.Equal(draft.DiscountPercent))
		assert.Equal(t, notes, draft.Notes)
	})

	t.Run("should reject an unknown customer", func(t *testing.T) {
		f := newQuotingFixture(t)
		missing := uuid.New()

		_, err := f.service.UpdateDraft(ctx, UpdateDraftRequest{CustomerID: &missing})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("should clear the workspace for a new document", func(t *testing.T) {
		f := newQuotingFixture(t)
		f.addModelPart("/models/bracket.stl")

		require.NoError(t, f.service.ClearDraft(ctx))

		draft, err := f.service.LoadDraft(ctx)
		require.NoError(t, err)
		assert.Empty(t, draft.Parts)
	})
}

func TestQuotingService_Parts(t *testing.T) {
	ctx := context.Background()

	t.Run("should add a part from a model file with a defaulted name", func(t *testing.T) {
		f := newQuotingFixture(t)

		draft := f.addModelPart("/models/mounting-bracket.stl")

		require.Len(t, draft.Parts, 1)
		part := draft.Parts[0]
		assert.Equal(t, "mounting-bracket", part.Name)
		assert.Equal(t, 1, part.Serial)
		assert.True(t, decimal.NewFromInt(120).Equal(part.Volume))
	})

	t.Run("should surface a model the provider cannot read", func(t *testing.T) {
		f := newQuotingFixture(t)
		f.geometry.err = errors.New("unsupported file format: .docx")

		_, err := f.service.AddPartFromModel(ctx, AddPartFromModelRequest{
			ModelPath: "/models/notes.docx",
			Quantity:  1,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)

		draft, err := f.service.LoadDraft(ctx)
		require.NoError(t, err)
		assert.Empty(t, draft.Parts)
	})

	t.Run("should add a manual part without a bounding box", func(t *testing.T) {
		f := newQuotingFixture(t)

		draft, err := f.service.AddManualPart(ctx, AddManualPartRequest{
			Name:     "Weldment",
			Volume:   decimal.NewFromInt(50),
			Quantity: 2,
			Comment:  "Customer supplied drawing",
		})

		require.NoError(t, err)
		require.Len(t, draft.Parts, 1)
		assert.Empty(t, draft.Parts[0].BoundingBox)
		assert.Equal(t, 2, draft.Parts[0].Quantity)
		assert.Equal(t, "Customer supplied drawing", draft.Parts[0].Comment)
	})

	t.Run("should price a part once a material is selected", func(t *testing.T) {
		f := newQuotingFixture(t)
		customer := f.createCustomer("Apex Engineering", "Maharashtra")
		material := f.createMaterial(decimal.NewFromInt(2))
		f.selectCustomer(customer.ID)
		added := f.addModelPart("/models/bracket.stl")

		draft, err := f.service.UpdatePart(ctx, UpdatePartRequest{
			PartID:     added.Parts[0].ID,
			MaterialID: &material.ID,
		})

		require.NoError(t, err)
		part := draft.Parts[0]
		assert.Equal(t, "Aluminium 6061", part.MaterialName)
		assert.Equal(t, "CNC Milling", part.ProcessName)
		// volume 120 * rate 2 = 240, taxed at 18%
		assert.True(t, decimal.NewFromInt(240).Equal(part.UnitPrice), "unit price was %s", part.UnitPrice)
		assert.True(t, decimal.NewFromFloat(43.2).Equal(part.TaxAmount), "tax was %s", part.TaxAmount)
		assert.True(t, decimal.NewFromFloat(283.2).Equal(part.FinalPrice), "final price was %s", part.FinalPrice)
	})

	t.Run("should zero pricing when a process is chosen without a material", func(t *testing.T) {
		f := newQuotingFixture(t)
		material := f.createMaterial(decimal.NewFromInt(2))
		added := f.addModelPart("/models/bracket.stl")
		_, err := f.service.UpdatePart(ctx, UpdatePartRequest{
			PartID:     added.Parts[0].ID,
			MaterialID: &material.ID,
		})
		require.NoError(t, err)

		processID := material.ProcessID
		draft, err := f.service.UpdatePart(ctx, UpdatePartRequest{
			PartID:    added.Parts[0].ID,
			ProcessID: &processID,
		})

		require.NoError(t, err)
		part := draft.Parts[0]
		assert.Equal(t, uuid.Nil, part.MaterialID)
		assert.True(t, part.UnitPrice.IsZero())
		assert.True(t, part.FinalPrice.IsZero())
	})

	t.Run("should keep serials dense after a removal", func(t *testing.T) {
		f := newQuotingFixture(t)
		f.addModelPart("/models/first.stl")
		second := f.addModelPart("/models/second.stl")
		f.addModelPart("/models/third.stl")

		draft, err := f.service.RemovePart(ctx, second.Parts[1].ID)

		require.NoError(t, err)
		require.Len(t, draft.Parts, 2)
		assert.Equal(t, 1, draft.Parts[0].Serial)
		assert.Equal(t, 2, draft.Parts[1].Serial)
		assert.Equal(t, "first", draft.Parts[0].Name)
		assert.Equal(t, "third", draft.Parts[1].Name)
	})
}

func TestQuotingService_BulkEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("should propagate a material across the selected parts", func(t *testing.T) {
		f := newQuotingFixture(t)
		customer := f.createCustomer("Apex Engineering", "Karnataka")
		material := f.createMaterial(decimal.NewFromInt(3))
		f.selectCustomer(customer.ID)
		f.addModelPart("/models/first.stl")
		latest := f.addModelPart("/models/second.stl")

		draft, err := f.service.ApplyBulkEdit(ctx, BulkEditRequest{
			PartIDs:    []uuid.UUID{latest.Parts[0].ID, latest.Parts[1].ID},
			Action:     BulkActionSetMaterial,
			MaterialID: &material.ID,
		})

		require.NoError(t, err)
		for _, part := range draft.Parts {
			assert.Equal(t, "Aluminium 6061", part.MaterialName)
			// volume 120 * rate 3 = 360
			assert.True(t, decimal.NewFromInt(360).Equal(part.LineTotal), "line total was %s", part.LineTotal)
			assert.False(t, part.TaxAmount.IsZero())
		}
	})

	t.Run("should require a quantity for a quantity update", func(t *testing.T) {
		f := newQuotingFixture(t)
		latest := f.addModelPart("/models/bracket.stl")

		_, err := f.service.ApplyBulkEdit(ctx, BulkEditRequest{
			PartIDs: []uuid.UUID{latest.Parts[0].ID},
			Action:  BulkActionSetQuantity,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("should reject a selection naming an unknown part", func(t *testing.T) {
		f := newQuotingFixture(t)
		f.addModelPart("/models/bracket.stl")
		quantity := 5

		_, err := f.service.ApplyBulkEdit(ctx, BulkEditRequest{
			PartIDs:  []uuid.UUID{uuid.New()},
			Action:   BulkActionSetQuantity,
			Quantity: &quantity,
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestQuotingService_SaveQuotation(t *testing.T) {
	ctx := context.Background()

	// prepares a draft with a customer and one priced part
	pricedDraft := func(f *quotingFixture) {
		f.t.Helper()
		customer := f.createCustomer("Apex Engineering", "Maharashtra")
		material := f.createMaterial(decimal.NewFromInt(2))
		f.selectCustomer(customer.ID)
		added := f.addModelPart("/models/bracket.stl")
		_, err := f.service.UpdatePart(ctx, UpdatePartRequest{
			PartID:     added.Parts[0].ID,
			MaterialID: &material.ID,
		})
		require.NoError(f.t, err)
	}

	t.Run("should allocate a number and clear the draft", func(t *testing.T) {
		f := newQuotingFixture(t)
		pricedDraft(f)

		quotation, err := f.service.SaveQuotation(ctx)

		require.NoError(t, err)
		assert.Contains(t, quotation.Number, "QTN-")
		assert.Equal(t, quoting.QuotationStatusDraft.String(), quotation.Status)
		assert.Equal(t, "Apex Engineering", quotation.CustomerName)
		// subtotal 240, home state splits the 18% into two halves
		assert.True(t, decimal.NewFromInt(240).Equal(quotation.Totals.Subtotal), "subtotal was %s", quotation.Totals.Subtotal)
		assert.Equal(t, string(pricing.TaxModeDual), quotation.Totals.TaxMode)
		assert.True(t, decimal.NewFromFloat(43.2).Equal(quotation.Totals.TaxTotal), "tax was %s", quotation.Totals.TaxTotal)
		assert.True(t, decimal.NewFromFloat(283.2).Equal(quotation.Totals.FinalPrice), "final price was %s", quotation.Totals.FinalPrice)

		draft, err := f.service.LoadDraft(ctx)
		require.NoError(t, err)
		assert.Empty(t, draft.Parts)
	})

	t.Run("should number consecutive quotations sequentially", func(t *testing.T) {
		f := newQuotingFixture(t)
		pricedDraft(f)
		first, err := f.service.SaveQuotation(ctx)
		require.NoError(t, err)

		f.selectCustomer(first.CustomerID)
		f.addModelPart("/models/second.stl")
		second, err := f.service.SaveQuotation(ctx)

		require.NoError(t, err)
		assert.NotEqual(t, first.Number, second.Number)
	})

	t.Run("should refuse to save without parts", func(t *testing.T) {
		f := newQuotingFixture(t)
		customer := f.createCustomer("Apex Engineering", "Maharashtra")
		f.selectCustomer(customer.ID)

		_, err := f.service.SaveQuotation(ctx)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("should refuse to save without a customer", func(t *testing.T) {
		f := newQuotingFixture(t)
		f.addModelPart("/models/bracket.stl")

		_, err := f.service.SaveQuotation(ctx)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("should keep id and number and reset status when re-saving an edit", func(t *testing.T) {
		f := newQuotingFixture(t)
		pricedDraft(f)
		saved, err := f.service.SaveQuotation(ctx)
		require.NoError(t, err)
		_, err = f.service.UpdateStatus(ctx, saved.ID, UpdateQuotationStatusRequest{Status: "SENT"})
		require.NoError(t, err)

		_, err = f.service.EditQuotation(ctx, saved.ID)
		require.NoError(t, err)
		notes := "Revised per customer call"
		_, err = f.service.UpdateDraft(ctx, UpdateDraftRequest{Notes: &notes})
		require.NoError(t, err)

		resaved, err := f.service.SaveQuotation(ctx)

		require.NoError(t, err)
		assert.Equal(t, saved.ID, resaved.ID)
		assert.Equal(t, saved.Number, resaved.Number)
		assert.Equal(t, quoting.QuotationStatusDraft.String(), resaved.Status)
		assert.Equal(t, notes, resaved.Notes)

		listed, err := f.service.ListQuotations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, listed.Total)
	})

	t.Run("should preserve service charges across an edit cycle", func(t *testing.T) {
		f := newQuotingFixture(t)
		pricedDraft(f)
		saved, err := f.service.SaveQuotation(ctx)
		require.NoError(t, err)
		_, err = f.service.AddServiceCharge(ctx, saved.ID, AddServiceChargeRequest{
			Description: "Expedited shipping",
			Amount:      decimal.NewFromInt(100),
		})
		require.NoError(t, err)

		_, err = f.service.EditQuotation(ctx, saved.ID)
		require.NoError(t, err)
		resaved, err := f.service.SaveQuotation(ctx)

		require.NoError(t, err)
		require.Len(t, resaved.ServiceCharges, 1)
		assert.Equal(t, "Expedited shipping", resaved.ServiceCharges[0].Description)
		assert.True(t, decimal.NewFromInt(100).Equal(resaved.Totals.ChargeTotal))
	})
}

func TestQuotingService_ServiceCharges(t *testing.T) {
	ctx := context.Background()

	save := func(f *quotingFixture) *QuotationResponse {
		f.t.Helper()
		customer := f.createCustomer("Apex Engineering", "Maharashtra")
		material := f.createMaterial(decimal.NewFromInt(2))
		f.selectCustomer(customer.ID)
		added := f.addModelPart("/models/bracket.stl")
		_, err := f.service.UpdatePart(ctx, UpdatePartRequest{
			PartID:     added.Parts[0].ID,
			MaterialID: &material.ID,
		})
		require.NoError(f.t, err)
		saved, err := f.service.SaveQuotation(ctx)
		require.NoError(f.t, err)
		return saved
	}

	t.Run("should tax charges alongside the part subtotal", func(t *testing.T) {
		f := newQuotingFixture(t)
		saved := save(f)

		updated, err := f.service.AddServiceCharge(ctx, saved.ID, AddServiceChargeRequest{
			Description: "Tooling setup",
			Amount:      decimal.NewFromInt(60),
		})

		require.NoError(t, err)
		// base 240 + 60 = 300, 18% of 300 = 54
		assert.True(t, decimal.NewFromInt(300).Equal(updated.Totals.BaseAmount), "base was %s", updated.Totals.BaseAmount)
		assert.True(t, decimal.NewFromInt(54).Equal(updated.Totals.TaxTotal), "tax was %s", updated.Totals.TaxTotal)
		assert.True(t, decimal.NewFromInt(354).Equal(updated.Totals.FinalPrice), "final price was %s", updated.Totals.FinalPrice)
	})

	t.Run("should recalculate after a charge is removed", func(t *testing.T) {
		f := newQuotingFixture(t)
		saved := save(f)
		withCharge, err := f.service.AddServiceCharge(ctx, saved.ID, AddServiceChargeRequest{
			Description: "Tooling setup",
			Amount:      decimal.NewFromInt(60),
		})
		require.NoError(t, err)

		updated, err := f.service.RemoveServiceCharge(ctx, saved.ID, withCharge.ServiceCharges[0].ID)

		require.NoError(t, err)
		assert.Empty(t, updated.ServiceCharges)
		assert.True(t, decimal.NewFromFloat(283.2).Equal(updated.Totals.FinalPrice), "final price was %s", updated.Totals.FinalPrice)
	})

	t.Run("should reject removing an unknown charge", func(t *testing.T) {
		f := newQuotingFixture(t)
		saved := save(f)

		_, err := f.service.RemoveServiceCharge(ctx, saved.ID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestQuotingService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	save := func(f *quotingFixture) *QuotationResponse {
		f.t.Helper()
		customer := f.createCustomer("Apex Engineering", "Gujarat")
		f.selectCustomer(customer.ID)
		f.addModelPart("/models/bracket.stl")
		saved, err := f.service.SaveQuotation(ctx)
		require.NoError(f.t, err)
		return saved
	}

	t.Run("should walk a quotation to approved", func(t *testing.T) {
		f := newQuotingFixture(t)
		saved := save(f)

		sent, err := f.service.UpdateStatus(ctx, saved.ID, UpdateQuotationStatusRequest{Status: "SENT"})
		require.NoError(t, err)
		assert.Equal(t, "SENT", sent.Status)

		approved, err := f.service.UpdateStatus(ctx, saved.ID, UpdateQuotationStatusRequest{Status: "APPROVED"})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", approved.Status)
	})

	t.Run("should reject leaving a terminal status", func(t *testing.T) {
		f := newQuotingFixture(t)
		saved := save(f)
		_, err := f.service.UpdateStatus(ctx, saved.ID, UpdateQuotationStatusRequest{Status: "REJECTED"})
		require.NoError(t, err)

		_, err = f.service.UpdateStatus(ctx, saved.ID, UpdateQuotationStatusRequest{Status: "SENT"})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("should reject an unknown status outright", func(t *testing.T) {
		f := newQuotingFixture(t)
		saved := save(f)

		_, err := f.service.UpdateStatus(ctx, saved.ID, UpdateQuotationStatusRequest{Status: "SHIPPED"})

		assert.Error(t, err)
	})
}
