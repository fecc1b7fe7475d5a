package printing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/invoicing"
	"github.com/fabshop/backend/internal/domain/partner"
	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/domain/production"
	"github.com/fabshop/backend/internal/domain/quoting"
	"github.com/fabshop/backend/internal/domain/shared"
)

// PrintService assembles render payloads for the shop's documents. It
// is a pure read: references are resolved against the current registry
// and missing ones degrade to placeholders so a document always prints.
type PrintService struct {
	quotationRepo quoting.QuotationRepository
	invoiceRepo   invoicing.InvoiceRepository
	orderRepo     production.OrderRepository
	customerRepo  partner.CustomerRepository
	renderer      Renderer
	logger        *zap.Logger
}

// NewPrintService creates a new PrintService
func NewPrintService(
	quotationRepo quoting.QuotationRepository,
	invoiceRepo invoicing.InvoiceRepository,
	orderRepo production.OrderRepository,
	customerRepo partner.CustomerRepository,
	renderer Renderer,
	logger *zap.Logger,
) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		renderer:      renderer,
		logger:        logger,
	}
}

// PrintQuotation renders a saved quotation
func (s *PrintService) PrintQuotation(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validUntil := quotation.ValidUntil
	payload := RenderPayload{
		Kind:         DocumentKindQuotation,
		Title:        "Quotation",
		Number:       quotation.Number,
		IssuedOn:     quotation.CreatedAt,
		Status:       quotation.Status.String(),
		Customer:     s.resolveParty(ctx, quotation.CustomerID, quotation.CustomerName),
		Lines:        toLineBlocks(quotation.Parts),
		Charges:      toChargeBlocks(quotation.ServiceCharges),
		Totals:       toTotalsBlock(quotation.Totals),
		PaymentTerms: quotation.Overrides.PaymentTerms,
		LeadTime:     quotation.Overrides.LeadTime,
		Notes:        quotation.Notes,
		ValidUntil:   &validUntil,
	}

	return s.renderer.Render(ctx, payload)
}

// PrintInvoice renders an invoice with its payment ledger
func (s *PrintService) PrintInvoice(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dueDate := invoice.DueDate
	payload := RenderPayload{
		Kind:         DocumentKindInvoice,
		Title:        "Tax Invoice",
		Number:       invoice.Number,
		IssuedOn:     invoice.CreatedAt,
		Status:       invoice.Status.String(),
		Customer:     s.resolveParty(ctx, invoice.CustomerID, invoice.CustomerName),
		Lines:        toLineBlocks(invoice.Parts),
		Charges:      toChargeBlocks(invoice.ServiceCharges),
		Totals:       toTotalsBlock(invoice.Totals),
		Payments:     toPaymentBlocks(invoice.Payments),
		TotalPaid:    invoice.TotalPaid,
		Remaining:    invoice.RemainingAmount,
		PaymentTerms: invoice.PaymentTerms,
		LeadTime:     invoice.LeadTime,
		Notes:        invoice.Notes,
		DueDate:      &dueDate,
		SourceNumber: invoice.SourceQuotation.Number,
	}

	return s.renderer.Render(ctx, payload)
}

// PrintOrder renders a production order: geometry, quantities and
// routing, no money
func (s *PrintService) PrintOrder(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := RenderPayload{
		Kind:          DocumentKindOrder,
		Title:         "Production Order",
		Number:        order.Number,
		IssuedOn:      order.CreatedAt,
		Status:        order.Status.String(),
		Customer:      s.resolveParty(ctx, order.CustomerID, order.CustomerName),
		Lines:         orderLineBlocks(order.Parts),
		LeadTime:      order.LeadTime,
		Notes:         order.Notes,
		SourceNumber:  order.Invoice.Number,
		ChargeSummary: order.ChargeDescriptions,
	}

	return s.renderer.Render(ctx, payload)
}

// PrintManifest renders the parts-only manifest of a quotation: the
// checklist the shop walks before committing to a price. No totals, no
// charges.
func (s *PrintService) PrintManifest(ctx context.Context, quotationID uuid.UUID) (*Artifact, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	payload := RenderPayload{
		Kind:     DocumentKindManifest,
		Title:    "Parts Manifest",
		Number:   quotation.Number,
		IssuedOn: time.Now(),
		Customer: s.resolveParty(ctx, quotation.CustomerID, quotation.CustomerName),
		Lines:    toLineBlocks(quotation.Parts),
	}

	return s.renderer.Render(ctx, payload)
}

// resolveParty looks the customer up in the registry. A deleted
// customer degrades to a placeholder built from the document's name
// snapshot; printing never fails on the gap.
func (s *PrintService) resolveParty(ctx context.Context, customerID uuid.UUID, nameSnapshot string) PartyBlock {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("customer lookup failed while printing",
				zap.String("customer_id", customerID.String()),
				zap.Error(err),
			)
		}
		return PartyBlock{Name: nameSnapshot, Placeholder: true}
	}

	address := customer.ShippingAddress
	return PartyBlock{
		Name:         customer.Name,
		ContactName:  customer.ContactName,
		Phone:        customer.Phone,
		Email:        customer.Email,
		Street:       address.Street(),
		City:         address.City(),
		Jurisdiction: address.Jurisdiction(),
		PostalCode:   address.PostalCode(),
		Country:      address.Country(),
	}
}

func toLineBlocks(parts []pricing.Part) []LineBlock {
	lines := make([]LineBlock, len(parts))
	for i, part := range parts {
		line := LineBlock{
			Serial:       part.Serial,
			Name:         part.Name,
			ProcessName:  part.ProcessName,
			MaterialName: part.MaterialName,
			Volume:       part.Geometry.Volume(),
			Quantity:     part.Quantity,
			UnitPrice:    part.Pricing.UnitPrice,
			LineTotal:    part.Pricing.LineTotal,
			Comment:      part.Comment,
		}
		if box, ok := part.Geometry.BoundingBox(); ok {
			line.BoundingBox = box.String()
		}
		lines[i] = line
	}
	return lines
}

func orderLineBlocks(parts []production.Part) []LineBlock {
	lines := make([]LineBlock, len(parts))
	for i, part := range parts {
		line := LineBlock{
			Serial:       part.Serial,
			Name:         part.Name,
			ProcessName:  part.ProcessName,
			MaterialName: part.MaterialName,
			Volume:       part.Geometry.Volume(),
			Quantity:     part.Quantity,
			Comment:      part.Comment,
		}
		if box, ok := part.Geometry.BoundingBox(); ok {
			line.BoundingBox = box.String()
		}
		lines[i] = line
	}
	return lines
}

func toChargeBlocks(charges []pricing.ServiceCharge) []ChargeBlock {
	if len(charges) == 0 {
		return nil
	}
	blocks := make([]ChargeBlock, len(charges))
	for i, charge := range charges {
		blocks[i] = ChargeBlock{Description: charge.Description, Amount: charge.Amount}
	}
	return blocks
}

func toTotalsBlock(totals pricing.DocumentTotals) *TotalsBlock {
	return &TotalsBlock{
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		ChargeTotal:    totals.ChargeTotal,
		BaseAmount:     totals.BaseAmount,
		TaxComponentA:  totals.Tax.ComponentA,
		TaxComponentB:  totals.Tax.ComponentB,
		TaxComponentC:  totals.Tax.ComponentC,
		TaxTotal:       totals.Tax.Total,
		TaxMode:        totals.Tax.Mode.String(),
		FinalPrice:     totals.FinalPrice,
	}
}

func toPaymentBlocks(payments []invoicing.Payment) []PaymentBlock {
	if len(payments) == 0 {
		return nil
	}
	blocks := make([]PaymentBlock, len(payments))
	for i, payment := range payments {
		blocks[i] = PaymentBlock{
			Date:      payment.Date,
			Amount:    payment.Amount,
			Method:    payment.Method.String(),
			Reference: payment.Reference,
		}
	}
	return blocks
}
