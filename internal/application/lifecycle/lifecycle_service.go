package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/invoicing"
	"github.com/fabshop/backend/internal/domain/numbering"
	"github.com/fabshop/backend/internal/domain/partner"
	"github.com/fabshop/backend/internal/domain/production"
	"github.com/fabshop/backend/internal/domain/quoting"
	"github.com/fabshop/backend/internal/domain/shared"
)

// NumberAllocator issues the next document number for a family
type NumberAllocator interface {
	NextNumber(ctx context.Context, family numbering.Family) (string, error)
}

// LifecycleService coordinates the cross-aggregate document flow:
// promoting a quotation into an invoice with its production order, and
// the deletion cascades. The steps of a promotion share no transaction;
// each is persisted on its own and partial outcomes are surfaced to the
// caller instead of rolled back.
type LifecycleService struct {
	quotationRepo  quoting.QuotationRepository
	invoiceRepo    invoicing.InvoiceRepository
	orderRepo      production.OrderRepository
	customerRepo   partner.CustomerRepository
	numbers        NumberAllocator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(
	quotationRepo quoting.QuotationRepository,
	invoiceRepo invoicing.InvoiceRepository,
	orderRepo production.OrderRepository,
	customerRepo partner.CustomerRepository,
	numbers NumberAllocator,
	logger *zap.Logger,
) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		numbers:       numbers,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LifecycleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Promote turns a quotation into an invoice and its production order.
// Three steps run in order: create the invoice, delete the consumed
// quotation, create the order. A failure in step two or three leaves
// the earlier steps in place; the response flags report how far the
// promotion got so the consistency sweep can find the leftovers.
func (s *LifecycleService) Promote(ctx context.Context, quotationID uuid.UUID) (*PromoteResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	terms := s.effectiveTerms(ctx, quotation)
	dueDate := invoicing.DueDateFromTerms(terms, s.now())

	invoiceNumber, err := s.numbers.NextNumber(ctx, numbering.FamilyInvoice)
	if err != nil {
		return nil, err
	}

	invoice, err := invoicing.NewInvoice(invoiceNumber,
		invoicing.QuotationRef{ID: quotation.ID, Number: quotation.Number},
		quotation.CustomerID, quotation.CustomerName,
		quotation.Parts, quotation.DiscountPercent, quotation.ServiceCharges,
		quotation.Totals, terms, dueDate)
	if err != nil {
		return nil, err
	}
	invoice.LeadTime = quotation.Overrides.LeadTime
	invoice.Notes = quotation.Notes

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publish(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	response := &PromoteResponse{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.Number,
	}

	if err := s.quotationRepo.Delete(ctx, quotation.ID); err != nil {
		s.logger.Error("promotion left the source quotation behind",
			zap.String("quotation_id", quotation.ID.String()),
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	} else {
		response.QuotationDeleted = true
		s.publish(ctx, quoting.NewQuotationDeletedEvent(quotation, true))
	}

	order, err := s.createOrder(ctx, invoice, quotation)
	if err != nil {
		s.logger.Error("promotion left the invoice without an order",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	} else {
		response.OrderID = &order.ID
		response.OrderNumber = order.Number
		response.OrderCreated = true
	}

	s.logger.Info("quotation promoted",
		zap.String("quotation_number", quotation.Number),
		zap.String("invoice_number", invoice.Number),
		zap.Bool("quotation_deleted", response.QuotationDeleted),
		zap.Bool("order_created", response.OrderCreated),
	)

	return response, nil
}

func (s *LifecycleService) createOrder(ctx context.Context, invoice *invoicing.Invoice, quotation *quoting.Quotation) (*production.Order, error) {
	orderNumber, err := s.numbers.NextNumber(ctx, numbering.FamilyOrder)
	if err != nil {
		return nil, err
	}

	parts := make([]production.Part, len(invoice.Parts))
	for i, part := range invoice.Parts {
		parts[i] = production.Part{
			Serial:       part.Serial,
			Name:         part.Name,
			Geometry:     part.Geometry,
			ProcessName:  part.ProcessName,
			MaterialName: part.MaterialName,
			Quantity:     part.Quantity,
			Comment:      part.Comment,
		}
	}
	descriptions := make([]string, len(invoice.ServiceCharges))
	for i, charge := range invoice.ServiceCharges {
		descriptions[i] = charge.Description
	}

	order, err := production.NewOrder(orderNumber,
		production.InvoiceRef{ID: invoice.ID, Number: invoice.Number},
		invoice.CustomerID, invoice.CustomerName, parts, descriptions)
	if err != nil {
		return nil, err
	}
	order.LeadTime = quotation.Overrides.LeadTime
	order.Notes = quotation.Notes

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order.GetDomainEvents()...)
	order.ClearDomainEvents()

	return order, nil
}

// DeleteInvoice removes an invoice and the order it spawned. An
// already-missing order is not an error; promotion may never have
// created one.
func (s *LifecycleService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	order, err := s.orderRepo.FindByInvoiceID(ctx, id)
	switch {
	case err == nil:
		if err := s.orderRepo.Delete(ctx, order.ID); err != nil {
			return err
		}
		s.publish(ctx, production.NewOrderDeletedEvent(order))
	case errors.Is(err, shared.ErrNotFound):
		// nothing to cascade
	default:
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, invoicing.NewInvoiceDeletedEvent(invoice))

	s.logger.Info("invoice deleted",
		zap.String("invoice_id", id.String()),
		zap.String("number", invoice.Number),
	)

	return nil
}

// DeleteQuotation removes a never-promoted quotation
func (s *LifecycleService) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, quoting.NewQuotationDeletedEvent(quotation, false))

	return nil
}

// CheckConsistency sweeps for the leftovers a non-transactional
// promotion can strand: invoices whose consumed quotation still exists
// and invoices with no dependent order. The report is read-only.
func (s *LifecycleService) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		UnconsumedQuotations: make([]ConsistencyIssue, 0),
		InvoicesWithoutOrder: make([]ConsistencyIssue, 0),
	}

	for i := range invoices {
		invoice := &invoices[i]

		if _, err := s.quotationRepo.FindByID(ctx, invoice.SourceQuotation.ID); err == nil {
			report.UnconsumedQuotations = append(report.UnconsumedQuotations, ConsistencyIssue{
				InvoiceID:     invoice.ID,
				InvoiceNumber: invoice.Number,
				Detail:        "source quotation " + invoice.SourceQuotation.Number + " was not deleted during promotion",
			})
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		if _, err := s.orderRepo.FindByInvoiceID(ctx, invoice.ID); errors.Is(err, shared.ErrNotFound) {
			report.InvoicesWithoutOrder = append(report.InvoicesWithoutOrder, ConsistencyIssue{
				InvoiceID:     invoice.ID,
				InvoiceNumber: invoice.Number,
				Detail:        "no production order references this invoice",
			})
		} else if err != nil {
			return nil, err
		}
	}

	report.Clean = len(report.UnconsumedQuotations) == 0 && len(report.InvoicesWithoutOrder) == 0
	return report, nil
}

// effectiveTerms resolves the payment terms an invoice is issued
// under: the quotation override wins, then the customer default
func (s *LifecycleService) effectiveTerms(ctx context.Context, quotation *quoting.Quotation) string {
	if quotation.Overrides.PaymentTerms != "" {
		return quotation.Overrides.PaymentTerms
	}
	customer, err := s.customerRepo.FindByID(ctx, quotation.CustomerID)
	if err != nil {
		s.logger.Warn("quotation customer missing, using default payment terms",
			zap.String("quotation_id", quotation.ID.String()),
			zap.String("customer_id", quotation.CustomerID.String()),
		)
		return ""
	}
	return customer.PaymentTerms
}

func (s *LifecycleService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
