package invoicing

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/invoicing"
	"github.com/fabshop/backend/internal/domain/shared"
)

var validate = validator.New()

// InvoiceService handles invoice reads, operator status transitions
// and the payment ledger. Invoices are only created by promotion; see
// the lifecycle service.
type InvoiceService struct {
	invoiceRepo    invoicing.InvoiceRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo invoicing.InvoiceRepository, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Get retrieves an invoice by ID
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, time.Now()), nil
}

// List returns every invoice, newest first
func (s *InvoiceService) List(ctx context.Context) (*ListInvoicesResponse, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *toInvoiceResponse(&invoices[i], now)
	}
	return &ListInvoicesResponse{Invoices: responses, Total: len(responses)}, nil
}

// UpdateStatus performs an operator-driven status transition. The Paid
// status is derived from the ledger and rejected here.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateInvoiceStatusRequest) (*InvoiceResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := invoicing.InvoiceStatus(strings.ToUpper(req.Status))
	if err := invoice.UpdateStatus(target); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	s.logger.Info("invoice status updated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("status", invoice.Status.String()),
	)

	return toInvoiceResponse(invoice, time.Now()), nil
}

// RecordPayment appends a payment to the invoice ledger. The ledger
// recomputes its totals from the full list and may flip the invoice to
// Paid when nothing remains.
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	payment, err := invoicing.NewPayment(req.Amount, date, invoicing.PaymentMethod(req.Method), req.Reference, req.Note)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.AddPayment(payment); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	s.logger.Info("payment recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("remaining", invoice.RemainingAmount.String()),
	)

	return toInvoiceResponse(invoice, time.Now()), nil
}

// RemovePayment deletes a mis-entered payment from the ledger. A paid
// invoice reopens to Sent or Overdue when its balance reappears.
func (s *InvoiceService) RemovePayment(ctx context.Context, id, paymentID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.RemovePayment(paymentID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	return toInvoiceResponse(invoice, time.Now()), nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *invoicing.Invoice) {
	if s.eventPublisher != nil {
		events := invoice.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
	}
	invoice.ClearDomainEvents()
}
