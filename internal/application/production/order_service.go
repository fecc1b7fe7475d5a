package production

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/production"
	"github.com/fabshop/backend/internal/domain/shared"
)

var validate = validator.New()

// OrderService handles production order reads, floor status
// transitions and annotations. Orders are created and destroyed by the
// lifecycle service alongside their invoice, never here.
type OrderService struct {
	orderRepo      production.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo production.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Get retrieves a production order by ID
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByInvoice retrieves the order spawned by the given invoice
func (s *OrderService) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// List returns every production order, newest first
func (s *OrderService) List(ctx context.Context) (*ListOrdersResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = *toOrderResponse(&orders[i])
	}
	return &ListOrdersResponse{Orders: responses, Total: len(responses)}, nil
}

// UpdateStatus moves an order along the production flow
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := production.OrderStatus(strings.ToUpper(req.Status))
	if err := order.UpdateStatus(target); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	s.logger.Info("order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("status", order.Status.String()),
	)

	return toOrderResponse(order), nil
}

// Update edits the lead time and notes annotations
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LeadTime != nil {
		order.SetLeadTime(*req.LeadTime)
	}
	if req.Notes != nil {
		order.SetNotes(*req.Notes)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return toOrderResponse(order), nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *production.Order) {
	if s.eventPublisher != nil {
		events := order.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
	}
	order.ClearDomainEvents()
}
