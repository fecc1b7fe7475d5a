package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubDocumentEvent implements DomainEvent for testing
type stubDocumentEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

func newStubDocumentEvent(eventType string) *stubDocumentEvent {
	return &stubDocumentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Quotation", uuid.New()),
		Number:          "QTN-260830-0001",
	}
}

// recordingHandler implements EventHandler for testing
type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *recordingHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("QuotationCreated")
	bus.Subscribe(handler, "QuotationCreated")

	event := newStubDocumentEvent("QuotationCreated")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("QuotationCreated")
	bus.Subscribe(handler, "QuotationCreated")

	event1 := newStubDocumentEvent("QuotationCreated")
	event2 := newStubDocumentEvent("QuotationCreated")
	err := bus.Publish(context.Background(), event1, event2)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newRecordingHandler("InvoicePaid")
	handler2 := newRecordingHandler("InvoicePaid")
	bus.Subscribe(handler1, "InvoicePaid")
	bus.Subscribe(handler2, "InvoicePaid")

	event := newStubDocumentEvent("InvoicePaid")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcardHandler := newRecordingHandler() // no event types, sees everything
	bus.Subscribe(wildcardHandler)

	event := newStubDocumentEvent("OrderStatusChanged")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, wildcardHandler.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newRecordingHandler("InvoiceCreated")
	handler1.setError(errors.New("handler error"))
	handler2 := newRecordingHandler("InvoiceCreated")
	bus.Subscribe(handler1, "InvoiceCreated")
	bus.Subscribe(handler2, "InvoiceCreated")

	event := newStubDocumentEvent("InvoiceCreated")
	err := bus.Publish(context.Background(), event)

	// one handler failing must not starve the others
	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := &panickingHandler{}
	survivor := newRecordingHandler("OrderCreated")
	bus.Subscribe(panicking, "OrderCreated")
	bus.Subscribe(survivor, "OrderCreated")

	event := newStubDocumentEvent("OrderCreated")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, survivor.getHandled(), 1)
}

type panickingHandler struct{}

func (h *panickingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	panic("subscriber bug")
}

func (h *panickingHandler) EventTypes() []string { return nil }

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("CustomerCreated")
	bus.Subscribe(handler, "CustomerCreated")

	event := newStubDocumentEvent("QuotationCreated")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 0)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler("QuotationDeleted")
	bus.Subscribe(handler, "QuotationDeleted")

	event1 := newStubDocumentEvent("QuotationDeleted")
	_ = bus.Publish(context.Background(), event1)
	assert.Len(t, handler.getHandled(), 1)

	bus.Unsubscribe(handler)

	event2 := newStubDocumentEvent("QuotationDeleted")
	_ = bus.Publish(context.Background(), event2)
	assert.Len(t, handler.getHandled(), 1) // still 1, not 2
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	ctx := context.Background()
	err := bus.Start(ctx)
	require.NoError(t, err)

	handler := newRecordingHandler("InvoiceCreated")
	bus.Subscribe(handler, "InvoiceCreated")
	event := newStubDocumentEvent("InvoiceCreated")
	err = bus.Publish(ctx, event)
	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err = bus.Stop(ctx)
	require.NoError(t, err)
}
