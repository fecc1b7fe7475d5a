package testutil

import (
	"context"
	"sync"

	"github.com/fabshop/backend/internal/domain/shared"
)

// EventRecorder is a shared.EventHandler that records every event it
// receives. Subscribe it to the bus with no event types to capture
// everything.
type EventRecorder struct {
	mu         sync.Mutex
	eventTypes []string
	recorded   []shared.DomainEvent
}

// NewEventRecorder creates a recorder limited to the given event
// types, or to all events when none are named
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{
		eventTypes: eventTypes,
		recorded:   make([]shared.DomainEvent, 0),
	}
}

// EventTypes returns the event types this recorder subscribes to
func (r *EventRecorder) EventTypes() []string {
	return r.eventTypes
}

// Handle records the event
func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, event)
	return nil
}

// Recorded returns a copy of everything recorded so far
func (r *EventRecorder) Recorded() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, len(r.recorded))
	copy(out, r.recorded)
	return out
}

// TypesSeen returns the recorded event types in arrival order
func (r *EventRecorder) TypesSeen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.recorded))
	for i, event := range r.recorded {
		types[i] = event.EventType()
	}
	return types
}

// Reset clears the recording
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = r.recorded[:0]
}

var _ shared.EventHandler = (*EventRecorder)(nil)
