package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/numbering"
	"github.com/fabshop/backend/internal/domain/shared"
	"github.com/fabshop/backend/internal/infrastructure/config"
)

// NumberAllocator issues document numbers, persisting the per-family
// counters so sequences survive restarts. Counters only advance:
// deleting a document never releases its serial.
type NumberAllocator struct {
	store      Store
	logger     *zap.Logger
	mu         sync.Mutex
	generators map[numbering.Family]*numbering.Generator
	keys       map[numbering.Family]string
	now        func() time.Time
}

// NewNumberAllocator builds an allocator from the numbering configuration
func NewNumberAllocator(store Store, cfg config.NumberingConfig, logger *zap.Logger) (*NumberAllocator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	generators := make(map[numbering.Family]*numbering.Generator, 3)
	for family, prefix := range map[numbering.Family]string{
		numbering.FamilyQuotation: cfg.QuotationPrefix,
		numbering.FamilyInvoice:   cfg.InvoicePrefix,
		numbering.FamilyOrder:     cfg.OrderPrefix,
	} {
		gen, err := numbering.NewGenerator(prefix, cfg.SerialWidth)
		if err != nil {
			return nil, err
		}
		generators[family] = gen
	}

	return &NumberAllocator{
		store:      store,
		logger:     logger,
		generators: generators,
		keys: map[numbering.Family]string{
			numbering.FamilyQuotation: KeyNextQuotationNumber,
			numbering.FamilyInvoice:   KeyNextInvoiceNumber,
			numbering.FamilyOrder:     KeyNextOrderNumber,
		},
		now: time.Now,
	}, nil
}

// NextNumber issues the next number for the family and persists the
// advanced counter. The counter is persisted before the number is
// handed out, so a later persistence failure cannot cause a duplicate.
func (a *NumberAllocator) NextNumber(ctx context.Context, family numbering.Family) (string, error) {
	gen, ok := a.generators[family]
	if !ok {
		return "", shared.NewDomainError("INVALID_NUMBER_FAMILY", "Unknown document number family: "+family.String())
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	counter := a.loadCounter(ctx, family)
	number, advanced := gen.Next(counter, a.now())

	raw, err := json.Marshal(advanced)
	if err != nil {
		return "", shared.NewDomainError("PERSISTENCE_ERROR", "Failed to serialize number counter")
	}
	if err := a.store.Set(ctx, a.keys[family], string(raw)); err != nil {
		a.logger.Error("failed to persist number counter",
			zap.String("family", family.String()),
			zap.Error(err),
		)
		return "", shared.NewDomainError("PERSISTENCE_ERROR", "Failed to persist number counter")
	}

	return number, nil
}

// Peek returns the number the family would issue next without advancing
// the counter
func (a *NumberAllocator) Peek(ctx context.Context, family numbering.Family) (string, error) {
	gen, ok := a.generators[family]
	if !ok {
		return "", shared.NewDomainError("INVALID_NUMBER_FAMILY", "Unknown document number family: "+family.String())
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	number, _ := gen.Next(a.loadCounter(ctx, family), a.now())
	return number, nil
}

func (a *NumberAllocator) loadCounter(ctx context.Context, family numbering.Family) numbering.Counter {
	raw, ok, err := a.store.Get(ctx, a.keys[family])
	if err != nil {
		a.logger.Warn("failed to read number counter, starting from initial state",
			zap.String("family", family.String()),
			zap.Error(err),
		)
		return numbering.NewCounter()
	}
	if !ok {
		return numbering.NewCounter()
	}

	var counter numbering.Counter
	if err := json.Unmarshal([]byte(raw), &counter); err != nil {
		a.logger.Warn("corrupt number counter, starting from initial state",
			zap.String("family", family.String()),
			zap.Error(err),
		)
		return numbering.NewCounter()
	}
	return counter
}
