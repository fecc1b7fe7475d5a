package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/shared"
)

// collection persists one logical collection as a single serialized
// value under its key, with a companion last-updated timestamp written
// on every mutation. The working copy lives in memory: a failed read
// degrades to an empty collection with a logged warning, and a failed
// write keeps the mutated in-memory state so the operator can retry.
type collection[T any] struct {
	store  Store
	key    string
	logger *zap.Logger

	mu     sync.Mutex
	items  []T
	loaded bool
}

func newCollection[T any](store Store, key string, logger *zap.Logger) *collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &collection[T]{store: store, key: key, logger: logger}
}

// load returns the working copy, reading it from the store on first
// use. Read failures and corrupt values are recovered by starting from
// an empty collection rather than crashing.
func (c *collection[T]) load(ctx context.Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

func (c *collection[T]) loadLocked(ctx context.Context) []T {
	if c.loaded {
		return c.items
	}

	c.items = make([]T, 0)
	c.loaded = true

	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("failed to read collection, starting from empty",
			zap.String("key", c.key),
			zap.Error(err),
		)
		return c.items
	}
	if !ok {
		return c.items
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warn("corrupt collection value, starting from empty",
			zap.String("key", c.key),
			zap.Error(err),
		)
		return c.items
	}

	c.items = items
	return c.items
}

// replace swaps in a new working copy and writes it through. The
// in-memory copy is updated before the write so a persistence failure
// leaves state retryable.
func (c *collection[T]) replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = items
	c.loaded = true

	return c.persistLocked(ctx)
}

// mutate loads the working copy, applies fn to it and writes the
// result through. fn errors abort without touching memory or store.
func (c *collection[T]) mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.loadLocked(ctx)
	updated, err := fn(items)
	if err != nil {
		return err
	}

	c.items = updated
	return c.persistLocked(ctx)
}

func (c *collection[T]) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(c.items)
	if err != nil {
		return shared.NewDomainError("PERSISTENCE_ERROR", "Failed to serialize collection "+c.key)
	}

	if err := c.store.Set(ctx, c.key, string(raw)); err != nil {
		c.logger.Error("failed to write collection, in-memory state kept",
			zap.String("key", c.key),
			zap.Error(err),
		)
		return shared.NewDomainError("PERSISTENCE_ERROR", "Failed to persist collection "+c.key)
	}

	if err := c.store.Set(ctx, LastUpdatedKey(c.key), time.Now().Format(time.RFC3339)); err != nil {
		// The collection itself is durable; losing the timestamp only
		// degrades display metadata.
		c.logger.Warn("failed to write last-updated timestamp",
			zap.String("key", c.key),
			zap.Error(err),
		)
	}

	return nil
}
