package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore wraps a Store and fails selected operations, for
// exercising the degraded read/write paths.
type failingStore struct {
	inner    Store
	failGet  bool
	failSet  bool
	failNext bool // fail only set calls after the first
	setCalls int
}

func (s *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errors.New("store unavailable")
	}
	return s.inner.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	s.setCalls++
	if s.failSet || (s.failNext && s.setCalls > 1) {
		return errors.New("store unavailable")
	}
	return s.inner.Set(ctx, key, value)
}

func (s *failingStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

// ============================================================================
// MemoryStore Tests
// ============================================================================

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "customers", `[]`))

	value, ok, err := store.Get(ctx, "customers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Overwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "first"))
	require.NoError(t, store.Set(ctx, "key", "second"))

	value, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Remove(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value"))
	require.NoError(t, store.Remove(ctx, "key"))

	_, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error
	require.NoError(t, store.Remove(ctx, "key"))
}

func TestLastUpdatedKey(t *testing.T) {
	assert.Equal(t, "customers_last_updated", LastUpdatedKey(KeyCustomers))
	assert.Equal(t, "quotations_last_updated", LastUpdatedKey(KeyQuotations))
}
