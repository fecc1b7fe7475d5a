package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/shared"
)

type testRecord struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ============================================================================
// Collection Tests
// ============================================================================

func TestCollection_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	coll := newCollection[testRecord](store, "test_records", zap.NewNop())
	err := coll.replace(ctx, []testRecord{{Name: "bracket", Count: 2}})
	require.NoError(t, err)

	// A fresh collection over the same store reads the persisted value
	reloaded := newCollection[testRecord](store, "test_records", zap.NewNop())
	items := reloaded.load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "bracket", items[0].Name)
	assert.Equal(t, 2, items[0].Count)
}

func TestCollection_WritesLastUpdatedTimestamp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	coll := newCollection[testRecord](store, "test_records", zap.NewNop())
	require.NoError(t, coll.replace(ctx, []testRecord{{Name: "flange"}}))

	raw, ok, err := store.Get(ctx, LastUpdatedKey("test_records"))
	require.NoError(t, err)
	require.True(t, ok)

	stamp, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), stamp, time.Minute)
}

func TestCollection_ReadFailureDegradesToEmpty(t *testing.T) {
	store := &failingStore{inner: NewMemoryStore(), failGet: true}
	ctx := context.Background()

	coll := newCollection[testRecord](store, "test_records", zap.NewNop())
	assert.Empty(t, coll.load(ctx))
}

func TestCollection_CorruptValueDegradesToEmpty(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "test_records", "not json at all"))

	coll := newCollection[testRecord](store, "test_records", zap.NewNop())
	assert.Empty(t, coll.load(ctx))
}

func TestCollection_WriteFailureKeepsMemoryState(t *testing.T) {
	store := &failingStore{inner: NewMemoryStore(), failSet: true}
	ctx := context.Background()

	coll := newCollection[testRecord](store, "test_records", zap.NewNop())
	err := coll.mutate(ctx, func(items []testRecord) ([]testRecord, error) {
		return append(items, testRecord{Name: "gusset"}), nil
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "PERSISTENCE_ERROR", domainErr.Code)

	// The mutation survives in memory so the operator can retry
	items := coll.load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "gusset", items[0].Name)
}

func TestCollection_TimestampFailureDoesNotFailWrite(t *testing.T) {
	// First Set (the collection itself) succeeds, the timestamp write
	// fails; the mutation must still be reported as durable.
	store := &failingStore{inner: NewMemoryStore(), failNext: true}
	ctx := context.Background()

	coll := newCollection[testRecord](store, "test_records", zap.NewNop())
	err := coll.replace(ctx, []testRecord{{Name: "shaft"}})
	require.NoError(t, err)

	_, ok, getErr := store.inner.Get(ctx, "test_records")
	require.NoError(t, getErr)
	assert.True(t, ok)
}

func TestCollection_MutateErrorAborts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	coll := newCollection[testRecord](store, "test_records", zap.NewNop())
	require.NoError(t, coll.replace(ctx, []testRecord{{Name: "pin"}}))

	err := coll.mutate(ctx, func(items []testRecord) ([]testRecord, error) {
		return nil, shared.ErrNotFound
	})
	require.ErrorIs(t, err, shared.ErrNotFound)

	items := coll.load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "pin", items[0].Name)
}
