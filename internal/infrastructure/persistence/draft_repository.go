package persistence

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fabshop/backend/internal/domain/quoting"
	"github.com/fabshop/backend/internal/domain/shared"
)

// DraftRepository persists the single draft workspace. The staleness
// check runs lazily on load: an untouched draft past its TTL is
// discarded and a fresh empty one returned.
type DraftRepository struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftRepository creates a draft repository with the given
// staleness TTL
func NewDraftRepository(store Store, ttl time.Duration, logger *zap.Logger) *DraftRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = quoting.DefaultDraftTTL
	}
	return &DraftRepository{store: store, ttl: ttl, logger: logger, now: time.Now}
}

// Load returns the current draft workspace, discarding a stale one
func (r *DraftRepository) Load(ctx context.Context) (*quoting.DraftWorkspace, error) {
	raw, ok, err := r.store.Get(ctx, KeyDraft)
	if err != nil {
		r.logger.Warn("failed to read draft workspace, starting fresh", zap.Error(err))
		return quoting.NewDraftWorkspace(), nil
	}
	if !ok {
		return quoting.NewDraftWorkspace(), nil
	}

	var draft quoting.DraftWorkspace
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		r.logger.Warn("corrupt draft workspace, starting fresh", zap.Error(err))
		return quoting.NewDraftWorkspace(), nil
	}

	if draft.Stale(r.now(), r.ttl) {
		r.logger.Info("discarding stale draft workspace",
			zap.Time("last_modified", draft.LastModified),
			zap.Duration("ttl", r.ttl),
		)
		if err := r.store.Remove(ctx, KeyDraft); err != nil {
			r.logger.Warn("failed to remove stale draft", zap.Error(err))
		}
		return quoting.NewDraftWorkspace(), nil
	}

	return &draft, nil
}

// Save persists the draft workspace
func (r *DraftRepository) Save(ctx context.Context, draft *quoting.DraftWorkspace) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return shared.NewDomainError("PERSISTENCE_ERROR", "Failed to serialize draft workspace")
	}
	if err := r.store.Set(ctx, KeyDraft, string(raw)); err != nil {
		r.logger.Error("failed to write draft workspace", zap.Error(err))
		return shared.NewDomainError("PERSISTENCE_ERROR", "Failed to persist draft workspace")
	}
	if err := r.store.Set(ctx, LastUpdatedKey(KeyDraft), r.now().Format(time.RFC3339)); err != nil {
		r.logger.Warn("failed to write draft last-updated timestamp", zap.Error(err))
	}
	return nil
}

// Clear discards the draft workspace
func (r *DraftRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, KeyDraft); err != nil {
		r.logger.Error("failed to clear draft workspace", zap.Error(err))
		return shared.NewDomainError("PERSISTENCE_ERROR", "Failed to clear draft workspace")
	}
	return nil
}

var _ quoting.DraftRepository = (*DraftRepository)(nil)
