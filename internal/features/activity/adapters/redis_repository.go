package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"dhl-express-manager/internal/core/cache"
	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/features/activity/domain"

	"go.uber.org/zap"
)

const entryKeyPrefix = "activity:"

// RedisLogRepository implements ports.LogRepository on the store adapter.
// Entries are keyed by their log id, so a repeated Save of the same entry is
// a no-op overwrite rather than a duplicate.
type RedisLogRepository struct {
	store  cache.Store
	logger *zap.Logger
}

// NewRedisLogRepository creates a new RedisLogRepository.
func NewRedisLogRepository(s cache.Store) *RedisLogRepository {
	return &RedisLogRepository{
		store:  s,
		logger: logger.Get(),
	}
}

// List returns up to limit entries, newest first.
func (r *RedisLogRepository) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	keys, err := r.store.Scan(ctx, entryKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	entries := make([]domain.Entry, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("Failed to read log entry", zap.String("key", key), zap.Error(err))
			continue
		}

		var entry domain.Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			r.logger.Warn("Skipping malformed log entry", zap.String("key", key), zap.Error(err))
			continue
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		// The millisecond-prefixed ids break timestamp ties deterministically.
		return entries[i].ID > entries[j].ID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// Save upserts the entry keyed by its log id.
func (r *RedisLogRepository) Save(ctx context.Context, entry domain.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry %s: %w", entry.ID, err)
	}

	if err := r.store.Set(ctx, entryKeyPrefix+entry.ID, data); err != nil {
		return fmt.Errorf("failed to save log entry %s: %w", entry.ID, err)
	}

	return nil
}
