package adapters

import (
	"context"
	"testing"
	"time"

	"dhl-express-manager/internal/core/cache"
	"dhl-express-manager/internal/features/activity/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogRepo(t *testing.T) (*RedisLogRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewRedisLogRepository(store), mr
}

// TestRedisLogRepository_SaveList verifies the round trip and newest-first ordering.
func TestRedisLogRepository_SaveList(t *testing.T) {
	repo, _ := newTestLogRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	older := domain.NewEntry(domain.ActionAddShipment, "Added new shipment 111", "111", base)
	newer := domain.NewEntry(domain.ActionUpdateStatus, "Status changed to Delivered", "111", base.Add(time.Minute))

	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	entries, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, newer.ID, entries[0].ID)
	assert.Equal(t, older.ID, entries[1].ID)
	assert.Equal(t, domain.ActionAddShipment, entries[1].Action)
	assert.Equal(t, "111", entries[1].RelatedShipmentID)
}

// TestRedisLogRepository_SaveIdempotent verifies repeated saves never duplicate.
func TestRedisLogRepository_SaveIdempotent(t *testing.T) {
	repo, _ := newTestLogRepo(t)
	ctx := context.Background()

	entry := domain.NewEntry(domain.ActionBulkUpdate, "Refreshed status for 2 shipments", "", time.Now())

	require.NoError(t, repo.Save(ctx, entry))
	require.NoError(t, repo.Save(ctx, entry))
	require.NoError(t, repo.Save(ctx, entry))

	entries, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestRedisLogRepository_Limit verifies the retrieval cap.
func TestRedisLogRepository_Limit(t *testing.T) {
	repo, _ := newTestLogRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := domain.NewEntry(domain.ActionAddShipment, "Added new shipment", "", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Save(ctx, entry))
	}

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// The two most recent.
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))
	assert.Equal(t, base.Add(4*time.Second), entries[0].Timestamp)
}

// TestRedisLogRepository_SkipsMalformed verifies broken records are skipped.
func TestRedisLogRepository_SkipsMalformed(t *testing.T) {
	repo, mr := newTestLogRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.NewEntry(domain.ActionAddShipment, "Added new shipment 111", "111", time.Now())))
	mr.Set("activity:broken", "{not json")

	entries, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
