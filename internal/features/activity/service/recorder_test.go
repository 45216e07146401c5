package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dhl-express-manager/internal/features/activity/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLogRepository is an in-memory LogRepository for testing.
type fakeLogRepository struct {
	mu      sync.Mutex
	saved   map[string]domain.Entry
	listErr error
	saveErr error
}

func newFakeLogRepository() *fakeLogRepository {
	return &fakeLogRepository{saved: make(map[string]domain.Entry)}
}

func (f *fakeLogRepository) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Entry, 0, len(f.saved))
	for _, e := range f.saved {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeLogRepository) Save(ctx context.Context, entry domain.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[entry.ID] = entry
	return nil
}

// TestRecorder_Record verifies prepend ordering and async persistence.
func TestRecorder_Record(t *testing.T) {
	repo := newFakeLogRepository()
	rec := NewRecorder(repo)

	first := rec.Record(domain.ActionAddShipment, "Added new shipment 111", "111")
	second := rec.Record(domain.ActionAddPIC, "Assigned PIC: Alice", "111")

	entries := rec.Entries(0)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)

	rec.Flush()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.saved, 2)
	assert.Equal(t, domain.ActionAddShipment, repo.saved[first.ID].Action)
}

// TestRecorder_UniqueIDs verifies entry ids do not collide under quick succession.
func TestRecorder_UniqueIDs(t *testing.T) {
	rec := NewRecorder(newFakeLogRepository())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		e := rec.Record(domain.ActionBulkUpdate, "Refreshed status for 0 shipments", "")
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
	rec.Flush()
}

// TestRecorder_PersistenceFailureDoesNotRollBack verifies the in-memory log
// keeps the entry even when the store write fails.
func TestRecorder_PersistenceFailureDoesNotRollBack(t *testing.T) {
	repo := newFakeLogRepository()
	repo.saveErr = errors.New("store down")
	rec := NewRecorder(repo)

	rec.Record(domain.ActionDeleteShipment, "Deleted shipment 111", "111")
	rec.Flush()

	assert.Len(t, rec.Entries(0), 1)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Empty(t, repo.saved)
}

// TestRecorder_EntriesLimit verifies the limit parameter.
func TestRecorder_EntriesLimit(t *testing.T) {
	rec := NewRecorder(newFakeLogRepository())
	rec.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	for i := 0; i < 5; i++ {
		rec.Record(domain.ActionUpdateStatus, "Status changed to Delivered", "111")
	}

	assert.Len(t, rec.Entries(3), 3)
	assert.Len(t, rec.Entries(0), 5)
	assert.Len(t, rec.Entries(10), 5)
	rec.Flush()
}

// TestRecorder_Load verifies startup hydration from the repository.
func TestRecorder_Load(t *testing.T) {
	repo := newFakeLogRepository()
	repo.saved["1-a"] = domain.Entry{ID: "1-a", Action: domain.ActionAddShipment}

	rec := NewRecorder(repo)
	require.NoError(t, rec.Load(context.Background()))
	assert.Len(t, rec.Entries(0), 1)

	repo.listErr = errors.New("store down")
	assert.Error(t, rec.Load(context.Background()))
}
