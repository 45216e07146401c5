package service

import (
	"context"
	"sync"
	"time"

	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/features/activity/domain"
	"dhl-express-manager/internal/features/activity/ports"

	"go.uber.org/zap"
)

// Recorder owns the in-memory activity log. Every mutating operation on the
// shipment collection records an entry here. In-memory state is the source of
// truth for the session; persistence is fire-and-forget.
type Recorder struct {
	mu      sync.RWMutex
	entries []domain.Entry // newest first

	repo   ports.LogRepository
	wg     sync.WaitGroup
	logger *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRecorder creates a Recorder backed by the given repository.
func NewRecorder(repo ports.LogRepository) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger.Get(),
		now:    time.Now,
	}
}

// Load replaces the in-memory log with the persisted entries, newest first.
// Called once at startup; a failure leaves the log empty but is not fatal.
func (r *Recorder) Load(ctx context.Context) error {
	entries, err := r.repo.List(ctx, 0)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

// Record creates an entry, prepends it to the in-memory log and persists it
// asynchronously. The caller never waits on, or learns about, the write.
func (r *Recorder) Record(action domain.Action, description, relatedShipmentID string) domain.Entry {
	entry := domain.NewEntry(action, description, relatedShipmentID, r.now())

	r.mu.Lock()
	r.entries = append([]domain.Entry{entry}, r.entries...)
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.repo.Save(context.Background(), entry); err != nil {
			r.logger.Warn("Failed to persist activity entry",
				zap.String("log_id", entry.ID),
				zap.String("action", string(entry.Action)),
				zap.Error(err),
			)
		}
	}()

	return entry
}

// Entries returns up to limit entries, newest first. limit <= 0 means all.
func (r *Recorder) Entries(limit int) []domain.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]domain.Entry, n)
	copy(out, r.entries[:n])
	return out
}

// Flush waits for all pending persistence writes. Used on shutdown and in tests.
func (r *Recorder) Flush() {
	r.wg.Wait()
}
