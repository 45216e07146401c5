package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/core/throttle"
	activitydomain "dhl-express-manager/internal/features/activity/domain"
	"dhl-express-manager/internal/features/shipments/domain"
	"dhl-express-manager/internal/features/shipments/ports"

	"go.uber.org/zap"
)

var (
	// ErrEmptyInput is returned when the tracking input holds no identifiers.
	ErrEmptyInput = errors.New("no tracking numbers provided")
	// ErrAlreadyTracked is returned when every requested identifier is already in the list.
	ErrAlreadyTracked = errors.New("all entered tracking numbers are already in your list")
	// ErrShipmentNotFound is returned when the identifier is not in the active collection.
	ErrShipmentNotFound = errors.New("shipment not found")
)

// ActivityRecorder records audit entries for shipment mutations.
type ActivityRecorder interface {
	Record(action activitydomain.Action, description, relatedShipmentID string) activitydomain.Entry
}

// AddReport summarizes an AddShipments batch.
type AddReport struct {
	// Added lists identifiers that were resolved and inserted, in input order.
	Added []string `json:"added"`
	// Failed maps identifiers that could not be resolved to a user-facing message.
	Failed map[string]string `json:"failed,omitempty"`
}

// RefreshReport summarizes a RefreshAll pass.
type RefreshReport struct {
	// Updated counts shipments whose snapshot was successfully replaced.
	Updated int `json:"updated"`
	// Errors lists per-item failure notes.
	Errors []string `json:"errors,omitempty"`
}

// Stats holds the dashboard counters.
type Stats struct {
	Total     int `json:"total"`
	InTransit int `json:"in_transit"`
	Delivered int `json:"delivered"`
	Exception int `json:"exception"`
	Collected int `json:"collected"`
}

// Tracker owns the active shipment collection and reconciles remote snapshots
// with locally owned annotations. In-memory state is the source of truth for
// the session; the repository is eventually consistent with it.
type Tracker struct {
	mu        sync.RWMutex
	shipments []*domain.Shipment // newest first

	provider ports.TrackingProvider
	repo     ports.ShipmentRepository
	recorder ActivityRecorder
	pacer    *throttle.Pacer

	// batchMu serializes AddShipments/RefreshAll passes so at most one
	// polling loop talks to the carrier at a time.
	batchMu sync.Mutex

	wg     sync.WaitGroup
	logger *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewTracker creates a Tracker with an empty collection.
func NewTracker(provider ports.TrackingProvider, repo ports.ShipmentRepository, recorder ActivityRecorder, pacer *throttle.Pacer) *Tracker {
	return &Tracker{
		provider: provider,
		repo:     repo,
		recorder: recorder,
		pacer:    pacer,
		logger:   logger.Get(),
		now:      time.Now,
	}
}

// Load replaces the collection with the persisted records. Called once at
// startup; a failure leaves the collection empty but is not fatal.
func (t *Tracker) Load(ctx context.Context) error {
	shipments, err := t.repo.List(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.shipments = shipments
	t.mu.Unlock()
	return nil
}

// Shipments returns the active collection, newest first. Records are deep
// copies; callers marshal and inspect them outside the collection lock.
func (t *Tracker) Shipments() []*domain.Shipment {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*domain.Shipment, len(t.shipments))
	for i, sh := range t.shipments {
		out[i] = sh.Clone()
	}
	return out
}

// Get returns a copy of the shipment with the given tracking number.
func (t *Tracker) Get(trackingNumber string) (*domain.Shipment, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, sh := range t.shipments {
		if sh.ID == trackingNumber {
			return sh.Clone(), nil
		}
	}
	return nil, ErrShipmentNotFound
}

// Stats computes the dashboard counters from the active collection.
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := Stats{Total: len(t.shipments)}
	for _, sh := range t.shipments {
		switch sh.Status.Code {
		case "transit", "pre-transit", "pre_transit":
			stats.InTransit++
		case "delivered":
			stats.Delivered++
		case "failure", "unknown", "exception":
			stats.Exception++
		}
		if sh.Collected {
			stats.Collected++
		}
	}
	return stats
}

// ParseTrackingInput splits raw user input on whitespace and commas, trims,
// and de-duplicates preserving first occurrence order.
func ParseTrackingInput(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	seen := make(map[string]bool, len(fields))
	unique := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		unique = append(unique, f)
	}
	return unique
}

// AddShipments resolves the identifiers in raw and inserts each at the front
// of the collection. Identifiers are processed strictly sequentially through
// the pacer; one failure never aborts the batch.
func (t *Tracker) AddShipments(ctx context.Context, raw string) (*AddReport, error) {
	unique := ParseTrackingInput(raw)
	if len(unique) == 0 {
		return nil, ErrEmptyInput
	}

	t.mu.RLock()
	tracked := make(map[string]bool, len(t.shipments))
	for _, sh := range t.shipments {
		tracked[sh.ID] = true
	}
	t.mu.RUnlock()

	pending := make([]string, 0, len(unique))
	for _, id := range unique {
		if !tracked[id] {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return nil, ErrAlreadyTracked
	}

	t.batchMu.Lock()
	defer t.batchMu.Unlock()

	report := &AddReport{Added: []string{}}
	for _, id := range pending {
		if err := t.pacer.Wait(ctx); err != nil {
			return report, err
		}

		snap, err := t.provider.Track(ctx, id)
		if err != nil {
			t.logger.Warn("Failed to resolve shipment",
				zap.String("tracking_number", id),
				zap.Error(err),
			)
			if report.Failed == nil {
				report.Failed = make(map[string]string)
			}
			report.Failed[id] = userMessage(err)
			continue
		}
		if err := snap.Validate(); err != nil {
			if report.Failed == nil {
				report.Failed = make(map[string]string)
			}
			report.Failed[id] = userMessage(err)
			continue
		}

		sh := domain.NewShipment(*snap, t.now())

		var inserted *domain.Shipment
		t.mu.Lock()
		if !t.contains(sh.ID) {
			t.shipments = append([]*domain.Shipment{sh}, t.shipments...)
			inserted = sh.Clone()
		}
		t.mu.Unlock()
		if inserted == nil {
			continue
		}

		t.recorder.Record(activitydomain.ActionAddShipment, fmt.Sprintf("Added new shipment %s", id), id)
		t.persistAsync(inserted)
		report.Added = append(report.Added, id)
	}

	return report, nil
}

// RefreshAll re-resolves every shipment in the collection sequentially,
// carrying local annotations over verbatim. Shipments whose fetch fails keep
// their previous state. One BULK_UPDATE entry records the success count; a
// pass aborted by context cancellation publishes what it fetched but records
// no BULK_UPDATE.
func (t *Tracker) RefreshAll(ctx context.Context) (*RefreshReport, error) {
	// Stable view of the list at invocation start. Mutations landing while
	// the pass runs are reconciled at publish time.
	current := t.Shipments()
	if len(current) == 0 {
		return &RefreshReport{}, nil
	}

	t.batchMu.Lock()
	defer t.batchMu.Unlock()

	report := &RefreshReport{}
	fresh := make(map[string]domain.Snapshot, len(current))
	var passErr error

	for _, existing := range current {
		if err := t.pacer.Wait(ctx); err != nil {
			passErr = err
			break
		}

		snap, err := t.provider.Track(ctx, existing.ID)
		if err != nil || snap.Validate() != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Update failed for %s", existing.ID))
			continue
		}

		if snap.Status.Code != existing.Status.Code {
			t.recorder.Record(activitydomain.ActionUpdateStatus,
				fmt.Sprintf("Status changed to %s", snap.Status.Description), existing.ID)
		}

		fresh[existing.ID] = *snap
	}

	// Publish against the live collection, not the start-of-pass view:
	// records deleted mid-pass stay deleted, annotations changed mid-pass
	// win over the ones the pass started from.
	persist := make([]*domain.Shipment, 0, len(fresh))
	t.mu.Lock()
	for i, sh := range t.shipments {
		snap, ok := fresh[sh.ID]
		if !ok {
			continue
		}
		merged := sh.WithSnapshot(snap)
		t.shipments[i] = merged
		persist = append(persist, merged.Clone())
		report.Updated++
	}
	t.mu.Unlock()

	for _, sh := range persist {
		t.persistAsync(sh)
	}

	if passErr != nil {
		return report, passErr
	}

	t.recorder.Record(activitydomain.ActionBulkUpdate,
		fmt.Sprintf("Refreshed status for %d shipments", report.Updated), "")

	return report, nil
}

// AddAssignee appends a PIC to the shipment. Blank or duplicate names are a
// silent no-op.
func (t *Tracker) AddAssignee(trackingNumber, name string) (*domain.Shipment, error) {
	name = strings.TrimSpace(name)

	t.mu.Lock()
	sh := t.find(trackingNumber)
	if sh == nil {
		t.mu.Unlock()
		return nil, ErrShipmentNotFound
	}
	changed := sh.AddAssignee(name)
	out := sh.Clone()
	t.mu.Unlock()

	if changed {
		t.recorder.Record(activitydomain.ActionAddPIC, fmt.Sprintf("Assigned PIC: %s", name), trackingNumber)
		t.persistAsync(out)
	}
	return out, nil
}

// RemoveAssignee removes the first exact match of name from the PIC list.
// The REMOVE_PIC entry is recorded before the removal is attempted, so a
// remove of an absent name still produces a log entry.
func (t *Tracker) RemoveAssignee(trackingNumber, name string) (*domain.Shipment, error) {
	t.mu.RLock()
	exists := t.contains(trackingNumber)
	t.mu.RUnlock()
	if !exists {
		return nil, ErrShipmentNotFound
	}

	t.recorder.Record(activitydomain.ActionRemovePIC, fmt.Sprintf("Removed PIC: %s", name), trackingNumber)

	t.mu.Lock()
	sh := t.find(trackingNumber)
	if sh == nil {
		// Deleted between the log entry and the mutation.
		t.mu.Unlock()
		return nil, ErrShipmentNotFound
	}
	sh.RemoveAssignee(name)
	out := sh.Clone()
	t.mu.Unlock()

	t.persistAsync(out)
	return out, nil
}

// ToggleCollected flips the collected flag, stamping or clearing CollectedAt.
func (t *Tracker) ToggleCollected(trackingNumber string) (*domain.Shipment, error) {
	t.mu.Lock()
	sh := t.find(trackingNumber)
	if sh == nil {
		t.mu.Unlock()
		return nil, ErrShipmentNotFound
	}
	nowCollected := sh.ToggleCollected(t.now())
	out := sh.Clone()
	t.mu.Unlock()

	if nowCollected {
		t.recorder.Record(activitydomain.ActionMarkCollected, "Marked as collected", trackingNumber)
	} else {
		t.recorder.Record(activitydomain.ActionMarkUncollected, "Reverted collection status", trackingNumber)
	}
	t.persistAsync(out)
	return out, nil
}

// Delete removes the shipment from the collection and requests deletion from
// the store. The caller decides what the user interface does afterwards.
func (t *Tracker) Delete(trackingNumber string) error {
	t.mu.Lock()
	idx := -1
	for i, sh := range t.shipments {
		if sh.ID == trackingNumber {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return ErrShipmentNotFound
	}
	t.shipments = append(t.shipments[:idx], t.shipments[idx+1:]...)
	t.mu.Unlock()

	t.recorder.Record(activitydomain.ActionDeleteShipment, fmt.Sprintf("Deleted shipment %s", trackingNumber), trackingNumber)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.repo.Delete(context.Background(), trackingNumber); err != nil {
			t.logger.Warn("Failed to delete persisted shipment",
				zap.String("tracking_number", trackingNumber),
				zap.Error(err),
			)
		}
	}()

	return nil
}

// Flush waits for all pending persistence writes. Used on shutdown and in tests.
func (t *Tracker) Flush() {
	t.wg.Wait()
}

// find returns the shipment with the given id. Caller must hold mu.
func (t *Tracker) find(trackingNumber string) *domain.Shipment {
	for _, sh := range t.shipments {
		if sh.ID == trackingNumber {
			return sh
		}
	}
	return nil
}

// contains reports whether the id is tracked. Caller must hold mu.
func (t *Tracker) contains(trackingNumber string) bool {
	return t.find(trackingNumber) != nil
}

// persistAsync upserts the shipment without blocking the caller. sh must be a
// clone no other goroutine mutates. A failed write is logged and forgotten;
// the next successful mutation re-upserts the full record anyway.
func (t *Tracker) persistAsync(sh *domain.Shipment) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.repo.Save(context.Background(), sh); err != nil {
			t.logger.Warn("Failed to persist shipment",
				zap.String("tracking_number", sh.ID),
				zap.Error(err),
			)
		}
	}()
}

// userMessage maps provider errors onto the messages shown in add/refresh reports.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ports.ErrTrackingNotFound):
		return "Shipment not found. Please check the AWB number."
	case errors.Is(err, ports.ErrUnauthorized):
		return "Authentication failed. The API key may be restricted."
	case errors.Is(err, ports.ErrGatewayTimeout):
		return "DHL gateway timeout. The server did not respond in time."
	case errors.Is(err, ports.ErrRateLimited):
		return "Too many requests. Please try again later."
	case errors.Is(err, ports.ErrNetwork):
		return "Network connection failed."
	default:
		return err.Error()
	}
}
