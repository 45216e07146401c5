package throttle

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum gap between successive operations. Callers pass
// through Wait before each outbound request, which guarantees at most one
// request in flight and a fixed delay between consecutive requests. This is
// how the tracker stays under the remote provider's rate limit (HTTP 429).
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// New creates a Pacer with the given minimum gap between operations.
func New(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until at least the configured interval has passed since the
// previous call returned. The first call never blocks. Returns the context's
// error immediately if the context is already cancelled, or as soon as it is
// cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		gap := p.interval - time.Since(p.last)
		if gap > 0 {
			timer := time.NewTimer(gap)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	p.last = time.Now()
	return nil
}
