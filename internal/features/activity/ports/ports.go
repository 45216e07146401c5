package ports

import (
	"context"

	"dhl-express-manager/internal/features/activity/domain"
)

// LogRepository defines the secondary port for durable activity log storage.
type LogRepository interface {
	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.Entry, error)
	// Save upserts the entry keyed by its id. Repeated delivery of the same
	// entry never duplicates it.
	Save(ctx context.Context, entry domain.Entry) error
}
