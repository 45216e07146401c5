package ports

import (
	"context"
	"errors"
	"fmt"

	"dhl-express-manager/internal/features/shipments/domain"
)

// Failure kinds a tracking provider must distinguish for user messaging.
var (
	// ErrTrackingNotFound is returned when the carrier does not know the AWB.
	ErrTrackingNotFound = errors.New("shipment not found")
	// ErrUnauthorized is returned when the carrier rejects the API credentials.
	ErrUnauthorized = errors.New("authentication failed")
	// ErrGatewayTimeout is returned when the carrier gateway does not answer in time.
	ErrGatewayTimeout = errors.New("gateway timeout")
	// ErrRateLimited is returned when the carrier throttles the caller.
	ErrRateLimited = errors.New("rate limited")
	// ErrNetwork is returned when the carrier could not be reached at all.
	ErrNetwork = errors.New("network failure")
)

// StatusError is returned for carrier responses outside the known failure kinds.
type StatusError struct {
	// Code is the HTTP status code of the response.
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected carrier response: status %d", e.Code)
}

// TrackingProvider defines the interface for carrier tracking implementations.
type TrackingProvider interface {
	// Track resolves the current snapshot for a tracking number, or fails
	// with one of the typed errors above.
	Track(ctx context.Context, trackingNumber string) (*domain.Snapshot, error)
}

// ShipmentRepository defines the secondary port for durable shipment storage,
// keyed by tracking number.
type ShipmentRepository interface {
	// List returns every valid persisted shipment. Malformed records are
	// skipped, not surfaced.
	List(ctx context.Context) ([]*domain.Shipment, error)
	// Save creates or replaces the shipment by tracking number.
	Save(ctx context.Context, shipment *domain.Shipment) error
	// Delete removes the shipment by tracking number.
	Delete(ctx context.Context, trackingNumber string) error
}
