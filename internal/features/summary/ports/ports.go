package ports

import (
	"context"

	"dhl-express-manager/internal/features/shipments/domain"
)

// Analyzer produces a short human-readable explanation of a shipment's
// tracking state for the customer-facing dashboard.
type Analyzer interface {
	Analyze(ctx context.Context, shipment *domain.Shipment) (string, error)
}
