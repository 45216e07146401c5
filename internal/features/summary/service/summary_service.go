package service

import (
	"context"

	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/features/shipments/domain"
	"dhl-express-manager/internal/features/summary/ports"

	"go.uber.org/zap"
)

// SummaryService produces a summary for a shipment, preferring the primary
// analyzer and degrading to the fallback when the primary is absent or fails.
type SummaryService struct {
	primary  ports.Analyzer // may be nil
	fallback ports.Analyzer
	logger   *zap.Logger
}

// NewSummaryService creates a SummaryService. primary may be nil, in which
// case every request goes straight to the fallback.
func NewSummaryService(primary, fallback ports.Analyzer) *SummaryService {
	return &SummaryService{
		primary:  primary,
		fallback: fallback,
		logger:   logger.Get(),
	}
}

// Summarize returns a human-readable summary of the shipment's state.
func (s *SummaryService) Summarize(ctx context.Context, shipment *domain.Shipment) (string, error) {
	if s.primary != nil {
		text, err := s.primary.Analyze(ctx, shipment)
		if err == nil {
			return text, nil
		}
		s.logger.Warn("Primary analyzer failed, using fallback",
			zap.String("tracking_number", shipment.ID),
			zap.Error(err),
		)
	}

	return s.fallback.Analyze(ctx, shipment)
}
