package service

import (
	"context"
	"errors"
	"testing"

	"dhl-express-manager/internal/features/shipments/domain"
	"dhl-express-manager/internal/features/summary/adapters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAnalyzer returns a fixed text or error.
type stubAnalyzer struct {
	text  string
	err   error
	calls int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, shipment *domain.Shipment) (string, error) {
	s.calls++
	return s.text, s.err
}

func testShipment() *domain.Shipment {
	return &domain.Shipment{
		Snapshot: domain.Snapshot{
			ID:     "111",
			Status: domain.Status{Code: "transit", Description: "In transit"},
		},
	}
}

// TestSummaryService_PrimaryPreferred verifies the primary analyzer wins when it works.
func TestSummaryService_PrimaryPreferred(t *testing.T) {
	primary := &stubAnalyzer{text: "model summary"}
	fallback := &stubAnalyzer{text: "template summary"}

	text, err := NewSummaryService(primary, fallback).Summarize(context.Background(), testShipment())
	require.NoError(t, err)
	assert.Equal(t, "model summary", text)
	assert.Zero(t, fallback.calls)
}

// TestSummaryService_FallbackOnError verifies degradation when the primary fails.
func TestSummaryService_FallbackOnError(t *testing.T) {
	primary := &stubAnalyzer{err: errors.New("quota exceeded")}
	fallback := &stubAnalyzer{text: "template summary"}

	text, err := NewSummaryService(primary, fallback).Summarize(context.Background(), testShipment())
	require.NoError(t, err)
	assert.Equal(t, "template summary", text)
	assert.Equal(t, 1, primary.calls)
}

// TestSummaryService_NoPrimary verifies the nil-primary configuration.
func TestSummaryService_NoPrimary(t *testing.T) {
	svc := NewSummaryService(nil, adapters.NewTemplateAnalyzer())

	text, err := svc.Summarize(context.Background(), testShipment())
	require.NoError(t, err)
	assert.Contains(t, text, "Shipment 111")
}
