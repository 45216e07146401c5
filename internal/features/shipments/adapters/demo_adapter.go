package adapters

import (
	"context"
	"time"

	"dhl-express-manager/internal/features/shipments/domain"
)

// DemoAdapter returns a fixed example snapshot for any tracking number. It is
// used when no DHL API key is available (local development, demos).
type DemoAdapter struct{}

// NewDemoAdapter creates a new DemoAdapter.
func NewDemoAdapter() *DemoAdapter {
	return &DemoAdapter{}
}

// Track returns a deterministic snapshot carrying the requested tracking number.
func (a *DemoAdapter) Track(_ context.Context, trackingNumber string) (*domain.Snapshot, error) {
	day := func(d, h, m int) time.Time {
		return time.Date(2023, 10, d, h, m, 0, 0, time.UTC)
	}

	return &domain.Snapshot{
		ID:      trackingNumber,
		Service: "EXPRESS WORLDWIDE",
		Origin: domain.Endpoint{Address: domain.Address{
			CountryCode: "DE", PostalCode: "12345", Locality: "Berlin",
		}},
		Destination: domain.Endpoint{Address: domain.Address{
			CountryCode: "ID", PostalCode: "10110", Locality: "Jakarta",
		}},
		Status: domain.Status{
			Timestamp:   day(27, 10, 30),
			Location:    "Jakarta Gateway",
			Code:        "transit",
			Status:      "TRANSIT",
			Description: "Shipment has departed from a DHL facility",
		},
		Weight: "2.5 KG",
		Events: []domain.Event{
			{
				Timestamp:   day(27, 10, 30),
				Code:        "OK",
				Description: "Delivered - Signed for by: BUDI",
				ServiceArea: "Jakarta - Indonesia",
				SignedBy:    "BUDI",
			},
			{
				Timestamp:   day(27, 8, 15),
				Code:        "WC",
				Description: "With delivery courier",
				ServiceArea: "Jakarta - Indonesia",
			},
			{
				Timestamp:   day(26, 15, 45),
				Code:        "PL",
				Description: "Processed at Jakarta - Indonesia",
				ServiceArea: "Jakarta - Indonesia",
			},
			{
				Timestamp:   day(25, 9, 0),
				Code:        "DF",
				Description: "Departed Facility in Leipzig - Germany",
				ServiceArea: "Leipzig - Germany",
			},
		},
	}, nil
}
