package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dhl-express-manager/internal/core/httpclient"
	"dhl-express-manager/internal/core/logger"
	"dhl-express-manager/internal/features/shipments/domain"
	"dhl-express-manager/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// dhlTimeout bounds a single tracking request. The DHL gateway regularly
// stalls past 10s when it is about to answer 504.
const dhlTimeout = 15 * time.Second

// DHLAdapter resolves shipments against the DHL Unified Tracking API.
type DHLAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewDHLAdapter creates a new DHLAdapter with the given base URL and API key.
func NewDHLAdapter(baseURL, apiKey string) *DHLAdapter {
	return &DHLAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  httpclient.NewClient(dhlTimeout),
		logger:  logger.Get(),
	}
}

// dhlResponse mirrors the JSON structure of the Unified Tracking API.
type dhlResponse struct {
	Shipments []dhlShipment `json:"shipments"`
}

type dhlShipment struct {
	ID      string `json:"id"`
	Service string `json:"service"`
	Origin  struct {
		Address dhlAddress `json:"address"`
	} `json:"origin"`
	Destination struct {
		Address dhlAddress `json:"address"`
	} `json:"destination"`
	Status struct {
		Timestamp string `json:"timestamp"`
		Location  struct {
			Address dhlAddress `json:"address"`
		} `json:"location"`
		StatusCode  string `json:"statusCode"`
		Status      string `json:"status"`
		Description string `json:"description"`
	} `json:"status"`
	Events  []dhlEvent `json:"events"`
	Details struct {
		Weight struct {
			Value    float64 `json:"value"`
			UnitText string  `json:"unitText"`
		} `json:"weight"`
	} `json:"details"`
}

type dhlAddress struct {
	CountryCode     string `json:"countryCode"`
	PostalCode      string `json:"postalCode"`
	AddressLocality string `json:"addressLocality"`
}

type dhlEvent struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	TypeCode    string `json:"typeCode"`
	Description string `json:"description"`
	ServiceArea []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"serviceArea"`
	SignedBy string `json:"signedBy"`
}

// Track retrieves the current snapshot for a tracking number from DHL.
func (a *DHLAdapter) Track(ctx context.Context, trackingNumber string) (*domain.Snapshot, error) {
	reqURL := fmt.Sprintf("%s?trackingNumber=%s", a.baseURL, url.QueryEscape(trackingNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tracking request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// The Unified Tracking API identifies callers by this header alone.
	// Sending Basic Auth alongside it confuses the gateway into 504s.
	req.Header.Set("DHL-API-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ports.ErrGatewayTimeout
		}
		return nil, fmt.Errorf("%w: %v", ports.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusError(resp.StatusCode)
	}

	var body dhlResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse carrier response: %w", err)
	}

	if len(body.Shipments) == 0 {
		return nil, ports.ErrTrackingNotFound
	}

	snap := a.mapShipmentToDomain(body.Shipments[0])
	// The API echoes the queried number back; trust our input if it doesn't.
	if snap.ID == "" {
		snap.ID = trackingNumber
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("carrier returned malformed shipment: %w", err)
	}
	return snap, nil
}

// mapStatusError converts an HTTP status into the provider error taxonomy.
func mapStatusError(code int) error {
	switch code {
	case http.StatusNotFound:
		return ports.ErrTrackingNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ports.ErrUnauthorized
	case http.StatusGatewayTimeout:
		return ports.ErrGatewayTimeout
	case http.StatusTooManyRequests:
		return ports.ErrRateLimited
	default:
		return &ports.StatusError{Code: code}
	}
}

// mapShipmentToDomain converts a DHL payload into the domain snapshot.
func (a *DHLAdapter) mapShipmentToDomain(sh dhlShipment) *domain.Snapshot {
	statusTS, err := time.Parse(time.RFC3339, sh.Status.Timestamp)
	if err != nil {
		a.logger.Debug("Unparseable status timestamp",
			zap.String("tracking_number", sh.ID),
			zap.String("timestamp", sh.Status.Timestamp),
		)
	}

	snap := &domain.Snapshot{
		ID:      sh.ID,
		Service: sh.Service,
		Origin: domain.Endpoint{Address: domain.Address{
			CountryCode: sh.Origin.Address.CountryCode,
			PostalCode:  sh.Origin.Address.PostalCode,
			Locality:    sh.Origin.Address.AddressLocality,
		}},
		Destination: domain.Endpoint{Address: domain.Address{
			CountryCode: sh.Destination.Address.CountryCode,
			PostalCode:  sh.Destination.Address.PostalCode,
			Locality:    sh.Destination.Address.AddressLocality,
		}},
		Status: domain.Status{
			Timestamp:   statusTS,
			Location:    sh.Status.Location.Address.AddressLocality,
			Code:        sh.Status.StatusCode,
			Status:      sh.Status.Status,
			Description: sh.Status.Description,
		},
		Events: make([]domain.Event, 0, len(sh.Events)),
	}

	if sh.Details.Weight.Value > 0 {
		snap.Weight = fmt.Sprintf("%g %s", sh.Details.Weight.Value, sh.Details.Weight.UnitText)
	}

	for _, ev := range sh.Events {
		event := domain.Event{
			Code:        ev.TypeCode,
			Description: ev.Description,
			SignedBy:    ev.SignedBy,
		}
		// Events carry split date and time fields, e.g. "2023-10-27" + "10:30:00".
		ts, err := time.Parse("2006-01-02 15:04:05", ev.Date+" "+ev.Time)
		if err == nil {
			event.Timestamp = ts
		}
		if len(ev.ServiceArea) > 0 {
			event.ServiceArea = ev.ServiceArea[0].Description
		}
		snap.Events = append(snap.Events, event)
	}

	return snap
}
