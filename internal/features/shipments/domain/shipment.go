package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrMissingTrackingNumber is returned when a snapshot has no tracking number.
	ErrMissingTrackingNumber = errors.New("snapshot has no tracking number")
	// ErrMissingStatus is returned when a snapshot has no status description.
	ErrMissingStatus = errors.New("snapshot has no status")
)

// Address holds the locality details of a shipment endpoint.
type Address struct {
	// CountryCode is the ISO country code.
	CountryCode string `json:"countryCode,omitempty"`
	// PostalCode is the postal code of the locality.
	PostalCode string `json:"postalCode,omitempty"`
	// Locality is the city name.
	Locality string `json:"addressLocality"`
}

// Endpoint is the origin or destination of a shipment.
type Endpoint struct {
	Address Address `json:"address"`
}

// Status is the current global status of a shipment as reported by the carrier.
type Status struct {
	// Timestamp is when the status was reported.
	Timestamp time.Time `json:"timestamp"`
	// Location is the locality where the status was reported.
	Location string `json:"location,omitempty"`
	// Code is the normalized status code (e.g. transit, delivered, failure).
	Code string `json:"statusCode"`
	// Status is the carrier's short status label.
	Status string `json:"status"`
	// Description is the human-readable status text.
	Description string `json:"description"`
}

// Event is a single entry in the shipment's tracking history.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// Code is the carrier-specific event type code.
	Code string `json:"typeCode"`
	// Description is the event text.
	Description string `json:"description"`
	// ServiceArea is the facility/locality the event was reported from.
	ServiceArea string `json:"serviceArea,omitempty"`
	// SignedBy is the recipient name for delivery events.
	SignedBy string `json:"signedBy,omitempty"`
}

// Snapshot is the normalized remote tracking state for one AWB. It is
// replaced wholesale on every successful refresh, never merged field by field.
type Snapshot struct {
	// ID is the air waybill (tracking number).
	ID string `json:"id"`
	// Service is the carrier product name, e.g. EXPRESS WORLDWIDE.
	Service string `json:"service,omitempty"`
	// Origin is where the shipment was sent from.
	Origin Endpoint `json:"origin"`
	// Destination is where the shipment is headed.
	Destination Endpoint `json:"destination"`
	// Status is the current global status.
	Status Status `json:"status"`
	// Events holds the tracking history, newest first.
	Events []Event `json:"events"`
	// Weight is the declared shipment weight, e.g. "2.5 KG".
	Weight string `json:"weight,omitempty"`
}

// Validate rejects malformed snapshots at ingestion boundaries (remote fetch
// and persistence read-back) instead of silently coercing them.
func (s *Snapshot) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrMissingTrackingNumber
	}
	if s.Status.Description == "" && s.Status.Code == "" {
		return ErrMissingStatus
	}
	return nil
}

// Shipment couples the latest remote snapshot with locally owned annotations.
// Annotations (Assignees, Collected, CollectedAt) belong to local operators
// and are never touched by a remote refresh.
type Shipment struct {
	Snapshot

	// Assignees is the ordered PIC list, unique by exact match.
	Assignees []string `json:"pic"`
	// Collected marks the item as collected internally.
	Collected bool `json:"isCollected"`
	// CollectedAt is set exactly while Collected is true.
	CollectedAt *time.Time `json:"collectedAt,omitempty"`
	// AddedAt is when the shipment entered the tracking list.
	AddedAt time.Time `json:"addedAt,omitempty"`
}

// NewShipment creates a tracked shipment from a fresh snapshot with empty annotations.
func NewShipment(snap Snapshot, now time.Time) *Shipment {
	return &Shipment{
		Snapshot:  snap,
		Assignees: []string{},
		AddedAt:   now,
	}
}

// Clone returns a deep copy that stays valid while the original keeps being
// mutated. Snapshot contents are shared: they are replaced wholesale on
// refresh, never edited in place.
func (s *Shipment) Clone() *Shipment {
	out := *s
	out.Assignees = make([]string, len(s.Assignees))
	copy(out.Assignees, s.Assignees)
	if s.CollectedAt != nil {
		ts := *s.CollectedAt
		out.CollectedAt = &ts
	}
	return &out
}

// WithSnapshot returns a copy of the shipment carrying the fresh snapshot
// while keeping every annotation verbatim.
func (s *Shipment) WithSnapshot(snap Snapshot) *Shipment {
	out := *s
	out.Snapshot = snap
	return &out
}

// AddAssignee appends a PIC name. Returns false without changing anything if
// the name is blank or already present (exact match).
func (s *Shipment) AddAssignee(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, existing := range s.Assignees {
		if existing == name {
			return false
		}
	}
	s.Assignees = append(s.Assignees, name)
	return true
}

// RemoveAssignee removes the first exact match of name from the PIC list.
// Returns whether anything was removed.
func (s *Shipment) RemoveAssignee(name string) bool {
	for i, existing := range s.Assignees {
		if existing == name {
			s.Assignees = append(s.Assignees[:i], s.Assignees[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleCollected flips the collected flag, stamping CollectedAt on
// false->true and clearing it on true->false. Returns the new state.
func (s *Shipment) ToggleCollected(now time.Time) bool {
	s.Collected = !s.Collected
	if s.Collected {
		s.CollectedAt = &now
	} else {
		s.CollectedAt = nil
	}
	return s.Collected
}
