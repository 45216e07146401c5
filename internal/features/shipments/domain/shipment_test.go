package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(id string) Snapshot {
	return Snapshot{
		ID:          id,
		Service:     "EXPRESS WORLDWIDE",
		Origin:      Endpoint{Address: Address{CountryCode: "DE", Locality: "Berlin"}},
		Destination: Endpoint{Address: Address{CountryCode: "ID", Locality: "Jakarta"}},
		Status: Status{
			Timestamp:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Code:        "transit",
			Status:      "TRANSIT",
			Description: "Shipment has departed from a DHL facility",
		},
		Events: []Event{
			{Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Code: "DF", Description: "Departed Facility"},
		},
	}
}

// TestSnapshot_Validate verifies strict validation at ingestion boundaries.
func TestSnapshot_Validate(t *testing.T) {
	snap := sampleSnapshot("111")
	assert.NoError(t, snap.Validate())

	noID := sampleSnapshot("  ")
	assert.ErrorIs(t, noID.Validate(), ErrMissingTrackingNumber)

	noStatus := sampleSnapshot("111")
	noStatus.Status = Status{}
	assert.ErrorIs(t, noStatus.Validate(), ErrMissingStatus)
}

// TestShipment_WithSnapshot verifies a refresh replaces the snapshot wholesale
// and preserves every annotation verbatim.
func TestShipment_WithSnapshot(t *testing.T) {
	collectedAt := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	sh := NewShipment(sampleSnapshot("111"), time.Now())
	sh.Assignees = []string{"Alice", "Bob"}
	sh.Collected = true
	sh.CollectedAt = &collectedAt

	fresh := sampleSnapshot("111")
	fresh.Status.Code = "delivered"
	fresh.Status.Description = "Delivered"
	fresh.Events = append([]Event{{Code: "OK", Description: "Delivered"}}, fresh.Events...)

	updated := sh.WithSnapshot(fresh)

	assert.Equal(t, "delivered", updated.Status.Code)
	assert.Len(t, updated.Events, 2)
	assert.Equal(t, []string{"Alice", "Bob"}, updated.Assignees)
	assert.True(t, updated.Collected)
	require.NotNil(t, updated.CollectedAt)
	assert.Equal(t, collectedAt, *updated.CollectedAt)

	// The original is untouched.
	assert.Equal(t, "transit", sh.Status.Code)
}

// TestShipment_Clone verifies the copy is detached from the original's
// annotations and keeps an empty PIC list non-nil.
func TestShipment_Clone(t *testing.T) {
	collectedAt := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	sh := NewShipment(sampleSnapshot("111"), time.Now())
	sh.Assignees = []string{"Alice"}
	sh.Collected = true
	sh.CollectedAt = &collectedAt

	clone := sh.Clone()
	clone.Assignees[0] = "Mallory"
	clone.AddAssignee("Bob")
	*clone.CollectedAt = collectedAt.Add(time.Hour)

	assert.Equal(t, []string{"Alice"}, sh.Assignees)
	assert.Equal(t, collectedAt, *sh.CollectedAt)

	// A fresh shipment's empty PIC list stays [] after cloning, not nil.
	empty := NewShipment(sampleSnapshot("222"), time.Now()).Clone()
	assert.NotNil(t, empty.Assignees)
	assert.Empty(t, empty.Assignees)
}

// TestShipment_AddAssignee verifies blank and duplicate names are rejected.
func TestShipment_AddAssignee(t *testing.T) {
	sh := NewShipment(sampleSnapshot("111"), time.Now())

	assert.True(t, sh.AddAssignee("Alice"))
	assert.Equal(t, []string{"Alice"}, sh.Assignees)

	// Idempotent: second add of the same exact name changes nothing.
	assert.False(t, sh.AddAssignee("Alice"))
	assert.Equal(t, []string{"Alice"}, sh.Assignees)

	// Case-sensitive exact match: different casing is a different name.
	assert.True(t, sh.AddAssignee("alice"))
	assert.Equal(t, []string{"Alice", "alice"}, sh.Assignees)

	assert.False(t, sh.AddAssignee("   "))
	assert.False(t, sh.AddAssignee(""))
	assert.Equal(t, []string{"Alice", "alice"}, sh.Assignees)
}

// TestShipment_RemoveAssignee verifies first-exact-match removal.
func TestShipment_RemoveAssignee(t *testing.T) {
	sh := NewShipment(sampleSnapshot("111"), time.Now())
	sh.Assignees = []string{"Alice", "Bob", "Carol"}

	assert.True(t, sh.RemoveAssignee("Bob"))
	assert.Equal(t, []string{"Alice", "Carol"}, sh.Assignees)

	assert.False(t, sh.RemoveAssignee("Bob"))
	assert.Equal(t, []string{"Alice", "Carol"}, sh.Assignees)

	empty := NewShipment(sampleSnapshot("222"), time.Now())
	assert.False(t, empty.RemoveAssignee("Alice"))
	assert.Empty(t, empty.Assignees)
}

// TestShipment_ToggleCollected verifies the collected/collectedAt round-trip.
func TestShipment_ToggleCollected(t *testing.T) {
	sh := NewShipment(sampleSnapshot("111"), time.Now())
	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	assert.True(t, sh.ToggleCollected(now))
	assert.True(t, sh.Collected)
	require.NotNil(t, sh.CollectedAt)
	assert.Equal(t, now, *sh.CollectedAt)

	assert.False(t, sh.ToggleCollected(now.Add(time.Hour)))
	assert.False(t, sh.Collected)
	assert.Nil(t, sh.CollectedAt)
}
