package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action identifies the kind of mutation an activity entry records.
type Action string

// The closed set of loggable actions.
const (
	ActionAddShipment     Action = "ADD_SHIPMENT"
	ActionDeleteShipment  Action = "DELETE_SHIPMENT"
	ActionUpdateStatus    Action = "UPDATE_STATUS"
	ActionAddPIC          Action = "ADD_PIC"
	ActionRemovePIC       Action = "REMOVE_PIC"
	ActionMarkCollected   Action = "MARK_COLLECTED"
	ActionMarkUncollected Action = "MARK_UNCOLLECTED"
	ActionBulkUpdate      Action = "BULK_UPDATE"
)

// Entry is one immutable record in the activity log.
type Entry struct {
	// ID is unique and collision-resistant; the millisecond prefix keeps
	// ids roughly time-sortable.
	ID string `json:"id"`
	// Timestamp is when the entry was created.
	Timestamp time.Time `json:"timestamp"`
	// Action is the kind of mutation recorded.
	Action Action `json:"action"`
	// Description is the human-readable text generated from the trigger.
	Description string `json:"description"`
	// RelatedShipmentID optionally back-references the affected shipment.
	RelatedShipmentID string `json:"related_shipment_id,omitempty"`
}

// NewEntry creates an entry stamped at now with a fresh unique id.
func NewEntry(action Action, description, relatedShipmentID string, now time.Time) Entry {
	return Entry{
		ID:                fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		Timestamp:         now,
		Action:            action,
		Description:       description,
		RelatedShipmentID: relatedShipmentID,
	}
}
