package models

import "time"

// Realtime event types
const (
	EventItemUpdate     = "item_update"
	EventPurchaseUpdate = "purchase_update"
	EventMessage        = "message"
	EventMemberUpdate   = "member_update"
	EventPing           = "ping"
)

// Event is the envelope pushed to realtime subscribers. The registry
// treats Data as opaque; interpretation is the subscriber's job.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
