// Package fanout records social events durably and pushes them to every
// live connection of each recipient, best effort. Delivery never feeds back
// into the operation that produced the event.
package fanout

import (
	"time"
)

// Event is a domain event emitted by the relationship or presence layer.
type Event struct {
	Type      string         `json:"type"`
	ActorId   string         `json:"actor_id"`
	SubjectId string         `json:"subject_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`

	// Transient events (presence changes) skip the durable notification
	// write; they are only meaningful while the recipient is connected.
	Transient bool `json:"-"`
	// Activity additionally appends the event to the audit trail once.
	Activity bool `json:"-"`
	// ActivityVisible flags the audit row for feed visibility.
	ActivityVisible bool `json:"-"`
}

// Envelope is what travels through a broker: the event plus its resolved
// recipient set. Durable writes happen before publish, so consumers only
// deliver.
type Envelope struct {
	Event      Event    `json:"event"`
	Recipients []string `json:"recipients"`
}
