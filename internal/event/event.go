// Package event defines the outbound envelope delivered over a session.
//
// Every frame pushed to a client is a tagged payload {kind, data}. Clients
// treat unknown kinds as ignorable, which keeps the wire format open for
// new event types.
package event

import "encoding/json"

// Kind tags the payload of an outbound event.
type Kind string

const (
	KindPresence     Kind = "presence"
	KindMessage      Kind = "message"
	KindNotification Kind = "notification"
)

// Event is a single outbound frame. It is transient: it exists only for the
// duration of one delivery attempt and is never queued or retried.
type Event struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// New builds an event by serializing payload into the data field.
func New(kind Kind, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Data: data}, nil
}
