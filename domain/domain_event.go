package domain

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/domain-events-go/publisher"
)

var (
	// ErrEmptyEventType is returned when a DomainEvent is built without an event type.
	ErrEmptyEventType = errors.New("event type must not be empty")

	// ErrMarshalingPayloadFailed is returned when the payload can not be rendered as JSON.
	ErrMarshalingPayloadFailed = errors.New("marshaling payload to json failed")
)

// DomainEvents is a slice of publisher.Event instances.
type DomainEvents = []publisher.Event

// DomainEvent is a generic, immutable domain event.
//
// While its properties are exported for reading, it should only be constructed with BuildDomainEvent.
type DomainEvent struct {
	OccurredAt time.Time
	EventType  string
	payload    Payload
}

// BuildDomainEvent creates a DomainEvent. The payload is copied, later changes to the given map
// are not visible through the event.
func BuildDomainEvent(eventType string, occurredAt time.Time, payload Payload) (DomainEvent, error) {
	if eventType == "" {
		return DomainEvent{}, ErrEmptyEventType
	}

	return DomainEvent{
		OccurredAt: ToOccurredAt(occurredAt),
		EventType:  eventType,
		payload:    payload.Clone(),
	}, nil
}

// IsEventType returns the event type identifier.
func (e DomainEvent) IsEventType() string {
	return e.EventType
}

// HasOccurredAt returns when this event occurred.
func (e DomainEvent) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Payload returns a copy of the payload.
func (e DomainEvent) Payload() Payload {
	return e.payload.Clone()
}

// PayloadToJSON renders the payload as JSON.
func (e DomainEvent) PayloadToJSON() ([]byte, error) {
	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(e.payload.Clone())
	if err != nil {
		return nil, errors.Join(ErrMarshalingPayloadFailed, err)
	}

	return payloadJSON, nil
}

// ToOccurredAt converts a time to UTC with microsecond precision.
func ToOccurredAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

var _ publisher.Event = DomainEvent{}
