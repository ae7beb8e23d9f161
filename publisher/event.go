package publisher

import (
	"context"
	"reflect"
	"time"
)

// Event is the minimal contract the Publisher needs from a domain event.
// The Publisher only reads these values for observability, it never inspects the payload.
type Event interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}

// Listener consumes published events.
//
// Handle receives whatever was passed to Publish. Implementations narrow the event
// themselves (usually with a type switch on the concrete event type) and ignore what
// they are not interested in.
type Listener interface {
	Handle(ctx context.Context, event Event) error
}

// ListenerFunc adapts a plain function to the Listener interface.
//
// Unsubscribe identifies a ListenerFunc by its code pointer, so two closures created from
// the same function literal are treated as the same listener. Use a pointer type if that matters.
type ListenerFunc func(ctx context.Context, event Event) error

// Handle calls f(ctx, event).
func (f ListenerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// sameListener reports whether a and b refer to the same listener.
func sameListener(a, b Listener) bool {
	typeA, typeB := reflect.TypeOf(a), reflect.TypeOf(b)
	if typeA != typeB {
		return false
	}

	if typeA.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}

	if !typeA.Comparable() {
		return false
	}

	return equalValues(a, b)
}

// equalValues compares a and b with ==. Struct values whose interface fields hold funcs, maps or slices
// pass the Comparable check but panic on comparison. Such values are treated as different.
func equalValues(a, b Listener) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()

	return a == b
}
