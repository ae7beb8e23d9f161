package domain

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

var (
	// ErrPayloadKeyMissing is returned when a payload does not contain the requested key.
	ErrPayloadKeyMissing = errors.New("payload key missing")

	// ErrPayloadTypeMismatch is returned when a payload value has an unexpected type.
	ErrPayloadTypeMismatch = errors.New("payload value has unexpected type")
)

// Payload is the structured content of a DomainEvent.
// Listeners narrow the values they need with the typed accessors.
type Payload map[string]any

// Clone returns a shallow copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return Payload{}
	}

	return maps.Clone(p)
}

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the string value stored under key.
func (p Payload) String(key string) (string, error) {
	return narrow[string](p, key)
}

// Bool returns the bool value stored under key.
func (p Payload) Bool(key string) (bool, error) {
	return narrow[bool](p, key)
}

// Time returns the time value stored under key. RFC 3339 strings are accepted as well.
func (p Payload) Time(key string) (time.Time, error) {
	value, ok := p[key]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrPayloadKeyMissing, key)
	}

	switch typed := value.(type) {
	case time.Time:
		return typed, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, typed)
		if err != nil {
			return time.Time{}, errors.Join(fmt.Errorf("%w: %s", ErrPayloadTypeMismatch, key), err)
		}

		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s is %T", ErrPayloadTypeMismatch, key, value)
	}
}

// Int returns the integer value stored under key.
// Integral float64 values (as produced by JSON decoding) are accepted as well.
func (p Payload) Int(key string) (int64, error) {
	value, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPayloadKeyMissing, key)
	}

	switch typed := value.(type) {
	case int:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case float64:
		if typed == float64(int64(typed)) {
			return int64(typed), nil
		}
	}

	return 0, fmt.Errorf("%w: %s is %T", ErrPayloadTypeMismatch, key, value)
}

func narrow[T any](p Payload, key string) (T, error) {
	var zero T

	value, ok := p[key]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrPayloadKeyMissing, key)
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrPayloadTypeMismatch, key, value)
	}

	return typed, nil
}
