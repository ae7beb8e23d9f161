package domain

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidIdentifier is returned when a string is not a valid identifier.
var ErrInvalidIdentifier = NewError(ErrValidation, "invalid identifier")

// Identifier is the identity of an entity or aggregate.
// Two identifiers are equal if their values are equal.
type Identifier struct {
	value uuid.UUID
}

// NewIdentifier creates a new random (UUIDv7 if possible) identifier.
func NewIdentifier() Identifier {
	value, err := uuid.NewV7()
	if err != nil {
		value = uuid.New()
	}

	return Identifier{value: value}
}

// IdentifierFrom parses an identifier from its string form.
func IdentifierFrom(value string) (Identifier, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return Identifier{}, errors.Join(ErrInvalidIdentifier, err)
	}

	if parsed == uuid.Nil {
		return Identifier{}, ErrInvalidIdentifier
	}

	return Identifier{value: parsed}, nil
}

// IdentifierFromUUID wraps an existing UUID.
func IdentifierFromUUID(value uuid.UUID) Identifier {
	return Identifier{value: value}
}

// Equals reports whether both identifiers have the same value.
func (id Identifier) Equals(other Identifier) bool {
	return id.value == other.value
}

// IsZero reports whether the identifier is unset.
func (id Identifier) IsZero() bool {
	return id.value == uuid.Nil
}

// String returns the canonical string form.
func (id Identifier) String() string {
	return id.value.String()
}

// UUID returns the underlying UUID.
func (id Identifier) UUID() uuid.UUID {
	return id.value
}
