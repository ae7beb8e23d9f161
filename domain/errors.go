package domain

import (
	"errors"
)

var (
	// ErrDomain is the root of all errors in this taxonomy.
	ErrDomain = errors.New("domain error")

	// ErrValidation is used for invalid input values.
	ErrValidation = errors.Join(ErrDomain, errors.New("validation failed"))

	// ErrNotFound is used when a referenced entity does not exist.
	ErrNotFound = errors.Join(ErrDomain, errors.New("not found"))

	// ErrConflict is used when the current state conflicts with the requested change.
	ErrConflict = errors.Join(ErrDomain, errors.New("conflict"))

	// ErrRuleViolation is used when a business rule forbids the requested change.
	ErrRuleViolation = errors.Join(ErrDomain, errors.New("business rule violated"))
)

// NewError returns an error that matches kind (and ErrDomain) with errors.Is and carries message.
func NewError(kind error, message string) error {
	return errors.Join(kind, errors.New(message))
}

// IsDomainError reports whether err belongs to the taxonomy.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}
