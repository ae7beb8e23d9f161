package core

import (
	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// DomainEvent represents a business event that has occurred in the library domain.
type DomainEvent = publisher.Event

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// EventTypes returns the event types of the closed set of library events.
func EventTypes() []string {
	return []string{
		BookCopyAddedToCirculationEventType,
		BookCopyRemovedFromCirculationEventType,
		BookCopyLentToReaderEventType,
		BookCopyReturnedByReaderEventType,
	}
}
