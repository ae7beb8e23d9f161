package core

import (
	"time"

	"github.com/AntonStoeckl/domain-events-go/domain"
)

// BookCopyRemovedFromCirculationEventType is the event type identifier.
const BookCopyRemovedFromCirculationEventType = "BookCopyRemovedFromCirculation"

// BookCopyRemovedFromCirculation represents when a book copy is removed from library circulation.
type BookCopyRemovedFromCirculation struct {
	BookID     BookIDString `json:"book_id"`
	OccurredAt OccurredAtTS `json:"occurred_at"`
}

// BuildBookCopyRemovedFromCirculation creates a new BookCopyRemovedFromCirculation event.
func BuildBookCopyRemovedFromCirculation(bookID domain.Identifier, occurredAt time.Time) BookCopyRemovedFromCirculation {
	return BookCopyRemovedFromCirculation{
		BookID:     bookID.String(),
		OccurredAt: domain.ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyRemovedFromCirculation) IsEventType() string {
	return BookCopyRemovedFromCirculationEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyRemovedFromCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}
