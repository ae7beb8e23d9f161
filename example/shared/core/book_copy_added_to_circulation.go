package core

import (
	"time"

	"github.com/AntonStoeckl/domain-events-go/domain"
)

// BookCopyAddedToCirculationEventType is the event type identifier.
const BookCopyAddedToCirculationEventType = "BookCopyAddedToCirculation"

// BookCopyAddedToCirculation represents when a book copy is added to library circulation.
type BookCopyAddedToCirculation struct {
	BookID     BookIDString `json:"book_id"`
	ISBN       ISBNString   `json:"isbn"`
	Title      string       `json:"title"`
	Authors    string       `json:"authors"`
	OccurredAt OccurredAtTS `json:"occurred_at"`
}

// BuildBookCopyAddedToCirculation creates a new BookCopyAddedToCirculation event.
func BuildBookCopyAddedToCirculation(
	bookID domain.Identifier,
	isbn string,
	title string,
	authors string,
	occurredAt time.Time,
) BookCopyAddedToCirculation {

	return BookCopyAddedToCirculation{
		BookID:     bookID.String(),
		ISBN:       isbn,
		Title:      title,
		Authors:    authors,
		OccurredAt: domain.ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyAddedToCirculation) IsEventType() string {
	return BookCopyAddedToCirculationEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyAddedToCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}
