package core

import (
	"time"

	"github.com/AntonStoeckl/domain-events-go/domain"
)

// BookCopyReturnedByReaderEventType is the event type identifier.
const BookCopyReturnedByReaderEventType = "BookCopyReturnedByReader"

// BookCopyReturnedByReader represents when a reader returns a book copy.
type BookCopyReturnedByReader struct {
	BookID     BookIDString   `json:"book_id"`
	ReaderID   ReaderIDString `json:"reader_id"`
	OccurredAt OccurredAtTS   `json:"occurred_at"`
}

// BuildBookCopyReturnedByReader creates a new BookCopyReturnedByReader event.
func BuildBookCopyReturnedByReader(bookID, readerID domain.Identifier, occurredAt time.Time) BookCopyReturnedByReader {
	return BookCopyReturnedByReader{
		BookID:     bookID.String(),
		ReaderID:   readerID.String(),
		OccurredAt: domain.ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyReturnedByReader) IsEventType() string {
	return BookCopyReturnedByReaderEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyReturnedByReader) HasOccurredAt() time.Time {
	return e.OccurredAt
}
