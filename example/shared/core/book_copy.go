package core

import (
	"time"

	"github.com/AntonStoeckl/domain-events-go/domain"
)

// BookCopy is the aggregate for a single physical copy of a book.
//
// Business Rules:
//
//	Add: ERROR "isbn must not be empty", "title must not be empty"
//	Lend: ERROR "book is not in circulation", "book is already lent"
//	Lend: IDEMPOTENCY if the book is already lent to this reader, no event is recorded
//	Return: ERROR "book is not in circulation", "book is not lent to this reader"
//	Remove: ERROR "book is currently lent"
//	Remove: IDEMPOTENCY if the book is already removed, no event is recorded
type BookCopy struct {
	domain.AggregateRoot
	isbn          ISBNString
	inCirculation bool
	lentTo        domain.Identifier
}

// AddBookCopyToCirculation creates a BookCopy and records BookCopyAddedToCirculation.
func AddBookCopyToCirculation(
	bookID domain.Identifier,
	isbn string,
	title string,
	authors string,
	occurredAt time.Time,
) (*BookCopy, error) {

	if bookID.IsZero() {
		return nil, domain.NewError(domain.ErrValidation, "book id must not be empty")
	}

	if isbn == "" {
		return nil, domain.NewError(domain.ErrValidation, "isbn must not be empty")
	}

	if title == "" {
		return nil, domain.NewError(domain.ErrValidation, "title must not be empty")
	}

	b := &BookCopy{
		AggregateRoot: domain.NewAggregateRoot(bookID),
		isbn:          isbn,
		inCirculation: true,
	}

	b.RecordEvent(BuildBookCopyAddedToCirculation(bookID, isbn, title, authors, occurredAt))

	return b, nil
}

// ISBN returns the ISBN of the book.
func (b *BookCopy) ISBN() ISBNString {
	return b.isbn
}

// IsInCirculation reports whether the book copy can currently be lent.
func (b *BookCopy) IsInCirculation() bool {
	return b.inCirculation
}

// LentTo returns the reader the book is lent to and whether it is lent at all.
func (b *BookCopy) LentTo() (domain.Identifier, bool) {
	return b.lentTo, !b.lentTo.IsZero()
}

// LendTo lends the book copy to a reader and records BookCopyLentToReader.
func (b *BookCopy) LendTo(readerID domain.Identifier, occurredAt time.Time) error {
	if readerID.IsZero() {
		return domain.NewError(domain.ErrValidation, "reader id must not be empty")
	}

	if b.lentTo.Equals(readerID) {
		return nil
	}

	if !b.inCirculation {
		return domain.NewError(domain.ErrRuleViolation, "book is not in circulation")
	}

	if !b.lentTo.IsZero() {
		return domain.NewError(domain.ErrConflict, "book is already lent")
	}

	b.lentTo = readerID
	b.RecordEvent(BuildBookCopyLentToReader(b.ID(), readerID, occurredAt))

	return nil
}

// ReturnFrom takes the book copy back from a reader and records BookCopyReturnedByReader.
func (b *BookCopy) ReturnFrom(readerID domain.Identifier, occurredAt time.Time) error {
	if !b.inCirculation {
		return domain.NewError(domain.ErrRuleViolation, "book is not in circulation")
	}

	if b.lentTo.IsZero() || !b.lentTo.Equals(readerID) {
		return domain.NewError(domain.ErrRuleViolation, "book is not lent to this reader")
	}

	b.lentTo = domain.Identifier{}
	b.RecordEvent(BuildBookCopyReturnedByReader(b.ID(), readerID, occurredAt))

	return nil
}

// Remove takes the book copy out of circulation and records BookCopyRemovedFromCirculation.
func (b *BookCopy) Remove(occurredAt time.Time) error {
	if !b.inCirculation {
		return nil
	}

	if !b.lentTo.IsZero() {
		return domain.NewError(domain.ErrRuleViolation, "book is currently lent")
	}

	b.inCirculation = false
	b.RecordEvent(BuildBookCopyRemovedFromCirculation(b.ID(), occurredAt))

	return nil
}
