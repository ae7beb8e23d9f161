package shell

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/AntonStoeckl/domain-events-go/domain"
	"github.com/AntonStoeckl/domain-events-go/example/shared/core"
	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// Payload keys BooksLentOut reads from generic domain events.
const (
	PayloadKeyBookID   = "book_id"
	PayloadKeyReaderID = "reader_id"
)

// LentBook is one entry of the BooksLentOut projection.
type LentBook struct {
	BookID   core.BookIDString
	ReaderID core.ReaderIDString
}

// BooksLentOutResult is a point in time view of the BooksLentOut projection, sorted by BookID.
type BooksLentOutResult struct {
	Books []LentBook
	Count int
}

// BooksLentOut is a listener that projects which book copies are currently lent to which reader.
//
// It narrows events by their concrete type. Generic domain.DomainEvent values with a library event type
// are read through their payload. All other events are ignored.
type BooksLentOut struct {
	mu   sync.RWMutex
	lent map[core.BookIDString]core.ReaderIDString
}

// NewBooksLentOut creates an empty projection.
func NewBooksLentOut() *BooksLentOut {
	return &BooksLentOut{lent: make(map[core.BookIDString]core.ReaderIDString)}
}

// Handle applies the event to the projection.
func (p *BooksLentOut) Handle(_ context.Context, event publisher.Event) error {
	switch e := event.(type) {
	case core.BookCopyLentToReader:
		p.lend(e.BookID, e.ReaderID)

	case core.BookCopyReturnedByReader:
		p.giveBack(e.BookID)

	case core.BookCopyRemovedFromCirculation:
		p.giveBack(e.BookID)

	case domain.DomainEvent:
		return p.handleGeneric(e)
	}

	return nil
}

func (p *BooksLentOut) handleGeneric(event domain.DomainEvent) error {
	switch event.EventType {
	case core.BookCopyLentToReaderEventType:
		bookID, readerID, err := readBookAndReader(event.Payload())
		if err != nil {
			return err
		}

		p.lend(bookID, readerID)

	case core.BookCopyReturnedByReaderEventType, core.BookCopyRemovedFromCirculationEventType:
		bookID, err := event.Payload().String(PayloadKeyBookID)
		if err != nil {
			return errors.Join(ErrUnreadablePayload, err)
		}

		p.giveBack(bookID)
	}

	return nil
}

func readBookAndReader(payload domain.Payload) (core.BookIDString, core.ReaderIDString, error) {
	bookID, err := payload.String(PayloadKeyBookID)
	if err != nil {
		return "", "", errors.Join(ErrUnreadablePayload, err)
	}

	readerID, err := payload.String(PayloadKeyReaderID)
	if err != nil {
		return "", "", errors.Join(ErrUnreadablePayload, err)
	}

	return bookID, readerID, nil
}

func (p *BooksLentOut) lend(bookID core.BookIDString, readerID core.ReaderIDString) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lent[bookID] = readerID
}

func (p *BooksLentOut) giveBack(bookID core.BookIDString) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.lent, bookID)
}

// LentTo returns the reader a book copy is lent to.
func (p *BooksLentOut) LentTo(bookID core.BookIDString) (core.ReaderIDString, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	readerID, ok := p.lent[bookID]

	return readerID, ok
}

// Result returns the current state of the projection.
func (p *BooksLentOut) Result() BooksLentOutResult {
	p.mu.RLock()
	defer p.mu.RUnlock()

	books := make([]LentBook, 0, len(p.lent))
	for bookID, readerID := range p.lent {
		books = append(books, LentBook{BookID: bookID, ReaderID: readerID})
	}

	slices.SortFunc(books, func(a, b LentBook) int {
		return strings.Compare(a.BookID, b.BookID)
	})

	return BooksLentOutResult{Books: books, Count: len(books)}
}
