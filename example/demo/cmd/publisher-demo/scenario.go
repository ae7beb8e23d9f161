package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/AntonStoeckl/domain-events-go/domain"
	"github.com/AntonStoeckl/domain-events-go/example/shared/core"
	"github.com/AntonStoeckl/domain-events-go/example/shared/shell"
)

const readerCount = 3

// runScenario simulates a day at the library desk: every book copy is added and lent,
// every second one is returned, and every fourth one is removed from circulation afterward.
// One lending attempt per scenario violates a rule and is logged as a warning.
// It returns the number of published events.
func runScenario(ctx context.Context, p domain.EventPublisher, logger *slog.Logger, bookCopies int) (int, error) {
	readers := make([]domain.Identifier, readerCount)
	for i := range readers {
		readers[i] = domain.NewIdentifier()
	}

	now := time.Now()
	published := 0

	for i := range bookCopies {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		b, err := core.AddBookCopyToCirculation(
			domain.NewIdentifier(),
			fmt.Sprintf("978-3-16-148410-%d", i%10),
			fmt.Sprintf("Book %d", i+1),
			"Various Authors",
			now,
		)
		if err != nil {
			return published, err
		}

		reader := readers[i%readerCount]
		if err = b.LendTo(reader, now); err != nil {
			return published, err
		}

		if i == 0 {
			if violation := b.LendTo(readers[(i+1)%readerCount], now); violation != nil {
				logger.WarnContext(ctx, "lending rejected", "book_id", b.ID().String(), "error", violation.Error())
			}
		}

		if i%2 == 0 {
			if err = b.ReturnFrom(reader, now); err != nil {
				return published, err
			}
		}

		if i%4 == 0 {
			if err = b.Remove(now); err != nil {
				return published, err
			}
		}

		published += b.PublishRecordedEvents(ctx, p)
	}

	return published, nil
}

func printResult(out io.Writer, result shell.BooksLentOutResult, published int) error {
	var err error
	write := func(format string, args ...any) {
		_, writeErr := fmt.Fprintf(out, format, args...)
		err = errors.Join(err, writeErr)
	}

	write("published events: %d\n", published)
	write("books lent out:   %d\n", result.Count)

	for _, book := range result.Books {
		write("  %s -> %s\n", book.BookID, book.ReaderID)
	}

	return err
}
