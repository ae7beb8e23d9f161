package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types here ...

// BookIDString represents a book identifier
type BookIDString = string

// ReaderIDString represents a reader identifier
type ReaderIDString = string

// ISBNString represents an ISBN identifier
type ISBNString = string

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time
