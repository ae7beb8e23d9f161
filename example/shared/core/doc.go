// Package core contains the domain of the example:
// Book circulation in a public library.
//
// Events represent meaningful business occurrences like BookCopyAddedToCirculation
// and BookCopyLentToReader rather than generic create/update operations.
// They form a closed set, see EventTypes.
//
// The BookCopy aggregate enforces the circulation rules and records an event for every
// state change. The application layer publishes the recorded events afterward.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
