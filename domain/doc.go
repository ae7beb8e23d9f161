// Package domain contains the building blocks that business code uses around the publisher:
//   - DomainEvent: a generic, immutable event value (timestamp, type discriminator, payload)
//   - Payload: a string-keyed map with narrowing helpers for listeners
//   - Identifier: a UUID based identity value object
//   - AggregateRoot: an embeddable base that records events until they are published
//   - an error taxonomy for rule violations
//
// Typed events (structs implementing publisher.Event) can be used instead of DomainEvent,
// the publisher treats both the same.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package domain
