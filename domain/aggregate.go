package domain

import (
	"context"
	"slices"

	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// EventPublisher is what an aggregate needs to hand its recorded events over.
// *publisher.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event publisher.Event)
}

// AggregateRoot is embedded by aggregates. It records events produced by state changes until
// the application layer publishes them. It is not safe for concurrent use.
type AggregateRoot struct {
	id     Identifier
	events DomainEvents
}

// NewAggregateRoot creates an AggregateRoot with the given identity.
func NewAggregateRoot(id Identifier) AggregateRoot {
	return AggregateRoot{id: id}
}

// ID returns the identity of the aggregate.
func (a *AggregateRoot) ID() Identifier {
	return a.id
}

// RecordEvent appends an event to the not yet published events.
func (a *AggregateRoot) RecordEvent(event publisher.Event) {
	a.events = append(a.events, event)
}

// RecordedEvents returns a copy of the not yet published events.
func (a *AggregateRoot) RecordedEvents() DomainEvents {
	return slices.Clone(a.events)
}

// PullRecordedEvents returns the not yet published events and forgets them.
func (a *AggregateRoot) PullRecordedEvents() DomainEvents {
	events := a.events
	a.events = nil

	return events
}

// PublishRecordedEvents pulls the recorded events and publishes them one by one, in recording order.
// It returns the number of published events.
func (a *AggregateRoot) PublishRecordedEvents(ctx context.Context, p EventPublisher) int {
	events := a.PullRecordedEvents()

	for _, event := range events {
		p.Publish(ctx, event)
	}

	return len(events)
}
