package helper

import (
	"context"
	"sync"
	"time"

	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// CallLog records listener invocations across several ListenerSpy instances, in invocation order.
type CallLog struct {
	entries []string
	mu      sync.Mutex
}

// NewCallLog creates an empty CallLog.
func NewCallLog() *CallLog {
	return &CallLog{entries: make([]string, 0)}
}

func (l *CallLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, name)
}

// Entries returns a copy of the recorded listener names.
func (l *CallLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]string, len(l.entries))
	copy(entries, l.entries)

	return entries
}

// ListenerSpy is a publisher.Listener that records the events it receives.
// An optional reaction runs after recording and its result is returned from Handle.
type ListenerSpy struct {
	name     string
	callLog  *CallLog
	reaction func(ctx context.Context, event publisher.Event) error
	events   []publisher.Event
	mu       sync.Mutex
}

// NewListenerSpy creates a ListenerSpy that writes its name to callLog (may be nil) on every call.
func NewListenerSpy(name string, callLog *CallLog) *ListenerSpy {
	return &ListenerSpy{
		name:    name,
		callLog: callLog,
		events:  make([]publisher.Event, 0),
	}
}

// ReactingWith sets the reaction that runs inside Handle.
func (s *ListenerSpy) ReactingWith(reaction func(ctx context.Context, event publisher.Event) error) *ListenerSpy {
	s.reaction = reaction
	return s
}

// Handle implements publisher.Listener.
func (s *ListenerSpy) Handle(ctx context.Context, event publisher.Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	if s.callLog != nil {
		s.callLog.add(s.name)
	}

	if s.reaction != nil {
		return s.reaction(ctx, event)
	}

	return nil
}

// Name returns the spy's name.
func (s *ListenerSpy) Name() string {
	return s.name
}

// CallCount returns how often Handle was called.
func (s *ListenerSpy) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.events)
}

// ReceivedEvents returns a copy of the received events.
func (s *ListenerSpy) ReceivedEvents() []publisher.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]publisher.Event, len(s.events))
	copy(events, s.events)

	return events
}

// TestEvent is a minimal publisher.Event for tests.
type TestEvent struct {
	EventType  string
	OccurredAt time.Time
}

// IsEventType implements publisher.Event.
func (e TestEvent) IsEventType() string {
	return e.EventType
}

// HasOccurredAt implements publisher.Event.
func (e TestEvent) HasOccurredAt() time.Time {
	return e.OccurredAt
}
