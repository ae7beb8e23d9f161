package publisher

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type dispatchMode int

const (
	dispatchSequential dispatchMode = iota
	dispatchConcurrent
)

// Publisher broadcasts events to an ordered registry of listeners.
//
// The zero value is not usable, construct it with NewPublisher.
type Publisher struct {
	mu          sync.Mutex
	subscribers []Listener
	dispatching bool
	mode        dispatchMode

	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewPublisher creates an idle Publisher without subscribers.
func NewPublisher(options ...Option) (*Publisher, error) {
	p := &Publisher{
		subscribers: make([]Listener, 0),
		mode:        dispatchSequential,
	}

	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Subscribe appends the listener to the end of the registry.
// The same listener may be subscribed more than once and will then receive each event once per registration.
//
// While a publish call is dispatching, the listener is dropped. It is not queued for later.
func (p *Publisher) Subscribe(listener Listener) {
	if listener == nil {
		return
	}

	if !p.appendSubscriber(listener) {
		p.rejectMutation(mutationSubscribe)
	}
}

// Unsubscribe removes the first registration of the listener.
// Unknown listeners are ignored.
//
// While a publish call is dispatching, the registry is left unchanged and a warning is logged.
func (p *Publisher) Unsubscribe(listener Listener) {
	if !p.removeSubscriber(listener) {
		p.rejectMutation(mutationUnsubscribe)
	}
}

// Publish hands the event to every listener registered at the time of the call, in registration order,
// and returns once all of them have finished.
//
// Listener errors and panics are isolated: they are reported to the configured logger, metrics and tracing
// collectors, but never stop delivery to the remaining listeners and never surface to the caller.
//
// A Publish call made while another one is dispatching (typically from inside a listener) returns
// immediately without dispatching.
//
// The core imposes no timeout. A listener that never returns blocks Publish.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	subscribers, acquired := p.acquireDispatch()
	if !acquired {
		p.incrementCounter(ctx, DroppedPublishesMetric, map[string]string{LogAttrEventType: eventTypeOf(event)})
		return
	}
	defer p.releaseDispatch()

	eventType := eventTypeOf(event)
	ctx, span := p.startPublishSpan(ctx, eventType, len(subscribers))
	start := time.Now()

	outcomes := p.dispatch(ctx, event, subscribers)

	failureCount := 0
	for position, err := range outcomes {
		if err == nil {
			continue
		}

		failureCount++
		p.logListenerFailure(ctx, eventType, position, subscribers[position], err)
	}

	duration := time.Since(start)
	p.recordPublishMetrics(ctx, eventType, failureCount, duration)
	p.finishPublishSpan(span, failureCount, duration)
	p.logPublished(ctx, eventType, len(subscribers), failureCount, duration)
}

// Reset removes all listeners, also while a publish call is dispatching.
// An in-flight dispatch still completes delivery to the listeners it started with.
// Meant to be called between independent sessions (e.g. test cases), never implicitly.
func (p *Publisher) Reset() {
	removed := p.clearSubscribers()
	p.logReset(removed)
}

// Subscribers returns a copy of the registry in registration order.
func (p *Publisher) Subscribers() []Listener {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.subscribers)
}

// SubscriberCount returns the number of registrations.
func (p *Publisher) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.subscribers)
}

// IsDispatching reports whether a publish call is currently dispatching.
func (p *Publisher) IsDispatching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.dispatching
}

// appendSubscriber adds the listener unless a dispatch is running.
// It returns false if the registry was frozen.
func (p *Publisher) appendSubscriber(listener Listener) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dispatching {
		return false
	}

	p.subscribers = append(p.subscribers, listener)
	p.recordSubscriberCount(len(p.subscribers))

	return true
}

// removeSubscriber deletes the first registration of the listener unless a dispatch is running.
// It returns false if the registry was frozen. A listener that is not registered counts as removed.
func (p *Publisher) removeSubscriber(listener Listener) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dispatching {
		return false
	}

	idx := slices.IndexFunc(p.subscribers, func(subscriber Listener) bool {
		return sameListener(subscriber, listener)
	})
	if idx < 0 {
		return true
	}

	p.subscribers = slices.Delete(p.subscribers, idx, idx+1)
	p.recordSubscriberCount(len(p.subscribers))

	return true
}

// clearSubscribers swaps in an empty registry and returns how many registrations were dropped.
func (p *Publisher) clearSubscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := len(p.subscribers)
	p.subscribers = make([]Listener, 0)
	p.recordSubscriberCount(0)

	return removed
}

// acquireDispatch sets the dispatch flag and returns the registry it froze.
// It returns false if the flag was already set.
func (p *Publisher) acquireDispatch() ([]Listener, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dispatching {
		return nil, false
	}

	p.dispatching = true

	// Subscribe/Unsubscribe are rejected until release and Reset swaps the slice instead of
	// modifying it, so the registry does not need to be copied here.
	return p.subscribers, true
}

// releaseDispatch clears the dispatch flag.
func (p *Publisher) releaseDispatch() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dispatching = false
}

// dispatch invokes all listeners and returns their outcomes indexed by registry position.
func (p *Publisher) dispatch(ctx context.Context, event Event, subscribers []Listener) []error {
	outcomes := make([]error, len(subscribers))

	if p.mode == dispatchSequential {
		for position, listener := range subscribers {
			outcomes[position] = invoke(ctx, listener, event)
		}

		return outcomes
	}

	// errgroup without a derived context: one failure must not cancel the others.
	var group errgroup.Group
	for position, listener := range subscribers {
		group.Go(func() error {
			outcomes[position] = invoke(ctx, listener, event)
			return nil
		})
	}
	_ = group.Wait() // always nil, outcomes are collected per position

	return outcomes
}

// rejectMutation reports a registry mutation attempted during dispatch.
func (p *Publisher) rejectMutation(mutation string) {
	p.incrementCounter(context.Background(), RejectedMutationsMetric, map[string]string{labelMutation: mutation})
	p.logRejectedMutation(mutation)
}

// invoke calls the listener and converts a panic into an error.
func invoke(ctx context.Context, listener Listener, event Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanicked, recovered)
		}
	}()

	return listener.Handle(ctx, event)
}

// eventTypeOf returns the event type or an empty string for a nil event.
func eventTypeOf(event Event) string {
	if event == nil {
		return ""
	}

	return event.IsEventType()
}
