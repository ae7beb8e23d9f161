package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/domain-events-go/example/shared/shell"
	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// Listener provides observability instrumentation for any publisher.Listener.
// It wraps a listener and adds metrics, tracing and logging, while delegating the event handling
// to the wrapped listener. The wrapped listener's error is returned unchanged.
type Listener struct {
	inner            publisher.Listener
	name             string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewListener creates a new observable wrapper around the listener.
// The name identifies the listener in logs, metrics and spans.
func NewListener(inner publisher.Listener, name string, opts ...Option) (*Listener, error) {
	if inner == nil {
		return nil, shell.ErrNilListener
	}

	if name == "" {
		return nil, shell.ErrEmptyListenerName
	}

	wrapper := &Listener{
		inner: inner,
		name:  name,
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Name returns the name the listener is instrumented with.
func (w *Listener) Name() string {
	return w.name
}

// Handle delivers the event to the wrapped listener with observability.
func (w *Listener) Handle(ctx context.Context, event publisher.Event) error {
	eventType := event.IsEventType()

	start := time.Now()
	ctx, span := shell.StartListenerSpan(ctx, w.tracingCollector, w.name, eventType)
	shell.LogListenerStart(ctx, w.logger, w.contextualLogger, w.name, eventType)

	err := w.inner.Handle(ctx, event)

	duration := time.Since(start)
	status := shell.ClassifyError(err)
	shell.RecordListenerMetrics(ctx, w.metricsCollector, w.name, eventType, status, duration)
	shell.FinishListenerSpan(w.tracingCollector, span, status, duration, err)

	if err != nil {
		shell.LogListenerError(ctx, w.logger, w.contextualLogger, w.name, eventType, err)
		return err
	}

	shell.LogListenerSuccess(ctx, w.logger, w.contextualLogger, w.name, eventType, duration)

	return nil
}

// Option defines a functional option for configuring Listener.
type Option func(*Listener) error

// WithMetrics sets the metrics collector for the Listener.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(w *Listener) error {
		if collector == nil {
			return publisher.ErrNilMetricsCollector
		}

		w.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the Listener.
func WithTracing(collector shell.TracingCollector) Option {
	return func(w *Listener) error {
		if collector == nil {
			return publisher.ErrNilTracingCollector
		}

		w.tracingCollector = collector

		return nil
	}
}

// WithContextualLogging sets the contextual logger for the Listener.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(w *Listener) error {
		if logger == nil {
			return publisher.ErrNilContextualLogger
		}

		w.contextualLogger = logger

		return nil
	}
}

// WithLogging sets the basic logger for the Listener.
func WithLogging(logger shell.Logger) Option {
	return func(w *Listener) error {
		if logger == nil {
			return publisher.ErrNilLogger
		}

		w.logger = logger

		return nil
	}
}

var _ publisher.Listener = (*Listener)(nil)
