package publisher

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	// PublishDurationMetric tracks the duration of dispatched publish calls (OpenTelemetry-compatible).
	PublishDurationMetric = "publisher_publish_duration_seconds"

	// PublishCallsMetric tracks dispatched publish calls.
	PublishCallsMetric = "publisher_publish_calls_total"

	// ListenerFailuresMetric tracks listeners that returned an error or panicked.
	ListenerFailuresMetric = "publisher_listener_failures_total"

	// DroppedPublishesMetric tracks publish calls dropped because a dispatch was already in progress.
	DroppedPublishesMetric = "publisher_dropped_publishes_total"

	// RejectedMutationsMetric tracks subscribe/unsubscribe calls rejected during dispatch.
	RejectedMutationsMetric = "publisher_rejected_mutations_total"

	// SubscribersMetric records the current number of registered listeners.
	SubscribersMetric = "publisher_subscribers"

	// SpanNamePublish is the span name for dispatched publish calls.
	SpanNamePublish = "publisher.publish"

	// StatusSuccess indicates that all listeners completed without error.
	StatusSuccess = "success"

	// StatusPartialFailure indicates that at least one listener failed.
	StatusPartialFailure = "partial_failure"

	// LogAttrEventType identifies the event type in logs, metrics and spans.
	LogAttrEventType = "event_type"

	// LogAttrListenerCount identifies the number of listeners a publish call dispatched to.
	LogAttrListenerCount = "listener_count"

	// LogAttrFailureCount identifies the number of failed listeners.
	LogAttrFailureCount = "failure_count"

	// LogAttrListener identifies the listener type.
	LogAttrListener = "listener"

	// LogAttrListenerPosition identifies the registry position of a listener.
	LogAttrListenerPosition = "listener_position"

	// LogAttrDurationMS identifies durations in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrError identifies error messages.
	LogAttrError = "error"

	// LogAttrMutation identifies the rejected registry mutation.
	LogAttrMutation = "mutation"

	// LogMsgPublished is logged when a publish call finished dispatching.
	LogMsgPublished = "publisher operation: publish"

	// LogMsgListenerFailed is logged for every listener that returned an error or panicked.
	LogMsgListenerFailed = "listener failed while handling event"

	// LogMsgUnsubscribeRejected is logged when Unsubscribe is called during dispatch.
	LogMsgUnsubscribeRejected = "unsubscribe rejected: publish in progress"

	// LogMsgSubscribeDropped is logged (debug level) when Subscribe is called during dispatch.
	LogMsgSubscribeDropped = "subscribe dropped: publish in progress"

	// LogMsgReset is logged when the registry is reset.
	LogMsgReset = "publisher operation: reset"

	labelStatus         = "status"
	labelMutation       = "mutation"
	mutationSubscribe   = "subscribe"
	mutationUnsubscribe = "unsubscribe"
)

// Logger interface for operational logging, warnings, and error reporting.
// It is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// This interface follows the same dependency-free pattern as MetricsCollector and TracingCollector,
// allowing users to integrate with any logging backend that supports context-based correlation.
// It is satisfied by *slog.Logger.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting Publisher performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods for better tracing integration.
// This interface is optional - the Publisher uses the context-aware methods when available, falling back to
// the base MetricsCollector interface otherwise.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting distributed tracing information from publish calls.
// It allows users to integrate with any tracing backend (OpenTelemetry, Jaeger, Zipkin, etc.).
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// logPublished logs a finished dispatch at info level.
func (p *Publisher) logPublished(ctx context.Context, eventType string, listenerCount, failureCount int, duration time.Duration) {
	args := []any{
		LogAttrEventType, eventType,
		LogAttrListenerCount, listenerCount,
		LogAttrFailureCount, failureCount,
		LogAttrDurationMS, toMilliseconds(duration),
	}

	if p.logger != nil {
		p.logger.Info(LogMsgPublished, args...)
	}

	if p.contextualLogger != nil {
		p.contextualLogger.InfoContext(ctx, LogMsgPublished, args...)
	}
}

// logListenerFailure logs one failed listener at error level.
func (p *Publisher) logListenerFailure(ctx context.Context, eventType string, position int, listener Listener, err error) {
	args := []any{
		LogAttrError, err.Error(),
		LogAttrEventType, eventType,
		LogAttrListener, fmt.Sprintf("%T", listener),
		LogAttrListenerPosition, position,
	}

	if p.logger != nil {
		p.logger.Error(LogMsgListenerFailed, args...)
	}

	if p.contextualLogger != nil {
		p.contextualLogger.ErrorContext(ctx, LogMsgListenerFailed, args...)
	}
}

// logRejectedMutation logs registry mutations attempted during dispatch.
// Unsubscribe is a warning, Subscribe only shows up at debug level.
func (p *Publisher) logRejectedMutation(mutation string) {
	if p.logger == nil && p.contextualLogger == nil {
		return
	}

	ctx := context.Background()

	if mutation == mutationUnsubscribe {
		if p.logger != nil {
			p.logger.Warn(LogMsgUnsubscribeRejected, LogAttrMutation, mutation)
		}
		if p.contextualLogger != nil {
			p.contextualLogger.WarnContext(ctx, LogMsgUnsubscribeRejected, LogAttrMutation, mutation)
		}

		return
	}

	if p.logger != nil {
		p.logger.Debug(LogMsgSubscribeDropped, LogAttrMutation, mutation)
	}
	if p.contextualLogger != nil {
		p.contextualLogger.DebugContext(ctx, LogMsgSubscribeDropped, LogAttrMutation, mutation)
	}
}

// logReset logs a registry reset at info level.
func (p *Publisher) logReset(removed int) {
	if p.logger != nil {
		p.logger.Info(LogMsgReset, LogAttrListenerCount, removed)
	}

	if p.contextualLogger != nil {
		p.contextualLogger.InfoContext(context.Background(), LogMsgReset, LogAttrListenerCount, removed)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// incrementCounter increments a counter, with context if the collector supports it.
func (p *Publisher) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if p.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := p.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		p.metricsCollector.IncrementCounter(metric, labels)
	}
}

// recordDuration records a duration, with context if the collector supports it.
func (p *Publisher) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if p.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := p.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
	} else {
		p.metricsCollector.RecordDuration(metric, duration, labels)
	}
}

// recordSubscriberCount records the current registry size as a gauge value.
// Callers hold p.mu so that gauge writes follow registry changes in order.
func (p *Publisher) recordSubscriberCount(count int) {
	if p.metricsCollector == nil {
		return
	}

	p.metricsCollector.RecordValue(SubscribersMetric, float64(count), map[string]string{})
}

// recordPublishMetrics records the call counter, the duration and one failure counter per failed listener.
func (p *Publisher) recordPublishMetrics(ctx context.Context, eventType string, failureCount int, duration time.Duration) {
	status := StatusSuccess
	if failureCount > 0 {
		status = StatusPartialFailure
	}

	labels := map[string]string{
		LogAttrEventType: eventType,
		labelStatus:      status,
	}

	p.incrementCounter(ctx, PublishCallsMetric, labels)
	p.recordDuration(ctx, PublishDurationMetric, duration, labels)

	for range failureCount {
		p.incrementCounter(ctx, ListenerFailuresMetric, map[string]string{LogAttrEventType: eventType})
	}
}

// startPublishSpan starts a tracing span if the tracing collector is configured.
func (p *Publisher) startPublishSpan(ctx context.Context, eventType string, listenerCount int) (context.Context, SpanContext) {
	if p.tracingCollector == nil {
		return ctx, nil
	}

	return p.tracingCollector.StartSpan(ctx, SpanNamePublish, map[string]string{
		LogAttrEventType:     eventType,
		LogAttrListenerCount: fmt.Sprintf("%d", listenerCount),
	})
}

// finishPublishSpan finishes the publish span with the failure count and duration.
func (p *Publisher) finishPublishSpan(span SpanContext, failureCount int, duration time.Duration) {
	if p.tracingCollector == nil || span == nil {
		return
	}

	status := StatusSuccess
	if failureCount > 0 {
		status = StatusPartialFailure
	}

	span.SetStatus(status)
	span.AddAttribute(LogAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	p.tracingCollector.FinishSpan(span, status, map[string]string{
		LogAttrFailureCount: fmt.Sprintf("%d", failureCount),
	})
}
