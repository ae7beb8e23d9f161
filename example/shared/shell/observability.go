package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/domain-events-go/publisher"
)

const (
	// ListenerHandleDurationMetric tracks listener execution duration (OpenTelemetry-compatible).
	ListenerHandleDurationMetric = "listener_handle_duration_seconds"

	// ListenerHandleCallsMetric tracks total listener calls.
	ListenerHandleCallsMetric = "listener_handle_calls_total"

	// ListenerRetriesMetric tracks retry attempts of listeners.
	//
	// Labels:
	//   - listener: Name of the retried listener
	//   - attempt_number: Which retry attempt (1, 2, 3, ...)
	//   - error_type: Category of error causing retry
	ListenerRetriesMetric = "listener_retries_total"

	// ListenerRetryDelayMetric tracks the backoff delays before retries.
	ListenerRetryDelayMetric = "listener_retry_delay_seconds"

	// ListenerMaxRetriesReachedMetric tracks when max retries are exhausted.
	ListenerMaxRetriesReachedMetric = "listener_max_retries_reached_total"

	// StatusSuccess indicates successful listener completion.
	StatusSuccess = "success"

	// StatusError indicates a listener error.
	StatusError = "error"

	// StatusCanceled indicates the listener stopped due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the listener stopped due to context deadline exceeded.
	StatusTimeout = "timeout"

	// LogMsgListenerStarted is logged when a listener starts handling an event.
	LogMsgListenerStarted = "listener started"

	// LogMsgListenerCompleted is logged when a listener handled an event successfully.
	LogMsgListenerCompleted = "listener completed"

	// LogMsgListenerFailed is logged when a listener failed to handle an event.
	LogMsgListenerFailed = "listener failed"

	// LogMsgEventPublished is logged by the EventLog listener for every event.
	LogMsgEventPublished = "domain event published"

	// LogAttrListener identifies the listener in logs, metrics and spans.
	LogAttrListener = "listener"

	// LogAttrEventType identifies the event type.
	LogAttrEventType = publisher.LogAttrEventType

	// LogAttrStatus indicates the listener status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = publisher.LogAttrDurationMS

	// LogAttrError contains error details.
	LogAttrError = publisher.LogAttrError

	// LogAttrOccurredAt contains the occurrence time of an event.
	LogAttrOccurredAt = "occurred_at"

	// LogAttrPayload contains the JSON payload of an event.
	LogAttrPayload = "payload"

	// SpanNameListenerHandle is the tracing span name for listener calls.
	SpanNameListenerHandle = "listener.handle"
)

// Logger is the basic logger used by listeners.
type Logger = publisher.Logger

// ContextualLogger is the context-aware logger used by listeners.
type ContextualLogger = publisher.ContextualLogger

// MetricsCollector collects listener metrics.
type MetricsCollector = publisher.MetricsCollector

// ContextualMetricsCollector collects listener metrics with trace correlation.
type ContextualMetricsCollector = publisher.ContextualMetricsCollector

// TracingCollector collects listener spans.
type TracingCollector = publisher.TracingCollector

// SpanContext is an active listener span.
type SpanContext = publisher.SpanContext

// BuildListenerLabels creates standard metric labels for listener operations.
func BuildListenerLabels(listenerName, eventType, status string) map[string]string {
	return map[string]string{
		LogAttrListener:  listenerName,
		LogAttrEventType: eventType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(listenerName string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrListener:  listenerName,
		"attempt_number": fmt.Sprintf("%d", attemptNumber),
		"error_type":     errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// ClassifyError maps a listener error to a status.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}

// RecordListenerMetrics records duration and call count of one listener call.
// It handles both context-aware and basic metrics collectors automatically.
func RecordListenerMetrics(
	ctx context.Context,
	collector MetricsCollector,
	listenerName string,
	eventType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildListenerLabels(listenerName, eventType, status)

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, ListenerHandleDurationMetric, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, ListenerHandleCallsMetric, labels)
	} else {
		collector.RecordDuration(ListenerHandleDurationMetric, duration, labels)
		collector.IncrementCounter(ListenerHandleCallsMetric, labels)
	}
}

// StartListenerSpan starts a distributed tracing span for a listener call.
// Returns the updated context and span context, or original context and nil if tracing is disabled.
func StartListenerSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	listenerName string,
	eventType string,
) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		LogAttrListener:  listenerName,
		LogAttrEventType: eventType,
	}

	return tracingCollector.StartSpan(ctx, SpanNameListenerHandle, attrs)
}

// FinishListenerSpan completes a distributed tracing span with the outcome of the listener call.
func FinishListenerSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	duration time.Duration,
	err error,
) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: formatDurationMS(duration),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogListenerStart logs the beginning of a listener call at debug level.
func LogListenerStart(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	listenerName string,
	eventType string,
) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, LogMsgListenerStarted, LogAttrListener, listenerName, LogAttrEventType, eventType)
	} else if logger != nil {
		logger.Debug(LogMsgListenerStarted, LogAttrListener, listenerName, LogAttrEventType, eventType)
	}
}

// LogListenerSuccess logs a successful listener call.
func LogListenerSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	listenerName string,
	eventType string,
	duration time.Duration,
) {
	args := []any{
		LogAttrListener, listenerName,
		LogAttrEventType, eventType,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, LogMsgListenerCompleted, args...)
	} else if logger != nil {
		logger.Info(LogMsgListenerCompleted, args...)
	}
}

// LogListenerError logs a failed listener call.
func LogListenerError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	listenerName string,
	eventType string,
	err error,
) {
	args := []any{
		LogAttrListener, listenerName,
		LogAttrEventType, eventType,
		LogAttrError, err.Error(),
	}

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, LogMsgListenerFailed, args...)
	} else if logger != nil {
		logger.Error(LogMsgListenerFailed, args...)
	}
}

// formatDurationMS formats duration in milliseconds for span attributes.
func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}
