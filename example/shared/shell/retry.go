package shell

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/AntonStoeckl/domain-events-go/publisher"
)

const (
	defaultMaxAttempts  = 4
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrNilMetricsCollector is returned by WithRetryMetrics for a nil collector.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrInvalidMaxAttempts is returned by WithMaxAttempts for values below one.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned by WithBaseDelay for negative delays.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned by WithJitterFactor outside of [0, 1].
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc is one delivery attempt.
type RetryableFunc func(ctx context.Context) error

// backoff describes how often and how long a failed delivery is retried.
type backoff struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64

	metrics      MetricsCollector
	listenerName string
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails permanently, or runs out of attempts.
//
// With the defaults a transient failure is retried after roughly 10 ms, 20 ms and 40 ms, each plus up to 30% jitter.
// Only errors wrapping ErrRetryable count as transient.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) error {
	b, err := newBackoff(options...)
	if err != nil {
		return err
	}

	return b.run(ctx, fn)
}

func newBackoff(options ...RetryOption) (*backoff, error) {
	b := &backoff{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *backoff) run(ctx context.Context, fn RetryableFunc) error {
	err := fn(ctx)

	for attempt := 1; attempt < b.maxAttempts && isRetryableError(err); attempt++ {
		b.countRetry(ctx, attempt, err)

		if waitErr := b.wait(ctx, attempt); waitErr != nil {
			return waitErr
		}

		err = fn(ctx)
	}

	if isRetryableError(err) {
		b.count(ctx, ListenerMaxRetriesReachedMetric, map[string]string{
			LogAttrListener:    b.listenerName,
			"final_error_type": getErrorType(err),
		})
	}

	return err
}

// delay returns baseDelay * 2^(attempt-1) plus jitter.
func (b *backoff) delay(attempt int) time.Duration {
	delay := b.baseDelay << (attempt - 1)
	jitter := rand.Float64() * float64(delay) * b.jitterFactor //nolint:gosec // jitter needs no crypto randomness

	return delay + time.Duration(jitter)
}

// wait sleeps before the given retry attempt and returns early with ctx.Err() on cancellation.
func (b *backoff) wait(ctx context.Context, attempt int) error {
	delay := b.delay(attempt)

	if b.metrics != nil {
		labels := map[string]string{
			LogAttrListener:  b.listenerName,
			"attempt_number": strconv.Itoa(attempt),
		}

		if contextual, ok := b.metrics.(ContextualMetricsCollector); ok {
			contextual.RecordDurationContext(ctx, ListenerRetryDelayMetric, delay, labels)
		} else {
			b.metrics.RecordDuration(ListenerRetryDelayMetric, delay, labels)
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *backoff) countRetry(ctx context.Context, attempt int, err error) {
	b.count(ctx, ListenerRetriesMetric, BuildRetryLabels(b.listenerName, attempt, getErrorType(err)))
}

func (b *backoff) count(ctx context.Context, metric string, labels map[string]string) {
	if b.metrics == nil {
		return
	}

	if contextual, ok := b.metrics.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	b.metrics.IncrementCounter(metric, labels)
}

// RetryingListener decorates a listener and redelivers events after transient failures.
// Retries run inside the listener's single invocation, so they delay the publish call.
type RetryingListener struct {
	inner   publisher.Listener
	backoff *backoff
}

// NewRetryingListener wraps inner with retry logic.
func NewRetryingListener(inner publisher.Listener, options ...RetryOption) (*RetryingListener, error) {
	if inner == nil {
		return nil, ErrNilListener
	}

	b, err := newBackoff(options...)
	if err != nil {
		return nil, err
	}

	return &RetryingListener{inner: inner, backoff: b}, nil
}

// Handle delivers the event to the wrapped listener.
func (l *RetryingListener) Handle(ctx context.Context, event publisher.Event) error {
	return l.backoff.run(ctx, func(ctx context.Context) error {
		return l.inner.Handle(ctx, event)
	})
}

// isRetryableError reports whether the listener marked the failure as transient.
// Context errors are never retried: the publish call they belong to is already over.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return errors.Is(err, ErrRetryable)
}

// getErrorType maps an error to a metric label value.
func getErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	case errors.Is(err, ErrRetryable):
		return "transient"
	default:
		return "other"
	}
}

// RetryOption configures a retry.
type RetryOption func(*backoff) error

// WithMaxAttempts sets the total number of deliveries, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(b *backoff) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		b.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the delay before the first retry. Each further retry doubles it.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(b *backoff) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		b.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the random share added on top of each delay, from 0.0 (none) to 1.0 (up to double).
func WithJitterFactor(factor float64) RetryOption {
	return func(b *backoff) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		b.jitterFactor = factor

		return nil
	}
}

// WithRetryMetrics reports retries, delays and exhausted retries labeled with listenerName.
func WithRetryMetrics(collector MetricsCollector, listenerName string) RetryOption {
	return func(b *backoff) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if listenerName == "" {
			return ErrEmptyListenerName
		}

		b.metrics = collector
		b.listenerName = listenerName

		return nil
	}
}
