package publisher

import (
	"errors"
)

var (
	// ErrListenerPanicked wraps the value recovered from a panicking listener.
	ErrListenerPanicked = errors.New("listener panicked while handling event")

	// ErrNilLogger is returned when a nil logger is provided to WithLogger.
	ErrNilLogger = errors.New("logger must not be nil")

	// ErrNilContextualLogger is returned when a nil logger is provided to WithContextualLogger.
	ErrNilContextualLogger = errors.New("contextual logger must not be nil")

	// ErrNilMetricsCollector is returned when a nil collector is provided to WithMetrics.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrNilTracingCollector is returned when a nil collector is provided to WithTracing.
	ErrNilTracingCollector = errors.New("tracing collector must not be nil")
)
