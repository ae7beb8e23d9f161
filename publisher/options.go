package publisher

// Option defines a functional option for configuring a Publisher.
type Option func(*Publisher) error

// WithConcurrentDispatch makes Publish start every listener on its own goroutine
// (in registration order) and wait until all of them have finished.
// Without this option, listeners run one after another on the publishing goroutine.
func WithConcurrentDispatch() Option {
	return func(p *Publisher) error {
		p.mode = dispatchConcurrent
		return nil
	}
}

// WithLogger sets the logger for the Publisher.
// The logger will receive messages at different levels:
//
// Debug level: Subscribe calls dropped during dispatch
// Info level: Finished publish calls with listener/failure counts and durations, resets
// Warn level: Unsubscribe calls rejected during dispatch
// Error level: Listener failures (the publish call itself never fails).
func WithLogger(logger Logger) Option {
	return func(p *Publisher) error {
		if logger == nil {
			return ErrNilLogger
		}

		p.logger = logger

		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Publisher.
// It receives the same messages as the Logger, together with the context of the publish call.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(p *Publisher) error {
		if logger == nil {
			return ErrNilContextualLogger
		}

		p.contextualLogger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Publisher.
// It receives publish durations and call counts, listener failures, dropped publishes,
// rejected registry mutations and the current number of subscribers.
func WithMetrics(collector MetricsCollector) Option {
	return func(p *Publisher) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		p.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the Publisher.
// One span is created per dispatched publish call.
func WithTracing(collector TracingCollector) Option {
	return func(p *Publisher) error {
		if collector == nil {
			return ErrNilTracingCollector
		}

		p.tracingCollector = collector

		return nil
	}
}
