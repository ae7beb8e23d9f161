// Package observable provides a decorator for instrumenting listeners
// with observability (metrics, tracing, logging) while keeping their logic pure.
//
// # Core Principle: External Wrapping
//
// The observable wrapper is applied externally at bootstrap/wiring time, not hidden
// inside factory functions. This makes the observability composition explicit and transparent.
//
// # Usage
//
//	// 1. Create the pure listener
//	projection := shell.NewBooksLentOut()
//
//	// 2. Wrap with observability (external, explicit)
//	observableListener, err := observable.NewListener(
//		projection,
//		"books_lent_out",
//		observable.WithMetrics(metricsCollector),
//		observable.WithTracing(tracingCollector),
//		observable.WithContextualLogging(contextualLogger),
//	)
//
//	// 3. Subscribe the wrapped listener
//	p.Subscribe(observableListener)
//
// The publisher already logs and counts failed listeners. The wrapper adds per-listener
// duration, call counts and a child span for each listener call.
//
// Unsubscribe needs the wrapper instance, not the wrapped listener.
package observable
