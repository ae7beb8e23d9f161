// Package publisher provides an in-process publish/subscribe hub for domain events.
//
// A Publisher holds an ordered registry of listeners and delivers every published event
// to all listeners that were registered when Publish was called. Delivery is best effort:
// a failing or panicking listener never aborts delivery to the remaining listeners and
// never turns into a failure of Publish itself.
//
// While a Publish call is dispatching, the registry is frozen:
//   - Subscribe is silently dropped
//   - Unsubscribe is rejected with a warning (if a logger is configured)
//   - a nested Publish (e.g. from inside a listener) returns immediately without dispatching
//
// Reset is the only registry mutation that is allowed at any time.
//
// Usage example:
//
//	p, _ := publisher.NewPublisher(
//		publisher.WithLogger(slog.Default()),
//		publisher.WithMetrics(metricsCollector),
//	)
//
//	p.Subscribe(projection)
//	p.Subscribe(publisher.ListenerFunc(func(ctx context.Context, event publisher.Event) error {
//		slog.InfoContext(ctx, "event seen", "event_type", event.IsEventType())
//		return nil
//	}))
//
//	p.Publish(ctx, event)
//
// There is no global instance. Construct one Publisher in the composition root and hand it
// to every component that needs it.
package publisher
