// Package helper provides test doubles for the publisher: spies for slog handlers, metrics and
// tracing collectors, and a recording listener.
package helper
