package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/domain-events-go/publisher"
	"github.com/AntonStoeckl/domain-events-go/publisher/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")
	assert.NotNil(t, logger, "NewSlogBridgeLogger should return non-nil logger")

	tracerProvider := trace.NewTracerProvider()
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	ctx, span := tracerProvider.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	assert.NotPanics(t, func() { logger.InfoContext(ctx, "message with trace context") })
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message"`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message"`)
}

func Test_SlogBridgeLogger_WiredIntoPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	p, err := publisher.NewPublisher(publisher.WithContextualLogger(logger))
	require.NoError(t, err)

	p.Subscribe(publisher.ListenerFunc(func(context.Context, publisher.Event) error { return nil }))
	p.Publish(context.Background(), testEvent{eventType: "BookCopyReturnedByReader"})

	output := buf.String()
	assert.Contains(t, output, publisher.LogMsgPublished)
	assert.Contains(t, output, `"event_type":"BookCopyReturnedByReader"`)
}

func Test_OTelLogger_AllLevels(t *testing.T) {
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	records := recorder.Records()
	require.Len(t, records, 4)
	assert.Equal(t, log.SeverityDebug, records[0].Severity())
	assert.Equal(t, log.SeverityInfo, records[1].Severity())
	assert.Equal(t, log.SeverityWarn, records[2].Severity())
	assert.Equal(t, log.SeverityError, records[3].Severity())
	assert.Equal(t, "error message", records[3].Body().AsString())
}

func Test_OTelLogger_ArgumentHandling(t *testing.T) {
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	logger.InfoContext(context.Background(), "message",
		"event_type", "BookCopyLentToReader",
		"listener_count", 3,
		42, "non-string key is skipped",
		"dangling",
	)

	records := recorder.Records()
	require.Len(t, records, 1)

	attrs := make(map[string]string)
	records[0].WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})

	assert.Equal(t, map[string]string{
		"event_type":     "BookCopyLentToReader",
		"listener_count": "3",
	}, attrs)
}

func Test_OTelLogger_NoopLogger(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "message", "key", "value")
	})
}

// recordingLogger keeps every emitted record.
type recordingLogger struct {
	noop.Logger
	mu      sync.Mutex
	records []log.Record
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record.Clone())
}

func (l *recordingLogger) Records() []log.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]log.Record(nil), l.records...)
}
