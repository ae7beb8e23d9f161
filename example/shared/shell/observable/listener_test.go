package observable_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/domain-events-go/example/shared/shell"
	"github.com/AntonStoeckl/domain-events-go/example/shared/shell/observable"
	"github.com/AntonStoeckl/domain-events-go/publisher"
	. "github.com/AntonStoeckl/domain-events-go/testutil/helper" //nolint:revive
)

var someEvent = TestEvent{EventType: "BookCopyLentToReader"}

func Test_Listener_NewListener_Validation(t *testing.T) {
	_, err := observable.NewListener(nil, "name")
	assert.ErrorIs(t, err, shell.ErrNilListener)

	_, err = observable.NewListener(NewListenerSpy("A", nil), "")
	assert.ErrorIs(t, err, shell.ErrEmptyListenerName)

	_, err = observable.NewListener(NewListenerSpy("A", nil), "name", observable.WithMetrics(nil))
	assert.ErrorIs(t, err, publisher.ErrNilMetricsCollector)

	_, err = observable.NewListener(NewListenerSpy("A", nil), "name", observable.WithTracing(nil))
	assert.ErrorIs(t, err, publisher.ErrNilTracingCollector)

	_, err = observable.NewListener(NewListenerSpy("A", nil), "name", observable.WithContextualLogging(nil))
	assert.ErrorIs(t, err, publisher.ErrNilContextualLogger)

	_, err = observable.NewListener(NewListenerSpy("A", nil), "name", observable.WithLogging(nil))
	assert.ErrorIs(t, err, publisher.ErrNilLogger)
}

func Test_Listener_Handle_Success(t *testing.T) {
	// arrange
	spy := NewListenerSpy("A", nil)
	metricsCollector := NewMetricsCollectorSpy()
	tracingCollector := NewTracingCollectorSpy()
	logHandler := NewLogHandlerSpy(false)

	wrapper, err := observable.NewListener(
		spy,
		"books_lent_out",
		observable.WithMetrics(metricsCollector),
		observable.WithTracing(tracingCollector),
		observable.WithContextualLogging(slog.New(logHandler)),
	)
	require.NoError(t, err)

	// act
	err = wrapper.Handle(context.Background(), someEvent)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, spy.CallCount())
	assert.Equal(t, "books_lent_out", wrapper.Name())

	labels := shell.BuildListenerLabels("books_lent_out", "BookCopyLentToReader", shell.StatusSuccess)
	assert.True(t, metricsCollector.HasCounterRecordWithLabels(shell.ListenerHandleCallsMetric, labels))
	assert.True(t, metricsCollector.HasDurationRecord(shell.ListenerHandleDurationMetric))

	spans := tracingCollector.GetSpanRecords()
	require.Len(t, spans, 1)
	assert.Equal(t, shell.SpanNameListenerHandle, spans[0].Name)
	assert.Equal(t, shell.StatusSuccess, spans[0].Status)
	assert.True(t, spans[0].Finished)

	assert.True(t, logHandler.HasDebugLogWithMessage(shell.LogMsgListenerStarted).Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage(shell.LogMsgListenerCompleted).
		WithAttribute(shell.LogAttrListener, "books_lent_out").
		WithDurationMS().
		Assert())
}

func Test_Listener_Handle_ReturnsInnerErrorUnchanged(t *testing.T) {
	// arrange
	listenerErr := errors.New("projection failed")
	spy := NewListenerSpy("A", nil).ReactingWith(func(context.Context, publisher.Event) error {
		return listenerErr
	})
	metricsCollector := NewMetricsCollectorSpy()
	tracingCollector := NewTracingCollectorSpy()
	logHandler := NewLogHandlerSpy(false)

	wrapper, err := observable.NewListener(
		spy,
		"books_lent_out",
		observable.WithMetrics(metricsCollector),
		observable.WithTracing(tracingCollector),
		observable.WithLogging(slog.New(logHandler)),
	)
	require.NoError(t, err)

	// act
	err = wrapper.Handle(context.Background(), someEvent)

	// assert
	assert.Same(t, listenerErr, err)

	labels := shell.BuildListenerLabels("books_lent_out", "BookCopyLentToReader", shell.StatusError)
	assert.True(t, metricsCollector.HasCounterRecordWithLabels(shell.ListenerHandleCallsMetric, labels))

	spans := tracingCollector.GetSpanRecords()
	require.Len(t, spans, 1)
	assert.Equal(t, shell.StatusError, spans[0].Status)
	assert.Equal(t, "projection failed", spans[0].EndAttributes[shell.LogAttrError])

	assert.True(t, logHandler.HasErrorLogWithMessage(shell.LogMsgListenerFailed).
		WithAttribute(shell.LogAttrError, "projection failed").
		Assert())
}

func Test_Listener_Handle_ClassifiesCancellation(t *testing.T) {
	spy := NewListenerSpy("A", nil).ReactingWith(func(ctx context.Context, _ publisher.Event) error {
		return ctx.Err()
	})
	metricsCollector := NewMetricsCollectorSpy()

	wrapper, err := observable.NewListener(spy, "slow", observable.WithMetrics(metricsCollector))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = wrapper.Handle(ctx, someEvent)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, metricsCollector.HasCounterRecordWithLabels(
		shell.ListenerHandleCallsMetric,
		shell.BuildListenerLabels("slow", "BookCopyLentToReader", shell.StatusCanceled),
	))
}

func Test_Listener_SpanIsChildOfPublishSpan(t *testing.T) {
	tracingCollector := NewTracingCollectorSpy()
	wrapper, err := observable.NewListener(NewListenerSpy("A", nil), "a", observable.WithTracing(tracingCollector))
	require.NoError(t, err)

	p, err := publisher.NewPublisher(publisher.WithTracing(tracingCollector))
	require.NoError(t, err)
	p.Subscribe(wrapper)

	p.Publish(context.Background(), someEvent)

	spans := tracingCollector.GetSpanRecords()
	require.Len(t, spans, 2)
	assert.Equal(t, publisher.SpanNamePublish, spans[0].Name)
	assert.Equal(t, shell.SpanNameListenerHandle, spans[1].Name)
	assert.True(t, spans[0].Finished)
	assert.True(t, spans[1].Finished)
}

func Test_Listener_UnsubscribeByWrapperInstance(t *testing.T) {
	spy := NewListenerSpy("A", nil)
	wrapper, err := observable.NewListener(spy, "a")
	require.NoError(t, err)

	p, err := publisher.NewPublisher()
	require.NoError(t, err)
	p.Subscribe(wrapper)

	p.Unsubscribe(spy)
	assert.Equal(t, 1, p.SubscriberCount(), "The wrapped listener is not the subscribed one")

	p.Unsubscribe(wrapper)
	assert.Equal(t, 0, p.SubscriberCount())
}
