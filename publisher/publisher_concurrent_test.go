package publisher_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/domain-events-go/publisher"
	"github.com/AntonStoeckl/domain-events-go/testutil/helper"
)

func Test_ConcurrentDispatch_StartsAllListenersBeforeWaiting(t *testing.T) {
	p := newPublisher(t, publisher.WithConcurrentDispatch())

	const listenerCount = 3
	var started sync.WaitGroup
	started.Add(listenerCount)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	var sawAllStarted atomic.Int32
	for range listenerCount {
		p.Subscribe(publisher.ListenerFunc(func(context.Context, publisher.Event) error {
			started.Done()
			select {
			case <-allStarted:
				sawAllStarted.Add(1)
			case <-time.After(2 * time.Second):
			}
			return nil
		}))
	}

	p.Publish(context.Background(), someEvent("Event1"))

	assert.Equal(t, int32(listenerCount), sawAllStarted.Load(), "every listener must run while the others are running")
	assert.False(t, p.IsDispatching())
}

func Test_ConcurrentDispatch_WaitsForSlowListeners(t *testing.T) {
	p := newPublisher(t, publisher.WithConcurrentDispatch())
	var finished atomic.Bool

	p.Subscribe(publisher.ListenerFunc(func(context.Context, publisher.Event) error {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}))
	p.Subscribe(helper.NewListenerSpy("fast", nil))

	p.Publish(context.Background(), someEvent("Event1"))

	assert.True(t, finished.Load(), "publish must not return before every listener has finished")
}

func Test_ConcurrentDispatch_IsolatesFailures(t *testing.T) {
	metrics := helper.NewMetricsCollectorSpy()
	p := newPublisher(t, publisher.WithConcurrentDispatch(), publisher.WithMetrics(metrics))
	listenerC := helper.NewListenerSpy("C", nil)

	p.Subscribe(helper.NewListenerSpy("A", nil).ReactingWith(func(context.Context, publisher.Event) error {
		return errListenerFailed
	}))
	p.Subscribe(helper.NewListenerSpy("B", nil).ReactingWith(func(context.Context, publisher.Event) error {
		panic("boom")
	}))
	p.Subscribe(listenerC)

	assert.NotPanics(t, func() { p.Publish(context.Background(), someEvent("Event1")) })
	assert.Equal(t, 1, listenerC.CallCount())
	assert.Equal(t, 2, metrics.CountCounterRecords(publisher.ListenerFailuresMetric))
	assert.False(t, p.IsDispatching())
}

func Test_ConcurrentDispatch_ReentrantPublishAndMutations_AreRejected(t *testing.T) {
	p := newPublisher(t, publisher.WithConcurrentDispatch())
	listenerC := helper.NewListenerSpy("C", nil)
	listenerB := helper.NewListenerSpy("B", nil)
	listenerA := helper.NewListenerSpy("A", nil).ReactingWith(func(ctx context.Context, _ publisher.Event) error {
		p.Subscribe(listenerC)
		p.Unsubscribe(listenerB)
		p.Publish(ctx, someEvent("Event2"))
		return nil
	})

	p.Subscribe(listenerA)
	p.Subscribe(listenerB)
	p.Publish(context.Background(), someEvent("Event1"))

	assert.Equal(t, 1, listenerA.CallCount())
	assert.Equal(t, 1, listenerB.CallCount())
	assert.Equal(t, 0, listenerC.CallCount())
	assert.Equal(t, []publisher.Listener{listenerA, listenerB}, p.Subscribers())
}

func Test_Publish_FromOtherGoroutineWhileDispatching_IsDropped(t *testing.T) {
	p := newPublisher(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	listenerA := helper.NewListenerSpy("A", nil).ReactingWith(func(context.Context, publisher.Event) error {
		close(entered)
		<-release
		return nil
	})
	p.Subscribe(listenerA)

	done := make(chan struct{})
	go func() {
		p.Publish(context.Background(), someEvent("Event1"))
		close(done)
	}()

	<-entered
	p.Publish(context.Background(), someEvent("Event2"))
	close(release)
	<-done

	assert.Equal(t, 1, listenerA.CallCount())
	assert.Equal(t, "Event1", listenerA.ReceivedEvents()[0].IsEventType())
}

func Test_SubscriberGauge_FollowsConcurrentMutations(t *testing.T) {
	metrics := helper.NewMetricsCollectorSpy()
	p := newPublisher(t, publisher.WithMetrics(metrics))
	const subscribers = 50

	var wg sync.WaitGroup
	for i := range subscribers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listener := helper.NewListenerSpy(fmt.Sprintf("L%d", i), nil)
			p.Subscribe(listener)
			if i%2 == 0 {
				p.Unsubscribe(listener)
			}
		}()
	}
	wg.Wait()

	gauge, found := metrics.LastValue(publisher.SubscribersMetric)
	require.True(t, found)
	assert.InDelta(t, float64(p.SubscriberCount()), gauge, 0.001)
	assert.Equal(t, subscribers/2, p.SubscriberCount())
}
