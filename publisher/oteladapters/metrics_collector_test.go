package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/domain-events-go/publisher"
	"github.com/AntonStoeckl/domain-events-go/publisher/oteladapters"
)

func newMeteredCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "Failed to collect metrics")

	return resourceMetrics
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	collector, reader := newMeteredCollector()

	collector.RecordDuration(publisher.PublishDurationMetric, 150*time.Millisecond, map[string]string{
		"event_type": "BookCopyLentToReader",
		"status":     "success",
	})

	histogram := findHistogramMetric(t, collect(t, reader), publisher.PublishDurationMetric)
	require.Len(t, histogram.DataPoints, 1, "Expected exactly one data point")

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001, "Histogram sum should be 0.15 seconds")

	expectedAttrs := attribute.NewSet(
		attribute.String("event_type", "BookCopyLentToReader"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs), "Attributes should match")
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	collector, reader := newMeteredCollector()
	labels := map[string]string{"event_type": "BookCopyLentToReader"}

	collector.IncrementCounter(publisher.ListenerFailuresMetric, labels)
	collector.IncrementCounter(publisher.ListenerFailuresMetric, labels)
	collector.IncrementCounter(publisher.ListenerFailuresMetric, labels)

	counter := findCounterMetric(t, collect(t, reader), publisher.ListenerFailuresMetric)
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(3), counter.DataPoints[0].Value)
	assert.True(t, counter.IsMonotonic, "Counter should be monotonic")
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	collector, reader := newMeteredCollector()

	collector.RecordValue(publisher.SubscribersMetric, 4, nil)
	collector.RecordValue(publisher.SubscribersMetric, 2, nil)

	gauge := findGaugeMetric(t, collect(t, reader), publisher.SubscribersMetric)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 2.0, gauge.DataPoints[0].Value, 0.0001, "Gauge should hold the last value")
}

func Test_MetricsCollector_ContextualMethods(t *testing.T) {
	collector, reader := newMeteredCollector()
	ctx := context.Background()

	collector.RecordDurationContext(ctx, "ctx_duration", 10*time.Millisecond, nil)
	collector.IncrementCounterContext(ctx, "ctx_counter", nil)
	collector.RecordValueContext(ctx, "ctx_gauge", 7, nil)

	resourceMetrics := collect(t, reader)
	assert.Len(t, findHistogramMetric(t, resourceMetrics, "ctx_duration").DataPoints, 1)
	assert.Equal(t, int64(1), findCounterMetric(t, resourceMetrics, "ctx_counter").DataPoints[0].Value)
	assert.InDelta(t, 7.0, findGaugeMetric(t, resourceMetrics, "ctx_gauge").DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_NilMeter(t *testing.T) {
	collector := oteladapters.NewMetricsCollector(nil)

	assert.NotPanics(t, func() {
		collector.RecordDuration("d", time.Second, nil)
		collector.IncrementCounter("c", nil)
		collector.RecordValue("v", 1, nil)
	})
}

func Test_MetricsCollector_ConcurrentInstrumentCreation(t *testing.T) {
	collector, reader := newMeteredCollector()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter(publisher.PublishCallsMetric, map[string]string{"status": "success"})
		}()
	}
	wg.Wait()

	counter := findCounterMetric(t, collect(t, reader), publisher.PublishCallsMetric)
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(20), counter.DataPoints[0].Value)
}

func Test_MetricsCollector_WiredIntoPublisher(t *testing.T) {
	collector, reader := newMeteredCollector()
	p, err := publisher.NewPublisher(publisher.WithMetrics(collector))
	require.NoError(t, err)

	p.Subscribe(publisher.ListenerFunc(func(context.Context, publisher.Event) error { return nil }))
	p.Publish(context.Background(), testEvent{eventType: "BookCopyLentToReader"})

	resourceMetrics := collect(t, reader)
	assert.Equal(t, int64(1), findCounterMetric(t, resourceMetrics, publisher.PublishCallsMetric).DataPoints[0].Value)
	assert.Len(t, findHistogramMetric(t, resourceMetrics, publisher.PublishDurationMetric).DataPoints, 1)
	assert.InDelta(t, 1.0, findGaugeMetric(t, resourceMetrics, publisher.SubscribersMetric).DataPoints[0].Value, 0.0001)
}

func findHistogramMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Histogram[float64] {
	t.Helper()
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, metric := range scopeMetrics.Metrics {
			if metric.Name == name {
				if h, ok := metric.Data.(metricdata.Histogram[float64]); ok {
					return &h
				}
			}
		}
	}
	t.Fatalf("Histogram metric %s not found", name)
	return nil
}

func findCounterMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Sum[int64] {
	t.Helper()
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, metric := range scopeMetrics.Metrics {
			if metric.Name == name {
				if c, ok := metric.Data.(metricdata.Sum[int64]); ok {
					return &c
				}
			}
		}
	}
	t.Fatalf("Counter metric %s not found", name)
	return nil
}

func findGaugeMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Gauge[float64] {
	t.Helper()
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, metric := range scopeMetrics.Metrics {
			if metric.Name == name {
				if g, ok := metric.Data.(metricdata.Gauge[float64]); ok {
					return &g
				}
			}
		}
	}
	t.Fatalf("Gauge metric %s not found", name)
	return nil
}
