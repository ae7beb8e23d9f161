// Package promadapters provides a Prometheus adapter for the publisher MetricsCollector interface.
package promadapters

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// DurationBuckets are the histogram buckets (in seconds) used for duration metrics.
var DurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}

// MetricsCollector implements publisher.MetricsCollector on top of Prometheus vectors.
//   - RecordDuration -> HistogramVec
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// The publisher's own metrics are registered upfront with fixed label names. Any other metric name
// gets a vector on first use, with the label names of that first call. Records whose labels do not
// match the vector's label names are dropped.
type MetricsCollector struct {
	registerer prometheus.Registerer
	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewMetricsCollector creates a collector registering its vectors with registerer.
// A nil registerer means prometheus.DefaultRegisterer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	m.histogram(publisher.PublishDurationMetric, "Duration of dispatched publish calls.", []string{"event_type", "status"})
	m.counter(publisher.PublishCallsMetric, "Count of dispatched publish calls by event type and status.", []string{"event_type", "status"})
	m.counter(publisher.ListenerFailuresMetric, "Count of listeners that failed while handling an event.", []string{"event_type"})
	m.counter(publisher.DroppedPublishesMetric, "Count of publish calls dropped while a dispatch was in progress.", []string{"event_type"})
	m.counter(publisher.RejectedMutationsMetric, "Count of subscribe/unsubscribe calls rejected during dispatch.", []string{"mutation"})
	m.gauge(publisher.SubscribersMetric, "Current number of registered listeners.", nil)

	return m
}

// RecordDuration observes a duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram := m.histogram(metric, "Duration of publisher operations.", labelNames(labels))
	if histogram == nil {
		return
	}

	observer, err := histogram.GetMetricWith(labels)
	if err != nil {
		return
	}

	observer.Observe(duration.Seconds())
}

// IncrementCounter increments a counter by one.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	counter := m.counter(metric, "Count of publisher operations.", labelNames(labels))
	if counter == nil {
		return
	}

	c, err := counter.GetMetricWith(labels)
	if err != nil {
		return
	}

	c.Inc()
}

// RecordValue sets a gauge to value.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	gauge := m.gauge(metric, "Current value of a publisher measurement.", labelNames(labels))
	if gauge == nil {
		return
	}

	g, err := gauge.GetMetricWith(labels)
	if err != nil {
		return
	}

	g.Set(value)
}

func (m *MetricsCollector) histogram(name, help string, labels []string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: name, Help: help, Buckets: DurationBuckets},
		labels,
	)

	registered, ok := register(m.registerer, histogram).(*prometheus.HistogramVec)
	if !ok {
		return nil
	}

	m.histograms[name] = registered

	return registered
}

func (m *MetricsCollector) counter(name, help string, labels []string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)

	registered, ok := register(m.registerer, counter).(*prometheus.CounterVec)
	if !ok {
		return nil
	}

	m.counters[name] = registered

	return registered
}

func (m *MetricsCollector) gauge(name, help string, labels []string) *prometheus.GaugeVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)

	registered, ok := register(m.registerer, gauge).(*prometheus.GaugeVec)
	if !ok {
		return nil
	}

	m.gauges[name] = registered

	return registered
}

// register registers c and returns the collector that is registered under its descriptor afterward,
// which is the existing one if an identical collector was registered before. It returns nil on any other error.
func register(registerer prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	err := registerer.Register(c)
	if err == nil {
		return c
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		return alreadyRegistered.ExistingCollector
	}

	return nil
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

var _ publisher.MetricsCollector = (*MetricsCollector)(nil)
