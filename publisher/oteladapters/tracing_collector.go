package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// TracingCollector implements publisher.TracingCollector using the OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a new OpenTelemetry tracing collector.
// The tracer should be created from your OpenTelemetry TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan creates a new OpenTelemetry span with the given name and attributes.
// Listeners receive the returned context, so their own spans become children of the publish span.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, publisher.SpanContext) {
	if t.tracer == nil {
		return ctx, nil
	}

	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan sets the final attributes and status and ends the span.
func (t *TracingCollector) FinishSpan(spanCtx publisher.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.setSpanStatus(status)
	otelSpanCtx.span.End()
}

var _ publisher.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements publisher.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus sets the OpenTelemetry span status based on the provided status string.
func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status)
}

// AddAttribute adds an attribute to the OpenTelemetry span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

// setSpanStatus maps publisher status strings to OpenTelemetry status codes.
// A partial failure is an error from the span's point of view, even though Publish itself did not fail.
func (s *OTelSpanContext) setSpanStatus(status string) {
	switch status {
	case publisher.StatusSuccess:
		s.span.SetStatus(codes.Ok, "")
	case publisher.StatusPartialFailure:
		s.span.SetStatus(codes.Error, "One or more listeners failed")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

var _ publisher.SpanContext = (*OTelSpanContext)(nil)
