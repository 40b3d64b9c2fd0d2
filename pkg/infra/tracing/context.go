package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for pipeline spans.
const TracerName = "github.com/kart-io/secq"

// Span names of the pipeline stages.
const (
	SpanIngest       = "ingest"
	SpanIndexBuild   = "index.build"
	SpanQuestion     = "question"
	SpanRiskOverview = "risk-overview"
	SpanReportRender = "report.render"
)

// Attribute keys.
const (
	AttrQuestionID = "secq.question.id"
	AttrPath       = "secq.path"
	AttrOutcome    = "secq.outcome"
)

// StartSpan starts a span on the global tracer provider.
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records err on the span in ctx and marks it failed. nil is a no-op.
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanAttributes adds attributes to the span in the context.
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// TraceIDFromContext extracts the trace ID from the context.
// Returns an empty string if no trace is active.
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// String creates a string attribute.
func String(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}
