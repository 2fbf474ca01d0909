package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/kbukum/retrykit/telemetry"

// Span name for a full retry run wrapping an operation.
const SpanRetryRun = "retry.run"

// Attribute keys recorded on retry spans.
const (
	AttrOperationID = "retry.operation_id"
	AttrAttempt     = "retry.attempt"
	AttrMaxRetries  = "retry.max_retries"
	AttrStrategy    = "retry.strategy"
)

// StartSpan starts a span on the package tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// RecordRun annotates the current span with run identity. A no-op when no
// recording span is in ctx.
func RecordRun(ctx context.Context, operationID, strategy string, attempt, maxRetries int) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String(AttrOperationID, operationID),
		attribute.String(AttrStrategy, strategy),
		attribute.Int(AttrAttempt, attempt),
		attribute.Int(AttrMaxRetries, maxRetries),
	)
}

// RecordError records err on the current span in ctx.
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span != nil && span.IsRecording() && err != nil {
		span.RecordError(err)
	}
}
