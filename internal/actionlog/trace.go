package actionlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the W3C trace ID (32 lowercase hex chars). Empty when the
	// context carries no active span.
	TraceID string

	// SpanID is the W3C span ID (16 lowercase hex chars).
	SpanID string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and returns
// its trace_id and span_id as hex strings. Contexts without an active span
// (unit tests, for example) yield empty strings; callers should handle that
// gracefully.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry with the trace info extracted from ctx and the
// timestamp set to now.
func NewEntry(ctx context.Context, orderID string, op Operation, outcome Outcome, message, payload string) *Entry {
	ti := ExtractTraceInfo(ctx)
	return &Entry{
		OrderID:   orderID,
		Operation: op,
		Outcome:   outcome,
		Message:   message,
		Payload:   payload,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		At:        time.Now().UTC(),
	}
}
