package intakelog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds an Entry with trace_id/span_id extracted from the active
// OpenTelemetry span in ctx. If the context carries no valid span (unit
// tests, background work), both fields stay empty.
func NewEntry(ctx context.Context, orderID string, event Event, operatorID, detail string) *Entry {
	e := &Entry{
		OrderID:    orderID,
		Event:      event,
		OperatorID: operatorID,
		Detail:     detail,
		At:         time.Now().UTC(),
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		e.TraceID = sc.TraceID().String()
		e.SpanID = sc.SpanID().String()
	}
	return e
}
