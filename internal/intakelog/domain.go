// Package intakelog defines the domain types for the intake event log.
//
// The log is a durable audit trail of every remote mutation an intake session
// performs. It serves two purposes:
//
//  1. Observability: the shop can query the DB to see exactly what happened
//     to an order during intake and correlate it with a distributed trace via
//     the trace_id field.
//
//  2. Accountability: when production bounces an order back, the log shows
//     which operator created, edited or discarded it, and when.
package intakelog

import "time"

// Event names the kind of mutation an entry records.
type Event string

const (
	EventOrderCreated     Event = "ORDER_CREATED"
	EventOrderUpdated     Event = "ORDER_UPDATED"
	EventItemsReplaced    Event = "ITEMS_REPLACED"
	EventPaymentRecorded  Event = "PAYMENT_RECORDED"
	EventOrderResumed     Event = "ORDER_RESUMED"
	EventOrderDiscarded   Event = "ORDER_DISCARDED"
	EventSessionCompleted Event = "SESSION_COMPLETED"
)

// Entry is a single row in the intake_events table: a point-in-time record
// of one remote mutation.
type Entry struct {
	// OrderID is the remote order the mutation targeted. Empty for
	// SESSION_COMPLETED when the session never created an order.
	OrderID string

	// Event is the mutation kind.
	Event Event

	// OperatorID is who performed it.
	OperatorID string

	// Detail is a short free-form note (payment amount, item count, ...).
	Detail string

	// TraceID is the W3C trace ID extracted from the OpenTelemetry span that
	// was active when the entry was written, so a log row can be joined with
	// the full distributed trace.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// At is the wall-clock time of the event.
	At time.Time
}
