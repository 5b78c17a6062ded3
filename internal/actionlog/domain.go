// Package actionlog defines the audit trail of registry operations.
//
// Every refresh, submit and cancel the dashboard issues is recorded with
// its outcome. The log serves two purposes:
//
//  1. Observability: you can see exactly which backend calls were made for
//     an order and correlate each row with a distributed trace via trace_id.
//
//  2. Post-mortems: a user reporting "my cancel disappeared" can be answered
//     from the log: was the request rejected locally, refused by the
//     backend, or never confirmed.
package actionlog

import "time"

// Operation identifies which registry call a log entry belongs to.
type Operation string

const (
	OpRefresh Operation = "REFRESH"
	OpSubmit  Operation = "SUBMIT"
	OpCancel  Operation = "CANCEL"
)

// Outcome is how the operation ended.
type Outcome string

const (
	// OutcomeOK: the backend confirmed the operation.
	OutcomeOK Outcome = "OK"
	// OutcomeRejected: gated locally (draft not submittable, status not
	// cancellable); no request was issued.
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeError: the request was issued and failed.
	OutcomeError Outcome = "ERROR"
)

// Entry is a single row in the action log.
type Entry struct {
	// OrderID the operation concerned. Empty for list refreshes.
	OrderID string

	Operation Operation
	Outcome   Outcome

	// Message carries the failure text for REJECTED/ERROR rows, empty on OK.
	Message string

	// Payload is the JSON-serialised request body, stored for SUBMIT rows so
	// a failed submission can be replayed by hand.
	Payload string

	// TraceID is the W3C trace ID from the OpenTelemetry span that was
	// active when the entry was written. Lets you jump from a log row to
	// the full trace.
	TraceID string

	// SpanID pinpoints the exact client span within the trace.
	SpanID string

	// At is the wall-clock time of the entry.
	At time.Time
}
