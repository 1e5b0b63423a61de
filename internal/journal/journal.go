package journal

import "time"

// Phase classifies what a journal [Record] describes.
type Phase string

const (
	// PhaseTick records one completed attempt that did not terminate the
	// session.
	PhaseTick Phase = "tick"

	// PhaseSucceeded records the terminal attempt of a successful session.
	PhaseSucceeded Phase = "succeeded"

	// PhaseAborted records the terminal attempt of an aborted session.
	PhaseAborted Phase = "aborted"

	// PhaseExhausted records the terminal attempt of a session that ran
	// out of tries.
	PhaseExhausted Phase = "exhausted"

	// PhaseCanceled records a session that was cancelled before reaching
	// a terminal attempt, e.g. on SIGINT.
	PhaseCanceled Phase = "canceled"
)

// Record is one journaled polling event.
//
// Records are append-only and optimized for JSON serialization, so the
// CLI can stream them as structured output.
type Record struct {
	// SessionID identifies the polling session the record belongs to.
	SessionID string `json:"session_id"`

	// Target is the display name of the polled target.
	Target string `json:"target"`

	// Attempt is the 1-based attempt number within the session.
	Attempt int `json:"attempt"`

	// Phase classifies the event.
	Phase Phase `json:"phase"`

	// LatencyMs is the fetch latency in milliseconds, if known.
	LatencyMs int64 `json:"latency_ms"`

	// At is the timestamp when the event was recorded.
	At time.Time `json:"at"`

	// Error carries the fetch error message, if any.
	// nil means the fetch itself completed.
	Error *string `json:"error"`
}

// Journal records polling attempts and lets consumers subscribe to them.
//
// Implementations must be safe for concurrent use: independent sessions
// append from independent goroutines.
type Journal interface {
	// Append stores a record and notifies all subscribers.
	Append(rec Record)

	// Snapshot returns all records appended so far, in append order.
	// The returned slice is a copy; modifications do not affect the journal.
	Snapshot() []Record

	// Subscribe returns a channel that receives future records.
	// The channel is buffered; slow consumers may miss records.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Record

	// Unsubscribe removes a subscription and closes its channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Record)
}
