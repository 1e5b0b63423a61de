package pollkit

// Outcome describes how a [Session] ended.
//
// The terminal callbacks deliberately stay zero-argument, so Outcome is
// how callers distinguish an abort from an exhausted attempt budget after
// OnFail has fired.
type Outcome int

const (
	// OutcomePending means the session has not terminated yet.
	OutcomePending Outcome = iota

	// OutcomeSucceeded means the success predicate held; OnSuccess fired.
	OutcomeSucceeded

	// OutcomeAborted means the abort predicate held without the success
	// predicate; OnFail fired.
	OutcomeAborted

	// OutcomeExhausted means MaxTries attempts completed without success
	// or abort; OnFail fired.
	OutcomeExhausted

	// OutcomeCanceled means [Session.Cancel] terminated the session.
	// Neither terminal callback fired.
	OutcomeCanceled
)

// String returns a lower-case name for the outcome.
// This implements the fmt.Stringer interface.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeAborted:
		return "aborted"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}
