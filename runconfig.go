package pollkit

import "time"

const (
	// DefaultMaxTries is the attempt budget used when [RunConfig.MaxTries]
	// is absent or less than one.
	DefaultMaxTries = 10

	// DefaultInterval is the delay between attempts used when
	// [RunConfig.Interval] is absent or not positive.
	DefaultInterval = 100 * time.Millisecond
)

// RunConfig configures a single polling session.
//
// A RunConfig is a plain value passed to [Engine.Launch]; each launch gets
// its own copy, so a RunConfig may be reused across launches.
//
// OnSuccess and OnFail are required. MaxTries and Interval are optional:
// values below their minimums are silently corrected to [DefaultMaxTries]
// and [DefaultInterval] rather than rejected. This permissiveness is
// deliberate — a session always runs with a sane budget — and is the one
// place pollkit corrects input instead of returning an error.
type RunConfig[T any] struct {
	// MaxTries is the hard cap on fetch attempts. Values less than 1
	// (including the zero value) fall back to DefaultMaxTries.
	MaxTries int

	// Interval is the fixed delay between attempts. Values less than or
	// equal to zero fall back to DefaultInterval. There is no backoff:
	// the interval is the same between every pair of attempts.
	Interval time.Duration

	// OnSuccess fires exactly once if the session terminates successfully.
	// Required.
	OnSuccess func()

	// OnFail fires exactly once if the session terminates without success,
	// whether aborted by the abort predicate or exhausted by MaxTries.
	// Required. Use [Session.Outcome] to tell the two apart.
	OnFail func()

	// OnTick, if set, fires on every attempt with the fetched result and
	// the 1-based attempt number, before any termination decision. The
	// terminal attempt ticks too.
	OnTick func(result T, attempt int)
}

// normalized returns a copy of c with out-of-range knobs set to defaults.
func (c RunConfig[T]) normalized() RunConfig[T] {
	if c.MaxTries < 1 {
		c.MaxTries = DefaultMaxTries
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	return c
}
