package pollkit

import "time"

// Timer is a handle to a scheduled callback.
//
// Stop cancels the pending callback. It reports whether the cancellation
// prevented the callback from running: false means the callback already
// ran or was already stopped. Stop does not wait for a callback that is
// currently executing.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks after a delay.
//
// Clock is the engine's only dependency on its host's timer facility. The
// production implementation, [SystemClock], wraps [time.AfterFunc]. Test
// code can substitute a deterministic implementation via [WithClock].
//
// Implementations must be safe for concurrent use.
type Clock interface {
	// AfterFunc schedules fn to run after d and returns a handle that can
	// cancel it. fn runs at most once, in an implementation-chosen
	// goroutine.
	AfterFunc(d time.Duration, fn func()) Timer
}

// SystemClock returns the real-time [Clock] backed by [time.AfterFunc].
//
// This is the clock engines use unless [WithClock] overrides it.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) Stop() bool {
	return s.t.Stop()
}
