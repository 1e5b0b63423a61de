package pollkit

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

type sessionState int

const (
	stateRunning sessionState = iota
	stateTerminated
)

// Session is one independent run of an [Engine].
//
// A session owns its attempt counter and its pending timer; it shares
// nothing with other sessions. Its lifecycle is Running → Terminated, and
// no transition leaves Terminated. Termination happens in exactly one of
// three ways: the success path (OnSuccess fires), the fail path (OnFail
// fires), or [Session.Cancel] (neither fires).
//
// Within one session attempts are strictly sequential: attempt k+1 is
// scheduled only after attempt k's report has been fully evaluated. At any
// moment a running session has either one fetch in flight or one timer
// pending, never both.
//
// All methods are safe for concurrent use.
type Session[T any] struct {
	id     string
	engine *Engine[T]
	cfg    RunConfig[T]

	mu       sync.Mutex
	state    sessionState
	attempts int
	timer    Timer
	outcome  Outcome

	done chan struct{}
}

func newSession[T any](engine *Engine[T], cfg RunConfig[T]) *Session[T] {
	return &Session[T]{
		id:     uuid.NewString(),
		engine: engine,
		cfg:    cfg,
		done:   make(chan struct{}),
	}
}

// ID returns the session's unique identifier.
// The ID appears in the engine's structured logs.
func (s *Session[T]) ID() string {
	return s.id
}

// Attempts returns how many fetch attempts have started so far.
func (s *Session[T]) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Outcome reports how the session ended.
// Returns [OutcomePending] while the session is still running.
func (s *Session[T]) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Done returns a channel that is closed when the session terminates,
// whether by success, failure, or cancellation.
//
// For callback-driven callers Done is unnecessary; it exists for callers
// that want to block:
//
//	session, _ := engine.Launch(cfg)
//	<-session.Done()
//	if session.Outcome() == pollkit.OutcomeSucceeded { ... }
func (s *Session[T]) Done() <-chan struct{} {
	return s.done
}

// Cancel terminates the session without invoking either terminal callback.
//
// Cancel stops the pending timer, if any, so no further fetches occur. A
// fetch already in flight cannot be recalled; its report, whenever it
// arrives, is discarded. After Cancel, [Session.Outcome] returns
// [OutcomeCanceled].
//
// Cancel is idempotent and a no-op on an already-terminated session.
func (s *Session[T]) Cancel() {
	s.mu.Lock()
	if s.state == stateTerminated {
		s.mu.Unlock()
		return
	}
	s.state = stateTerminated
	s.outcome = OutcomeCanceled
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	close(s.done)
	s.engine.logger.Debug("session canceled",
		"session_id", s.id,
		"attempts", s.Attempts(),
	)
}

// attempt performs one fetch-and-evaluate cycle. It runs synchronously for
// attempt 1 (from Launch) and from the clock's timer goroutine for
// attempts 2..MaxTries.
func (s *Session[T]) attempt() {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.attempts++
	n := s.attempts
	s.mu.Unlock()

	s.engine.logger.Debug("attempt started", "session_id", s.id, "attempt", n)

	// one report per fetch; extras are dropped here
	var once sync.Once
	s.engine.fetch(func(result T) {
		once.Do(func() {
			s.evaluate(result, n)
		})
	})
}

// evaluate runs the per-attempt decision with a delivered result: tick
// first, then predicates, then either schedule the next attempt or
// terminate.
func (s *Session[T]) evaluate(result T, attempt int) {
	s.mu.Lock()
	if s.state != stateRunning {
		// canceled while the fetch was in flight
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if s.cfg.OnTick != nil {
		s.invokeSafe("OnTick", func() {
			s.cfg.OnTick(result, attempt)
		})
	}

	succeeded := s.evalPredicate("isSuccess", s.engine.isSuccess, result, false)
	aborted := s.evalPredicate("isAbort", s.engine.isAbort, result, true)
	canRetry := attempt < s.cfg.MaxTries

	if canRetry && !succeeded && !aborted {
		s.mu.Lock()
		if s.state != stateRunning {
			s.mu.Unlock()
			return
		}
		s.timer = s.engine.clock.AfterFunc(s.cfg.Interval, s.attempt)
		s.mu.Unlock()
		return
	}

	// success outranks abort, and outranks exhaustion: a success on the
	// final allowed attempt is still a success
	outcome := OutcomeExhausted
	switch {
	case succeeded:
		outcome = OutcomeSucceeded
	case aborted:
		outcome = OutcomeAborted
	}

	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return
	}
	s.state = stateTerminated
	s.outcome = outcome
	s.mu.Unlock()

	close(s.done)
	s.engine.logger.Debug("session terminated",
		"session_id", s.id,
		"outcome", outcome.String(),
		"attempts", attempt,
	)

	if outcome == OutcomeSucceeded {
		s.invokeSafe("OnSuccess", s.cfg.OnSuccess)
	} else {
		s.invokeSafe("OnFail", s.cfg.OnFail)
	}
}

// invokeSafe calls a caller-supplied callback with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func (s *Session[T]) invokeSafe(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.engine.logger.Error("callback panicked",
				"session_id", s.id,
				"callback", name,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}

// evalPredicate calls a predicate with panic recovery, substituting
// onPanic for the result when it panics. isSuccess degrades to false and
// isAbort to true, so a broken predicate ends the session through the fail
// path instead of crashing or retrying forever.
func (s *Session[T]) evalPredicate(name string, p Predicate[T], result T, onPanic bool) (v bool) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.engine.logger.Error("predicate panicked",
				"session_id", s.id,
				"predicate", name,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			v = onPanic
		}
	}()
	return p(result)
}
