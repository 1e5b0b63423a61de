package pollkit

import (
	"errors"
	"log/slog"
)

// Fetcher is the asynchronous status-producing operation an [Engine] polls.
//
// A Fetcher receives a report function and must invoke it exactly once per
// fetch, either synchronously before returning or asynchronously from
// another goroutine. The engine passes the reported value, unmodified, to
// the predicates and to the OnTick callback; it never interprets the value
// itself.
//
// The engine does not defend against a fetcher that never reports. A hung
// fetcher hangs its session with no timeout: deadline policy is the
// fetcher's responsibility, attempt-count policy is the caller's via
// [RunConfig.MaxTries]. If a fetcher reports more than once for a single
// fetch, the extra reports are ignored.
type Fetcher[T any] func(report func(result T))

// Predicate evaluates a fetched status value.
//
// Predicates are expected to be pure: same input, same output, no side
// effects. They may be called from timer goroutines, so they must not
// assume any particular goroutine. A predicate that panics is recovered;
// see [New] for the resulting behavior.
type Predicate[T any] func(result T) bool

// Engine is an immutable factory for polling sessions.
//
// An Engine captures a [Fetcher] and two [Predicate] values at
// construction and owns no mutable state. It is safe to share across
// goroutines and to reuse for any number of concurrent [Session] launches;
// sessions are fully isolated from one another.
//
// The typical lifecycle is:
//
//	engine, err := pollkit.New(fetch, isReady, isFatal)
//	if err != nil {
//	    return err
//	}
//	session, err := engine.Launch(pollkit.RunConfig[Status]{
//	    OnSuccess: onReady,
//	    OnFail:    onGaveUp,
//	})
type Engine[T any] struct {
	fetch     Fetcher[T]
	isSuccess Predicate[T]
	isAbort   Predicate[T]
	logger    *slog.Logger
	clock     Clock
}

// New creates an [Engine] from a fetcher and two predicates.
//
// isSuccess decides whether a fetched value terminates the session
// successfully; isAbort decides whether it terminates the session as
// failed without waiting for the attempt budget. The two conditions need
// not be mutually exclusive: when both hold for the same value, success
// wins.
//
// All three collaborators are required; New returns an error if any is
// nil. Optional behavior is configured with [Option] values such as
// [WithLogger] and [WithClock].
//
// If a predicate panics during a session, the panic is recovered and
// logged with a correlation ID. A panicking isSuccess counts as false and
// a panicking isAbort counts as true, so a broken predicate terminates the
// session through the fail path rather than crashing the process.
func New[T any](fetch Fetcher[T], isSuccess, isAbort Predicate[T], opts ...Option) (*Engine[T], error) {
	if fetch == nil {
		return nil, errors.New("fetcher is required")
	}
	if isSuccess == nil {
		return nil, errors.New("success predicate is required")
	}
	if isAbort == nil {
		return nil, errors.New("abort predicate is required")
	}

	cfg := &engineConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.clock
	if clock == nil {
		clock = SystemClock()
	}

	return &Engine[T]{
		fetch:     fetch,
		isSuccess: isSuccess,
		isAbort:   isAbort,
		logger:    logger,
		clock:     clock,
	}, nil
}

// Launch starts one polling session with the given configuration.
//
// Launch validates and normalizes cfg (see [RunConfig] for the defaulting
// rules), performs the first attempt synchronously, and returns the
// session handle. "Synchronously" means the first fetch call happens
// before Launch returns; the fetch's report may still arrive later if the
// fetcher is asynchronous.
//
// Returns an error if OnSuccess or OnFail is missing. All other
// configuration problems are corrected to defaults rather than rejected.
func (e *Engine[T]) Launch(cfg RunConfig[T]) (*Session[T], error) {
	if cfg.OnSuccess == nil {
		return nil, errors.New("OnSuccess callback is required")
	}
	if cfg.OnFail == nil {
		return nil, errors.New("OnFail callback is required")
	}

	s := newSession(e, cfg.normalized())
	e.logger.Debug("session launched",
		"session_id", s.ID(),
		"max_tries", s.cfg.MaxTries,
		"interval", s.cfg.Interval.String(),
	)

	s.attempt()
	return s, nil
}
