package pollkit

import (
	"errors"
	"log/slog"
)

// engineConfig holds mutable state during engine construction.
type engineConfig struct {
	logger *slog.Logger
	clock  Clock
}

// Option is a function that configures an [Engine] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithLogger], [WithClock].
type Option func(*engineConfig) error

// WithLogger sets a custom [slog.Logger] for the engine.
//
// The engine logs session lifecycle events at DEBUG level and recovered
// callback panics at ERROR level. If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	engine, err := pollkit.New(fetch, isReady, isFatal,
//	    pollkit.WithLogger(logger),
//	)
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *engineConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock sets the [Clock] used to schedule the delay between attempts.
//
// The engine only needs "run this callback after d" and "cancel that
// callback" from its host; Clock is that seam. The default clock delegates
// to [time.AfterFunc]. Supplying a fake clock makes the session state
// machine fully deterministic in tests.
//
// Returns an error if the clock is nil.
func WithClock(clock Clock) Option {
	return func(cfg *engineConfig) error {
		if clock == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = clock
		return nil
	}
}
