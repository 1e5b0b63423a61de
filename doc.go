// Package pollkit provides a small, reusable status-polling primitive:
// given an asynchronous status-fetching operation, it invokes that
// operation on a fixed interval until a success condition, an abort
// condition, or a maximum attempt count is reached.
//
// Pollkit is designed as an SDK-first library. The polling state machine
// is the whole point; the status source, the predicates, and the terminal
// callbacks are all supplied by the caller. It follows functional
// programming principles with immutable engine values, pure predicates,
// and composable configuration.
//
// # Quick Start
//
// Create an engine from a fetcher and two predicates, then launch sessions:
//
//	engine, _ := pollkit.New(
//	    fetchJobStatus,                                   // pollkit.Fetcher[Job]
//	    func(j Job) bool { return j.State == "done" },    // success
//	    func(j Job) bool { return j.State == "failed" },  // abort
//	)
//
//	session, err := engine.Launch(pollkit.RunConfig[Job]{
//	    MaxTries:  30,
//	    Interval:  2 * time.Second,
//	    OnSuccess: func() { fmt.Println("job finished") },
//	    OnFail:    func() { fmt.Println("job did not finish") },
//	})
//
// Each Launch call starts one independent [Session] with its own attempt
// counter and timer. Sessions share nothing but the immutable [Engine],
// which is safe to reuse across any number of concurrent sessions.
//
// # Fetcher Contract
//
// A [Fetcher] receives a report function and must invoke it exactly once
// per fetch, synchronously or asynchronously. The engine does not defend
// against a fetcher that never reports: a hung fetcher hangs its session.
// Timeout policy belongs to the fetcher (or to MaxTries), not to the engine.
//
// # Resolution Order
//
// On every attempt the optional OnTick callback fires first, then the
// predicates are evaluated. Success takes priority over abort when both
// predicates hold, and over exhaustion: a success on the final allowed
// attempt still terminates via OnSuccess. Exactly one of OnSuccess/OnFail
// fires per session, exactly once. The distinction between an aborted and
// an exhausted session is available from [Session.Outcome].
//
// # Architecture
//
// The repository also ships supporting packages:
//
//   - probe: HTTP status probes that plug into the engine as fetchers
//   - config: YAML configuration for the pollkit CLI
//   - internal/journal: in-memory attempt journal with pub/sub
//
// The internal packages are not part of the public API and may change
// without notice.
package pollkit
