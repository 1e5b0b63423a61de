package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jpalmerr/pollkit"
	"github.com/jpalmerr/pollkit/probe"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Pollkit Demo                                        ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   1. In-process source that becomes ready over time   ║")
	fmt.Println("  ║   2. HTTP health probe against a mock server          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	if err := demoInProcess(logger); err != nil {
		slog.Error("in-process demo failed", "error", err)
		os.Exit(1)
	}
	if err := demoHTTPProbe(logger); err != nil {
		slog.Error("http probe demo failed", "error", err)
		os.Exit(1)
	}
}

// demoInProcess polls a plain function: a fake migration job that
// reports "pending" for its first few checks, then "complete".
func demoInProcess(logger *slog.Logger) error {
	fmt.Println("--- in-process source ---")

	job := newFlakyJob(4)

	engine, err := pollkit.New(
		job.check,
		func(status string) bool { return status == "complete" },
		func(status string) bool { return status == "failed" },
		pollkit.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	session, err := engine.Launch(pollkit.RunConfig[string]{
		MaxTries: 10,
		Interval: 200 * time.Millisecond,
		OnTick: func(status string, attempt int) {
			fmt.Printf("  attempt %d: %s\n", attempt, status)
		},
		OnSuccess: func() { fmt.Println("  job complete") },
		OnFail:    func() { fmt.Println("  job did not complete") },
	})
	if err != nil {
		return err
	}

	<-session.Done()
	fmt.Printf("  outcome: %s after %d attempts\n\n", session.Outcome(), session.Attempts())
	return nil
}

// demoHTTPProbe polls a mock HTTP server (see mock_server.go) that
// starts answering 503 and flips to a ready JSON body after a warmup.
func demoHTTPProbe(logger *slog.Logger) error {
	fmt.Println("--- http probe ---")

	server := startMockHealthServer(3 * time.Second)
	defer server.Close()

	p, err := probe.New("mock-api", server.URL+"/health",
		probe.WithTimeout(2*time.Second),
		probe.WithReadyMatcher(probe.JSONField("status")),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	engine, err := pollkit.New(p.Fetcher(ctx), p.Ready, p.Fatal,
		pollkit.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	session, err := engine.Launch(pollkit.RunConfig[probe.Result]{
		MaxTries: 15,
		Interval: 500 * time.Millisecond,
		OnTick: func(r probe.Result, attempt int) {
			if r.Err != nil {
				fmt.Printf("  attempt %d: error: %v\n", attempt, r.Err)
				return
			}
			fmt.Printf("  attempt %d: HTTP %d in %s\n", attempt, r.StatusCode, r.Latency.Round(time.Millisecond))
		},
		OnSuccess: func() { fmt.Println("  mock-api ready") },
		OnFail:    func() { fmt.Println("  mock-api never became ready") },
	})
	if err != nil {
		return err
	}

	<-session.Done()
	fmt.Printf("  outcome: %s after %d attempts\n", session.Outcome(), session.Attempts())
	return nil
}

// flakyJob is an in-process status source. Each instance carries its own
// counter, so concurrent sessions polling separate jobs never interfere.
type flakyJob struct {
	readyAfter int
	checks     int
}

func newFlakyJob(readyAfter int) *flakyJob {
	return &flakyJob{readyAfter: readyAfter}
}

// check reports "pending" until the job has been checked readyAfter
// times, then "complete". It satisfies pollkit.Fetcher[string].
func (f *flakyJob) check(report func(string)) {
	f.checks++
	if f.checks >= f.readyAfter {
		report("complete")
		return
	}
	report("pending")
}
