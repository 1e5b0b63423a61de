package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/pollkit"
	"github.com/jpalmerr/pollkit/config"
	"github.com/jpalmerr/pollkit/internal/journal"
	"github.com/jpalmerr/pollkit/probe"
	"github.com/spf13/cobra"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// watchCmd polls all configured targets until each terminates.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll targets until ready",
	Long: `Poll every configured target until it is ready, aborted, or out of
tries.

Each target runs as an independent polling session: its own attempt
counter, its own interval, its own budget. Attempts are streamed to
stderr as structured logs.

Exit codes:
  0 - every target became ready
  1 - at least one target aborted, ran out of tries, or was interrupted

Example:
  pollkit watch -c config.yaml
  pollkit watch --config /etc/pollkit/config.yaml --debug`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	watchCmd.Flags().Bool("debug", false, "log individual attempts at debug level")
	_ = watchCmd.MarkFlagRequired("config")
}

// launched pairs a running session with the target it polls. runID keys
// the target's journal records; it is allocated before launch so the
// first tick can never race the session handle.
type launched struct {
	target  config.Target
	runID   string
	session *pollkit.Session[probe.Result]
}

func runWatch(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logger := newLogger(debug)

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	targets, err := config.BuildTargets(cfg)
	if err != nil {
		return fmt.Errorf("failed to build targets: %w", err)
	}

	logger.Info("config loaded",
		"targets", len(targets),
		"default_max_tries", cfg.MaxTries,
		"default_interval", cfg.Interval.Duration().String(),
	)

	// cancel on SIGINT/SIGTERM; in-flight sessions are cancelled below
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	j := journal.NewMemoryJournal()
	records := j.Subscribe()

	// stream journal records as they arrive
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for rec := range records {
			attrs := []any{
				"target", rec.Target,
				"run_id", rec.SessionID,
				"attempt", rec.Attempt,
				"phase", string(rec.Phase),
				"latency_ms", rec.LatencyMs,
			}
			if rec.Error != nil {
				attrs = append(attrs, "error", *rec.Error)
			}
			if rec.Phase == journal.PhaseTick {
				logger.Debug("poll attempt", attrs...)
			} else {
				logger.Info("poll finished", attrs...)
			}
		}
	}()

	sessions, err := launchAll(ctx, targets, j, logger)
	if err != nil {
		j.Unsubscribe(records)
		wg.Wait()
		return err
	}

	// wait for every session; on signal, cancel the stragglers
	interrupted := false
	for _, l := range sessions {
		select {
		case <-l.session.Done():
		case <-ctx.Done():
			interrupted = true
		}
		if interrupted {
			break
		}
	}
	if interrupted {
		for _, l := range sessions {
			l.session.Cancel()
		}
	}

	ready := 0
	for _, l := range sessions {
		outcome := l.session.Outcome()
		j.Append(journal.Record{
			SessionID: l.runID,
			Target:    l.target.Probe.Name(),
			Attempt:   l.session.Attempts(),
			Phase:     outcomePhase(outcome),
			At:        time.Now(),
		})
		if outcome == pollkit.OutcomeSucceeded {
			ready++
		}
	}

	j.Unsubscribe(records)
	wg.Wait()

	if interrupted {
		return fmt.Errorf("interrupted with %d of %d targets ready", ready, len(sessions))
	}
	if ready != len(sessions) {
		return fmt.Errorf("%d of %d targets did not become ready", len(sessions)-ready, len(sessions))
	}

	logger.Info("all targets ready", "targets", len(sessions))
	return nil
}

// launchAll starts one polling session per target.
func launchAll(ctx context.Context, targets []config.Target, j journal.Journal, logger *slog.Logger) ([]launched, error) {
	sessions := make([]launched, 0, len(targets))

	for _, target := range targets {
		p := target.Probe

		engine, err := pollkit.New(p.Fetcher(ctx), p.Ready, p.Fatal,
			pollkit.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", p.Name(), err)
		}

		name := p.Name()
		runID := uuid.NewString()
		session, err := engine.Launch(pollkit.RunConfig[probe.Result]{
			MaxTries: target.MaxTries,
			Interval: target.Interval,
			OnTick: func(r probe.Result, attempt int) {
				var errStr *string
				if r.Err != nil {
					s := r.Err.Error()
					errStr = &s
				}
				j.Append(journal.Record{
					SessionID: runID,
					Target:    name,
					Attempt:   attempt,
					Phase:     journal.PhaseTick,
					LatencyMs: r.Latency.Milliseconds(),
					At:        r.CheckedAt,
					Error:     errStr,
				})
			},
			OnSuccess: func() {
				logger.Info("target ready", "target", name)
			},
			OnFail: func() {
				logger.Warn("target not ready", "target", name)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", name, err)
		}

		sessions = append(sessions, launched{target: target, runID: runID, session: session})
	}

	return sessions, nil
}

// outcomePhase maps a session outcome to its terminal journal phase.
func outcomePhase(o pollkit.Outcome) journal.Phase {
	switch o {
	case pollkit.OutcomeSucceeded:
		return journal.PhaseSucceeded
	case pollkit.OutcomeAborted:
		return journal.PhaseAborted
	case pollkit.OutcomeCanceled:
		return journal.PhaseCanceled
	default:
		return journal.PhaseExhausted
	}
}
