package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/jpalmerr/pollkit/probe"
)

// Target pairs a built [probe.Probe] with the per-session settings the
// CLI should launch it with.
type Target struct {
	Probe    *probe.Probe
	MaxTries int
	Interval time.Duration
}

// BuildTargets converts parsed configuration into launchable targets.
//
// Per-target max_tries and interval overrides fall back to the global
// values when absent.
func BuildTargets(cfg *Config) ([]Target, error) {
	targets := make([]Target, 0, len(cfg.Targets))

	for _, tc := range cfg.Targets {
		p, err := buildProbe(tc)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", tc.Name, err)
		}

		maxTries := tc.MaxTries
		if maxTries == 0 {
			maxTries = cfg.MaxTries
		}
		interval := tc.Interval.Duration()
		if interval == 0 {
			interval = cfg.Interval.Duration()
		}

		targets = append(targets, Target{
			Probe:    p,
			MaxTries: maxTries,
			Interval: interval,
		})
	}

	return targets, nil
}

// buildProbe converts a single TargetConfig to a probe.
func buildProbe(tc TargetConfig) (*probe.Probe, error) {
	var opts []probe.Option

	if tc.Method != "" {
		opts = append(opts, probe.WithMethod(tc.Method))
	}
	if tc.Timeout != 0 {
		opts = append(opts, probe.WithTimeout(tc.Timeout.Duration()))
	}
	if len(tc.Headers) > 0 {
		opts = append(opts, probe.WithHeaders(mapToKeyValuePairs(tc.Headers)...))
	}
	if matcher := buildMatcher(tc.Ready); matcher != nil {
		opts = append(opts, probe.WithReadyMatcher(matcher))
	}
	if len(tc.AbortStatus) > 0 {
		opts = append(opts, probe.WithAbortOnStatus(tc.AbortStatus...))
	}

	return probe.New(tc.Name, tc.URL, opts...)
}

// buildMatcher converts a ReadyConfig to a probe.Matcher.
// Returns nil for the default (any 2xx response).
func buildMatcher(rc ReadyConfig) probe.Matcher {
	switch rc.Type {
	case "json":
		return probe.JSONField(rc.Path, rc.Values...)
	case "contains":
		return probe.BodyContains(rc.Text)
	default:
		// "status", or unset: probe.New applies StatusOK itself
		return nil
	}
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
