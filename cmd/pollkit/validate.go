package main

import (
	"fmt"
	"time"

	"github.com/jpalmerr/pollkit/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without polling anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a pollkit configuration file without polling anything.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  pollkit validate -c config.yaml
  pollkit validate --config /etc/pollkit/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Worst case across all targets: last attempt fires after
	// (tries-1) intervals.
	var worstWait time.Duration
	for _, tc := range cfg.Targets {
		tries := cfg.MaxTries
		if tc.MaxTries > 0 {
			tries = tc.MaxTries
		}
		interval := cfg.Interval.Duration()
		if tc.Interval.Duration() > 0 {
			interval = tc.Interval.Duration()
		}
		wait := time.Duration(tries-1) * interval
		if wait > worstWait {
			worstWait = wait
		}
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Targets:         %d\n", len(cfg.Targets))
	fmt.Printf("  Default tries:   %d\n", cfg.MaxTries)
	fmt.Printf("  Default interval: %s\n", cfg.Interval.Duration())
	fmt.Printf("  Worst-case wait: %s\n", worstWait)

	return nil
}
