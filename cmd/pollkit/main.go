// Package main is the entry point for the pollkit CLI.
//
// Pollkit can be used either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary
// approach: it polls configured HTTP targets until they are ready, a
// fixed number of tries apart, and exits 0 only when every target
// succeeded.
//
// Usage:
//
//	pollkit watch -c config.yaml    # Poll targets until ready
//	pollkit validate -c config.yaml # Validate configuration
//	pollkit version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "pollkit",
	Short: "Poll HTTP targets until they are ready",
	Long: `Pollkit polls HTTP targets on a fixed interval until each one is
ready, aborted, or out of tries.

Typical use is gating a deployment step on dependencies coming up:

  1. Create a config file (pollkit.yaml)
  2. Run: pollkit watch -c pollkit.yaml
  3. Exit code 0 means every target became ready

Example config:
  max_tries: 30
  interval: 2s
  targets:
    - name: api
      url: https://api.example.com/health
      ready: json:status
      abort_status: [404]`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this pollkit binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pollkit %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
