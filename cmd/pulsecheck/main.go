// Package main is the entry point for the pulsecheck CLI.
//
// pulsecheck reads a YAML list of HTTP endpoints, probes each of them every
// cycle, and logs per-domain and per-endpoint availability percentages until
// interrupted.
//
// Usage:
//
//	pulsecheck monitor -c endpoints.yaml   # Start monitoring
//	pulsecheck monitor endpoints.yaml      # Same, positional form
//	pulsecheck validate -c endpoints.yaml  # Check a configuration file
//	pulsecheck version                     # Show version info
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
	Use:   "pulsecheck",
	Short: "HTTP endpoint availability monitor",
	Long: `pulsecheck probes a list of HTTP endpoints on a fixed cadence and
reports how often each domain and each endpoint is available.

An endpoint is available when it answers with a 2xx status within its
timeout (500ms unless configured otherwise).

Quick start:
  1. Create a config file (endpoints.yaml)
  2. Run: pulsecheck monitor endpoints.yaml
  3. Press Ctrl+C to stop

Example config:
  - name: home
    url: https://example.com/
  - name: orders
    url: https://api.example.com/orders
    method: POST
    headers:
      content-type: application/json
    body: '{"dry_run":true}'`,
	SilenceUsage: true,
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
	Long:  `Print the version, commit hash, and build date of this pulsecheck binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pulsecheck %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
