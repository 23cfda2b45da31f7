// Package main is the entry point for the manview CLI.
//
// manview can be used either as a library (SDK) or as a standalone binary.
// This CLI provides the standalone binary approach.
//
// Usage:
//
//	manview preview doc/mytool.1   # Render, serve, and live-reload a man page
//	manview serve page.html        # Serve an existing HTML file with updates
//	manview render doc/mytool.1    # One-shot render to stdout
//	manview validate manview.yaml  # Validate a configuration file
//	manview version                # Show version info
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
	Use:   "manview",
	Short: "A live man-page preview server",
	Long: `manview renders a man page to HTML, serves it on a local port, and
pushes updates to the browser over Server-Sent Events whenever the
source changes.

Quick start:
  1. Run: manview preview doc/mytool.1
  2. The rendered page opens in your browser
  3. Edit the source; the open page updates in place

The server binds an ephemeral localhost port by default and logs the
URL it is serving on. Sending SIGUSR1 forces an update push; Ctrl+C
shuts down after telling every open page goodbye.`,
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
	Long:  `Print the version, commit hash, and build date of this manview binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("manview %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
