package main

import (
	"fmt"
	"strconv"

	"github.com/manview/manview/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting a server.
var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a config file",
	Long: `Validate a manview configuration file without starting a server.

This command parses the YAML and validates all fields. It's useful for
CI pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  manview validate manview.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// open_browser is tri-state: absent means "keep the built-in default"
	openBrowser := "default (true)"
	if cfg.OpenBrowser != nil {
		openBrowser = strconv.FormatBool(*cfg.OpenBrowser)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Width:         %d\n", cfg.Width)
	fmt.Printf("  Port:          %d\n", cfg.Port)
	fmt.Printf("  Open browser:  %s\n", openBrowser)
	fmt.Printf("  Poll interval: %s\n", cfg.PollInterval.Duration())

	return nil
}
