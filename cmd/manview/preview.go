package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/manview/manview"
	"github.com/manview/manview/config"
	"github.com/spf13/cobra"
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// previewCmd runs the full pipeline: render, serve, watch, live-reload.
var previewCmd = &cobra.Command{
	Use:   "preview <man-page-file>",
	Short: "Render a man page and preview it live in the browser",
	Long: `Render a man page to HTML, serve it on a local port, and keep the
browser view current while the source is edited.

The preview runs until interrupted (Ctrl+C) or it receives SIGTERM.
Sending SIGUSR1 forces an update push to every open page.

Example:
  manview preview doc/mytool.1
  manview preview -w 80 --no-browser doc/mytool.1
  manview preview -c manview.yaml doc/mytool.1`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntP("width", "w", config.DefaultWidth, "formatting width in columns")
	previewCmd.Flags().Int("port", 0, "port to bind (0 picks an ephemeral port)")
	previewCmd.Flags().Bool("no-browser", false, "do not open the page in a browser")
	previewCmd.Flags().Bool("no-watch", false, "do not watch the source for changes")
	previewCmd.Flags().Duration("poll-interval", config.DefaultPollInterval, "how often the watcher polls the source")
	previewCmd.Flags().StringP("config", "c", "", "path to an optional config file")
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	width, port, openBrowser, pollInterval := resolveFlags(cmd, cfg)
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	p, err := manview.New(
		manview.WithManPage(args[0]),
		manview.WithWidth(width),
		manview.WithPort(port),
		manview.WithOpenBrowser(openBrowser),
		manview.WithWatch(!noWatch),
		manview.WithPollInterval(pollInterval),
		manview.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create preview: %w", err)
	}

	// Start blocks until shutdown. Signal handling lives inside it:
	// SIGINT/SIGTERM shut down, SIGUSR1 forces an update.
	if err := p.Start(cmd.Context()); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// loadConfig reads the optional config file named by --config. Returns
// nil without error when the flag was not given.
func loadConfig(cmd *cobra.Command, logger *slog.Logger) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Info("config loaded",
		"path", path,
		"width", cfg.Width,
		"port", cfg.Port,
		"poll_interval", cfg.PollInterval.Duration().String(),
	)
	return cfg, nil
}

// resolveFlags merges the three value sources for each knob. An explicit
// flag wins over the config file, which wins over the built-in default.
// Flags a command does not define simply never count as changed.
func resolveFlags(cmd *cobra.Command, cfg *config.Config) (width, port int, openBrowser bool, pollInterval time.Duration) {
	width = config.DefaultWidth
	if cmd.Flags().Changed("width") {
		width, _ = cmd.Flags().GetInt("width")
	} else if cfg != nil {
		width = cfg.Width
	}

	port = 0
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	} else if cfg != nil {
		port = cfg.Port
	}

	openBrowser = true
	if cmd.Flags().Changed("no-browser") {
		noBrowser, _ := cmd.Flags().GetBool("no-browser")
		openBrowser = !noBrowser
	} else if cfg != nil && cfg.OpenBrowser != nil {
		openBrowser = *cfg.OpenBrowser
	}

	pollInterval = config.DefaultPollInterval
	if cmd.Flags().Changed("poll-interval") {
		pollInterval, _ = cmd.Flags().GetDuration("poll-interval")
	} else if cfg != nil {
		pollInterval = cfg.PollInterval.Duration()
	}

	return width, port, openBrowser, pollInterval
}
