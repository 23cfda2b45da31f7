package main

import (
	"fmt"

	"github.com/manview/manview"
	"github.com/spf13/cobra"
)

// serveCmd serves an already-rendered HTML file with update pushes.
var serveCmd = &cobra.Command{
	Use:   "serve <html-file>",
	Short: "Serve an existing HTML file with live updates",
	Long: `Serve a single HTML file on a local port with an update stream.

Nothing is rendered or watched in this mode; the file is re-read from
disk each time an update is pushed. Send SIGUSR1 to notify connected
browsers that the file changed. Ctrl+C or SIGTERM shuts the server down
after notifying every open session.

Example:
  manview serve page.html
  manview serve --port 8080 --no-browser page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "port to bind (0 picks an ephemeral port)")
	serveCmd.Flags().Bool("no-browser", false, "do not open the page in a browser")
	serveCmd.Flags().StringP("config", "c", "", "path to an optional config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	_, port, openBrowser, _ := resolveFlags(cmd, cfg)

	p, err := manview.New(
		manview.WithHTMLFile(args[0]),
		manview.WithPort(port),
		manview.WithOpenBrowser(openBrowser),
		manview.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := p.Start(cmd.Context()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
