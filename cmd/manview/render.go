package main

import (
	"fmt"
	"os"

	"github.com/manview/manview/config"
	"github.com/manview/manview/internal/render"
	"github.com/spf13/cobra"
)

// renderCmd renders a man page to HTML once and exits.
var renderCmd = &cobra.Command{
	Use:   "render <man-page-file>",
	Short: "Render a man page to HTML once",
	Long: `Render a man page source file to a standalone HTML document.

The output is the same document the preview server serves. Its
live-update script stays inert when no event stream is available, so
the file works as a plain static page.

Example:
  manview render doc/mytool.1
  manview render -w 80 -o mytool.html doc/mytool.1`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntP("width", "w", config.DefaultWidth, "formatting width in columns")
	renderCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	output, _ := cmd.Flags().GetString("output")

	r := render.New(width, newLogger())
	page, err := r.Page(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if output == "" {
		_, err := os.Stdout.Write(page)
		return err
	}
	if err := os.WriteFile(output, page, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
