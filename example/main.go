package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/manview/manview"
)

func main() {
	// the demo page lives in a temp dir; a writer goroutine keeps it fresh
	dir, err := os.MkdirTemp("", "manview-example-")
	if err != nil {
		slog.Error("failed to create temp dir", "error", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	page := filepath.Join(dir, "status.html")
	if err := WritePage(page, 0); err != nil {
		slog.Error("failed to write demo page", "error", err)
		os.Exit(1)
	}

	// serve mode: no man source, no watcher, just a file and its stream
	p, err := manview.New(
		manview.WithHTMLFile(page),
		manview.WithPort(8080),
		manview.WithOpenBrowser(false),
	)
	if err != nil {
		slog.Error("failed to create manview", "error", err)
		os.Exit(1)
	}

	// rewrite the page every 2 seconds and push each revision to every
	// connected browser (see page_writer.go)
	go StartPageWriter(page, 2*time.Second, p.Refresh)

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   manview Demo                                        ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   The page rewrites itself every two seconds;         ║")
	fmt.Println("  ║   every open browser follows along.                   ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// Ctrl+C handling is built into Start: SIGINT and SIGTERM end the
	// serve loop after every open page has been told goodbye
	if err := p.Start(context.Background()); err != nil {
		slog.Error("manview error", "error", err)
		os.Exit(1)
	}
}
