package manview

import (
	"errors"
	"log/slog"
	"time"
)

// previewConfig holds mutable state during Preview construction.
type previewConfig struct {
	manPage      string
	htmlFile     string
	width        int
	port         int
	openBrowser  bool
	watch        bool
	pollInterval time.Duration
	logger       *slog.Logger
	openURL      func(url string) error
}

// Option is a function that configures a [Preview] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithManPage], [WithHTMLFile], [WithWidth], [WithPort],
// [WithOpenBrowser], [WithWatch], [WithPollInterval], [WithLogger],
// [WithBrowserOpener].
type Option func(*previewConfig) error

// WithManPage sets the man page source to preview.
//
// In this mode the preview renders the source to a temporary HTML file,
// watches the source for changes, and re-renders on every change. Exactly
// one of WithManPage or [WithHTMLFile] must be provided.
//
// Example:
//
//	p, err := manview.New(
//	    manview.WithManPage("./doc/mytool.1"),
//	)
//
// Returns an error if the path is empty.
func WithManPage(path string) Option {
	return func(cfg *previewConfig) error {
		if path == "" {
			return errors.New("man page path cannot be empty")
		}
		cfg.manPage = path
		return nil
	}
}

// WithHTMLFile sets an existing HTML file to serve directly.
//
// In this mode nothing is rendered or watched: the file is expected to be
// regenerated by an external build loop, which announces changes via the
// update signal or [Preview.Refresh]. Exactly one of [WithManPage] or
// WithHTMLFile must be provided.
//
// Example:
//
//	p, err := manview.New(
//	    manview.WithHTMLFile("/tmp/rendered.html"),
//	)
//
// Returns an error if the path is empty.
func WithHTMLFile(path string) Option {
	return func(cfg *previewConfig) error {
		if path == "" {
			return errors.New("html file path cannot be empty")
		}
		cfg.htmlFile = path
		return nil
	}
}

// WithWidth sets the column width man pages are rendered at.
//
// Defaults to 120 if not specified. Only meaningful with [WithManPage].
//
// Returns an error if the width is zero or negative.
func WithWidth(width int) Option {
	return func(cfg *previewConfig) error {
		if width <= 0 {
			return errors.New("width must be positive")
		}
		cfg.width = width
		return nil
	}
}

// WithPort pins the HTTP server to a fixed port.
//
// Defaults to 0, which picks a free ephemeral port; the chosen address is
// available from [Preview.URL] once started.
//
// Example:
//
//	p, err := manview.New(
//	    manview.WithManPage("./doc/mytool.1"),
//	    manview.WithPort(8080),
//	)
//
// Returns an error if the port is outside the valid range (0-65535).
func WithPort(port int) Option {
	return func(cfg *previewConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port must be between 0 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithOpenBrowser controls launching the default browser at startup.
//
// Defaults to true. A failed launch requests shutdown, since a preview
// nobody is looking at has no reason to keep running; pass false when the
// URL is consumed some other way.
func WithOpenBrowser(open bool) Option {
	return func(cfg *previewConfig) error {
		cfg.openBrowser = open
		return nil
	}
}

// WithWatch controls the built-in source file watcher.
//
// Defaults to true. Only meaningful with [WithManPage]; disable it when
// refreshes are driven entirely by the update signal or [Preview.Refresh].
func WithWatch(watch bool) Option {
	return func(cfg *previewConfig) error {
		cfg.watch = watch
		return nil
	}
}

// WithPollInterval sets the cadence of source file freshness checks.
//
// The watcher layers a modification-time poll under its change
// notifications, so edits are picked up even where notifications are
// unreliable. Defaults to 500ms.
//
// Returns an error if the duration is zero or negative.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *previewConfig) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Preview instance.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	p, err := manview.New(
//	    manview.WithManPage("./doc/mytool.1"),
//	    manview.WithLogger(logger),
//	)
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *previewConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithBrowserOpener replaces the function used to launch the browser.
//
// The default hands the URL to the platform's opener. Supplying a custom
// function is useful for remote environments or for integrating with an
// editor that embeds its own preview pane.
//
// Returns an error if the function is nil.
func WithBrowserOpener(open func(url string) error) Option {
	return func(cfg *previewConfig) error {
		if open == nil {
			return errors.New("browser opener cannot be nil")
		}
		cfg.openURL = open
		return nil
	}
}
