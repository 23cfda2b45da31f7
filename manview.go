package manview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/sync/singleflight"

	"github.com/manview/manview/internal/bridge"
	"github.com/manview/manview/internal/notify"
	"github.com/manview/manview/internal/render"
	"github.com/manview/manview/internal/server"
	"github.com/manview/manview/internal/watch"
)

const (
	defaultWidth        = 120
	defaultPollInterval = 500 * time.Millisecond
)

// Preview is the main orchestrator for rendering, serving, and refreshing a
// live man page preview.
//
// Preview wires together the renderer, the source watcher, the signal
// bridge, and the HTTP server around a single update coordinator. It is
// created using [New] with functional options and started with
// [Preview.Start].
//
// The typical lifecycle is:
//
//	p, err := manview.New(manview.WithManPage("./doc/mytool.1"))
//	if err != nil {
//	    slog.Error("failed to create preview", "error", err)
//	    os.Exit(1)
//	}
//
//	p.Start(ctx) // blocks until shutdown is requested
//
// Shutdown is requested by an interrupt or terminate signal, by cancelling
// the context, or internally when the browser cannot be launched. A Preview
// is single-use: once it has shut down it cannot be restarted.
type Preview struct {
	manPage      string
	htmlFile     string
	width        int
	port         int
	openBrowser  bool
	watch        bool
	pollInterval time.Duration
	logger       *slog.Logger
	openURL      func(url string) error

	coord    *notify.Coordinator
	renderer *render.Renderer
	renderSF singleflight.Group

	mu      sync.Mutex
	started bool
	target  string
	url     string
	runCtx  context.Context
}

// New creates a new [Preview] instance with the given options.
//
// Exactly one content source must be configured, via [WithManPage] or
// [WithHTMLFile]. Other options have sensible defaults:
//   - Width: 120 columns
//   - Port: 0 (ephemeral)
//   - Browser launch: enabled
//   - Source watching: enabled (man page mode)
//   - Poll interval: 500ms
//
// Returns an error if no source is configured, if both are, or if any
// option is invalid.
//
// Example:
//
//	p, err := manview.New(
//	    manview.WithManPage("./doc/mytool.1"),
//	    manview.WithWidth(100),
//	    manview.WithPort(8080),
//	)
func New(opts ...Option) (*Preview, error) {
	cfg := &previewConfig{
		width:        defaultWidth,
		openBrowser:  true,
		watch:        true,
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.manPage == "" && cfg.htmlFile == "" {
		return nil, errors.New("a content source is required: use WithManPage or WithHTMLFile")
	}
	if cfg.manPage != "" && cfg.htmlFile != "" {
		return nil, errors.New("WithManPage and WithHTMLFile are mutually exclusive")
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	openURL := cfg.openURL
	if openURL == nil {
		openURL = browser.OpenURL
	}

	return &Preview{
		manPage:      cfg.manPage,
		htmlFile:     cfg.htmlFile,
		width:        cfg.width,
		port:         cfg.port,
		openBrowser:  cfg.openBrowser,
		watch:        cfg.watch,
		pollInterval: cfg.pollInterval,
		logger:       logger,
		openURL:      openURL,
		coord:        notify.NewCoordinator(),
		renderer:     render.New(cfg.width, logger),
	}, nil
}

// Start renders, serves, and refreshes the preview until shutdown.
//
// Start is a blocking call. During execution:
//
//   - In man page mode, the source is rendered to a temporary HTML file,
//     re-rendered whenever it changes, and the temporary file is removed
//     at exit
//   - Process signals drive refreshes (user-defined trigger) and shutdown
//     (interrupt, terminate)
//   - The page is served at the address reported by [Preview.URL], which is
//     also logged and opened in the browser unless disabled
//
// On shutdown every connected session receives a farewell frame before the
// listener drains. Returns nil on graceful shutdown, and an error if the
// initial render fails or the HTTP server fails to bind.
func (p *Preview) Start(ctx context.Context) error {
	if err := p.begin(ctx); err != nil {
		return err
	}

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	target := p.htmlFile
	mode := "serve"
	source := p.htmlFile
	if p.manPage != "" {
		mode = "preview"
		source = p.manPage

		created, err := render.CreateTarget()
		if err != nil {
			return fmt.Errorf("failed to create target file: %w", err)
		}
		target = created
		defer func() {
			if err := os.Remove(created); err != nil {
				p.logger.Warn("failed to remove target file", "file", created, "error", err)
			}
		}()

		if err := p.renderer.RenderTo(ctx, p.manPage, target); err != nil {
			return fmt.Errorf("initial render failed: %w", err)
		}
	}
	p.setTarget(target)

	p.logger.Info("manview starting", "mode", mode, "source", source)

	br := bridge.New(p.coord, p.logger)
	br.Start()
	defer br.Stop()

	if p.manPage != "" && p.watch {
		w := watch.New(p.manPage, p.pollInterval, p.Refresh, p.logger)
		w.Start(ctx)
		defer w.Stop()
	}

	// the server gets its own context so sessions outlive the caller's
	// cancellation long enough to receive their farewell frames
	srvCtx, srvCancel := context.WithCancel(context.Background())
	defer srvCancel()

	srv := server.NewServer(p.coord, target, p.port, p.logger)
	if err := srv.Start(srvCtx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	p.setURL(srv.URL())
	p.logger.Info("http server listening", "url", srv.URL())

	if p.openBrowser {
		if err := p.openURL(srv.URL()); err != nil {
			p.logger.Error("failed to open browser", "url", srv.URL(), "error", err)
			p.coord.RequestShutdown()
		}
	}

	select {
	case <-ctx.Done():
		p.coord.RequestShutdown()
	case <-p.coord.Done():
	}

	// sessions have been signaled; now stop accepting and drain so their
	// farewell frames flush before the connections close
	srvCancel()
	<-srv.Stopped()

	p.logger.Info("manview stopped")
	return nil
}

// Refresh re-renders the source and notifies every connected session that
// new content is available.
//
// In man page mode concurrent calls racing on the same source revision
// share one render; a render failure is logged and the previous page stays
// served, with no notice sent. In HTML file mode Refresh only raises the
// update notice, matching the workflow where an external build loop rewrote
// the file. Safe to call from any goroutine.
func (p *Preview) Refresh() {
	if p.manPage != "" {
		if err := p.rerender(); err != nil {
			p.logger.Error("render failed, keeping previous page", "source", p.manPage, "error", err)
			return
		}
	}
	p.coord.RequestUpdate()
}

// URL returns the address the preview is served at, or "" before Start has
// bound the listener.
func (p *Preview) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Port returns the configured HTTP port; 0 means an ephemeral port.
func (p *Preview) Port() int {
	return p.port
}

// Width returns the configured man page rendering width.
func (p *Preview) Width() int {
	return p.width
}

func (p *Preview) begin(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errors.New("preview already started")
	}
	p.started = true
	p.runCtx = ctx
	return nil
}

func (p *Preview) setTarget(target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = target
}

func (p *Preview) setURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// rerender renders the man page source into the target file. Renders are
// deduplicated by source modification time: callers racing on the same
// revision share one man run, while a revision that lands mid-render gets
// its own.
func (p *Preview) rerender() error {
	p.mu.Lock()
	target := p.target
	ctx := p.runCtx
	p.mu.Unlock()

	if target == "" {
		// not started yet, nothing to render into
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	key := p.manPage
	if info, err := os.Stat(p.manPage); err == nil {
		key = fmt.Sprintf("%s@%d", p.manPage, info.ModTime().UnixNano())
	}

	_, err, _ := p.renderSF.Do(key, func() (any, error) {
		return nil, p.renderer.RenderTo(ctx, p.manPage, target)
	})
	return err
}
