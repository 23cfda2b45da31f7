// Package manview provides a live, browser-based preview for man pages.
//
// manview is designed as an SDK-first library: the preview server can be
// embedded in documentation tooling and build loops, with the bundled CLI
// as a thin wrapper. Configuration is composed via the functional options
// pattern.
//
// # Quick Start
//
// Preview a man page source with live reload:
//
//	p, _ := manview.New(manview.WithManPage("./doc/mytool.1"))
//
//	ctx := context.Background()
//	p.Start(ctx) // blocks; Ctrl-C shuts down gracefully
//
// Start renders the page, serves it on an ephemeral localhost port, opens
// the browser, and re-renders whenever the source file changes. Every open
// tab refreshes itself through a Server-Sent Events stream.
//
// # Serving Pre-Rendered Files
//
// A build loop that produces its own HTML can serve the file directly and
// announce changes programmatically or via the update signal:
//
//	p, _ := manview.New(manview.WithHTMLFile("/tmp/rendered.html"))
//	go p.Start(ctx)
//	// after each rebuild:
//	p.Refresh()
//
// # Configuration
//
// manview uses the functional options pattern for configuration:
//
//	p, err := manview.New(
//	    manview.WithManPage("./doc/mytool.1"),
//	    manview.WithWidth(100),
//	    manview.WithPort(8080),
//	    manview.WithOpenBrowser(false),
//	)
//
// # Architecture
//
// manview consists of several internal packages (under internal/):
//
//   - internal/notify: The update coordinator, a broadcast primitive
//     synchronizing triggers with streaming sessions
//   - internal/render: man(1) invocation and overstrike-to-HTML conversion
//   - internal/extract: Page fragment extraction for update payloads
//   - internal/watch: Source change detection (notifications plus polling)
//   - internal/bridge: Process signal handling
//   - internal/server: HTTP server with the page endpoint and the
//     Server-Sent Events stream
//
// The internal packages are not part of the public API and may change
// without notice. The library is designed for single-binary deployment
// using Go's embed directive for the page template.
package manview
