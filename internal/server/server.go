package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manview/manview/internal/extract"
	"github.com/manview/manview/internal/notify"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write
	// operation. This prevents goroutine leaks when clients are slow or
	// disconnected. Must be <= shutdown grace to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownGrace bounds the graceful drain of open connections once the
	// server context is cancelled.
	shutdownGrace = 5 * time.Second
)

// byeFrame is the termination notice sent to each session before its
// connection closes.
var byeFrame = []byte("event: bye\ndata: {}\n\n")

// Server handles HTTP requests for the preview page and its event stream.
//
// Server provides two endpoints:
//   - GET /: Serves the target HTML file's current bytes
//   - GET /events: Server-Sent Events stream of update and bye notices
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	coord  *notify.Coordinator
	file   string
	port   int
	logger *slog.Logger

	httpServer *http.Server
	stopped    chan struct{}

	mu  sync.Mutex
	url string
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - coord: Coordinator whose notices drive the event stream
//   - file: Path of the HTML file to serve and extract update content from
//   - port: TCP port to listen on; 0 picks an ephemeral port
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(coord *notify.Coordinator, file string, port int, logger *slog.Logger) *Server {
	return &Server{
		coord:   coord,
		file:    file,
		port:    port,
		logger:  logger,
		stopped: make(chan struct{}),
	}
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening; [Server.URL] reports the bound address from then on. The
// server runs until the context is cancelled, at which point it initiates a
// graceful shutdown and closes the channel returned by [Server.Stopped].
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/events", s.handleEvents)

	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf("localhost:%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	port := ln.Addr().(*net.TCPAddr).Port
	s.mu.Lock()
	s.url = fmt.Sprintf("http://localhost:%d", port)
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Handler: mux,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running session handlers.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
		close(s.stopped)
	}()

	return nil
}

// URL returns the address the server is reachable at, or "" before Start.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Stopped returns a channel closed once graceful shutdown has completed.
func (s *Server) Stopped() <-chan struct{} {
	return s.stopped
}

// handleRoot serves the target file at "/" and 404s every other path.
//
// An unreadable target is served as an empty 200 page: the file may be
// mid-rewrite by the render loop, and an error page would break the
// browser's EventSource reconnect cycle for a condition that heals itself.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	content, modTime := s.readTarget()

	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if !modTime.IsZero() {
		w.Header().Set("Last-Modified", modTime.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		s.logger.Error("failed to write page response", "error", err)
	}
}

// readTarget returns the target file's bytes and modification time. Any
// failure yields an empty page with a zero mtime.
func (s *Server) readTarget() ([]byte, time.Time) {
	f, err := os.Open(s.file)
	if err != nil {
		s.logger.Warn("target file unreadable, serving empty page", "file", s.file, "error", err)
		return nil, time.Time{}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, time.Time{}
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, time.Time{}
	}
	return content, info.ModTime()
}

// handleEvents streams update and bye notices via Server-Sent Events.
//
// The handler blocks in its subscription's Wait between notices; that is
// the session's only suspension point. Writes use deadlines so a stalled
// client cannot wedge the goroutine past shutdown.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// check if flushing is supported
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// ResponseController provides deadline-aware write and flush operations.
	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	// writeFrame writes one SSE frame with a deadline so a slow or
	// disconnected client times out rather than blocking indefinitely.
	writeFrame := func(frame []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := w.Write(frame); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	// subscribe before committing headers: once the client sees the
	// response open, its session is already receiving notices
	sub := s.coord.Subscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		return
	}

	sessionID := uuid.NewString()
	s.logger.Info("session connected", "session_id", sessionID, "remote", r.RemoteAddr)

	for {
		sub.Wait()
		n := sub.Observe()

		writeFailed := false
		if n.UpdateDue {
			frame := updateFrame(extract.Fragment(s.file))
			if err := writeFrame(frame); err != nil {
				writeFailed = true
			}
		}

		if n.ShutdownDue {
			// best-effort farewell; the connection is closing either way
			_ = writeFrame(byeFrame)
			s.logger.Info("session closed", "session_id", sessionID, "reason", "shutdown")
			return
		}

		if writeFailed || r.Context().Err() != nil {
			s.logger.Info("session closed", "session_id", sessionID, "reason", "disconnected")
			return
		}
	}
}

// updateFrame builds an SSE update frame carrying the extracted fragment as
// a single-field JSON payload. HTML escaping is disabled so the markup in
// the payload stays readable; the client consumes it via JSON parsing.
func updateFrame(fragment string) []byte {
	var buf bytes.Buffer
	buf.WriteString("event: update\ndata: ")

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode appends the first of the frame's two terminating newlines
	_ = enc.Encode(struct {
		Content string `json:"content"`
	}{Content: fragment})
	buf.WriteByte('\n')

	return buf.Bytes()
}
