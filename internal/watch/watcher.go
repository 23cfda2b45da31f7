package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// DefaultPollInterval is the stat-polling cadence used when none is
// configured.
const DefaultPollInterval = 500 * time.Millisecond

// Watcher observes a single file and invokes a callback once per
// detected content change.
//
// Detection is stat-driven: fsnotify events and the poll ticker both
// funnel into the same mtime/size comparison, so the callback fires only
// when the file actually moved, however many raw events a save produced.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Watcher struct {
	path     string
	interval time.Duration
	onChange func()
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool

	// last observed stat, touched only by the watch goroutine after
	// the Start baseline
	lastMod  time.Time
	lastSize int64
}

// New creates a Watcher for the file at path.
//
// onChange runs on the watch goroutine once per detected change; keep it
// brief or hand off. An interval of zero or less selects
// [DefaultPollInterval]. The watcher must be started with
// [Watcher.Start] and stopped with [Watcher.Stop].
func New(path string, interval time.Duration, onChange func(), logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		interval: interval,
		onChange: onChange,
		logger:   logger,
	}
}

// Start begins watching in a background goroutine.
//
// The stat state at Start is the baseline: only changes after this point
// fire the callback. If ctx is nil, context.Background() is used.
// Start is idempotent; subsequent calls after the first are no-ops, and
// Start after Stop is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started || w.stopped {
		w.mu.Unlock()
		return
	}
	w.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	runCtx := w.ctx
	w.wg.Add(1)
	w.mu.Unlock()

	w.lastMod, w.lastSize = w.stat()

	go func() {
		defer w.wg.Done()
		w.run(runCtx)
	}()
}

// Stop halts the watcher and waits for the watch goroutine to exit.
//
// Stop is idempotent and safe to call multiple times. Calling Stop
// before Start is a safe no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		if w.cancel != nil {
			w.cancel()
		}
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	var events <-chan fsnotify.Event
	var errs <-chan error

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("fsnotify unavailable, relying on polling", "error", err)
	} else {
		defer fw.Close()

		// watch the parent directory so saves that replace the file
		// are seen
		dir := filepath.Dir(w.path)
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("failed to watch directory, relying on polling", "dir", dir, "error", err)
		}
		events = fw.Events
		errs = fw.Errors
	}

	target := filepath.Clean(w.path)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.check()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("watch error", "error", err)

		case <-ticker.C:
			w.check()
		}
	}
}

// check fires the callback when the file's stat moved since last seen.
func (w *Watcher) check() {
	mod, size := w.stat()
	if mod.Equal(w.lastMod) && size == w.lastSize {
		return
	}
	if mod.IsZero() {
		// mid-save gap: the file is briefly absent while an editor
		// renames a replacement into place; the next check catches it
		return
	}

	w.lastMod, w.lastSize = mod, size
	w.logger.Info("change detected", "path", w.path)
	w.safeOnChange()
}

func (w *Watcher) stat() (time.Time, int64) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, 0
	}
	return info.ModTime(), info.Size()
}

// safeOnChange invokes the callback with panic recovery.
// If the callback panics, the full stack trace is logged with a
// correlation ID and the watcher keeps running.
func (w *Watcher) safeOnChange() {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			w.logger.Error("change callback panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	w.onChange()
}
