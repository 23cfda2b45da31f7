package bridge

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/manview/manview/internal/notify"
)

// Bridge drives a [notify.Coordinator] from process signals.
//
// One running Bridge exists per server. It registers for the platform's
// watched signals on Start and keeps draining until Stop, so repeated
// termination signals after shutdown has begun stay harmless no-ops via
// coordinator idempotence rather than killing the process mid-drain.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Bridge struct {
	coord  *notify.Coordinator
	logger *slog.Logger

	// notifyFn/stopFn wrap os/signal registration so tests can inject
	// signals without raising them process-wide.
	notifyFn func(c chan<- os.Signal, sig ...os.Signal)
	stopFn   func(c chan<- os.Signal)

	ch   chan os.Signal
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

// New creates a Bridge that translates signals into operations on coord.
// The bridge must be started with [Bridge.Start] and stopped with
// [Bridge.Stop].
func New(coord *notify.Coordinator, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		coord:    coord,
		logger:   logger,
		notifyFn: signal.Notify,
		stopFn:   signal.Stop,
	}
}

// Start registers the watched signals and begins draining them in a
// background goroutine.
//
// Start is idempotent; subsequent calls after the first are no-ops, and
// Start after Stop is a no-op.
func (b *Bridge) Start() {
	b.mu.Lock()
	if b.started || b.stopped {
		b.mu.Unlock()
		return
	}
	b.started = true

	// buffered so bursts arriving before the drain goroutine runs are
	// not dropped by the runtime's non-blocking delivery
	b.ch = make(chan os.Signal, 8)
	b.done = make(chan struct{})
	b.wg.Add(1)
	b.mu.Unlock()

	b.notifyFn(b.ch, watchedSignals()...)

	go func() {
		defer b.wg.Done()
		b.run()
	}()
}

// Stop unregisters the signal handlers and waits for the drain goroutine
// to exit.
//
// Stop is idempotent and safe to call multiple times. Calling Stop
// before Start is a safe no-op.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.stopped {
		b.stopped = true
		if b.ch != nil {
			b.stopFn(b.ch)
			close(b.done)
		}
	}
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Bridge) run() {
	for {
		select {
		case sig := <-b.ch:
			b.dispatch(sig)
		case <-b.done:
			return
		}
	}
}

// dispatch maps one received signal onto the coordinator. Signals
// outside the watched sets are ignored.
func (b *Bridge) dispatch(sig os.Signal) {
	switch {
	case isUpdateSignal(sig):
		b.logger.Info("update requested", "signal", sig.String())
		b.coord.RequestUpdate()
	case isShutdownSignal(sig):
		b.logger.Info("shutdown requested", "signal", sig.String())
		b.coord.RequestShutdown()
	}
}
