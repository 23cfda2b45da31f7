package notify

import (
	"sync"
)

// Notice is the snapshot of pending notifications a session observes
// after a wakeup.
type Notice struct {
	// UpdateDue reports that at least one content update was requested
	// since this subscription last observed. Multiple requests between
	// two observations coalesce into one.
	UpdateDue bool

	// ShutdownDue reports that shutdown has been requested. Shutdown is
	// one-way: once true, it is true in every later observation.
	ShutdownDue bool
}

// Coordinator is the shared signaling state between update/shutdown
// producers and the streaming sessions consuming them.
//
// A Coordinator carries a monotonically increasing update generation and
// a one-way shutdown flag, both guarded by a single mutex. Sessions hold
// a [Subscription] whose last-seen generation makes pending updates a
// per-session property, so concurrent sessions never race to consume a
// single shared flag.
//
// Construct one Coordinator per server and pass it by reference to every
// producer and session; all methods are safe for concurrent use.
type Coordinator struct {
	mu           sync.Mutex
	cond         *sync.Cond
	updates      uint64
	shuttingDown bool
	done         chan struct{}
}

// NewCoordinator creates a Coordinator with no pending notifications.
func NewCoordinator() *Coordinator {
	c := &Coordinator{
		done: make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// RequestUpdate records that the served content changed and wakes every
// waiting subscription.
//
// It never blocks beyond the internal guard and never fails, so it is
// safe to call at any rate from any goroutine, including the goroutine
// draining the process signal channel. A request made while no session
// is connected is still recorded for sessions already subscribed.
func (c *Coordinator) RequestUpdate() {
	c.mu.Lock()
	c.updates++
	c.mu.Unlock()

	c.cond.Broadcast()
}

// RequestShutdown begins shutdown and wakes every waiting subscription.
//
// Idempotent: calls after the first re-assert the already-set state and
// wake waiters again, but sessions that already observed shutdown have
// terminated and cannot observe it twice.
func (c *Coordinator) RequestShutdown() {
	c.mu.Lock()
	if !c.shuttingDown {
		c.shuttingDown = true
		close(c.done)
	}
	c.mu.Unlock()

	c.cond.Broadcast()
}

// ShuttingDown reports whether shutdown has been requested.
func (c *Coordinator) ShuttingDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shuttingDown
}

// Done returns a channel that is closed once shutdown has been
// requested. It lets lifecycle owners select on shutdown without
// holding a subscription.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Subscribe creates a subscription whose baseline is the current update
// generation: it observes updates requested from this moment on, plus
// shutdown whenever it happens.
//
// Subscriptions hold no resources beyond the pointer; abandoning one is
// safe at any time.
func (c *Coordinator) Subscribe() *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Subscription{coord: c, seen: c.updates}
}

// Subscription is one session's private view of a [Coordinator].
//
// A Subscription is owned by a single session goroutine and is not safe
// for concurrent use.
type Subscription struct {
	coord *Coordinator

	// seen is the update generation this subscription last acknowledged.
	seen uint64
}

// Wait blocks until a notification is pending for this subscription:
// either an update requested after the last [Subscription.Observe], or
// shutdown. It consumes nothing; callers follow up with Observe to learn
// what is due and acknowledge it.
//
// A request that lands between an Observe and the next Wait is seen by
// the wait predicate before blocking, so no wakeup is ever lost.
func (s *Subscription) Wait() {
	c := s.coord
	c.mu.Lock()
	for s.seen == c.updates && !c.shuttingDown {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

// Observe returns the currently pending notice and acknowledges any
// pending update, so this subscription blocks again on its next Wait
// until something new is requested.
//
// The read and the acknowledgment happen atomically under the
// coordinator's guard: an update can never be acknowledged without
// having been reported in the returned [Notice].
func (s *Subscription) Observe() Notice {
	c := s.coord
	c.mu.Lock()
	defer c.mu.Unlock()

	n := Notice{
		UpdateDue:   c.updates > s.seen,
		ShutdownDue: c.shuttingDown,
	}
	s.seen = c.updates
	return n
}
