package notify

import (
	"sync"
	"testing"
	"time"
)

// waitReturns reports whether sub.Wait() returns within the given window.
// Callers that expect "false" must eventually release the blocked goroutine
// (RequestUpdate or RequestShutdown), typically via t.Cleanup.
func waitReturns(sub *Subscription, within time.Duration) bool {
	done := make(chan struct{})
	go func() {
		sub.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(within):
		return false
	}
}

func TestNewCoordinator(t *testing.T) {
	c := NewCoordinator()
	if c == nil {
		t.Fatal("NewCoordinator() = nil")
	}

	if c.ShuttingDown() {
		t.Error("ShuttingDown() = true for a new coordinator, want false")
	}

	select {
	case <-c.Done():
		t.Error("Done() closed for a new coordinator")
	default:
		// expected
	}
}

func TestCoordinator_RequestUpdateWakesWaiter(t *testing.T) {
	c := NewCoordinator()
	sub := c.Subscribe()

	notices := make(chan Notice, 1)
	go func() {
		sub.Wait()
		notices <- sub.Observe()
	}()

	// give the waiter time to block before raising
	time.Sleep(20 * time.Millisecond)
	c.RequestUpdate()

	select {
	case n := <-notices:
		if !n.UpdateDue {
			t.Error("Observe().UpdateDue = false after RequestUpdate(), want true")
		}
		if n.ShutdownDue {
			t.Error("Observe().ShutdownDue = true, want false")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Wait() did not return after RequestUpdate()")
	}
}

func TestCoordinator_WaitDoesNotConsume(t *testing.T) {
	c := NewCoordinator()
	t.Cleanup(c.RequestShutdown)
	sub := c.Subscribe()

	c.RequestUpdate()

	// both waits must return: Wait never acknowledges anything
	if !waitReturns(sub, 1*time.Second) {
		t.Fatal("Wait() blocked with an update pending")
	}
	if !waitReturns(sub, 1*time.Second) {
		t.Fatal("second Wait() blocked; Wait must not consume the pending update")
	}

	if n := sub.Observe(); !n.UpdateDue {
		t.Error("Observe().UpdateDue = false, want true")
	}

	// acknowledged now, so the next wait blocks again
	if waitReturns(sub, 50*time.Millisecond) {
		t.Error("Wait() returned after Observe() with nothing pending")
	}
}

func TestCoordinator_ObserveCoalescesBurst(t *testing.T) {
	c := NewCoordinator()
	t.Cleanup(c.RequestShutdown)
	sub := c.Subscribe()

	for i := 0; i < 5; i++ {
		c.RequestUpdate()
	}

	if !waitReturns(sub, 1*time.Second) {
		t.Fatal("Wait() blocked with updates pending")
	}
	if n := sub.Observe(); !n.UpdateDue {
		t.Fatal("Observe().UpdateDue = false, want true")
	}

	// one observation acknowledges the whole burst
	if waitReturns(sub, 50*time.Millisecond) {
		t.Error("Wait() returned again; a burst must coalesce into one notice")
	}
}

func TestCoordinator_ShutdownIdempotent(t *testing.T) {
	c := NewCoordinator()

	c.RequestShutdown()
	c.RequestShutdown()
	c.RequestShutdown()

	if !c.ShuttingDown() {
		t.Error("ShuttingDown() = false after RequestShutdown(), want true")
	}

	select {
	case <-c.Done():
		// expected
	case <-time.After(1 * time.Second):
		t.Fatal("Done() not closed after RequestShutdown()")
	}

	sub := c.Subscribe()
	sub.Wait() // must not block: shutdown is pending forever
	n := sub.Observe()
	if !n.ShutdownDue {
		t.Error("Observe().ShutdownDue = false, want true")
	}
	if n.UpdateDue {
		t.Error("Observe().UpdateDue = true, want false")
	}
}

func TestCoordinator_NoLostWakeup(t *testing.T) {
	c := NewCoordinator()
	sub := c.Subscribe()

	const rounds = 100
	acks := make(chan struct{})

	go func() {
		for {
			sub.Wait()
			n := sub.Observe()
			if n.ShutdownDue {
				close(acks)
				return
			}
			if n.UpdateDue {
				acks <- struct{}{}
			}
		}
	}()

	// each raise races with the consumer's transition back into Wait;
	// every single one must still be observed
	for i := 0; i < rounds; i++ {
		c.RequestUpdate()
		select {
		case <-acks:
		case <-time.After(1 * time.Second):
			t.Fatalf("update %d was never observed", i)
		}
	}

	c.RequestShutdown()
	select {
	case <-acks:
	case <-time.After(1 * time.Second):
		t.Fatal("consumer did not terminate on shutdown")
	}
}

func TestCoordinator_FanoutTwoSubscriptions(t *testing.T) {
	c := NewCoordinator()

	sub1 := c.Subscribe()
	sub2 := c.Subscribe()

	notices := make(chan Notice, 2)
	for _, sub := range []*Subscription{sub1, sub2} {
		go func(s *Subscription) {
			s.Wait()
			notices <- s.Observe()
		}(sub)
	}

	time.Sleep(20 * time.Millisecond)
	c.RequestUpdate()

	for i := 0; i < 2; i++ {
		select {
		case n := <-notices:
			if !n.UpdateDue {
				t.Errorf("subscription %d: UpdateDue = false, want true", i)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("only %d/2 subscriptions observed the update", i)
		}
	}
}

func TestCoordinator_BothDueInOneCycle(t *testing.T) {
	c := NewCoordinator()
	sub := c.Subscribe()

	c.RequestUpdate()
	c.RequestShutdown()

	sub.Wait()
	n := sub.Observe()
	if !n.UpdateDue {
		t.Error("Observe().UpdateDue = false, want true")
	}
	if !n.ShutdownDue {
		t.Error("Observe().ShutdownDue = false, want true")
	}
}

func TestCoordinator_SubscribeBaselineIsCurrent(t *testing.T) {
	c := NewCoordinator()
	t.Cleanup(c.RequestShutdown)

	// raised before anyone subscribed
	c.RequestUpdate()
	c.RequestUpdate()

	sub := c.Subscribe()
	if waitReturns(sub, 50*time.Millisecond) {
		t.Error("Wait() returned for updates raised before Subscribe()")
	}

	c.RequestUpdate()
	if !waitReturns(sub, 1*time.Second) {
		t.Error("Wait() blocked for an update raised after Subscribe()")
	}
}

func TestCoordinator_ConcurrentAccess(t *testing.T) {
	c := NewCoordinator()

	// subscribe before any update so every consumer is guaranteed to
	// observe at least one
	numConsumers := 10
	subs := make([]*Subscription, numConsumers)
	for i := range subs {
		subs[i] = c.Subscribe()
	}

	consumed := make(chan int, numConsumers)
	for _, sub := range subs {
		go func(s *Subscription) {
			seen := 0
			for {
				s.Wait()
				n := s.Observe()
				if n.UpdateDue {
					seen++
				}
				if n.ShutdownDue {
					consumed <- seen
					return
				}
			}
		}(sub)
	}

	var wg sync.WaitGroup
	numProducers := 10
	numUpdates := 100

	for i := 0; i < numProducers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				c.RequestUpdate()
			}
		}()
	}

	wg.Wait()
	c.RequestShutdown()

	for i := 0; i < numConsumers; i++ {
		select {
		case seen := <-consumed:
			if seen == 0 {
				t.Error("consumer observed zero updates")
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("consumer %d never terminated", i)
		}
	}
}

func BenchmarkCoordinator_RequestUpdate(b *testing.B) {
	c := NewCoordinator()

	sub := c.Subscribe()
	go func() {
		for {
			sub.Wait()
			if n := sub.Observe(); n.ShutdownDue {
				return
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.RequestUpdate()
	}
	b.StopTimer()
	c.RequestShutdown()
}
