//go:build unix

package bridge

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/manview/manview/internal/notify"
)

func TestBridge_SIGUSR1RequestsUpdate(t *testing.T) {
	coord := notify.NewCoordinator()
	t.Cleanup(coord.RequestShutdown)

	b := New(coord, testLogger())
	b.Start()
	t.Cleanup(b.Stop)

	sub := coord.Subscribe()
	notices := make(chan notify.Notice, 1)
	go func() {
		sub.Wait()
		notices <- sub.Observe()
	}()

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("raising SIGUSR1: %v", err)
	}

	select {
	case n := <-notices:
		if !n.UpdateDue {
			t.Error("Observe().UpdateDue = false after SIGUSR1, want true")
		}
		if n.ShutdownDue {
			t.Error("Observe().ShutdownDue = true after SIGUSR1, want false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SIGUSR1 was never observed as an update")
	}
}

func TestSignalClassification(t *testing.T) {
	tests := []struct {
		sig      os.Signal
		update   bool
		shutdown bool
	}{
		{syscall.SIGUSR1, true, false},
		{syscall.SIGINT, false, true},
		{syscall.SIGTERM, false, true},
		{syscall.SIGHUP, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.sig.String(), func(t *testing.T) {
			if got := isUpdateSignal(tt.sig); got != tt.update {
				t.Errorf("isUpdateSignal(%v) = %v, want %v", tt.sig, got, tt.update)
			}
			if got := isShutdownSignal(tt.sig); got != tt.shutdown {
				t.Errorf("isShutdownSignal(%v) = %v, want %v", tt.sig, got, tt.shutdown)
			}
		})
	}

	watched := watchedSignals()
	if len(watched) != 3 {
		t.Errorf("len(watchedSignals()) = %d, want 3", len(watched))
	}
}
