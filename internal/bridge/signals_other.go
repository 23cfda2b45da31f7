//go:build !unix

package bridge

import "os"

// Windows and other non-unix platforms have no SIGUSR1, so there is no
// external update trigger; file watching covers refresh instead.

func watchedSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

func isUpdateSignal(os.Signal) bool {
	return false
}

func isShutdownSignal(sig os.Signal) bool {
	return sig == os.Interrupt
}
