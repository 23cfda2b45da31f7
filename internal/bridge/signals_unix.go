//go:build unix

package bridge

import (
	"os"
	"syscall"
)

func watchedSignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1, syscall.SIGINT, syscall.SIGTERM}
}

func isUpdateSignal(sig os.Signal) bool {
	return sig == syscall.SIGUSR1
}

func isShutdownSignal(sig os.Signal) bool {
	return sig == syscall.SIGINT || sig == syscall.SIGTERM
}
