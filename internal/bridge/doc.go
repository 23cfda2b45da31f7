// Package bridge converts asynchronous process signals into coordinator
// state transitions.
//
// This package is internal to manview. Signal delivery is funneled
// through a buffered channel drained by a single goroutine, so the code
// running in true signal-handler context stays inside the Go runtime and
// everything here executes on a regular goroutine that only performs the
// coordinator's non-blocking operations.
//
// The signal sets are platform-specific: on unix a user-defined signal
// (SIGUSR1) requests a content-update broadcast and SIGINT/SIGTERM begin
// shutdown; elsewhere only the interrupt-to-shutdown mapping exists.
//
// Users of the manview library should not need to interact with this
// package directly.
package bridge
