// Package notify provides the shared update/shutdown coordination state
// for the preview server.
//
// This package is internal to manview and implements the broadcast
// machinery that connects change triggers (signals, the file watcher,
// programmatic refreshes) to the long-lived event-stream sessions.
//
// The main components are:
//
//   - [Coordinator]: the single shared state machine, one per server
//   - [Subscription]: a session's private view of the coordinator
//   - [Notice]: the snapshot a session acts on after each wakeup
//
// The design uses a monotonically increasing update generation plus a
// per-subscription last-seen counter instead of one shared pending flag,
// so every session independently observes every update: whichever session
// acknowledges first cannot consume a notification on behalf of the
// others. Bursts of triggers between two wakeups of the same session
// coalesce into a single pending notice.
//
// Users of the manview library should not need to interact with this
// package directly.
package notify
