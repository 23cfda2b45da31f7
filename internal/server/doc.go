// Package server provides the preview HTTP server.
//
// This package is internal to manview and handles all HTTP concerns:
//
//   - Page serving: the target HTML file's current bytes at "/"
//   - Server-Sent Events: update and bye notifications at "/events"
//
// Every other path is a 404. An unreadable target file is served as an
// empty 200 page rather than an error, so a tab opened mid-regeneration
// still establishes its EventSource connection and recovers on the next
// update. Each /events connection runs as its own session goroutine driven
// by a coordinator subscription.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second drain for open connections.
//
// Users of the manview library should not need to interact with this
// package directly. The server is started automatically by [manview.Preview.Start].
package server
