// Package render turns man-page sources into the self-updating HTML page
// manview serves.
//
// This package is internal to manview. It shells out to man(1) with the
// pager forced to cat(1) and formatting retention enabled, converts the
// captured backspace-overstrike output into styled HTML, and wraps the
// result in an embedded page template whose inline script subscribes to
// the server's event stream.
//
// The main components are:
//
//   - [Renderer]: the source-to-page pipeline, configured with a width
//   - [CreateTarget]: temp-file management for the served page
//
// Users of the manview library should not need to interact with this
// package directly.
package render
