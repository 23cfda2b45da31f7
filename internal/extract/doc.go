// Package extract pulls the document body out of a served HTML page.
//
// This package is internal to manview. It is a pure text-scan helper: it
// never fails, degrading to an empty fragment whenever the file cannot be
// read, so a half-written or momentarily missing file shows up as an
// empty update rather than an error.
package extract
