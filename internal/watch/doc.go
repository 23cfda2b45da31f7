// Package watch observes the man-page source file for changes.
//
// This package is internal to manview. It layers fsnotify events from the
// source's parent directory over a poll ticker, funneling both into one
// stat comparison so that editor save strategies which replace the file
// (write to a temp file, rename over the original) are detected, event
// bursts coalesce into a single callback, and a system without a usable
// fsnotify backend still works on polling alone.
//
// Users of the manview library should not need to interact with this
// package directly.
package watch
