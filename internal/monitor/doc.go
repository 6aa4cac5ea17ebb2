// Package monitor turns a growing log file into deltas of complete lines and
// periodic status snapshots.
//
// The engine is synchronous. Every call takes the State it should update and
// returns plain values; timers, goroutines and cancellation belong to the
// caller. A State must only be used by one goroutine at a time.
//
// ReadDelta reads whatever complete lines have appeared since the last call,
// bounded by a byte and line budget. Classify inspects file metadata and tells
// the caller how stale the log is and how soon to look again. Session bundles
// both with a timeline for a single run.
package monitor
