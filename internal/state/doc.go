// Package state provides the thread-safe store shared by a run's polling loop
// and the UI.
//
// The poller is the only writer. It calls Reset when the viewed run changes,
// Seed after the initial tail read, and Apply or Fail after every poll. The
// UI reads with Snapshot, which returns copies so rendering never races the
// poller.
//
// Every write names the run it belongs to. Writes for a run other than the
// one passed to the last Reset are dropped; a cancelled loop may still finish
// one poll after the user switched away.
//
// Lines are kept in a bounded buffer of MaxLines entries. A reset of the log
// file (truncation, replacement or deletion) clears the buffer since the
// reader starts over from the beginning of the new file.
package state
