// Package logtail provides the file-level primitives used to observe a log that
// another process is still writing.
//
// # Overview
//
// Nothing in this package keeps state between calls. Callers record what they
// saw last (a Meta value) and hand it back on the next observation. The
// stateful reader built on top of these helpers lives in the monitor package.
//
// # Core Functionality
//
//  1. ReadTail: extract the last N complete lines without reading the whole file
//  2. Detect: classify a file as unchanged, truncated, replaced or deleted
//  3. SplitComplete: split a byte range into complete lines, holding back an
//     unterminated final line
//  4. OpenShared: open a log without locking out the writer
//
// # Tail Algorithm
//
// ReadTail memory-maps the file and walks backwards in 8 KiB chunks:
//
//	1. Start at end of file
//	2. Read the previous chunk and append the carried fragment
//	3. The first separator found from the end marks the last complete line;
//	   anything after it is still being written and is dropped
//	4. Every further separator yields one complete line (newest first)
//	5. The leading fragment is carried into the next (older) chunk
//	6. Stop after N lines or at the start of the file
//
// Memory use is O(N × line length) plus one chunk, regardless of file size.
// ReadTail also reports EndOffset, the byte position just past the last
// complete line, so a delta reader can continue from there without returning
// the same lines twice.
//
// # Change Detection
//
// Detect applies these rules in order:
//
//   - Deleted: the file is gone and a non-empty file was seen before
//   - Replaced: the file identity (os.SameFile) differs from the recorded one
//   - Truncated: the file is now shorter than the read offset
//   - None: otherwise
//
// Replacement wins over truncation: a rotated log may well be shorter than the
// old offset, but the right response is "new file", not "same file shrank".
//
// # Sharing
//
// On Windows OpenShared passes FILE_SHARE_READ|FILE_SHARE_WRITE|FILE_SHARE_DELETE
// so the producer can append, rotate or delete while a read is in flight. On
// other platforms it is os.Open.
//
// # Error Handling
//
// ReadTail returns an empty result and nil error for a missing file (the run
// may simply not have started). Other I/O errors are returned wrapped.
package logtail
