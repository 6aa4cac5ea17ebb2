package monitor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/five82/runwatch/internal/logtail"
)

const (
	DefaultMaxBytes = 64 * 1024
	DefaultMaxLines = 1000
)

// DeltaOptions bounds the work of a single ReadDelta call. Zero values select
// the defaults.
type DeltaOptions struct {
	MaxBytes int
	MaxLines int
}

func (o DeltaOptions) withDefaults() DeltaOptions {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxLines <= 0 {
		o.MaxLines = DefaultMaxLines
	}
	return o
}

// DeltaResult is the outcome of one ReadDelta call.
type DeltaResult struct {
	Lines          []string
	WasReset       bool
	ResetReason    logtail.ChangeReason
	WasCapped      bool
	BytesRemaining int64
	BytesRead      int64
	Offset         int64 // read offset after the call
	Err            error
}

// ReadDelta returns the complete lines appended to path since st.Offset and
// advances st past them. A trailing line without '\n' is left unread.
//
// When the file was truncated or replaced the state is reset and the new
// file is read from the start in the same call. A deleted file resets the
// state and yields no lines. Errors are reported in DeltaResult.Err and the
// offset does not move; a reset detected before a failed read still applies.
func ReadDelta(path string, st *State, opts DeltaOptions) DeltaResult {
	opts = opts.withDefaults()

	f, err := logtail.OpenShared(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return readMissing(st)
		}
		return DeltaResult{Offset: st.Offset, Err: fmt.Errorf("open log: %w", err)}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return DeltaResult{Offset: st.Offset, Err: fmt.Errorf("stat log: %w", err)}
	}

	var res DeltaResult
	if reason := logtail.Detect(st.meta(), info); reason != logtail.ChangeNone {
		st.reset(reason)
		res.WasReset = true
		res.ResetReason = reason
	}

	size := info.Size()
	start := st.Offset
	st.identity = info
	st.Size = size
	st.ModTime = info.ModTime()

	avail := size - start
	if avail <= 0 {
		st.Backlog = 0
		res.Offset = start
		return res
	}

	want := avail
	if want > int64(opts.MaxBytes) {
		want = int64(opts.MaxBytes)
	}
	buf := make([]byte, want)
	n, err := f.ReadAt(buf, start)
	if err != nil && !errors.Is(err, io.EOF) {
		res.Offset = start
		res.Err = fmt.Errorf("read log at %d: %w", start, err)
		return res
	}
	buf = buf[:n]

	lines, consumed := splitBudget(buf, n == opts.MaxBytes && avail > int64(n))
	if len(lines) > opts.MaxLines {
		lines = lines[len(lines)-opts.MaxLines:]
	}

	st.Offset = start + int64(consumed)
	res.Lines = lines
	res.BytesRead = int64(consumed)
	res.Offset = st.Offset
	res.BytesRemaining = size - st.Offset
	res.WasCapped = avail > int64(opts.MaxBytes)
	if res.WasCapped {
		st.Backlog = res.BytesRemaining
	} else {
		st.Backlog = 0
	}
	return res
}

// splitBudget splits buf into complete lines. When full is set and buf holds
// no newline, one line is longer than the whole budget and is emitted in
// pieces cut on a rune boundary.
func splitBudget(buf []byte, full bool) ([]string, int) {
	lines, consumed := logtail.SplitComplete(buf)
	if consumed > 0 || !full || len(buf) == 0 {
		return lines, consumed
	}
	cut := runeBoundary(buf)
	return []string{string(buf[:cut])}, cut
}

// runeBoundary returns the length of the longest prefix of buf that does not
// end inside a multi-byte character.
func runeBoundary(buf []byte) int {
	start := len(buf) - 1
	for start > 0 && !utf8.RuneStart(buf[start]) {
		start--
	}
	if start > 0 && !utf8.FullRune(buf[start:]) {
		return start
	}
	return len(buf)
}

func readMissing(st *State) DeltaResult {
	reason := logtail.Detect(st.meta(), nil)
	if reason == logtail.ChangeNone {
		return DeltaResult{Offset: st.Offset}
	}
	st.reset(reason)
	return DeltaResult{WasReset: true, ResetReason: reason}
}
