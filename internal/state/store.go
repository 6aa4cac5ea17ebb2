package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/runwatch/internal/logtail"
	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/timeline"
)

// MaxLines bounds the line buffer kept for display.
const MaxLines = 2000

// Snapshot represents the latest data available to the UI for one run.
type Snapshot struct {
	RunID               string
	Monitor             monitor.Snapshot
	HasMonitor          bool
	Timeline            timeline.State
	Lines               []string
	LastReset           logtail.ChangeReason
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int    // Number of consecutive poll failures
	Version             uint64 // bumped whenever Lines change
}

// IsFailing returns true when polling has failed more than once in a row.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot of the viewed run.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Reset switches the store to runID and drops everything from the previous run.
func (s *Store) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = Snapshot{
		RunID:    runID,
		Timeline: timeline.New(),
		Version:  s.snapshot.Version + 1,
	}
}

// Seed stores the catch-up view of runID: the tail lines and the timeline
// folded from them.
func (s *Store) Seed(runID string, lines []string, tl timeline.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID != s.snapshot.RunID {
		return
	}
	s.snapshot.Lines = appendBounded(nil, lines)
	s.snapshot.Timeline = tl
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.Version++
}

// Apply records one poll of runID. Updates for any other run are ignored, so a
// loop that has not yet noticed its cancellation cannot clobber the view. A
// delta error is recorded like any other failure, but the snapshot and
// timeline are still taken.
func (s *Store) Apply(runID string, u monitor.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID != s.snapshot.RunID {
		return
	}

	snap := &s.snapshot
	snap.Monitor = u.Snapshot
	snap.HasMonitor = true
	snap.Timeline = u.Timeline
	snap.LastUpdated = time.Now()

	if u.Delta.WasReset {
		// The new file is read from the start; old lines would be duplicated.
		snap.Lines = nil
		snap.LastReset = u.Delta.ResetReason
		snap.Version++
	}
	if len(u.Delta.Lines) > 0 {
		snap.Lines = appendBounded(snap.Lines, u.Delta.Lines)
		snap.Version++
	}

	if u.Delta.Err != nil {
		snap.LastError = u.Delta.Err
		snap.ConsecutiveFailures++
		return
	}
	snap.LastError = nil
	snap.ConsecutiveFailures = 0
}

// Fail records an error for runID without touching the data.
func (s *Store) Fail(runID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID != s.snapshot.RunID || err == nil {
		return
	}
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Lines = cloneLines(s.snapshot.Lines)
	if s.snapshot.Timeline.Epoch != nil {
		e := *s.snapshot.Timeline.Epoch
		snap.Timeline.Epoch = &e
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func appendBounded(dst, lines []string) []string {
	dst = append(dst, lines...)
	if over := len(dst) - MaxLines; over > 0 {
		dst = append([]string(nil), dst[over:]...)
	}
	return dst
}

func cloneLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]string, len(lines))
	copy(dup, lines)
	return dup
}
