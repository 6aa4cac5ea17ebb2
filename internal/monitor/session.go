package monitor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/five82/runwatch/internal/logtail"
	"github.com/five82/runwatch/internal/timeline"
)

// Update is everything one poll of a session produced.
type Update struct {
	Delta    DeltaResult
	Snapshot Snapshot
	Timeline timeline.State
}

// Session follows the log of one run.
type Session struct {
	Path       string
	State      *State
	Timeline   timeline.State
	Classifier *Classifier
	Options    DeltaOptions
}

// NewSession returns a session for the log at path. A nil classifier uses
// the default thresholds and the wall clock.
func NewSession(path string, c *Classifier, opts DeltaOptions) *Session {
	if c == nil {
		c = NewClassifier(DefaultClassifierConfig())
	}
	return &Session{
		Path:       path,
		State:      &State{},
		Timeline:   timeline.New(),
		Classifier: c,
		Options:    opts,
	}
}

// CatchUp reads the last n complete lines for display and positions the
// delta reader just after them so the next Poll does not repeat them. The
// timeline is folded from every complete line up to that point, not just the
// displayed tail, so stages announced early in a long log are not lost.
func (s *Session) CatchUp(n int) (logtail.TailResult, error) {
	tail, err := logtail.ReadTail(s.Path, n)
	if err != nil {
		return logtail.TailResult{}, fmt.Errorf("catch up: %w", err)
	}
	now := s.Classifier.now()
	if err := s.foldHistory(tail.EndOffset, now); err != nil {
		// Fall back to what the tail showed.
		s.Timeline = s.Timeline.Fold(tail.Lines, now)
	}

	info, err := os.Stat(s.Path)
	if err != nil {
		// Gone since the tail read; the next Poll starts from scratch.
		return tail, nil
	}
	s.State.Seed(tail.EndOffset, info)
	return tail, nil
}

// foldHistory folds the complete lines in [0, end) into the timeline, reading
// at most Options.MaxBytes at a time.
func (s *Session) foldHistory(end int64, now time.Time) error {
	if end <= 0 {
		return nil
	}
	f, err := logtail.OpenShared(s.Path)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	opts := s.Options.withDefaults()
	buf := make([]byte, opts.MaxBytes)
	tl := s.Timeline
	var off int64
	for off < end {
		want := int64(len(buf))
		if rest := end - off; rest < want {
			want = rest
		}
		n, err := f.ReadAt(buf[:want], off)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read log at %d: %w", off, err)
		}
		if n == 0 {
			break
		}
		lines, consumed := splitBudget(buf[:n], n == len(buf))
		if consumed == 0 {
			break
		}
		tl = tl.Fold(lines, now)
		off += int64(consumed)
	}
	s.Timeline = tl
	return nil
}

// Poll reads new lines, folds them into the timeline and classifies the log.
// A finished run is only treated as finished once the reader has caught up
// with the file, so the final lines are folded before the run's outcome is
// applied and before the snapshot tells the caller to stop.
func (s *Session) Poll(run RunStatus) Update {
	delta := ReadDelta(s.Path, s.State, s.Options)
	now := s.Classifier.now()

	if delta.WasCapped {
		run = RunInProgress
	}

	s.Timeline = s.Timeline.Fold(delta.Lines, now)
	if run.Finished() && !s.Timeline.Finalized {
		s.Timeline = s.Timeline.SetCompleted(run == RunSucceeded, now)
	}

	return Update{
		Delta:    delta,
		Snapshot: s.Classifier.Classify(s.Path, s.State, run),
		Timeline: s.Timeline,
	}
}
