package monitor

import (
	"os"
	"time"

	"github.com/five82/runwatch/internal/logtail"
)

// Intervals are the poll cadences recommended per status.
type Intervals struct {
	Receiving time.Duration
	Backlog   time.Duration // receiving with a capped read still pending
	Stale     time.Duration
	VeryStale time.Duration
	Terminal  time.Duration
}

// ClassifierConfig holds staleness thresholds and poll cadences.
type ClassifierConfig struct {
	StaleAfter     time.Duration
	VeryStaleAfter time.Duration
	Intervals      Intervals
}

// DefaultClassifierConfig returns the stock thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		StaleAfter:     60 * time.Second,
		VeryStaleAfter: 5 * time.Minute,
		Intervals: Intervals{
			Receiving: 500 * time.Millisecond,
			Backlog:   100 * time.Millisecond,
			Stale:     3 * time.Second,
			VeryStale: 10 * time.Second,
			Terminal:  30 * time.Second,
		},
	}
}

// Classifier turns file metadata and run status into a Snapshot.
type Classifier struct {
	Config ClassifierConfig
	Now    func() time.Time // defaults to time.Now
}

// NewClassifier returns a classifier using the wall clock.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{Config: cfg, Now: time.Now}
}

func (c *Classifier) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Classify stats path and reports the log's status. A finished run wins over
// anything the file says. st.LastActivity moves only when the file has grown
// since the previous call, and st.PollInterval receives the recommendation.
func (c *Classifier) Classify(path string, st *State, run RunStatus) Snapshot {
	now := c.now()
	snap := Snapshot{TakenAt: now, Backlog: st.Backlog}

	var info os.FileInfo
	if fi, err := os.Stat(path); err == nil {
		info = fi
	}

	snap.FileChangeReason = logtail.Detect(st.meta(), info)
	if snap.FileChangeReason == logtail.ChangeNone {
		snap.FileChangeReason = st.change
	}
	st.change = logtail.ChangeNone

	if info != nil {
		size := info.Size()
		snap.FileSizeBytes = size
		snap.EstimatedLineCount = size / bytesPerLine
		if st.observed && size > st.observedSize {
			st.LastActivity = now
		}
		st.observedSize = size
		st.observed = true

		last := info.ModTime()
		if st.LastActivity.After(last) {
			last = st.LastActivity
		}
		snap.TimeSinceLastUpdate = max(now.Sub(last), 0)
	}

	iv := c.Config.Intervals
	switch {
	case run == RunSucceeded:
		snap.Status = StatusCompleted
		snap.RecommendedPollInterval = iv.Terminal
	case run == RunFailed:
		snap.Status = StatusFailed
		snap.RecommendedPollInterval = iv.Terminal
	case info == nil:
		snap.Status = StatusNoLogs
		snap.RecommendedPollInterval = iv.Stale
	case snap.TimeSinceLastUpdate > c.Config.StaleAfter:
		snap.Status = StatusStale
		snap.RecommendedPollInterval = iv.Stale
		if snap.TimeSinceLastUpdate > c.Config.VeryStaleAfter {
			snap.RecommendedPollInterval = iv.VeryStale
		}
	case snap.Backlog > 0:
		snap.Status = StatusReceiving
		snap.RecommendedPollInterval = iv.Backlog
	default:
		snap.Status = StatusReceiving
		snap.RecommendedPollInterval = iv.Receiving
	}

	st.PollInterval = snap.RecommendedPollInterval
	return snap
}
