package monitor

import (
	"time"

	"github.com/five82/runwatch/internal/logtail"
)

// Status is the coarse state of a run's log.
type Status int

const (
	StatusNoLogs Status = iota
	StatusReceiving
	StatusStale
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReceiving:
		return "receiving"
	case StatusStale:
		return "stale"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "no logs"
	}
}

// RunStatus is the externally reported outcome of a run.
type RunStatus int

const (
	RunInProgress RunStatus = iota
	RunSucceeded
	RunFailed
)

func (r RunStatus) String() string {
	switch r {
	case RunSucceeded:
		return "succeeded"
	case RunFailed:
		return "failed"
	default:
		return "in progress"
	}
}

// Finished reports whether the run has a final outcome.
func (r RunStatus) Finished() bool {
	return r == RunSucceeded || r == RunFailed
}

// bytesPerLine is the average line length assumed by EstimatedLineCount.
const bytesPerLine = 100

// Snapshot is the classification of a log at one instant.
type Snapshot struct {
	Status                  Status
	TimeSinceLastUpdate     time.Duration
	FileSizeBytes           int64
	EstimatedLineCount      int64 // size / 100, not a real count
	RecommendedPollInterval time.Duration
	FileChangeReason        logtail.ChangeReason
	Backlog                 int64
	TakenAt                 time.Time
}

// Terminal reports whether the run is over and polling can stop.
func (s Snapshot) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}
