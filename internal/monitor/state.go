package monitor

import (
	"os"
	"time"

	"github.com/five82/runwatch/internal/logtail"
)

// State is the per-file polling state. The zero value is ready to use and
// starts reading at offset 0.
type State struct {
	Offset       int64
	Size         int64
	ModTime      time.Time
	PollInterval time.Duration
	LastActivity time.Time
	Backlog      int64 // bytes left behind by the last capped read

	identity     os.FileInfo
	observedSize int64
	observed     bool
	change       logtail.ChangeReason // last reset, reported by the next snapshot
}

// Seed positions the state at offset for the file described by info. It is
// used after a tail read so the next delta continues where the tail ended.
func (s *State) Seed(offset int64, info os.FileInfo) {
	s.Offset = offset
	s.Backlog = 0
	if info == nil {
		return
	}
	s.identity = info
	s.Size = info.Size()
	s.ModTime = info.ModTime()
}

func (s *State) meta() logtail.Meta {
	return logtail.Meta{Size: s.Size, Offset: s.Offset, Identity: s.identity}
}

func (s *State) reset(reason logtail.ChangeReason) {
	s.Offset = 0
	s.Size = 0
	s.Backlog = 0
	s.identity = nil
	s.change = reason
}
