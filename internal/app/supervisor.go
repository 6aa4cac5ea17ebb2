package app

import (
	"context"
	"sync"

	"github.com/five82/runwatch/internal/config"
	"github.com/five82/runwatch/internal/logging"
	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/state"
	"github.com/five82/runwatch/internal/timeline"
)

// Supervisor runs the poll loop of the run currently on screen. Only one
// loop is alive at a time.
type Supervisor struct {
	ctx   context.Context
	store *state.Store
	cfg   config.Config
	log   *logging.Logger

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSupervisor returns a supervisor whose loops end when ctx does.
func NewSupervisor(ctx context.Context, store *state.Store, cfg config.Config, log *logging.Logger) *Supervisor {
	if log == nil {
		log = logging.Nop()
	}
	return &Supervisor{ctx: ctx, store: store, cfg: cfg, log: log}
}

// View switches polling to run. The previous loop is cancelled and has
// exited before the store is reset for the new run.
func (s *Supervisor) View(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	s.current = run.ID()
	s.cancel = cancel
	s.done = done
	s.store.Reset(run.ID())

	log := s.log.Session(run.Name)
	log.Info().Str("log", run.LogPath).Msg("watching run")
	go func() {
		defer close(done)
		pollRun(ctx, run, s.cfg, log, storeSink{store: s.store, runID: run.ID()})
	}()
}

// Current returns the ID of the run being polled, if any.
func (s *Supervisor) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Stop cancels the active loop and waits for it to exit.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.current = ""
}

func (s *Supervisor) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

type storeSink struct {
	store *state.Store
	runID string
}

func (s storeSink) seed(lines []string, tl timeline.State) { s.store.Seed(s.runID, lines, tl) }
func (s storeSink) apply(u monitor.Update)                 { s.store.Apply(s.runID, u) }
func (s storeSink) fail(err error)                         { s.store.Fail(s.runID, err) }
