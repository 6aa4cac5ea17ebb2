// Package timeline folds observed log lines into an ordered set of pipeline
// milestones.
//
// A State is a value. Fold and SetCompleted return a new State and leave the
// receiver untouched, so a State handed to a renderer never changes under it.
package timeline

import (
	"time"

	"github.com/five82/runwatch/internal/milestone"
)

// TriggerLimit bounds the trigger line kept for display.
const TriggerLimit = 200

// Milestone is the observed state of one pipeline stage.
type Milestone struct {
	Type        milestone.Type
	Reached     bool
	ReachedAt   time.Time
	TriggerLine string
	Active      bool
}

// State is the timeline of one run.
type State struct {
	Milestones  [milestone.Count]Milestone
	ActiveIndex int              // last reached non-terminal stage, -1 if none or finished
	Epoch       *milestone.Epoch // nil until observed
	Finalized   bool             // set by SetCompleted; later lines are ignored
}

// New returns a timeline with nothing reached.
func New() State {
	var s State
	for i, t := range milestone.All {
		s.Milestones[i] = Milestone{Type: t}
	}
	s.ActiveIndex = -1
	return s
}

// Fold applies a batch of lines in order. Stages may be reached out of order;
// a reached stage stays reached. Within the batch the last explicit epoch
// token wins over any heuristic "epoch N/M" text.
func (s State) Fold(lines []string, now time.Time) State {
	if s.Finalized || len(lines) == 0 {
		return s
	}
	next := s.clone()

	var explicit, heuristic *milestone.Epoch
	for _, line := range lines {
		if t, ok := milestone.Detect(line); ok {
			next.reach(t, now, line)
		}
		if e, src, ok := milestone.ExtractEpoch(line); ok {
			switch src {
			case milestone.EpochExplicit:
				explicit = &e
			case milestone.EpochHeuristic:
				heuristic = &e
			}
		}
	}
	switch {
	case explicit != nil:
		next.Epoch = explicit
	case heuristic != nil:
		next.Epoch = heuristic
	}
	next.recomputeActive()
	return next
}

// SetCompleted applies the run's external result. On success every stage up
// to Completed is marked reached, including stages the log never announced.
// On failure only Failed is marked; earlier progress stays as observed.
func (s State) SetCompleted(success bool, now time.Time) State {
	next := s.clone()
	if success {
		for _, t := range milestone.All {
			if t == milestone.Failed {
				continue
			}
			next.reach(t, now, "")
		}
	} else {
		next.reach(milestone.Failed, now, "")
	}
	next.Finalized = true
	next.recomputeActive()
	return next
}

// Reached reports whether stage t has been reached.
func (s State) Reached(t milestone.Type) bool {
	if !t.Valid() {
		return false
	}
	return s.Milestones[t].Reached
}

// Active returns the in-progress stage, if any.
func (s State) Active() (milestone.Type, bool) {
	if s.ActiveIndex < 0 {
		return 0, false
	}
	return milestone.Type(s.ActiveIndex), true
}

// Terminal reports whether Completed or Failed has been reached.
func (s State) Terminal() bool {
	return s.Reached(milestone.Completed) || s.Reached(milestone.Failed)
}

func (s *State) reach(t milestone.Type, now time.Time, line string) {
	m := &s.Milestones[t]
	m.Type = t
	if m.Reached {
		return
	}
	m.Reached = true
	m.ReachedAt = now
	m.TriggerLine = truncate(line, TriggerLimit)
}

func (s *State) recomputeActive() {
	highest := -1
	for i := len(s.Milestones) - 1; i >= 0; i-- {
		if s.Milestones[i].Reached {
			highest = i
			break
		}
	}
	s.ActiveIndex = highest
	if highest >= 0 && milestone.Type(highest).Terminal() {
		s.ActiveIndex = -1
	}
	for i := range s.Milestones {
		s.Milestones[i].Active = i == s.ActiveIndex
	}
}

func (s State) clone() State {
	next := s
	if s.Epoch != nil {
		e := *s.Epoch
		next.Epoch = &e
	}
	return next
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	// Back off to a rune boundary.
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
