package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/five82/runwatch/internal/config"
	"github.com/five82/runwatch/internal/logging"
	"github.com/five82/runwatch/internal/milestone"
	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/timeline"
)

func TestCalculateBackoff(t *testing.T) {
	base := time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"healthy", 0, time.Second},
		{"negative", -3, time.Second},
		{"first failure", 1, 2 * time.Second},
		{"third failure", 3, 8 * time.Second},
		{"fifth failure capped", 5, maxBackoff}, // 32s
		{"long outage", 50, maxBackoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateBackoff(tt.failures, base); got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_SlowBaseStartsAtCap(t *testing.T) {
	if got := calculateBackoff(1, 20*time.Second); got != maxBackoff {
		t.Fatalf("calculateBackoff(1, 20s) = %v, want %v", got, maxBackoff)
	}
}

// recordingSink captures what a poll loop hands over.
type recordingSink struct {
	mu      sync.Mutex
	seeded  []string
	seeds   int
	updates []monitor.Update
	errs    []error
}

func (s *recordingSink) seed(lines []string, _ timeline.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds++
	s.seeded = append(s.seeded, lines...)
}

func (s *recordingSink) apply(u monitor.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, u)
}

func (s *recordingSink) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *recordingSink) counts() (updates, errs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates), len(s.errs)
}

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.Intervals = monitor.Intervals{
		Receiving: 5 * time.Millisecond,
		Backlog:   5 * time.Millisecond,
		Stale:     5 * time.Millisecond,
		VeryStale: 5 * time.Millisecond,
		Terminal:  5 * time.Millisecond,
	}
	return cfg
}

func startPoll(ctx context.Context, run Run, cfg config.Config, out sink) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		pollRun(ctx, run, cfg, logging.Nop(), out)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("poll loop did not return")
	}
}

func TestPollRun_ReturnsOnTerminalSnapshot(t *testing.T) {
	run := testRun(t, "[STAGE=TRAINING] go\nepoch 2/2\n", "status: succeeded\n")
	out := &recordingSink{}

	waitDone(t, startPoll(context.Background(), run, fastConfig(), out))

	if out.seeds != 1 || len(out.seeded) != 2 {
		t.Fatalf("seed calls = %d lines = %q, want one seed of 2 lines", out.seeds, out.seeded)
	}
	if len(out.errs) != 0 {
		t.Fatalf("unexpected failures: %v", out.errs)
	}
	last := out.updates[len(out.updates)-1]
	if last.Snapshot.Status != monitor.StatusCompleted || !last.Timeline.Reached(milestone.Completed) {
		t.Fatalf("last update = %v, completed reached = %v", last.Snapshot.Status, last.Timeline.Reached(milestone.Completed))
	}
}

func TestPollRun_UnreadableResultCountsAsFailure(t *testing.T) {
	run := testRun(t, "epoch 1/4\n", "status: [unclosed\n")
	out := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	done := startPoll(ctx, run, fastConfig(), out)

	waitFor(t, "two status failures", func() bool {
		_, errs := out.counts()
		return errs >= 2
	})
	cancel()
	waitDone(t, done)

	out.mu.Lock()
	defer out.mu.Unlock()
	for i, u := range out.updates {
		if u.Snapshot.Terminal() {
			t.Fatalf("update %d is terminal though the outcome could not be read", i)
		}
	}
	if len(out.updates) < len(out.errs) {
		t.Fatalf("updates = %d, errs = %d; every poll should still publish", len(out.updates), len(out.errs))
	}
}

func TestPollRun_StopsOnCancel(t *testing.T) {
	run := testRun(t, "epoch 1/4\n", "")
	out := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	done := startPoll(ctx, run, fastConfig(), out)

	waitFor(t, "first update", func() bool {
		updates, _ := out.counts()
		return updates >= 1
	})
	cancel()
	waitDone(t, done)
}

func TestPollRun_AlreadyCancelled(t *testing.T) {
	run := testRun(t, "epoch 1/4\n", "")
	out := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waitDone(t, startPoll(ctx, run, fastConfig(), out))

	if out.seeds != 0 || len(out.updates) != 0 {
		t.Fatalf("cancelled loop touched the sink: seeds=%d updates=%d", out.seeds, len(out.updates))
	}
}
