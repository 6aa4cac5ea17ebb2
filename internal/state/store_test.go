package state

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/five82/runwatch/internal/logtail"
	"github.com/five82/runwatch/internal/milestone"
	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/timeline"
)

func update(lines ...string) monitor.Update {
	return monitor.Update{
		Delta:    monitor.DeltaResult{Lines: lines},
		Snapshot: monitor.Snapshot{Status: monitor.StatusReceiving},
		Timeline: timeline.New().Fold(lines, time.Now()),
	}
}

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	var s Store
	s.Reset("run-a")

	before := time.Now()
	s.Apply("run-a", update("epoch 1/4", "epoch 2/4"))

	snap := s.Snapshot()
	if !snap.HasMonitor || snap.Monitor.Status != monitor.StatusReceiving {
		t.Fatalf("snapshot monitor = %#v, want receiving", snap.Monitor)
	}
	if want := []string{"epoch 1/4", "epoch 2/4"}; !reflect.DeepEqual(snap.Lines, want) {
		t.Fatalf("Lines = %q, want %q", snap.Lines, want)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Lines[0] = "mutated"
	snap.Timeline.Epoch.Current = 99
	snap2 := s.Snapshot()
	if snap2.Lines[0] != "epoch 1/4" {
		t.Fatalf("Snapshot should clone lines; got %q", snap2.Lines[0])
	}
	if snap2.Timeline.Epoch.Current != 2 {
		t.Fatalf("Snapshot should clone epoch; got %d", snap2.Timeline.Epoch.Current)
	}
}

func TestStore_IgnoresOtherRuns(t *testing.T) {
	var s Store
	s.Reset("run-a")
	s.Apply("run-a", update("a1"))

	s.Reset("run-b")
	s.Apply("run-a", update("late a2"))
	s.Fail("run-a", errors.New("late failure"))

	snap := s.Snapshot()
	if snap.RunID != "run-b" || len(snap.Lines) != 0 || snap.LastError != nil {
		t.Fatalf("snapshot = %#v, want empty run-b", snap)
	}
	if snap.Timeline.ActiveIndex != -1 {
		t.Fatalf("Reset should start a fresh timeline")
	}
}

func TestStore_SeedThenApply(t *testing.T) {
	var s Store
	s.Reset("run-a")

	tl := timeline.New().Fold([]string{"[STAGE=TRAINING]"}, time.Now())
	s.Seed("run-a", []string{"[STAGE=TRAINING]"}, tl)
	s.Apply("run-a", update("epoch 1/2"))

	snap := s.Snapshot()
	if want := []string{"[STAGE=TRAINING]", "epoch 1/2"}; !reflect.DeepEqual(snap.Lines, want) {
		t.Fatalf("Lines = %q, want %q", snap.Lines, want)
	}
	if !snap.Timeline.Reached(milestone.Training) {
		t.Fatalf("timeline lost the training stage")
	}
}

func TestStore_ResetClearsLines(t *testing.T) {
	var s Store
	s.Reset("run-a")
	s.Apply("run-a", update("old"))

	u := update("new")
	u.Delta.WasReset = true
	u.Delta.ResetReason = logtail.ChangeReplaced
	s.Apply("run-a", u)

	snap := s.Snapshot()
	if want := []string{"new"}; !reflect.DeepEqual(snap.Lines, want) {
		t.Fatalf("Lines = %q, want %q", snap.Lines, want)
	}
	if snap.LastReset != logtail.ChangeReplaced {
		t.Fatalf("LastReset = %v, want replaced", snap.LastReset)
	}
}

func TestStore_LineBufferIsBounded(t *testing.T) {
	var s Store
	s.Reset("run-a")

	batch := make([]string, 750)
	for i := 0; i < 4; i++ {
		for j := range batch {
			batch[j] = fmt.Sprintf("line %d", i*len(batch)+j)
		}
		s.Apply("run-a", update(batch...))
	}

	snap := s.Snapshot()
	if len(snap.Lines) != MaxLines {
		t.Fatalf("len(Lines) = %d, want %d", len(snap.Lines), MaxLines)
	}
	if snap.Lines[len(snap.Lines)-1] != "line 2999" || snap.Lines[0] != "line 1000" {
		t.Fatalf("buffer kept the wrong window: %q .. %q", snap.Lines[0], snap.Lines[len(snap.Lines)-1])
	}
}

func TestStore_VersionTracksLines(t *testing.T) {
	var s Store
	s.Reset("run-a")
	v0 := s.Snapshot().Version

	s.Apply("run-a", update())
	if s.Snapshot().Version != v0 {
		t.Fatalf("Version changed without new lines")
	}
	s.Apply("run-a", update("x"))
	if s.Snapshot().Version == v0 {
		t.Fatalf("Version unchanged after new lines")
	}
}

func TestStore_FailKeepsPreviousData(t *testing.T) {
	var s Store
	s.Reset("run-a")
	s.Apply("run-a", update("kept"))

	before := time.Now()
	origErr := errors.New("boom")
	s.Fail("run-a", origErr)

	snap := s.Snapshot()
	if len(snap.Lines) != 1 || snap.Lines[0] != "kept" {
		t.Fatalf("lines changed on error: %q", snap.Lines)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	s.Reset("run-a")

	// Initially zero failures
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsFailing() {
		t.Fatalf("fresh store failing: %d", snap.ConsecutiveFailures)
	}

	s.Fail("run-a", errors.New("fail 1"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsFailing() {
		t.Fatalf("after 1 failure: %d failing=%v", snap.ConsecutiveFailures, snap.IsFailing())
	}

	// Delta errors count as failures too.
	u := update()
	u.Delta.Err = errors.New("read log: permission denied")
	s.Apply("run-a", u)
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsFailing() {
		t.Fatalf("after 2 failures: %d failing=%v", snap.ConsecutiveFailures, snap.IsFailing())
	}

	// Success resets counter
	s.Apply("run-a", update("ok"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsFailing() || snap.LastError != nil {
		t.Fatalf("after success: %d failing=%v err=%v", snap.ConsecutiveFailures, snap.IsFailing(), snap.LastError)
	}
}
