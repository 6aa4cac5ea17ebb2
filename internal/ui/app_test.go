package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/state"
	"github.com/five82/runwatch/internal/timeline"
)

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func sampleSnapshot() state.Snapshot {
	lines := []string{"[STAGE=STARTING] boot", "epoch 1/5 loss=0.9", "[STAGE=EVALUATING] done"}
	return state.Snapshot{
		RunID:      "run-a",
		HasMonitor: true,
		Monitor: monitor.Snapshot{
			Status:              monitor.StatusReceiving,
			FileSizeBytes:       2048,
			EstimatedLineCount:  20,
			TimeSinceLastUpdate: 3 * time.Second,
		},
		Timeline: timeline.New().Fold(lines, time.Now()),
		Lines:    lines,
		Version:  1,
	}
}

func TestModel_RendersSnapshot(t *testing.T) {
	m := sized(t, New(Options{Runs: []string{"run-a", "run-b"}}))
	next, _ := m.Update(snapshotMsg(sampleSnapshot()))
	m = next.(Model)

	view := m.View()
	for _, want := range []string{
		"runwatch", "run-a", "run-b", "RECEIVING", "2.0 KiB", "updated 3s ago",
		"✓ Starting", "✓ Training", "◉ Evaluating", "· Completed",
		"epoch 1/5", "epoch 1/5 loss=0.9",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_LoadingBeforeSize(t *testing.T) {
	if got := New(Options{}).View(); got != "Loading..." {
		t.Fatalf("View before size = %q", got)
	}
}

func TestModel_SwitchRunWrapsAndSelects(t *testing.T) {
	var selected []int
	m := sized(t, New(Options{
		Store:  &state.Store{},
		Runs:   []string{"a", "b", "c"},
		Select: func(i int) { selected = append(selected, i) },
	}))

	m = press(m, "tab", "tab", "tab", "shift+tab")
	if want := []int{1, 2, 0, 2}; len(selected) != len(want) {
		t.Fatalf("selected = %v, want %v", selected, want)
	} else {
		for i := range want {
			if selected[i] != want[i] {
				t.Fatalf("selected = %v, want %v", selected, want)
			}
		}
	}
	if m.current != 2 {
		t.Fatalf("current = %d, want 2", m.current)
	}
}

func TestModel_SwitchRunClearsView(t *testing.T) {
	m := sized(t, New(Options{Store: &state.Store{}, Runs: []string{"a", "b"}}))
	next, _ := m.Update(snapshotMsg(sampleSnapshot()))
	m = next.(Model)

	next, cmd := m.Update(keyMsg("tab"))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("switching runs should fetch a fresh snapshot")
	}
	if m.snapshot.HasMonitor || len(m.snapshot.Lines) != 0 {
		t.Fatalf("old run data still shown: %+v", m.snapshot)
	}
	if strings.Contains(m.View(), "✓ Starting") {
		t.Fatalf("old milestones still shown")
	}
}

func TestModel_SingleRunIgnoresTab(t *testing.T) {
	called := false
	m := sized(t, New(Options{Runs: []string{"only"}, Select: func(int) { called = true }}))
	press(m, "tab")
	if called {
		t.Fatalf("Select called with a single run")
	}
}

func TestModel_FollowToggles(t *testing.T) {
	m := sized(t, New(Options{Runs: []string{"a"}}))
	next, _ := m.Update(snapshotMsg(sampleSnapshot()))
	m = next.(Model)
	if !m.follow {
		t.Fatalf("follow should start enabled")
	}
	m = press(m, "f")
	if m.follow {
		t.Fatalf("f did not pause follow")
	}
	m = press(m, "G")
	if !m.follow {
		t.Fatalf("G did not resume follow")
	}
	m = press(m, "k")
	if m.follow {
		t.Fatalf("scrolling up should pause follow")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Fatalf("paused state not shown")
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := sized(t, New(Options{}))
		_, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not quit", k)
		}
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := sized(t, New(Options{}))
	m = press(m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "cycle theme") {
		t.Fatalf("help overlay not shown")
	}
	m = press(m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestModel_CycleTheme(t *testing.T) {
	var saved string
	m := sized(t, New(Options{ThemeName: "Nightfox", OnTheme: func(name string) { saved = name }}))
	m = press(m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if saved != "Kanagawa" {
		t.Fatalf("OnTheme got %q, want Kanagawa", saved)
	}
}

func TestRenderStatus_ShowsFailuresAndResets(t *testing.T) {
	m := sized(t, New(Options{}))
	snap := sampleSnapshot()
	snap.ConsecutiveFailures = 3
	snap.LastError = errors.New("permission denied")
	next, _ := m.Update(snapshotMsg(snap))
	m = next.(Model)

	if view := m.View(); !strings.Contains(view, "read failing: permission denied") {
		t.Fatalf("failure not shown:\n%s", view)
	}
}

func TestRenderChips_Failed(t *testing.T) {
	tl := timeline.New().SetCompleted(false, time.Now())
	out := renderChips(tl, GetTheme("").Styles())
	if !strings.Contains(out, "✓ Failed") || !strings.Contains(out, "· Training") {
		t.Fatalf("chips = %q", out)
	}
	if strings.Contains(out, chipActive) {
		t.Fatalf("a finished run has no active chip: %q", out)
	}
}

func TestLineStyle(t *testing.T) {
	styles := GetTheme("").Styles()
	tests := []struct {
		line string
		want lipgloss.Style
	}{
		{"[STAGE=TRAINING]", styles.AccentText},
		{"RuntimeError: boom", styles.DangerText},
		{"Traceback (most recent call last):", styles.DangerText},
		{"WARNING: slow disk", styles.WarningText},
		{"step 10 loss=1.2", styles.Text},
	}
	for _, tt := range tests {
		got := lineStyle(tt.line, styles)
		if got.GetForeground() != tt.want.GetForeground() {
			t.Errorf("lineStyle(%q) foreground = %v, want %v", tt.line, got.GetForeground(), tt.want.GetForeground())
		}
	}
}

func TestFormatters(t *testing.T) {
	if got := formatBytes(512); got != "512 B" {
		t.Fatalf("formatBytes(512) = %q", got)
	}
	if got := formatBytes(3 * 1024 * 1024); got != "3.0 MiB" {
		t.Fatalf("formatBytes(3MiB) = %q", got)
	}
	if got := formatCount(12500); got != "12.5k" {
		t.Fatalf("formatCount = %q", got)
	}
	if got := formatAge(75 * time.Second); got != "1m15s" {
		t.Fatalf("formatAge = %q", got)
	}
}
