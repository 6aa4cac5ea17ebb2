package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/runwatch/internal/state"
	"github.com/five82/runwatch/internal/timeline"
)

const defaultRefresh = 500 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *state.Store
	Runs         []string     // display names, in tab order
	Select       func(i int) // switches polling to run i
	RefreshEvery time.Duration
	ThemeName    string
	OnTheme      func(name string) // called when the user cycles themes
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	runs      []string
	selectRun func(int)
	onTheme   func(string)
	refresh   time.Duration

	theme    Theme
	keys     keyMap
	help     help.Model
	progress progress.Model
	logs     viewport.Model

	width    int
	height   int
	ready    bool
	current  int
	follow   bool
	showHelp bool

	snapshot    state.Snapshot
	lastVersion uint64
	rendered    bool
	lastUpdated time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	selectRun := opts.Select
	if selectRun == nil {
		selectRun = func(int) {}
	}
	onTheme := opts.OnTheme
	if onTheme == nil {
		onTheme = func(string) {}
	}
	theme := GetTheme(opts.ThemeName)

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		runs:      opts.Runs,
		selectRun: selectRun,
		onTheme:   onTheme,
		refresh:   refresh,
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		progress:  newProgress(theme),
		follow:    true,
		snapshot:  state.Snapshot{Timeline: timeline.New()},
	}
}

func newProgress(t Theme) progress.Model {
	return progress.New(
		progress.WithSolidFill(t.Accent),
		progress.WithoutPercentage(),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		cmds := []tea.Cmd{tickCmd(m.refresh)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTop(),
		m.logs.View(),
		m.renderFooter(),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.progress = newProgress(m.theme)
		m.onTheme(m.theme.Name)
		m.layout()
		m.rendered = false
		m.updateLogs()
	case key.Matches(msg, m.keys.NextRun):
		return m.switchRun(1)
	case key.Matches(msg, m.keys.PrevRun):
		return m.switchRun(-1)
	case key.Matches(msg, m.keys.ToggleFollow):
		m.follow = !m.follow
		if m.follow {
			m.logs.GotoBottom()
		}
	case key.Matches(msg, m.keys.Up):
		m.follow = false
		m.logs.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logs.LineDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.follow = false
		m.logs.ViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logs.ViewDown()
	case key.Matches(msg, m.keys.Top):
		m.follow = false
		m.logs.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.follow = true
		m.logs.GotoBottom()
	}
	return m, nil
}

// switchRun moves the selection by delta, wrapping around, and asks the host
// to poll the new run.
func (m Model) switchRun(delta int) (tea.Model, tea.Cmd) {
	n := len(m.runs)
	if n < 2 {
		return m, nil
	}
	m.current = ((m.current+delta)%n + n) % n
	m.selectRun(m.current)
	m.snapshot = state.Snapshot{Timeline: timeline.New()}
	m.rendered = false
	m.follow = true
	m.logs.SetContent("")
	if m.store == nil {
		return m, nil
	}
	return m, fetchSnapshotCmd(m.store)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = time.Now()
	m.layout()
	m.updateLogs()
}

// layout sizes the log viewport to whatever the header leaves over.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.progress.Width = max(10, min(40, m.width-24))
	top := lipgloss.Height(m.renderTop())
	footer := lipgloss.Height(m.renderFooter())
	m.logs.Width = m.width
	m.logs.Height = max(1, m.height-top-footer)
	if m.follow {
		m.logs.GotoBottom()
	}
}

func (m Model) renderTop() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTimeline(),
	)
}

func (m Model) renderFooter() string {
	return m.theme.Styles().Footer.Render(m.help.View(m.keys))
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	title := styles.Logo.Render("runwatch") + styles.MutedText.Render("  keys (any key closes)")
	m.help.ShowAll = true
	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.help.View(m.keys))
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if m.ctx.Err() != nil && err != nil {
		// Cancellation is how the host asks us to stop.
		return nil
	}
	return err
}
