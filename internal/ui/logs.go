package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// updateLogs re-renders the viewport content when the store's lines changed.
func (m *Model) updateLogs() {
	if m.rendered && m.snapshot.Version == m.lastVersion {
		return
	}
	m.logs.SetContent(m.renderLogContent())
	m.lastVersion = m.snapshot.Version
	m.rendered = true
	if m.follow {
		m.logs.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	lines := m.snapshot.Lines
	if len(lines) == 0 {
		return m.theme.Styles().FaintText.Render("  no log lines yet")
	}
	styles := m.theme.Styles()
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lineStyle(line, styles).Render(line))
	}
	return b.String()
}

// lineStyle colors a log line by the severity it appears to carry.
func lineStyle(line string, styles Styles) lipgloss.Style {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "[STAGE=") || strings.Contains(upper, "[EPOCH="):
		return styles.AccentText
	case strings.Contains(upper, "ERROR"), strings.Contains(upper, "TRACEBACK"),
		strings.Contains(upper, "EXCEPTION"), strings.Contains(upper, "FATAL"):
		return styles.DangerText
	case strings.Contains(upper, "WARN"):
		return styles.WarningText
	case strings.Contains(upper, "DEBUG"):
		return styles.FaintText
	default:
		return styles.Text
	}
}
