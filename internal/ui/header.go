package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/runwatch/internal/logtail"
)

// renderHeader renders the run tabs and the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("runwatch")}
	parts = append(parts, m.renderRunTabs(styles))
	parts = append(parts, m.renderStatus(styles)...)

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) renderRunTabs(styles Styles) string {
	if len(m.runs) == 0 {
		return styles.MutedText.Render("no runs")
	}
	tabs := make([]string, len(m.runs))
	for i, name := range m.runs {
		if i == m.current {
			tabs[i] = styles.Selected.Render(" " + name + " ")
			continue
		}
		tabs[i] = styles.MutedText.Render(" " + name + " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderStatus returns the badge and details for the current snapshot.
func (m Model) renderStatus(styles Styles) []string {
	snap := m.snapshot
	if !snap.HasMonitor {
		if snap.LastError != nil {
			return []string{styles.DangerText.Render("error: " + snap.LastError.Error())}
		}
		return []string{styles.MutedText.Render("waiting for first poll...")}
	}

	mon := snap.Monitor
	status := mon.Status.String()
	parts := []string{styles.StatusStyle(status).Render(strings.ToUpper(status))}

	if mon.FileSizeBytes > 0 {
		parts = append(parts, styles.Text.Render(fmt.Sprintf("%s  ~%s lines",
			formatBytes(mon.FileSizeBytes), formatCount(mon.EstimatedLineCount))))
	}
	if mon.FileSizeBytes > 0 || mon.TimeSinceLastUpdate > 0 {
		parts = append(parts, styles.MutedText.Render("updated "+formatAge(mon.TimeSinceLastUpdate)+" ago"))
	}
	if mon.Backlog > 0 {
		parts = append(parts, styles.InfoText.Render("catching up "+formatBytes(mon.Backlog)))
	}
	if snap.LastReset != logtail.ChangeNone {
		parts = append(parts, styles.WarningText.Render("log "+snap.LastReset.String()))
	}
	if snap.IsFailing() && snap.LastError != nil {
		parts = append(parts, styles.DangerText.Render("read failing: "+snap.LastError.Error()))
	}
	if !m.follow {
		parts = append(parts, styles.FaintText.Render("paused"))
	}
	return parts
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "<1s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
