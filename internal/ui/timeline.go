package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/runwatch/internal/milestone"
	"github.com/five82/runwatch/internal/timeline"
)

const (
	chipReached = "✓"
	chipActive  = "◉"
	chipPending = "·"
)

// renderTimeline renders the milestone chips and the epoch bar.
func (m Model) renderTimeline() string {
	styles := m.theme.Styles()
	chips := renderChips(m.snapshot.Timeline, styles)
	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, chips, m.renderEpoch(styles)),
	)
}

func renderChips(tl timeline.State, styles Styles) string {
	chips := make([]string, 0, milestone.Count)
	for _, t := range milestone.All {
		ms := tl.Milestones[t]
		ms.Type = t
		chips = append(chips, renderChip(ms, styles))
	}
	return strings.Join(chips, "  ")
}

func renderChip(ms timeline.Milestone, styles Styles) string {
	label := ms.Type.String()
	switch {
	case ms.Active:
		return styles.AccentText.Bold(true).Render(chipActive + " " + label)
	case ms.Reached && ms.Type == milestone.Failed:
		return styles.DangerText.Render(chipReached + " " + label)
	case ms.Reached:
		return styles.SuccessText.Render(chipReached + " " + label)
	default:
		return styles.FaintText.Render(chipPending + " " + label)
	}
}

func (m Model) renderEpoch(styles Styles) string {
	e := m.snapshot.Timeline.Epoch
	if e == nil {
		return styles.MutedText.Render("epoch -")
	}
	label := styles.Text.Render(fmt.Sprintf("epoch %d/%d ", e.Current, e.Total))
	return label + m.progress.ViewAs(e.Fraction())
}
