package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/runwatch/internal/config"
	"github.com/five82/runwatch/internal/logging"
	"github.com/five82/runwatch/internal/milestone"
	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/timeline"
)

var (
	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7AA2F7"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0AF68"))
)

// Follow streams new lines of run to w, interleaved with milestone and
// status notices, until the run is terminal or ctx is cancelled.
func Follow(ctx context.Context, run Run, cfg config.Config, log *logging.Logger, w io.Writer) error {
	if log == nil {
		log = logging.Nop()
	}
	p := &printer{w: w, tl: timeline.New()}
	pollRun(ctx, run, cfg, log.Session(run.Name), p)
	return p.err
}

// printer writes what a poll loop observes as plain text.
type printer struct {
	w      io.Writer
	err    error
	tl     timeline.State
	status monitor.Status
	seen   bool
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) notice(style lipgloss.Style, msg string) {
	p.printf("%s\n", style.Render("» "+msg))
}

func (p *printer) seed(lines []string, tl timeline.State) {
	for _, line := range lines {
		p.printf("%s\n", line)
	}
	p.diff(tl)
}

func (p *printer) apply(u monitor.Update) {
	if u.Delta.WasReset {
		p.notice(warnStyle, fmt.Sprintf("log %s, reading from the start", u.Delta.ResetReason))
	}
	for _, line := range u.Delta.Lines {
		p.printf("%s\n", line)
	}
	p.diff(u.Timeline)

	st := u.Snapshot.Status
	if !p.seen || st != p.status {
		switch st {
		case monitor.StatusStale:
			p.notice(warnStyle, fmt.Sprintf("log stale, no writes for %s", u.Snapshot.TimeSinceLastUpdate.Round(time.Second)))
		case monitor.StatusNoLogs:
			p.notice(warnStyle, "waiting for log file")
		case monitor.StatusReceiving:
			if p.seen {
				p.notice(noticeStyle, "receiving")
			}
		case monitor.StatusCompleted, monitor.StatusFailed:
			p.notice(noticeStyle, "run "+st.String())
		}
		p.status = st
		p.seen = true
	}
}

func (p *printer) fail(error) {}

// diff prints milestones and epoch progress that are new in tl.
func (p *printer) diff(tl timeline.State) {
	for _, t := range milestone.All {
		if tl.Reached(t) && !p.tl.Reached(t) {
			p.notice(noticeStyle, t.String())
		}
	}
	if e := tl.Epoch; e != nil && (p.tl.Epoch == nil || *e != *p.tl.Epoch) {
		p.notice(noticeStyle, fmt.Sprintf("epoch %d/%d", e.Current, e.Total))
	}
	p.tl = tl
}
