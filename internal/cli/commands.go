package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/five82/runwatch/internal/app"
	"github.com/five82/runwatch/internal/logtail"
	"github.com/five82/runwatch/internal/milestone"
	"github.com/five82/runwatch/internal/monitor"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch RUN_DIR...",
		Short: "Open the live monitor for one or more runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			runs, err := app.ResolveRuns(args, cfg)
			if err != nil {
				return err
			}
			log, err := opts.logger(nil)
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			return app.Watch(cmd.Context(), app.Options{Config: cfg, Runs: runs, Logger: log})
		},
	}
}

func newFollowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "follow RUN_DIR",
		Short: "Stream new log lines and milestones until the run ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			run, err := app.ResolveRun(args[0], cfg)
			if err != nil {
				return err
			}
			log, err := opts.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			return app.Follow(cmd.Context(), run, cfg, log, cmd.OutOrStdout())
		},
	}
}

func newTailCmd(opts *globalOptions) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "tail LOG",
		Short: "Print the last complete lines of a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if lines <= 0 {
				lines = cfg.TailLines
			}
			res, err := logtail.ReadTail(args[0], lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range res.Lines {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines (default tail_lines from config)")
	return cmd
}

func newTimelineCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline RUN_DIR",
		Short: "Read a whole log and print the milestones it reached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			run, err := app.ResolveRun(args[0], cfg)
			if err != nil {
				return err
			}
			u, err := app.Scan(run, cfg)
			if err != nil {
				return err
			}
			return printTimeline(cmd.OutOrStdout(), run, u)
		},
	}
}

var (
	reachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a")).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#719cd6")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#738091"))
)

func printTimeline(w io.Writer, run app.Run, u monitor.Update) error {
	var b strings.Builder
	snap := u.Snapshot
	fmt.Fprintf(&b, "%s  %s  %d bytes (~%d lines)\n", run.Name, snap.Status, snap.FileSizeBytes, snap.EstimatedLineCount)

	for _, t := range milestone.All {
		ms := u.Timeline.Milestones[t]
		switch {
		case ms.Active:
			b.WriteString(activeStyle.Render("◉ " + t.String()))
		case ms.Reached && t == milestone.Failed:
			b.WriteString(failedStyle.Render("✓ " + t.String()))
		case ms.Reached:
			b.WriteString(reachedStyle.Render("✓ " + t.String()))
		default:
			b.WriteString(pendingStyle.Render("· " + t.String()))
		}
		if ms.TriggerLine != "" {
			b.WriteString(pendingStyle.Render("  " + ms.TriggerLine))
		}
		b.WriteByte('\n')
	}

	if e := u.Timeline.Epoch; e != nil {
		fmt.Fprintf(&b, "epoch %d/%d (%.0f%%)\n", e.Current, e.Total, e.Fraction()*100)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
