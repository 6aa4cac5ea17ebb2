package app

import (
	"context"
	"time"

	"github.com/five82/runwatch/internal/config"
	"github.com/five82/runwatch/internal/logging"
	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/runstatus"
	"github.com/five82/runwatch/internal/timeline"
)

// maxBackoff caps the wait between polls after repeated failures.
const maxBackoff = 30 * time.Second

// calculateBackoff doubles base for every consecutive failure, up to maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

// sink receives what a poll loop observes.
type sink interface {
	seed(lines []string, tl timeline.State)
	apply(u monitor.Update)
	fail(err error)
}

// pollRun follows run until it is terminal or ctx is cancelled. It catches up
// on the tail of the log first, then polls at the cadence the classifier
// recommends.
func pollRun(ctx context.Context, run Run, cfg config.Config, log *logging.Logger, out sink) {
	if ctx.Err() != nil {
		return
	}
	session := monitor.NewSession(run.LogPath, monitor.NewClassifier(cfg.Classifier()), cfg.DeltaOptions())

	tail, err := session.CatchUp(cfg.TailLines)
	if err != nil {
		log.Warn().Err(err).Msg("catch-up failed")
		out.fail(err)
	}
	out.seed(tail.Lines, session.Timeline)
	log.Debug().Int("lines", len(tail.Lines)).Int64("offset", session.State.Offset).Msg("caught up")

	failures := 0
	for {
		status, statusErr := runstatus.Read(run.ResultPath)
		u := session.Poll(status)
		out.apply(u)

		wait := u.Snapshot.RecommendedPollInterval
		switch {
		case u.Delta.Err != nil:
			failures++
			log.Warn().Err(u.Delta.Err).Int("failures", failures).Msg("log read failed")
		case statusErr != nil:
			failures++
			out.fail(statusErr)
			log.Warn().Err(statusErr).Int("failures", failures).Msg("run status read failed")
		default:
			failures = 0
		}
		if failures > 0 {
			wait = calculateBackoff(failures, wait)
		}
		if u.Delta.WasReset {
			log.Info().Stringer("reason", u.Delta.ResetReason).Msg("log reset")
		}

		if u.Snapshot.Terminal() {
			log.Info().Stringer("status", u.Snapshot.Status).Msg("run finished")
			return
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
