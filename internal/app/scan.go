package app

import (
	"github.com/five82/runwatch/internal/config"
	"github.com/five82/runwatch/internal/monitor"
	"github.com/five82/runwatch/internal/runstatus"
)

// Scan reads the whole log of run in budgeted deltas and returns the final
// update, with the run's recorded outcome applied.
func Scan(run Run, cfg config.Config) (monitor.Update, error) {
	status, err := runstatus.Read(run.ResultPath)
	if err != nil {
		return monitor.Update{}, err
	}

	session := monitor.NewSession(run.LogPath, monitor.NewClassifier(cfg.Classifier()), cfg.DeltaOptions())
	for {
		u := session.Poll(status)
		if u.Delta.Err != nil {
			return u, u.Delta.Err
		}
		if !u.Delta.WasCapped {
			return u, nil
		}
	}
}
