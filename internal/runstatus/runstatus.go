// Package runstatus reads the result artifact a training run leaves next to
// its log. The artifact is YAML or JSON (JSON parses as YAML), for example:
//
//	status: failed
//	exit_code: 137
//	message: killed by OOM
package runstatus

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/five82/runwatch/internal/monitor"
)

// Result is the decoded artifact.
type Result struct {
	Status     string     `yaml:"status"`
	ExitCode   *int       `yaml:"exit_code"`
	Message    string     `yaml:"message"`
	FinishedAt *time.Time `yaml:"finished_at"`
}

// Run maps the artifact to a run outcome. An explicit status wins; without
// one a recorded exit code decides.
func (r Result) Run() monitor.RunStatus {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "succeeded", "success", "successful", "completed", "complete", "done", "ok", "finished":
		return monitor.RunSucceeded
	case "failed", "failure", "error", "errored", "crashed", "cancelled", "canceled", "killed", "aborted":
		return monitor.RunFailed
	case "":
		if r.ExitCode == nil {
			return monitor.RunInProgress
		}
		if *r.ExitCode == 0 {
			return monitor.RunSucceeded
		}
		return monitor.RunFailed
	default:
		return monitor.RunInProgress
	}
}

// Load reads and decodes the artifact at path. A missing file is not an
// error and yields an empty Result.
func Load(path string) (Result, error) {
	var res Result
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, nil
		}
		return res, fmt.Errorf("read run status: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return res, nil
	}
	if err := yaml.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("parse run status %s: %w", path, err)
	}
	return res, nil
}

// Read returns the run outcome recorded at path. Until the artifact exists,
// or while it cannot be parsed, the run is reported as in progress.
func Read(path string) (monitor.RunStatus, error) {
	res, err := Load(path)
	if err != nil {
		return monitor.RunInProgress, err
	}
	return res.Run(), nil
}
