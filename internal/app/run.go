package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/five82/runwatch/internal/config"
)

// Run locates the files of one training run.
type Run struct {
	Name       string
	LogPath    string
	ResultPath string
}

// ID identifies the run in the store.
func (r Run) ID() string {
	return r.LogPath
}

// ResolveRun maps a command-line target to a Run. A directory (or a path that
// does not exist yet) is a run directory holding the configured log and
// result names; a regular file is the log itself.
func ResolveRun(target string, cfg config.Config) (Run, error) {
	path, err := config.ExpandPath(target)
	if err != nil {
		return Run{}, fmt.Errorf("resolve run %q: %w", target, err)
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		dir := filepath.Dir(path)
		return Run{
			Name:       filepath.Base(dir),
			LogPath:    path,
			ResultPath: filepath.Join(dir, cfg.ResultName),
		}, nil
	case err == nil, errors.Is(err, os.ErrNotExist):
		return Run{
			Name:       filepath.Base(path),
			LogPath:    filepath.Join(path, cfg.LogName),
			ResultPath: filepath.Join(path, cfg.ResultName),
		}, nil
	default:
		return Run{}, fmt.Errorf("stat run %q: %w", target, err)
	}
}

// ResolveRuns resolves every target, failing on the first bad one.
func ResolveRuns(targets []string, cfg config.Config) ([]Run, error) {
	runs := make([]Run, 0, len(targets))
	for _, t := range targets {
		r, err := ResolveRun(t, cfg)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, nil
}
