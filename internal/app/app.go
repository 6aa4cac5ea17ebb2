package app

import (
	"context"
	"errors"

	"github.com/five82/runwatch/internal/config"
	"github.com/five82/runwatch/internal/logging"
	"github.com/five82/runwatch/internal/prefs"
	"github.com/five82/runwatch/internal/state"
	"github.com/five82/runwatch/internal/ui"
)

// Options configure the runwatch TUI.
type Options struct {
	Config config.Config
	Runs   []Run
	Logger *logging.Logger

	// PrefsPath overrides where the theme choice is remembered.
	PrefsPath string
}

// Watch boots the TUI until the user quits or the context is cancelled.
func Watch(ctx context.Context, opts Options) error {
	if len(opts.Runs) == 0 {
		return errors.New("no runs to watch")
	}

	store := &state.Store{}
	sup := NewSupervisor(ctx, store, opts.Config, opts.Logger)
	defer sup.Stop()

	names := make([]string, len(opts.Runs))
	for i, r := range opts.Runs {
		names[i] = r.Name
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	p := prefs.Load(opts.PrefsPath)

	// Populate the store before the first frame.
	sup.View(opts.Runs[0])

	return ui.Run(ui.Options{
		Context: ctx,
		Store:   store,
		Runs:    names,
		Select: func(i int) {
			if i >= 0 && i < len(opts.Runs) {
				sup.View(opts.Runs[i])
			}
		},
		RefreshEvery: opts.Config.Intervals.Receiving,
		ThemeName:    p.Theme,
		OnTheme: func(name string) {
			p.Theme = name
			if err := prefs.Save(opts.PrefsPath, p); err != nil {
				log.Warn().Err(err).Msg("save theme preference")
			}
		},
	})
}
