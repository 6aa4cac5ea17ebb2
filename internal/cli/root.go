// Package cli defines the runwatch command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/runwatch/internal/config"
	"github.com/five82/runwatch/internal/logging"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	logFile    string
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "runwatch",
		Short: "Watch training runs through their log files",
		Long: `runwatch follows the log a training run writes and shows what it is doing:
new lines as they arrive, whether the log is still being written, and which
pipeline stages (loading data, training, evaluating, ...) have been reached.

A run is a directory holding the log (train.log by default) and, once the
run is over, a result file (result.json by default). A path to a file is
treated as the log itself.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (default ~/.config/runwatch/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write diagnostic logs to this file")

	rootCmd.AddCommand(
		newWatchCmd(opts),
		newFollowCmd(opts),
		newTailCmd(opts),
		newTimelineCmd(opts),
	)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd
}

// Execute runs the command tree with args until ctx is cancelled.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (o *globalOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger builds the diagnostic logger. console is where logs go when no
// --log-file is set; the TUI passes nil so nothing scribbles over the screen.
func (o *globalOptions) logger(console io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Verbose: o.verbose,
		File:    o.logFile,
		Out:     console,
	})
}
