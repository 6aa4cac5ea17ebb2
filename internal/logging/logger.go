// Package logging provides structured logging for the CLI and TUI modes.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

// Options selects where log output goes.
type Options struct {
	Verbose bool      // enable debug level
	File    string    // append to this file instead of Out
	Out     io.Writer // console output; nil discards
}

// Logger wraps zerolog with the writer it owns.
type Logger struct {
	zlog   zerolog.Logger
	closer io.Closer
}

// New builds a logger. A File takes precedence over Out so the TUI can keep
// the terminal to itself.
func New(opts Options) (*Logger, error) {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	var (
		out    io.Writer = io.Discard
		closer io.Closer
	)
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: timeFormat, NoColor: true}
		closer = f
	case opts.Out != nil:
		out = zerolog.ConsoleWriter{Out: opts.Out, TimeFormat: timeFormat}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{zlog: zl, closer: closer}, nil
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Session returns a child logger tagged with the run and a fresh session id.
func (l *Logger) Session(run string) *Logger {
	return &Logger{zlog: l.zlog.With().
		Str("run", run).
		Str("session", uuid.NewString()).
		Logger()}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// With creates a child logger context.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
