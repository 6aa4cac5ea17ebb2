package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/runwatch/internal/monitor"
)

// Config holds the runwatch settings after defaults have been applied.
type Config struct {
	LogName         string
	ResultName      string
	StaleAfter      time.Duration
	VeryStaleAfter  time.Duration
	MaxBytesPerRead int
	MaxLinesPerRead int
	TailLines       int
	Intervals       monitor.Intervals
}

const (
	defaultConfigPath = "~/.config/runwatch/config.toml"
	defaultLogName    = "train.log"
	defaultResultName = "result.json"
	defaultTailLines  = 200
)

// Default returns the configuration used when no file exists.
func Default() Config {
	cc := monitor.DefaultClassifierConfig()
	return Config{
		LogName:         defaultLogName,
		ResultName:      defaultResultName,
		StaleAfter:      cc.StaleAfter,
		VeryStaleAfter:  cc.VeryStaleAfter,
		MaxBytesPerRead: monitor.DefaultMaxBytes,
		MaxLinesPerRead: monitor.DefaultMaxLines,
		TailLines:       defaultTailLines,
		Intervals:       cc.Intervals,
	}
}

type rawConfig struct {
	LogName         string `toml:"log_name"`
	ResultName      string `toml:"result_name"`
	StaleAfter      string `toml:"stale_after"`
	VeryStaleAfter  string `toml:"very_stale_after"`
	MaxBytesPerRead int    `toml:"max_bytes_per_read"`
	MaxLinesPerRead int    `toml:"max_lines_per_read"`
	TailLines       int    `toml:"tail_lines"`
	Intervals       struct {
		Receiving string `toml:"receiving"`
		Backlog   string `toml:"backlog"`
		Stale     string `toml:"stale"`
		VeryStale string `toml:"very_stale"`
		Terminal  string `toml:"terminal"`
	} `toml:"intervals"`
}

// Load parses the config at path, or ~/.config/runwatch/config.toml when path
// is empty. A missing file yields Default().
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.LogName); v != "" {
		cfg.LogName = v
	}
	if v := strings.TrimSpace(raw.ResultName); v != "" {
		cfg.ResultName = v
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"stale_after", raw.StaleAfter, &cfg.StaleAfter},
		{"very_stale_after", raw.VeryStaleAfter, &cfg.VeryStaleAfter},
		{"intervals.receiving", raw.Intervals.Receiving, &cfg.Intervals.Receiving},
		{"intervals.backlog", raw.Intervals.Backlog, &cfg.Intervals.Backlog},
		{"intervals.stale", raw.Intervals.Stale, &cfg.Intervals.Stale},
		{"intervals.very_stale", raw.Intervals.VeryStale, &cfg.Intervals.VeryStale},
		{"intervals.terminal", raw.Intervals.Terminal, &cfg.Intervals.Terminal},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.raw, d.dst); err != nil {
			return Config{}, err
		}
	}

	counts := []struct {
		key string
		raw int
		dst *int
	}{
		{"max_bytes_per_read", raw.MaxBytesPerRead, &cfg.MaxBytesPerRead},
		{"max_lines_per_read", raw.MaxLinesPerRead, &cfg.MaxLinesPerRead},
		{"tail_lines", raw.TailLines, &cfg.TailLines},
	}
	for _, c := range counts {
		if c.raw < 0 {
			return Config{}, fmt.Errorf("config %s: must not be negative, got %d", c.key, c.raw)
		}
		if c.raw > 0 {
			*c.dst = c.raw
		}
	}

	if cfg.VeryStaleAfter < cfg.StaleAfter {
		return Config{}, fmt.Errorf("config very_stale_after (%s) is shorter than stale_after (%s)", cfg.VeryStaleAfter, cfg.StaleAfter)
	}
	return cfg, nil
}

// Classifier returns the snapshot classifier settings.
func (c Config) Classifier() monitor.ClassifierConfig {
	return monitor.ClassifierConfig{
		StaleAfter:     c.StaleAfter,
		VeryStaleAfter: c.VeryStaleAfter,
		Intervals:      c.Intervals,
	}
}

// DeltaOptions returns the per-read budget.
func (c Config) DeltaOptions() monitor.DeltaOptions {
	return monitor.DeltaOptions{MaxBytes: c.MaxBytesPerRead, MaxLines: c.MaxLinesPerRead}
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func parseDuration(key, raw string, dst *time.Duration) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config %s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("config %s: must be positive, got %s", key, raw)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
