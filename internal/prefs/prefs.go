// Package prefs remembers UI choices between runwatch sessions in
// ~/.config/runwatch/prefs.toml. Preferences are advisory: a missing or
// unreadable file yields defaults rather than an error.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/runwatch/internal/config"
)

// DefaultPath is where preferences live unless overridden.
const DefaultPath = "~/.config/runwatch/prefs.toml"

// DefaultTheme is used until the user picks another one.
const DefaultTheme = "Nightfox"

// Prefs holds the remembered UI choices.
type Prefs struct {
	Theme string `toml:"theme"`
}

// Load reads preferences from path, or DefaultPath when empty.
func Load(path string) Prefs {
	p := Prefs{Theme: DefaultTheme}

	resolved, err := resolve(path)
	if err != nil {
		return p
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}
	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return p
	}
	if name := strings.TrimSpace(stored.Theme); name != "" {
		p.Theme = name
	}
	return p
}

// Save writes p to path, or DefaultPath when empty, creating directories.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve prefs path: %w", err)
	}
	return resolved, nil
}
