// Package config loads .incfix.toml. The file is searched upward from the
// working directory; command-line flags override whatever it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"incfix/internal/source"
)

// FileName is the configuration file looked up by Find.
const FileName = ".incfix.toml"

// DefaultAlign is the width of the file column printed by --explain.
const DefaultAlign = 40

// Config holds every setting the CLI reads from .incfix.toml.
type Config struct {
	// Path is the file the config was read from, empty for defaults.
	Path   string       `toml:"-"`
	Insert InsertConfig `toml:"insert"`
	UI     UIConfig     `toml:"ui"`
	Index  IndexConfig  `toml:"index"`
}

// InsertConfig applies to the insert and front commands.
type InsertConfig struct {
	Align          int  `toml:"align"`
	Quiet          bool `toml:"quiet"`
	Jobs           int  `toml:"jobs"`
	CheckUnchanged bool `toml:"check_unchanged"`
}

// UIConfig selects terminal behaviour.
type UIConfig struct {
	Mode     string `toml:"mode"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

// IndexConfig locates the symbol index.
type IndexConfig struct {
	Path string `toml:"path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Insert: InsertConfig{Align: DefaultAlign},
		UI:     UIConfig{Mode: "auto", Color: "auto", PathMode: source.PathAsGiven},
		Index:  IndexConfig{Path: ".incfix.idx"},
	}
}

// Find walks from startDir up to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of the defaults. Unknown keys are an error so that
// typos do not go unnoticed. A relative [index].path is resolved against the
// directory holding the file.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if meta.IsDefined("index", "path") && !filepath.IsAbs(cfg.Index.Path) {
		cfg.Index.Path = filepath.Join(filepath.Dir(path), cfg.Index.Path)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the nearest FileName above startDir, or the defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) validate() error {
	if c.Insert.Align < 0 {
		return fmt.Errorf("[insert].align must not be negative, got %d", c.Insert.Align)
	}
	if c.Insert.Jobs < 0 {
		return fmt.Errorf("[insert].jobs must not be negative, got %d", c.Insert.Jobs)
	}
	if !validMode(c.UI.Mode) {
		return fmt.Errorf("[ui].mode: invalid value %q (expected auto|on|off)", c.UI.Mode)
	}
	if !validMode(c.UI.Color) {
		return fmt.Errorf("[ui].color: invalid value %q (expected auto|on|off)", c.UI.Color)
	}
	if !source.ValidPathMode(c.UI.PathMode) {
		return fmt.Errorf("[ui].path_mode: invalid value %q (expected %s)", c.UI.PathMode,
			strings.Join(source.PathModes, "|"))
	}
	if strings.TrimSpace(c.Index.Path) == "" {
		return errors.New("[index].path must not be empty")
	}
	return nil
}

func validMode(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "auto", "on", "off":
		return true
	}
	return false
}
