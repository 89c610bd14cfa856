// Package config discovers and decodes nafi.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"nafi/internal/trace"
)

// FileName is the manifest looked up from the working directory upwards.
const FileName = "nafi.toml"

// Config mirrors nafi.toml. Zero-valued sections keep Default's values.
type Config struct {
	Output OutputConfig `toml:"output"`
	Lexer  LexerConfig  `toml:"lexer"`
	Trace  TraceConfig  `toml:"trace"`
	Cache  CacheConfig  `toml:"cache"`
	Jobs   JobsConfig   `toml:"jobs"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

type LexerConfig struct {
	Intern bool `toml:"intern"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type JobsConfig struct {
	Max int `toml:"max"`
}

// Manifest is a loaded nafi.toml together with where it came from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

var (
	outputFormats = []string{"", "pretty", "json", "notation", "outline"}
	colorModes    = []string{"auto", "on", "off"}
)

// Default returns the built-in configuration used when no nafi.toml exists.
func Default() Config {
	return Config{
		Output: OutputConfig{Color: "auto"},
		Lexer:  LexerConfig{Intern: true},
		Trace:  TraceConfig{Level: "off", Output: "-", Format: "text"},
	}
}

// Find walks up from startDir looking for nafi.toml.
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

// Load decodes path on top of Default and validates the result.
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
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the nearest nafi.toml. With none found it
// returns Default and ok=false.
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: Default()}, false, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("[output].format: unsupported %q", c.Output.Format)
	}
	if !slices.Contains(colorModes, c.Output.Color) {
		return fmt.Errorf("[output].color: expected auto|on|off, got %q", c.Output.Color)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	if c.Jobs.Max < 0 {
		return fmt.Errorf("[jobs].max: must be >= 0, got %d", c.Jobs.Max)
	}
	return nil
}

// CacheDir resolves [cache].dir relative to the manifest root.
func (m *Manifest) CacheDir() string {
	dir := m.Config.Cache.Dir
	if dir == "" || filepath.IsAbs(dir) || m.Root == "" {
		return dir
	}
	return filepath.Join(m.Root, dir)
}
