// Package config loads linealign's configuration: default compare options and presentation settings.
//
// The file lives at ~/.linealign/config.toml unless LINEALIGN_CONFIG points elsewhere. A missing file is not an error; built-in defaults apply, and flags
// override whatever was loaded.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/linealign/linealign/internal/eqpolicy"
)

// Config is the complete linealign configuration.
type Config struct {
	Compare CompareConfig `toml:"compare"`
	Output  OutputConfig  `toml:"output"`
}

// CompareConfig holds the default equality policy for new comparisons.
type CompareConfig struct {
	IgnoreCase        bool `toml:"ignore_case"`
	IgnoreAllSpace    bool `toml:"ignore_all_space"`
	IgnoreSpaceChange bool `toml:"ignore_space_change"`
	IgnoreEOL         bool `toml:"ignore_eol"`
	IgnoreBlankLines  bool `toml:"ignore_blank_lines"`
}

// Options converts the compare defaults to an equality policy.
func (c CompareConfig) Options() eqpolicy.Options {
	return eqpolicy.Options{
		IgnoreCase:        c.IgnoreCase,
		IgnoreAllSpace:    c.IgnoreAllSpace,
		IgnoreSpaceChange: c.IgnoreSpaceChange,
		IgnoreEOL:         c.IgnoreEOL,
		IgnoreBlankLines:  c.IgnoreBlankLines,
	}
}

// OutputConfig holds presentation defaults.
type OutputConfig struct {
	// Width is the rendering width in cells; 0 means detect from the terminal.
	Width int `toml:"width"`
	// Summary prints block counts instead of the full grid.
	Summary bool `toml:"summary"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{}
}

// Path returns the config file location: $LINEALIGN_CONFIG if set, else ~/.linealign/config.toml.
func Path() (string, error) {
	if p := os.Getenv("LINEALIGN_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: determine home directory: %w", err)
	}
	return filepath.Join(home, ".linealign", "config.toml"), nil
}

// Load reads the config file, falling back to defaults when it does not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads a specific config file. A missing file yields the defaults.
func LoadFromPath(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.Output.Width < 0 {
		return Default(), fmt.Errorf("config: %s: output.width must be non-negative", path)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}
