// Package config provides configuration file parsing for cratecheck.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	toml "github.com/pelletier/go-toml/v2"
)

// FileName is the per-workspace config file looked up in the workspace root.
const FileName = "cratecheck.toml"

// Config holds the settings a check runs with.
type Config struct {
	Crate string `toml:"crate"`
	Cargo string `toml:"cargo"`
	Color string `toml:"color"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Crate: "openssl",
		Cargo: "cargo",
		Color: "always",
	}
}

// Dir returns the cratecheck config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/cratecheck if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "cratecheck"), nil
}

// Load reads the config for workspaceDir. If explicit is non-empty that file
// must exist. Otherwise workspaceDir/cratecheck.toml is tried, then
// Dir()/config.toml; a missing file yields the defaults without an error.
// $CARGO, which cargo sets for its subcommands, overrides the file's cargo
// binary. The result is not validated: callers apply their own overrides
// first and then call Validate.
func Load(explicit, workspaceDir string) (*Config, error) {
	cfg := Default()

	if explicit != "" {
		if err := loadFile(explicit, cfg); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", explicit)
			}
			return nil, err
		}
	} else {
		candidates := []string{filepath.Join(workspaceDir, FileName)}
		if dir, err := Dir(); err == nil {
			candidates = append(candidates, filepath.Join(dir, "config.toml"))
		}
		for _, path := range candidates {
			err := loadFile(path, cfg)
			if err == nil {
				break
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if cargoEnv := os.Getenv("CARGO"); cargoEnv != "" {
		cfg.Cargo = cargoEnv
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileCfg Config
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if fileCfg.Crate != "" {
		cfg.Crate = fileCfg.Crate
	}
	if fileCfg.Cargo != "" {
		cfg.Cargo = fileCfg.Cargo
	}
	if fileCfg.Color != "" {
		cfg.Color = fileCfg.Color
	}
	return nil
}

// Validate checks that the settings can be used to run a check.
func (c *Config) Validate() error {
	if c.Crate == "" {
		return fmt.Errorf("crate name cannot be empty")
	}
	if strings.IndexFunc(c.Crate, unicode.IsSpace) >= 0 {
		return fmt.Errorf("invalid crate name %q", c.Crate)
	}
	if c.Cargo == "" {
		return fmt.Errorf("cargo binary cannot be empty")
	}
	switch strings.ToLower(c.Color) {
	case "always", "never", "auto":
	default:
		return fmt.Errorf("invalid color mode %q (want always, never or auto)", c.Color)
	}
	return nil
}
