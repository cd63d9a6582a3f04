// Package config loads CLI settings from fullyhacks.toml and FULLYHACKS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// FileName is the config file searched for from the working directory upwards.
const FileName = "fullyhacks.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FULLYHACKS_"

// Config holds settings shared by all commands. Empty fields mean "use the
// command's default".
type Config struct {
	Color    string      `toml:"color" env:"COLOR"`
	LogLevel string      `toml:"log_level" env:"LOG_LEVEL"`
	Walk     WalkConfig  `toml:"walkthrough" envPrefix:"WALK_"`
	Serve    ServeConfig `toml:"serve" envPrefix:"SERVE_"`
}

// WalkConfig configures the walkthrough command.
type WalkConfig struct {
	DB     string `toml:"db" env:"DB"`
	Assert bool   `toml:"assert" env:"ASSERT"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	DB   string `toml:"db" env:"DB"`
	Addr string `toml:"addr" env:"ADDR"`
	UI   string `toml:"ui" env:"UI"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Color:    "auto",
		LogLevel: "info",
		Walk:     WalkConfig{DB: "test.db"},
		Serve:    ServeConfig{DB: ":memory:", Addr: "127.0.0.1:5700", UI: "off"},
	}
}

// Find searches startDir and its parents for FileName.
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

// Load builds the effective config: defaults, then the file at path (if path
// is empty, the nearest fullyhacks.toml, if any), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		found, ok, err := Find(".")
		if err != nil {
			return Config{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}
