// Package config loads user settings for claude-cli.
//
// Sources, lowest precedence first: built-in defaults, a YAML file, the
// environment (CLAUDE_CLI_ prefix, e.g. CLAUDE_CLI_LOG_LEVEL), then values
// given on the command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read as a setting.
const EnvPrefix = "CLAUDE_CLI_"

// Settings are the user-tunable knobs. The model, tool list and permission
// mode are fixed and not configurable.
type Settings struct {
	// CLIPath overrides where the claude binary is looked up.
	CLIPath string `koanf:"cli_path"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `koanf:"log_level"`
	// Color allows dimmed verbose tags on a terminal.
	Color bool `koanf:"color"`
}

// LoadOptions tell Load where to look.
type LoadOptions struct {
	// Path is a config file that must exist. When empty, DefaultPath is
	// used if present.
	Path string
	// Overrides are applied last, keyed like the YAML file.
	Overrides map[string]interface{}
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"cli_path":  "",
		"log_level": "warn",
		"color":     true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/claude-cli/config.yaml, or "" when
// no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "claude-cli", "config.yaml")
}

// Load merges all sources into Settings.
func Load(opts LoadOptions) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Settings{}, fmt.Errorf("loading defaults: %w", err)
	}

	path, required := opts.Path, true
	if path == "" {
		path, required = DefaultPath(), false
	}
	if path != "" {
		if err := loadFile(k, path, required); err != nil {
			return Settings{}, err
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Settings{}, fmt.Errorf("loading environment: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return Settings{}, fmt.Errorf("loading overrides: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
