package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/m96-chan/mentio/internal/consts"
)

//go:embed config.toml
var defaultConfig []byte

// maxAutocompleteLimit is the suggestion page size of the mention engine.
const maxAutocompleteLimit = 5

// Config holds the application configuration.
type Config struct {
	Mouse             bool   `toml:"mouse"`
	AutocompleteLimit int    `toml:"autocomplete_limit"`
	Directory         string `toml:"directory"`
	SelfID            string `toml:"self_id"`

	Autocomplete Autocomplete `toml:"autocomplete"`
	Timestamps   Timestamps   `toml:"timestamps"`
	Markdown     Markdown     `toml:"markdown"`

	Keybinds Keybinds `toml:"keybinds"`
	Theme    Theme    `toml:"theme"`
}

// Autocomplete controls how mention suggestions are matched.
type Autocomplete struct {
	Match string `toml:"match"`
}

// Timestamps controls message timestamp display.
type Timestamps struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"`
}

// Markdown controls message formatting.
type Markdown struct {
	Enabled     bool   `toml:"enabled"`
	SyntaxTheme string `toml:"syntax_theme"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, consts.Name, "config.toml")
}

// Load reads the config from the given path. If the file does not exist,
// it writes the default config and loads that. Embedded defaults are applied
// first, then the user file overlays on top. When the user file selects a
// theme preset, the preset replaces the theme and the user file is decoded
// once more so explicit overrides win over the preset.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	cfg.Theme = BuiltinTheme(cfg.Theme.Preset)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, defaultConfig, 0o600); err != nil {
			return nil, err
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Theme.Preset != "" && cfg.Theme.Preset != "default" {
		cfg.Theme = BuiltinTheme(cfg.Theme.Preset)
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyDefaults(&cfg, path)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// applyDefaults resolves computed defaults that can't be expressed in TOML.
func applyDefaults(cfg *Config, path string) {
	cfg.Autocomplete.Match = strings.ToLower(strings.TrimSpace(cfg.Autocomplete.Match))
	if cfg.Autocomplete.Match == "" {
		cfg.Autocomplete.Match = "prefix"
	}

	if cfg.Directory != "" {
		if strings.HasPrefix(cfg.Directory, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				cfg.Directory = filepath.Join(home, cfg.Directory[2:])
			}
		} else if !filepath.IsAbs(cfg.Directory) {
			cfg.Directory = filepath.Join(filepath.Dir(path), cfg.Directory)
		}
	}

	if cfg.Timestamps.Format == "" {
		cfg.Timestamps.Format = "15:04"
	}
	if cfg.Markdown.SyntaxTheme == "" {
		cfg.Markdown.SyntaxTheme = "monokai"
	}
}

// validate checks that config values are within acceptable ranges.
func validate(cfg *Config) error {
	if cfg.AutocompleteLimit < 1 || cfg.AutocompleteLimit > maxAutocompleteLimit {
		return fmt.Errorf("autocomplete_limit must be between 1 and %d, got %d", maxAutocompleteLimit, cfg.AutocompleteLimit)
	}
	switch cfg.Autocomplete.Match {
	case "prefix", "substring", "fuzzy":
	default:
		return fmt.Errorf("autocomplete.match must be prefix, substring or fuzzy, got %q", cfg.Autocomplete.Match)
	}
	return nil
}
