package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/filter"
	"github.com/dpshade/pocket-prompt-panel/internal/optimize"
)

// EnvPrefix prefixes every environment override, e.g. PROMPT_PANEL_TAG_LIMIT
const EnvPrefix = "PROMPT_PANEL"

// Config holds all prompt panel configuration
type Config struct {
	CatalogDir string `toml:"catalog_dir" envconfig:"CATALOG_DIR"`
	TagLimit   int    `toml:"tag_limit" envconfig:"TAG_LIMIT"`
	LogFile    string `toml:"log_file" envconfig:"LOG_FILE"`
	LogLevel   string `toml:"log_level" envconfig:"LOG_LEVEL"`
	Theme      string `toml:"theme" envconfig:"THEME"` // "dark", "light" or "" for auto
	OSC52      bool   `toml:"osc52" envconfig:"OSC52"`

	Animation AnimationConfig `toml:"animation"`
}

// AnimationConfig holds the optimize tab's timings as duration strings
type AnimationConfig struct {
	AnalyzeDelay   string `toml:"analyze_delay" envconfig:"ANALYZE_DELAY"`
	GenerateDelay  string `toml:"generate_delay" envconfig:"GENERATE_DELAY"`
	CompleteDelay  string `toml:"complete_delay" envconfig:"COMPLETE_DELAY"`
	RevealInterval string `toml:"reveal_interval" envconfig:"REVEAL_INTERVAL"`
	CopiedDuration string `toml:"copied_duration" envconfig:"COPIED_DURATION"`
}

// Dir returns the prompt panel home directory
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".prompt-panel"
	}
	return filepath.Join(homeDir, ".prompt-panel")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		TagLimit: filter.DefaultTagLimit,
		LogFile:  filepath.Join(Dir(), "logs", "panel.log"),
		LogLevel: "info",
		Animation: AnimationConfig{
			AnalyzeDelay:   "800ms",
			GenerateDelay:  "1000ms",
			CompleteDelay:  "1000ms",
			RevealInterval: "30ms",
			CopiedDuration: "2000ms",
		},
	}
}

// Load reads configuration from path (DefaultPath when empty), then applies
// PROMPT_PANEL_* environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.ConfigError(fmt.Sprintf("Invalid config file %s", path), err)
		}
	case os.IsNotExist(err):
	default:
		return nil, apperrors.ConfigError(fmt.Sprintf("Cannot read config file %s", path), err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.ConfigError("Invalid environment override", err)
	}

	cfg.CatalogDir = expandHome(cfg.CatalogDir)
	cfg.LogFile = expandHome(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the panel cannot work with
func (c *Config) Validate() error {
	if c.TagLimit <= 0 {
		return apperrors.ConfigError("tag_limit must be positive", nil).
			WithContext("tag_limit", c.TagLimit)
	}
	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return apperrors.ConfigError("theme must be dark, light or empty", nil).
			WithContext("theme", c.Theme)
	}
	return nil
}

// Timings converts the animation settings. Unparseable or non-positive
// values fall back to the defaults.
func (c *Config) Timings() optimize.Timings {
	def := optimize.DefaultTimings()
	return optimize.Timings{
		Analyze:   parseDuration(c.Animation.AnalyzeDelay, def.Analyze),
		Generate:  parseDuration(c.Animation.GenerateDelay, def.Generate),
		Complete:  parseDuration(c.Animation.CompleteDelay, def.Complete),
		Reveal:    parseDuration(c.Animation.RevealInterval, def.Reveal),
		CopyReset: parseDuration(c.Animation.CopiedDuration, def.CopyReset),
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
