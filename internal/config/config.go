// Package config loads review-mcp settings from a YAML or TOML file.
//
// A missing file is not an error: Load returns DefaultConfig. The file format
// is chosen by extension (.toml for TOML, anything else is read as YAML).
// Environment overrides are applied last by ApplyEnv.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvLogLevel overrides Log.Level when set.
const EnvLogLevel = "REVIEW_MCP_LOG_LEVEL"

// Config is the complete server configuration.
type Config struct {
	Log         LogConfig         `yaml:"log" toml:"log"`
	Viewport    ViewportConfig    `yaml:"viewport" toml:"viewport"`
	Interaction InteractionConfig `yaml:"interaction" toml:"interaction"`
	Review      ReviewConfig      `yaml:"review" toml:"review"`
	Preview     PreviewConfig     `yaml:"preview" toml:"preview"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
	// Format is text or json.
	Format string `yaml:"format" toml:"format"`
}

// ViewportConfig is the container box assumed until a client reports its own.
type ViewportConfig struct {
	Left   float64 `yaml:"left" toml:"left"`
	Top    float64 `yaml:"top" toml:"top"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// InteractionConfig tunes pointer and wheel handling.
type InteractionConfig struct {
	ClickThreshold float64 `yaml:"clickThreshold" toml:"click_threshold"`
	WheelStep      float64 `yaml:"wheelStep" toml:"wheel_step"`
	MinZoom        float64 `yaml:"minZoom" toml:"min_zoom"`
	MaxZoom        float64 `yaml:"maxZoom" toml:"max_zoom"`
}

// ReviewConfig controls the analyzer feedback loop.
type ReviewConfig struct {
	AutoApplyRecommendedView bool `yaml:"autoApplyRecommendedView" toml:"auto_apply_recommended_view"`
}

// PreviewConfig bounds the annotation preview tool.
type PreviewConfig struct {
	// MaxSize is the longest edge of a rendered preview in pixels.
	MaxSize int `yaml:"maxSize" toml:"max_size"`
	// PointBox is the side of the square cropped around a point annotation.
	PointBox int `yaml:"pointBox" toml:"point_box"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Viewport: ViewportConfig{
			Width:  800,
			Height: 600,
		},
		Interaction: InteractionConfig{
			ClickThreshold: 5,
			WheelStep:      0.1,
			MinZoom:        0.5,
			MaxZoom:        5,
		},
		Review: ReviewConfig{
			AutoApplyRecommendedView: true,
		},
		Preview: PreviewConfig{
			MaxSize:  512,
			PointBox: 64,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path in the format implied by its extension.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv applies environment overrides to cfg.
func ApplyEnv(cfg *Config) {
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport width and height must be positive")
	}
	if c.Interaction.MinZoom > c.Interaction.MaxZoom {
		return fmt.Errorf("interaction minZoom %v exceeds maxZoom %v", c.Interaction.MinZoom, c.Interaction.MaxZoom)
	}
	if c.Preview.MaxSize <= 0 || c.Preview.PointBox <= 0 {
		return fmt.Errorf("preview maxSize and pointBox must be positive")
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
