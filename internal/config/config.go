package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all exporter configuration.
type Config struct {
	Project ProjectConfig `yaml:"project" toml:"project"`
	Export  ExportConfig  `yaml:"export" toml:"export"`
	Logging LogConfig     `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// ProjectConfig locates the Egret project being exported.
type ProjectConfig struct {
	Root string `envconfig:"FGUI_PROJECT_ROOT" default:"." yaml:"root" toml:"root"`
}

// ExportConfig controls where and how components are written.
type ExportConfig struct {
	// TargetRoot overrides the "fgui" entry of wingProperties.json.
	TargetRoot  string        `envconfig:"FGUI_TARGET_ROOT" yaml:"target_root" toml:"target_root"`
	AssetsDir   string        `envconfig:"FGUI_ASSETS_DIR" default:"assets" yaml:"assets_dir" toml:"assets_dir"`
	SourceExt   string        `envconfig:"FGUI_SOURCE_EXT" default:".exml" yaml:"source_ext" toml:"source_ext"`
	SettleDelay time.Duration `envconfig:"FGUI_SETTLE_DELAY" default:"100ms" yaml:"settle_delay" toml:"settle_delay"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development" toml:"development"`
}

// MetricsConfig holds metrics output configuration.
type MetricsConfig struct {
	// TextfilePath receives a Prometheus textfile dump at session end when set.
	TextfilePath string `envconfig:"FGUI_METRICS_FILE" yaml:"textfile" toml:"textfile"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Root: ".",
		},
		Export: ExportConfig{
			AssetsDir:   "assets",
			SourceExt:   ".exml",
			SettleDelay: 100 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// LoadFile overlays a YAML or TOML settings file onto cfg. The format is chosen
// by extension; fields absent from the file keep their current value.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("YAML parse error in %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("TOML parse error in %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}
