// Package config loads the dashboard configuration from config/dashboard.yaml
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"investor_dashboard/pkg/core/dataset"
	"investor_dashboard/pkg/core/ingest"
	"investor_dashboard/pkg/core/model"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config/dashboard.yaml"

// Fixture sources.
const (
	SourceFile = "file"
	SourceHTTP = "http"
	SourceDB   = "db"
)

// Config is the whole dashboard configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Fixtures FixtureConfig `yaml:"fixtures"`
	Model    ModelConfig   `yaml:"model"`
	Partners PartnerConfig `yaml:"partners"`
	Logging  LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	StaticRoot string `yaml:"static_root"`
	CORSOrigin string `yaml:"cors_origin"`
	APIEnabled *bool  `yaml:"api_enabled"`
}

// API reports whether the /api/ surface is mounted. It defaults to on.
func (s ServerConfig) API() bool {
	return s.APIEnabled == nil || *s.APIEnabled
}

type FixtureConfig struct {
	Source   string        `yaml:"source"`
	Dir      string        `yaml:"dir"`
	BaseURL  string        `yaml:"base_url"`
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
	Watch    bool          `yaml:"watch"`
	Names    dataset.Names `yaml:"names"`
}

type ModelConfig struct {
	DefaultRegion      model.Region `yaml:"default_region"`
	DefaultMarketShare float64      `yaml:"default_market_share"`
}

type PartnerConfig struct {
	PerPage int               `yaml:"per_page"`
	Dedupe  ingest.DedupeRule `yaml:"dedupe"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used for every key the file leaves out.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:       ":8080",
			StaticRoot: "client/dist",
			CORSOrigin: "*",
		},
		Fixtures: FixtureConfig{
			Source:   SourceFile,
			Dir:      "client/dist",
			Attempts: 3,
			Backoff:  time.Second,
			Names:    dataset.DefaultNames(),
		},
		Model: ModelConfig{
			DefaultRegion:      model.RegionUS,
			DefaultMarketShare: model.MaxMarketShare,
		},
		Partners: PartnerConfig{
			PerPage: 10,
			Dedupe:  ingest.DefaultDedupeRule,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (DefaultPath when empty) over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STATIC_ROOT"); v != "" {
		cfg.Server.StaticRoot = v
	}
	if v := os.Getenv("FIXTURE_SOURCE"); v != "" {
		cfg.Fixtures.Source = v
	}
	if v := os.Getenv("FIXTURE_BASE_URL"); v != "" {
		cfg.Fixtures.BaseURL = v
	}
	if v := os.Getenv("FIXTURE_DIR"); v != "" {
		cfg.Fixtures.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DASHBOARD_API_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DASHBOARD_API_ENABLED: %w", err)
		}
		cfg.Server.APIEnabled = &b
	}
	return nil
}

// Validate checks values the defaults cannot repair.
func (c Config) Validate() error {
	switch c.Fixtures.Source {
	case SourceFile, SourceDB:
	case SourceHTTP:
		if c.Fixtures.BaseURL == "" {
			return errors.New("fixtures.base_url is required when fixtures.source is http")
		}
	default:
		return fmt.Errorf("unknown fixtures.source %q", c.Fixtures.Source)
	}
	if c.Server.StaticRoot == "" {
		return errors.New("server.static_root is required")
	}
	if c.Model.DefaultRegion != model.RegionUS && c.Model.DefaultRegion != model.RegionGlobal {
		return fmt.Errorf("unknown model.default_region %q", c.Model.DefaultRegion)
	}
	if c.Model.DefaultMarketShare < model.MinMarketShare || c.Model.DefaultMarketShare > model.MaxMarketShare {
		return fmt.Errorf("model.default_market_share %v outside [1,100]", c.Model.DefaultMarketShare)
	}
	return nil
}
