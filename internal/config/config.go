// Package config provides tool configuration for chartel using Viper for
// flexible loading from files, environment variables, and command-line
// flags.
//
// Configuration is read from .chartel.yml with CHARTEL_-prefixed
// environment overrides (CHARTEL_SERVER_PORT, CHARTEL_EXPORT_SCALE, and
// so on following the CHARTEL_<SECTION>_<OPTION> pattern). Flags bound in
// cmd/root.go take precedence over both.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/chartel-dev/chartel/internal/errors"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

type ServerConfig struct {
	Host           string   `yaml:"host" mapstructure:"host"`
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Open           bool     `yaml:"open" mapstructure:"open"`
}

type ExportConfig struct {
	Scale     float64 `yaml:"scale" mapstructure:"scale"`
	Page      string  `yaml:"page" mapstructure:"page"`
	Landscape bool    `yaml:"landscape" mapstructure:"landscape"`
	MarginPt  float64 `yaml:"margin_pt" mapstructure:"margin_pt"`
}

type WatchConfig struct {
	// DebounceMs groups rapid file changes before re-rendering.
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load unmarshals the viper state (file + env + bound flags) and applies
// defaults for anything unset.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("unmarshaling configuration", err)
	}

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Export.Scale == 0 {
		cfg.Export.Scale = 2
	}
	if cfg.Export.Page == "" {
		cfg.Export.Page = "A4"
	}
	if cfg.Export.MarginPt == 0 {
		cfg.Export.MarginPt = 36
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 300
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return errors.NewConfigError(fmt.Sprintf("server port %d out of range", cfg.Server.Port), nil)
	}
	if strings.ContainsAny(cfg.Server.Host, " \t\n") {
		return errors.NewConfigError(fmt.Sprintf("invalid server host %q", cfg.Server.Host), nil)
	}
	if cfg.Export.Scale <= 0 || cfg.Export.Scale > 16 {
		return errors.NewConfigError(fmt.Sprintf("export scale %v out of range (0, 16]", cfg.Export.Scale), nil)
	}
	switch strings.ToUpper(cfg.Export.Page) {
	case "A3", "A4", "LETTER", "LEGAL":
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown page size %q", cfg.Export.Page), nil)
	}
	if cfg.Watch.DebounceMs < 0 {
		return errors.NewConfigError("watch debounce must be non-negative", nil)
	}
	return nil
}
