// Package config holds process-level settings for the colonysim binary:
// HTTP server, run storage, logging and Monte Carlo execution. Model
// parameters live in params, not here.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level process configuration.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	MonteCarlo MonteCarloConfig `json:"monte_carlo" yaml:"monte_carlo"`
}

type ServerConfig struct {
	Port        int      `json:"port" yaml:"port"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	// RateLimit is simulate requests per minute per client IP. 0 disables it.
	RateLimit int `json:"rate_limit" yaml:"rate_limit"`
}

type StorageConfig struct {
	// Path to the SQLite run store. Empty disables storage.
	Path string `json:"path" yaml:"path"`
}

type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

type MonteCarloConfig struct {
	// Workers bounds concurrent trials; 0 uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`

	// Timeout bounds a whole batch. 0 means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000"},
			RateLimit:   30,
		},
		Storage: StorageConfig{
			Path: "data/colonysim.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		MonteCarlo: MonteCarloConfig{
			Workers: 0,
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads path over the defaults when path is non-empty, then applies
// environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads a YAML config; fields it omits keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the binary cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be non-negative, got %d", c.Server.RateLimit)
	}
	if c.MonteCarlo.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.MonteCarlo.Workers)
	}
	if c.MonteCarlo.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.MonteCarlo.Timeout)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a config level name to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", level)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COLONYSIM_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}

	if v := os.Getenv("COLONYSIM_DB"); v != "" {
		cfg.Storage.Path = v
	}

	if v := os.Getenv("COLONYSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("COLONYSIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MonteCarlo.Workers = n
		}
	}

	if v := os.Getenv("COLONYSIM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MonteCarlo.Timeout = d
		}
	}
}
