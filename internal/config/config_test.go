package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.MonteCarlo.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.MonteCarlo.Timeout)
	}
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colonysim.yaml")
	content := `
server:
  port: 9090
monte_carlo:
  workers: 3
  timeout: 2m
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.MonteCarlo.Workers != 3 {
		t.Errorf("port/workers = %d/%d, want 9090/3", cfg.Server.Port, cfg.MonteCarlo.Workers)
	}
	if cfg.MonteCarlo.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.MonteCarlo.Timeout)
	}
	if cfg.Server.RateLimit != 30 || cfg.Storage.Path != "data/colonysim.db" {
		t.Errorf("omitted fields lost their defaults: %+v", cfg)
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	t.Setenv("COLONYSIM_PORT", "7000")
	t.Setenv("COLONYSIM_DB", "/tmp/x.db")
	t.Setenv("COLONYSIM_LOG_LEVEL", "debug")
	t.Setenv("COLONYSIM_WORKERS", "2")
	t.Setenv("COLONYSIM_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7000 || cfg.Storage.Path != "/tmp/x.db" {
		t.Errorf("port/db = %d/%s", cfg.Server.Port, cfg.Storage.Path)
	}
	if cfg.Logging.Level != "debug" || cfg.MonteCarlo.Workers != 2 || cfg.MonteCarlo.Timeout != 5*time.Second {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"negative workers", func(c *Config) { c.MonteCarlo.Workers = -1 }},
		{"negative timeout", func(c *Config) { c.MonteCarlo.Timeout = -time.Second }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
