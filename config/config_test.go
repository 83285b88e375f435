package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decisionbridge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
services:
  - name: loan
    engine: echo
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	// Unset fields keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want default true")
	}
	if len(cfg.Services) != 1 || cfg.Services[0].Name != "loan" {
		t.Errorf("Services = %+v, want [loan]", cfg.Services)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"audit without path", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.Path = ""
		}, true},
		{"service without name", func(c *Config) {
			c.Services = []ServiceConfig{{Engine: "echo"}}
		}, true},
		{"duplicate service names", func(c *Config) {
			c.Services = []ServiceConfig{
				{Name: "loan", Engine: "echo"},
				{Name: "loan", Engine: "echo"},
			}
		}, true},
		{"unknown engine", func(c *Config) {
			c.Services = []ServiceConfig{{Name: "loan", Engine: "dmn"}}
		}, true},
		{"valid services", func(c *Config) {
			c.Services = []ServiceConfig{
				{Name: "loan", Engine: "echo"},
				{Name: "risk", Engine: "echo"},
			}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHolderReload(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: info
`)

	holder, err := NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}
	defer holder.Stop()

	var notified *Config
	holder.OnChange(func(c *Config) { notified = c })

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := holder.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if holder.Get().Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug after reload", holder.Get().Logging.Level)
	}
	if notified == nil || notified.Logging.Level != "debug" {
		t.Error("OnChange callback not invoked with new config")
	}
}

func TestHolderReloadKeepsOldConfigOnError(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: warn
`)

	holder, err := NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}
	defer holder.Stop()

	var reloadErrors int
	holder.OnReloadError(func(error) { reloadErrors++ })

	if err := os.WriteFile(path, []byte("logging:\n  level: bogus\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := holder.Reload(); err == nil {
		t.Fatal("Reload of invalid config succeeded, want error")
	}

	if holder.Get().Logging.Level != "warn" {
		t.Errorf("Level = %q, want the old value kept", holder.Get().Logging.Level)
	}
	if reloadErrors != 1 {
		t.Errorf("OnReloadError calls = %d, want 1", reloadErrors)
	}
}
