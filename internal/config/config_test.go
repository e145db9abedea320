package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pricing.MaxConcurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.Pricing.MaxConcurrency)
	}
	if cfg.Backend.Timeout() != 15*time.Second {
		t.Errorf("expected 15s timeout, got %s", cfg.Backend.Timeout())
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	body := `{"backend": {"base_url": "https://shop.example/api"}, "pricing": {"require_settled": true}}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != "https://shop.example/api" {
		t.Errorf("base url not loaded: %s", cfg.Backend.BaseURL)
	}
	if !cfg.Pricing.RequireSettled {
		t.Error("require_settled not loaded")
	}
	if cfg.Intake.DefaultDescription == "" {
		t.Error("defaults for absent sections should survive")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://env.example/api")
	t.Setenv(EnvToken, "secret")
	t.Setenv(EnvTimeout, "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.BaseURL != "http://env.example/api" || cfg.Backend.Token != "secret" {
		t.Errorf("env overrides not applied: %+v", cfg.Backend)
	}
	if cfg.Backend.TimeoutSeconds != 3 {
		t.Errorf("expected timeout 3, got %d", cfg.Backend.TimeoutSeconds)
	}
}

func TestLoadDotEnvDoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("REPAIRDESK_TOKEN=from-file\nREPAIRDESK_LOG_LEVEL=debug\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "from-shell")
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(EnvToken); got != "from-shell" {
		t.Errorf("existing variable overridden: %s", got)
	}
	if got := os.Getenv(EnvLogLevel); got != "debug" {
		t.Errorf("expected debug from .env, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should not fail: %v", err)
	}
}

func TestSaveOmitsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.json")
	cfg := Default()
	cfg.Backend.Token = "secret"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "" {
		t.Fatal("empty config written")
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("token leaked into saved config")
	}
	if cfg.Backend.Token != "secret" {
		t.Error("Save must not mutate the receiver")
	}
}
