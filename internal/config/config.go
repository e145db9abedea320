// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"repairdesk/core/types"
	"repairdesk/internal/logging"
)

// Environment variables that override file configuration
const (
	EnvBaseURL  = "REPAIRDESK_BASE_URL"
	EnvToken    = "REPAIRDESK_TOKEN"
	EnvLogLevel = "REPAIRDESK_LOG_LEVEL"
	EnvTimeout  = "REPAIRDESK_TIMEOUT_SECONDS"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Backend contains REST backend settings
	Backend BackendConfig `json:"backend"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Intake contains repair intake defaults
	Intake IntakeConfig `json:"intake"`

	// Server contains the local quote service settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// BackendConfig contains REST backend settings
type BackendConfig struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api
	BaseURL string `json:"base_url"`

	// Token is the DRF auth token, sent as "Token <token>"
	Token string `json:"token,omitempty"`

	// TimeoutSeconds bounds every HTTP call
	TimeoutSeconds int `json:"timeout_seconds"`

	// RateLimit is the sustained outbound requests per second (0 = unlimited)
	RateLimit float64 `json:"rate_limit"`

	// Burst is the token bucket size
	Burst int `json:"burst"`
}

// Timeout returns the HTTP timeout
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency is the display currency
	Currency types.Currency `json:"currency"`

	// TimeoutSeconds bounds a single tier lookup
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxConcurrency limits parallel tier lookups in a batch
	MaxConcurrency int `json:"max_concurrency"`

	// RequireSettled blocks submission while tier lookups are outstanding
	RequireSettled bool `json:"require_settled"`
}

// Timeout returns the per-tier lookup timeout
func (p PricingConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// IntakeConfig contains repair intake defaults
type IntakeConfig struct {
	// DefaultDescription is sent when the breakdown description is blank
	DefaultDescription string `json:"default_description"`
}

// ServerConfig contains the quote service settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000/api",
			TimeoutSeconds: 15,
			RateLimit:      20,
			Burst:          10,
		},
		Pricing: PricingConfig{
			Currency:       types.CurrencyEUR,
			TimeoutSeconds: 10,
			MaxConcurrency: 4,
			RequireSettled: false,
		},
		Intake: IntakeConfig{
			DefaultDescription: "Repair created from intake form",
		},
		Server: ServerConfig{
			Address: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.repairdesk.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".repairdesk.json")
}

// Load loads configuration from a file. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	config.ApplyEnv()
	return config, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Backend.Token = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Backend.TimeoutSeconds = secs
		}
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// the token never goes to disk
	clone := *c
	clone.Backend.Token = ""

	data, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
