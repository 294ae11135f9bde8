// Package config loads the client configuration from a YAML file,
// overlaying defaults so a missing or partial file still yields a
// complete configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the sync client.
type Config struct {
	// ServerURL is the base URL of the remote collection service.
	ServerURL string `yaml:"server_url"`

	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// SyncInterval is the period of the background reconciliation timer.
	SyncInterval time.Duration `yaml:"sync_interval"`

	// GraceWindow is how long after a local mutation background
	// reconciliation stays suppressed.
	GraceWindow time.Duration `yaml:"grace_window"`

	// DataDir holds the local cache database.
	DataDir string `yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		ServerURL:      "http://localhost:10000",
		RequestTimeout: 8 * time.Second,
		SyncInterval:   30 * time.Second,
		GraceWindow:    5 * time.Second,
		DataDir:        filepath.Join(home, ".worklog"),
		LogLevel:       "info",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, ".worklog", "config.yaml")
}

// Load reads the config file at path, overlaying it on the defaults. A
// missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run on.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server_url %q is not an absolute URL", c.ServerURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval must be positive")
	}

	if c.GraceWindow < 0 {
		return fmt.Errorf("grace_window must not be negative")
	}

	if c.GraceWindow >= c.SyncInterval {
		return fmt.Errorf("grace_window must be shorter than sync_interval")
	}

	return nil
}

// CachePath returns the path of the cache database inside DataDir.
func (c Config) CachePath() string {
	return filepath.Join(c.DataDir, "worklog.bolt")
}
