// Package config handles configuration loading and validation for chatlens.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Poll    PollConfig    `yaml:"poll"`
	Display DisplayConfig `yaml:"display"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// BackendConfig describes how to reach the analysis backend.
type BackendConfig struct {
	URL            string        `yaml:"url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// PollConfig controls the fetch completion poller.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DisplayConfig controls how records are rendered.
type DisplayConfig struct {
	// Timezone is an IANA zone name used for message timestamps. Empty means local.
	Timezone   string `yaml:"timezone"`
	TimeFormat string `yaml:"time_format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			URL:            "http://localhost:5000",
			RequestTimeout: 30 * time.Second,
		},
		Poll: PollConfig{
			Interval: 2 * time.Second,
			Timeout:  30 * time.Second,
		},
		Display: DisplayConfig{
			TimeFormat: "2006-01-02 15:04:05",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = defaults.Backend.RequestTimeout
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = defaults.Poll.Interval
	}
	if c.Poll.Timeout == 0 {
		c.Poll.Timeout = defaults.Poll.Timeout
	}
	if c.Display.TimeFormat == "" {
		c.Display.TimeFormat = defaults.Display.TimeFormat
	}
}

// Location returns the configured display time zone, falling back to local time.
func (c *Config) Location() *time.Location {
	if c.Display.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// StorageFile returns the path to the key/value file holding credentials.
func (c *Config) StorageFile() string {
	return filepath.Join(c.DataDir, "storage.json")
}

// WorkspaceFile returns the path to the workspace snapshot file.
func (c *Config) WorkspaceFile() string {
	return filepath.Join(c.DataDir, "workspace.json")
}
