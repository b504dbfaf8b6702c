package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 30*time.Second, cfg.Poll.Timeout)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "storage.json"), cfg.StorageFile())
	assert.Equal(t, filepath.Join(dataDir, "workspace.json"), cfg.WorkspaceFile())
}

func TestLoad_FileOverridesAndDefaultsFillGaps(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: https://analyzer.example.com
poll:
  interval: 5s
display:
  timezone: UTC
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://analyzer.example.com", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 30*time.Second, cfg.Poll.Timeout, "unset timeout keeps default")
	assert.Equal(t, 30*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "backend: [")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: ftp://example.com
`)

	_, err := Load(path, t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "backend.url", fieldErrs[0].Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"empty url", func(c *Config) { c.Backend.URL = "" }, "backend.url"},
		{"zero interval", func(c *Config) { c.Poll.Interval = 0 }, "poll.interval"},
		{"zero timeout", func(c *Config) { c.Poll.Timeout = 0 }, "poll.timeout"},
		{"timeout below interval", func(c *Config) { c.Poll.Timeout = time.Second }, "poll.timeout"},
		{"unknown timezone", func(c *Config) { c.Display.Timezone = "Mars/Olympus" }, "display.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, cfg.Validate(), &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, validConfig(t).Validate())
	})
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings(), "localhost over http is fine")

	cfg.Backend.URL = "http://analyzer.example.com"
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Backend", warnings[0].Category)
}
