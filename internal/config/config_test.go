package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.API.BaseURL)
	assert.Equal(t, "he", cfg.UI.Locale)
	assert.Equal(t, 7, cfg.Dashboard.TrendDays)
	assert.Equal(t, 30, cfg.Dashboard.CorrelationDays)
	assert.Equal(t, 5, cfg.Dashboard.MaxCorrelationRows)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HTRACK_API_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API, cfg.API)
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("HTRACK_API_URL", "")
	t.Setenv("HTRACK_LOCALE", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://health.example.com/api"
	cfg.UI.Locale = "en"
	cfg.UI.PageSize = 25
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://health.example.com/api", loaded.API.BaseURL)
	assert.Equal(t, "en", loaded.UI.Locale)
	assert.Equal(t, 25, loaded.UI.PageSize)
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  locale: en\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.UI.Locale)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, "15s", cfg.API.Timeout)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTRACK_API_URL", "http://env.example/api")
	t.Setenv("HTRACK_DB", "/tmp/env.db")
	t.Setenv("HTRACK_LOCALE", "en")
	t.Setenv("HTRACK_LOG_LEVEL", "debug")
	t.Setenv("HTRACK_RATE_LIMIT", "2.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/api", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/env.db", cfg.Storage.Path)
	assert.Equal(t, "en", cfg.UI.Locale)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.InDelta(t, 2.5, cfg.API.RateLimit, 0.0001)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x/api" }, false},
		{"bad locale", func(c *Config) { c.UI.Locale = "fr" }, false},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, false},
		{"zero page size", func(c *Config) { c.UI.PageSize = 0 }, false},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, false},
		{"bad timezone", func(c *Config) { c.UI.Timezone = "Mars/Olympus" }, false},
		{"utc timezone", func(c *Config) { c.UI.Timezone = "UTC" }, true},
		{"zero rows", func(c *Config) { c.Dashboard.MaxCorrelationRows = 0 }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"missing font", func(c *Config) { c.Export.PDFFont = "/does/not/exist.ttf" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfig_DurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "garbage"
	cfg.UI.AlertTTL = "-1s"
	assert.Equal(t, 15*time.Second, cfg.GetAPITimeout())
	assert.Equal(t, 5*time.Second, cfg.GetAlertTTL())

	cfg.API.Timeout = "3s"
	assert.Equal(t, 3*time.Second, cfg.GetAPITimeout())
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	assert.True(t, lc.IsCategoryEnabled("api"))

	lc.Categories = map[string]bool{"api": false, "auth": true}
	assert.False(t, lc.IsCategoryEnabled("api"))
	assert.True(t, lc.IsCategoryEnabled("auth"))
	assert.True(t, lc.IsCategoryEnabled("history"))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Setenv("HTRACK_LOCALE", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changes <- c }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.UI.Locale = "en"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-changes:
		assert.Equal(t, "en", got.UI.Locale)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not delivered")
	}
}
