package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all htrack configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	UI        UIConfig        `yaml:"ui"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig configures the REST backend client.
type APIConfig struct {
	BaseURL   string  `yaml:"base_url"`
	Timeout   string  `yaml:"timeout"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int     `yaml:"burst"`
}

// StorageConfig configures where the session tokens are persisted.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// UIConfig configures presentation.
type UIConfig struct {
	Locale   string `yaml:"locale"` // he, en
	Theme    string `yaml:"theme"`  // auto, light, dark
	PageSize int    `yaml:"page_size"`
	AlertTTL string `yaml:"alert_ttl"`
	Timezone string `yaml:"timezone"` // IANA name, empty = local
}

// DashboardConfig configures the dashboard windows.
type DashboardConfig struct {
	TrendDays          int `yaml:"trend_days"`
	CorrelationDays    int `yaml:"correlation_days"`
	MaxCorrelationRows int `yaml:"max_correlation_rows"`
}

// ExportConfig configures meal history export.
type ExportConfig struct {
	// PDFFont is an optional TTF file used for PDF export. Without it the
	// built-in Helvetica is used and non-Latin text is transliterated away.
	PDFFont string `yaml:"pdf_font"`
}

// ValidLocales lists the supported UI locales.
var ValidLocales = []string{"he", "en"}

// ValidThemes lists the supported UI themes.
var ValidThemes = []string{"auto", "light", "dark"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000/api",
			Timeout: "15s",
			Burst:   1,
		},
		Storage: StorageConfig{
			Path: filepath.Join(homeDir(), ".htrack", "session.db"),
		},
		UI: UIConfig{
			Locale:   "he",
			Theme:    "auto",
			PageSize: 10,
			AlertTTL: "5s",
		},
		Dashboard: DashboardConfig{
			TrendDays:          7,
			CorrelationDays:    30,
			MaxCorrelationRows: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns ~/.config/htrack/config.yaml.
func DefaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "htrack", "config.yaml")
	}
	return filepath.Join(homeDir(), ".htrack", "config.yaml")
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HTRACK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("HTRACK_API_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("HTRACK_RATE_LIMIT"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.API.RateLimit = rps
		}
	}
	if v := os.Getenv("HTRACK_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("HTRACK_LOCALE"); v != "" {
		c.UI.Locale = v
	}
	if v := os.Getenv("HTRACK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HTRACK_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// GetAPITimeout returns the per-request timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetAlertTTL returns how long an alert stays visible.
func (c *Config) GetAlertTTL() time.Duration {
	d, err := time.ParseDuration(c.UI.AlertTTL)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// GetLocation returns the configured time zone, falling back to time.Local.
func (c *Config) GetLocation() *time.Location {
	if c.UI.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0, got %v", c.API.RateLimit)
	}
	if !contains(ValidLocales, c.UI.Locale) {
		return fmt.Errorf("invalid ui.locale: %s (valid: %v)", c.UI.Locale, ValidLocales)
	}
	if !contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("invalid ui.theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize)
	}
	if c.UI.Timezone != "" {
		if _, err := time.LoadLocation(c.UI.Timezone); err != nil {
			return fmt.Errorf("invalid ui.timezone %q: %w", c.UI.Timezone, err)
		}
	}
	if c.Dashboard.TrendDays <= 0 || c.Dashboard.CorrelationDays <= 0 {
		return fmt.Errorf("dashboard windows must be positive (trend_days=%d, correlation_days=%d)",
			c.Dashboard.TrendDays, c.Dashboard.CorrelationDays)
	}
	if c.Dashboard.MaxCorrelationRows <= 0 {
		return fmt.Errorf("dashboard.max_correlation_rows must be positive, got %d", c.Dashboard.MaxCorrelationRows)
	}
	if c.Export.PDFFont != "" {
		if _, err := os.Stat(c.Export.PDFFont); err != nil {
			return fmt.Errorf("export.pdf_font: %w", err)
		}
	}
	return c.Logging.Validate()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
