package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DatasetPath     string          `yaml:"dataset_path"`
	DatasetFormat   string          `yaml:"dataset_format"` // "json", "ndjson", "apache" or "common"
	RedactionConfig RedactionConfig `yaml:"redaction"`
	AnalyticsConfig AnalyticsConfig `yaml:"analytics"`
	DashboardConfig DashboardConfig `yaml:"dashboard"`
}

// RedactionConfig lists the payload fields hidden from detail views
type RedactionConfig struct {
	Fields      []string `yaml:"fields"`
	Placeholder string   `yaml:"placeholder"`
}

// AnalyticsConfig contains aggregation settings
type AnalyticsConfig struct {
	TopN           int    `yaml:"top_n"`
	TimelineWindow int    `yaml:"timeline_window"`
	FallbackKey    string `yaml:"fallback_key"`
	TimeRange      string `yaml:"time_range"` // "all", "day", "week" or "month"

	// Slow-request detection per endpoint or operation
	OutlierSensitivity float64 `yaml:"outlier_sensitivity"`
	OutlierMinSamples  int     `yaml:"outlier_min_samples"`
}

// DashboardConfig contains web dashboard settings
type DashboardConfig struct {
	Port       int    `yaml:"port"`
	Host       string `yaml:"host"`
	PageSize   int    `yaml:"page_size"`
	Watch      bool   `yaml:"watch"`
	DebounceMs int    `yaml:"debounce_ms"`
}

var validFormats = map[string]bool{
	"json":     true,
	"ndjson":   true,
	"apache":   true,
	"combined": true,
	"common":   true,
}

var validRanges = map[string]bool{
	"all":   true,
	"day":   true,
	"week":  true,
	"month": true,
}

// LoadConfig loads configuration from a YAML file. Values missing from the
// file keep their defaults; a missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if !validFormats[c.DatasetFormat] {
		return fmt.Errorf("invalid dataset_format %q", c.DatasetFormat)
	}
	if !validRanges[c.AnalyticsConfig.TimeRange] {
		return fmt.Errorf("invalid analytics.time_range %q", c.AnalyticsConfig.TimeRange)
	}
	if c.AnalyticsConfig.TopN < 0 {
		return fmt.Errorf("analytics.top_n must not be negative")
	}
	if c.AnalyticsConfig.OutlierSensitivity <= 0 {
		return fmt.Errorf("analytics.outlier_sensitivity must be positive")
	}
	if c.AnalyticsConfig.TimelineWindow <= 0 {
		return fmt.Errorf("analytics.timeline_window must be positive")
	}
	if c.DashboardConfig.Port < 0 || c.DashboardConfig.Port > 65535 {
		return fmt.Errorf("dashboard.port out of range: %d", c.DashboardConfig.Port)
	}
	if c.DashboardConfig.PageSize <= 0 {
		return fmt.Errorf("dashboard.page_size must be positive")
	}
	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DatasetPath:   "data/logs.json",
		DatasetFormat: "json",
		RedactionConfig: RedactionConfig{
			Fields: []string{
				"tokenizedText",
				"text",
				"firstName",
				"lastName",
				"username",
				"email",
				"password",
				"phoneNumber",
				"intlPhoneNumber",
				"authorization",
				"cookie",
			},
			Placeholder: "[REDACTED]",
		},
		AnalyticsConfig: AnalyticsConfig{
			TopN:           10,
			TimelineWindow: 20,
			FallbackKey:    "unknown",
			TimeRange:      "all",

			OutlierSensitivity: 2.0,
			OutlierMinSamples:  10,
		},
		DashboardConfig: DashboardConfig{
			Port:       8080,
			Host:       "localhost",
			PageSize:   10,
			Watch:      true,
			DebounceMs: 200,
		},
	}
}
