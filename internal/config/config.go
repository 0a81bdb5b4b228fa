// internal/config/config.go

// Package config loads and validates the harvester's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Sources    SourcesConfig    `yaml:"sources"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Workers    int              `yaml:"workers"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Browser    BrowserConfig    `yaml:"browser"`
	Store      StoreConfig      `yaml:"store"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Report     ReportConfig     `yaml:"report"`
	LogLevel   string           `yaml:"log_level"`
}

// SourcesConfig selects which portals a run covers.
type SourcesConfig struct {
	Enabled []string `yaml:"enabled"`
}

// FetchConfig tunes the shared fetch pool.
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	RateLimit     float64       `yaml:"rate_limit"`
	RateBurst     int           `yaml:"rate_burst"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	UserAgent     string        `yaml:"user_agent"`
}

// ClassifierConfig tunes type classification.
type ClassifierConfig struct {
	// OLEDefault is the type assigned to an OLE container with no product
	// marker: "hwp" or "doc".
	OLEDefault string `yaml:"ole_default"`
}

// BrowserConfig tunes the headless-browser fallback.
type BrowserConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Timeout        time.Duration `yaml:"timeout"`
	WaitForElement string        `yaml:"wait_for_element"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // postgres, mysql, sqlite, mongodb
	DSN     string `yaml:"dsn"`
}

// MetricsConfig tunes the ops endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"`
}

// ReportConfig tunes the Excel inventory report.
type ReportConfig struct {
	Path string `yaml:"path"`
}

var validSources = map[string]bool{"kstartup": true, "bizinfo": true}

var validBackends = map[string]bool{
	"postgres": true, "postgresql": true,
	"mysql":   true,
	"sqlite":  true, "sqlite3": true,
	"mongodb": true, "mongo": true,
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes, expanding ${ENV}
// references before parsing.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if len(c.Sources.Enabled) == 0 {
		c.Sources.Enabled = []string{"kstartup", "bizinfo"}
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.RetryAttempts == 0 {
		c.Fetch.RetryAttempts = 3
	}
	if c.Fetch.RetryDelay == 0 {
		c.Fetch.RetryDelay = time.Second
	}
	if c.Fetch.RateLimit == 0 {
		c.Fetch.RateLimit = 2.0
	}
	if c.Fetch.RateBurst == 0 {
		c.Fetch.RateBurst = 5
	}
	if c.Fetch.MaxConcurrent == 0 {
		c.Fetch.MaxConcurrent = 10
	}
	if c.Workers == 0 {
		c.Workers = 10
	}
	if c.Classifier.OLEDefault == "" {
		c.Classifier.OLEDefault = "hwp"
	}
	if c.Browser.Timeout == 0 {
		c.Browser.Timeout = 30 * time.Second
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "sqlite"
	}
	if c.Store.Backend == "sqlite" && c.Store.DSN == "" {
		c.Store.DSN = "harvester.db"
	}
	if c.Metrics.ListenAddress == "" {
		c.Metrics.ListenAddress = ":9090"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for _, source := range c.Sources.Enabled {
		if !validSources[source] {
			return fmt.Errorf("unknown source %q", source)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Fetch.RateLimit < 0 {
		return fmt.Errorf("fetch.rate_limit cannot be negative")
	}
	if c.Classifier.OLEDefault != "hwp" && c.Classifier.OLEDefault != "doc" {
		return fmt.Errorf("classifier.ole_default must be \"hwp\" or \"doc\", got %q", c.Classifier.OLEDefault)
	}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for backend %q", c.Store.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
