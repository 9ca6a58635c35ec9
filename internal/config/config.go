// Package config holds the runtime settings of covidboard.
package config

import (
	"time"

	"github.com/spf13/viper"

	"covidboard/internal/data"
)

// Neo4jConfig points at the optional graph mirror. An empty URI disables it.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
	Database string
}

// Enabled reports whether a graph mirror is configured.
func (n Neo4jConfig) Enabled() bool {
	return n.URI != ""
}

// Config contains configurable parameters for the dashboard and its workers.
// Use Default() to get sensible defaults, then override as needed.
type Config struct {
	// Data source
	DataURL     string        // Remote chiffres-cles.json (default: opencovid19-fr)
	DBPath      string        // DuckDB file; empty means fetch over HTTP only
	HTTPTimeout time.Duration // Per-request timeout (default: 30s)
	HTTPRetries int           // Retry budget of the HTTP client (default: 3)

	// Workers
	SyncInterval time.Duration // How often `sync --watch` pulls (default: 6h)

	// Layout
	MobileWidth int // Terminals narrower than this get the mobile layout (default: 100)

	// Logging
	LogFile  string // TUI log destination (default: covidboard.log)
	LogLevel string // debug|info|warn|error (default: info)

	// Initial selection
	Date     string // YYYY-MM-DD; empty means the latest published date
	Location string // maille code; empty means nationwide

	Neo4j Neo4jConfig
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		DataURL:     data.DefaultDataURL,
		HTTPTimeout: 30 * time.Second,
		HTTPRetries: 3,

		SyncInterval: 6 * time.Hour,

		MobileWidth: 100,

		LogFile:  "covidboard.log",
		LogLevel: "info",

		Neo4j: Neo4jConfig{Database: "neo4j"},
	}
}

// WithDataURL returns a copy of the config with a different dataset URL.
func (c Config) WithDataURL(url string) Config {
	c.DataURL = url
	return c
}

// WithDBPath returns a copy of the config backed by a DuckDB file.
func (c Config) WithDBPath(path string) Config {
	c.DBPath = path
	return c
}

// WithHTTPTimeout returns a copy of the config with modified HTTP timeout.
func (c Config) WithHTTPTimeout(d time.Duration) Config {
	c.HTTPTimeout = d
	return c
}

// WithSyncInterval returns a copy of the config with modified sync interval.
func (c Config) WithSyncInterval(d time.Duration) Config {
	c.SyncInterval = d
	return c
}

// WithMobileWidth returns a copy of the config with modified mobile breakpoint.
func (c Config) WithMobileWidth(w int) Config {
	c.MobileWidth = w
	return c
}

// WithSelection returns a copy of the config starting on date and location.
func (c Config) WithSelection(date, location string) Config {
	c.Date = date
	c.Location = location
	return c
}

// StartDate parses Date. The zero time means "latest".
func (c Config) StartDate() (time.Time, error) {
	if c.Date == "" {
		return time.Time{}, nil
	}
	return data.ParseDate(c.Date)
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.DataURL == "" && c.DBPath == "" {
		return &ConfigError{Field: "DataURL", Message: "must not be empty without a DBPath"}
	}
	if c.HTTPTimeout <= 0 {
		return &ConfigError{Field: "HTTPTimeout", Message: "must be positive"}
	}
	if c.HTTPRetries < 0 {
		return &ConfigError{Field: "HTTPRetries", Message: "must not be negative"}
	}
	if c.SyncInterval <= 0 {
		return &ConfigError{Field: "SyncInterval", Message: "must be positive"}
	}
	if c.MobileWidth <= 0 {
		return &ConfigError{Field: "MobileWidth", Message: "must be positive"}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "LogLevel", Message: "must be one of debug, info, warn, error"}
	}
	if _, err := c.StartDate(); err != nil {
		return &ConfigError{Field: "Date", Message: "must be YYYY-MM-DD"}
	}
	if c.Neo4j.Enabled() && c.Neo4j.User == "" {
		return &ConfigError{Field: "Neo4j.User", Message: "must not be empty when Neo4j.URI is set"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_url", d.DataURL)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("http_retries", d.HTTPRetries)
	v.SetDefault("sync_interval", d.SyncInterval)
	v.SetDefault("mobile_width", d.MobileWidth)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("date", "")
	v.SetDefault("location", "")
	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.user", "")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", d.Neo4j.Database)
}

// FromViper reads a Config out of v and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		DataURL:      v.GetString("data_url"),
		DBPath:       v.GetString("db_path"),
		HTTPTimeout:  v.GetDuration("http_timeout"),
		HTTPRetries:  v.GetInt("http_retries"),
		SyncInterval: v.GetDuration("sync_interval"),
		MobileWidth:  v.GetInt("mobile_width"),
		LogFile:      v.GetString("log_file"),
		LogLevel:     v.GetString("log_level"),
		Date:         v.GetString("date"),
		Location:     v.GetString("location"),
		Neo4j: Neo4jConfig{
			URI:      v.GetString("neo4j.uri"),
			User:     v.GetString("neo4j.user"),
			Password: v.GetString("neo4j.password"),
			Database: v.GetString("neo4j.database"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
