// Package config defines the browser configuration and its YAML loader
// with environment variable expansion.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	StartURI string        `yaml:"start_uri"`
	Auth     AuthConfig    `yaml:"auth"`
	Fetch    FetchConfig   `yaml:"fetch"`
	Display  DisplayConfig `yaml:"display"`
	Log      LogConfig     `yaml:"log"`
	History  HistoryConfig `yaml:"history"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// AuthConfig holds HTTP basic auth credentials. An empty username means
// unauthenticated requests.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// FetchConfig holds transport settings.
type FetchConfig struct {
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	InsecureTLS    bool `yaml:"insecure_tls"`
}

// Validate validates the fetch configuration.
func (c *FetchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Min(0), validation.Max(300)),
	)
}

// Timeout returns the request timeout as a duration.
func (c *FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	DeclutterLinks bool `yaml:"declutter_links"`
}

// LogConfig holds logging settings. The TUI owns the terminal, so logs
// always go to a file.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("", "debug", "info", "warn", "error")),
	)
}

// SlogLevel maps the configured level name onto slog.
func (c *LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// HistoryConfig holds visit persistence settings.
type HistoryConfig struct {
	Path    string `yaml:"path"`
	Disable bool   `yaml:"disable"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			TimeoutSeconds: 10,
		},
		Display: DisplayConfig{
			DeclutterLinks: true,
		},
		Log: LogConfig{
			File:  "hb.log",
			Level: "info",
		},
		History: HistoryConfig{
			Path: DefaultHistoryPath(),
		},
	}
}

// DefaultConfigPath returns the per-user config file location, or "" when
// no user config directory is available.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hb", "config.yaml")
}

// DefaultHistoryPath returns the per-user history database location, or
// "" when no user config directory is available.
func DefaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hb", "history.db")
}
