// Package config loads client settings from defaults, a YAML file and the
// environment, in that order of precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvConfig   = "ROLLCALL_CONFIG"
	EnvServer   = "ROLLCALL_SERVER"
	EnvData     = "ROLLCALL_DATA"
	EnvOut      = "ROLLCALL_OUT"
	EnvLocale   = "ROLLCALL_LOCALE"
	EnvTimeout  = "ROLLCALL_TIMEOUT"
	EnvLogLevel = "LOG_LEVEL"
)

const (
	defaultServer  = "http://localhost:5000"
	defaultLocale  = "de"
	defaultTimeout = 30 * time.Second
	dbFile         = "rollcall.db"
)

// Config holds the client settings.
type Config struct {
	// Server is the backend base URL.
	Server string `yaml:"server"`
	// DataDir holds the local database.
	DataDir string `yaml:"data_dir"`
	// DownloadDir receives exported files.
	DownloadDir string `yaml:"download_dir"`
	// Locale orders group names.
	Locale string `yaml:"locale"`
	// Timeout bounds each backend request, as a Go duration.
	Timeout  string `yaml:"timeout"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server:      defaultServer,
		DataDir:     filepath.Join(userDir(), "rollcall"),
		DownloadDir: ".",
		Locale:      defaultLocale,
		Timeout:     defaultTimeout.String(),
		LogLevel:    "info",
	}
}

func userDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Path returns the config file location: $ROLLCALL_CONFIG, or config.yaml
// in the user's config directory.
func Path() string {
	return getEnv(EnvConfig, filepath.Join(userDir(), "rollcall", "config.yaml"))
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Server = getEnv(EnvServer, c.Server)
	c.DataDir = getEnv(EnvData, c.DataDir)
	c.DownloadDir = getEnv(EnvOut, c.DownloadDir)
	c.Locale = getEnv(EnvLocale, c.Locale)
	c.Timeout = getEnv(EnvTimeout, c.Timeout)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
}

// Save writes the settings to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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

// GetTimeout returns the request timeout, falling back to 30s if unset or
// malformed.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// DBPath returns the local database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFile)
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.Server)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory not configured (set %s)", EnvData)
	}
	return nil
}
