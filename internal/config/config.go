package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config contains the program configuration
type Config struct {
	Verbose           bool     `yaml:"verbose" env:"-"`
	TimelineProviders []string `yaml:"timeline_providers" env:"-"`
	CacheTTLHours     int      `yaml:"cache_ttl_hours" env:"ARTISTINFO_CACHE_TTL_HOURS"`
	AudioDBKey        string   `yaml:"audiodb_api_key" env:"ARTISTINFO_AUDIODB_KEY"`
	FanartKey         string   `yaml:"fanarttv_api_key" env:"ARTISTINFO_FANARTTV_KEY"`
	DiscogsKey        string   `yaml:"discogs_key" env:"ARTISTINFO_DISCOGS_KEY"`
	DiscogsSecret     string   `yaml:"discogs_secret" env:"ARTISTINFO_DISCOGS_SECRET"`
	ForceLyrics       bool     `yaml:"force_lyrics" env:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		TimelineProviders: []string{"theaudiodb"},
		CacheTTLHours:     6,
	}
}

// CacheTTL returns the configured cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// LoadConfigFile loads configuration from a YAML file, then applies
// environment-variable overrides for credentials and TTL.
// If path is empty, searches standard locations; returns defaults
// (plus env overrides) if no file is found.
// Priority: CLI flags > environment > config file > defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./artistinfo.yaml",
		"./artistinfo.yml",
		filepath.Join(home, ".config", "artistinfo", "config.yaml"),
		filepath.Join(home, ".config", "artistinfo", "config.yml"),
		filepath.Join(home, ".artistinfo.yaml"),
		filepath.Join(home, ".artistinfo.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "artistinfo", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "artistinfo", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheTTLHours < 1 {
		return fmt.Errorf("cache_ttl_hours must be at least 1, got %d", c.CacheTTLHours)
	}

	if len(c.TimelineProviders) == 0 {
		return fmt.Errorf("timeline_providers cannot be empty")
	}

	validProviders := map[string]bool{"theaudiodb": true, "discogs": true}
	for _, p := range c.TimelineProviders {
		if !validProviders[p] {
			return fmt.Errorf("unknown timeline provider %q, valid providers: theaudiodb, discogs", p)
		}
	}

	if c.hasProvider("discogs") {
		if c.DiscogsKey == "" {
			return fmt.Errorf("discogs_key is required when discogs is in timeline_providers")
		}
		if c.DiscogsSecret == "" {
			return fmt.Errorf("discogs_secret is required when discogs is in timeline_providers")
		}
	}

	return nil
}

func (c *Config) hasProvider(name string) bool {
	for _, p := range c.TimelineProviders {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}
