package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			TimelineProviders: []string{"theaudiodb"},
			CacheTTLHours:     6,
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:   "discogs with credentials",
			modify: func(c *Config) {
				c.TimelineProviders = []string{"discogs", "theaudiodb"}
				c.DiscogsKey = "key"
				c.DiscogsSecret = "secret"
			},
		},
		{
			name:    "ttl zero",
			modify:  func(c *Config) { c.CacheTTLHours = 0 },
			wantErr: true,
		},
		{
			name:    "no providers",
			modify:  func(c *Config) { c.TimelineProviders = nil },
			wantErr: true,
		},
		{
			name:    "unknown provider",
			modify:  func(c *Config) { c.TimelineProviders = []string{"lastfm"} },
			wantErr: true,
		},
		{
			name:    "discogs missing key",
			modify:  func(c *Config) { c.TimelineProviders = []string{"discogs"}; c.DiscogsSecret = "s" },
			wantErr: true,
		},
		{
			name:    "discogs missing secret",
			modify:  func(c *Config) { c.TimelineProviders = []string{"discogs"}; c.DiscogsKey = "k" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
verbose: true
timeline_providers: [discogs]
cache_ttl_hours: 12
audiodb_api_key: filekey
discogs_key: dk
discogs_secret: ds
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Verbose {
		t.Error("Verbose not loaded")
	}
	if cfg.CacheTTLHours != 12 {
		t.Errorf("CacheTTLHours = %d, want 12", cfg.CacheTTLHours)
	}
	if cfg.CacheTTL() != 12*time.Hour {
		t.Errorf("CacheTTL() = %v, want 12h", cfg.CacheTTL())
	}
	if cfg.AudioDBKey != "filekey" {
		t.Errorf("AudioDBKey = %q", cfg.AudioDBKey)
	}
}

func TestLoadConfigFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheTTLHours != 6 {
		t.Errorf("CacheTTLHours = %d, want default 6", cfg.CacheTTLHours)
	}
	if len(cfg.TimelineProviders) != 1 || cfg.TimelineProviders[0] != "theaudiodb" {
		t.Errorf("TimelineProviders = %v, want default", cfg.TimelineProviders)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("audiodb_api_key: filekey\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ARTISTINFO_AUDIODB_KEY", "envkey")

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AudioDBKey != "envkey" {
		t.Errorf("AudioDBKey = %q, want env override", cfg.AudioDBKey)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.FanartKey = "fk"
	if err := SaveConfigFile(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.FanartKey != "fk" {
		t.Errorf("FanartKey = %q after reload", loaded.FanartKey)
	}
}
