package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Content.FetchAttempts != 3 {
		t.Errorf("Content.FetchAttempts = %d, want 3", cfg.Content.FetchAttempts)
	}
	if cfg.Content.DictShards != 3 {
		t.Errorf("Content.DictShards = %d, want 3", cfg.Content.DictShards)
	}
	if cfg.Content.CacheVersion == "" {
		t.Error("Content.CacheVersion is empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ACADEMY_SERVER_PORT", "9090")
	t.Setenv("ACADEMY_CONTENT_BASE_URL", "https://example.org/myapp/")
	t.Setenv("ACADEMY_CONTENT_CACHE_VERSION", "7.0.0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Content.BaseURL != "https://example.org/myapp/" {
		t.Errorf("Content.BaseURL = %q", cfg.Content.BaseURL)
	}
	if cfg.Content.CacheVersion != "7.0.0" {
		t.Errorf("Content.CacheVersion = %q, want 7.0.0", cfg.Content.CacheVersion)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults-ok", func(c *Config) {}, false},
		{"no-content-source", func(c *Config) { c.Content.BaseURL = ""; c.Content.Dir = "" }, true},
		{"zero-attempts", func(c *Config) { c.Content.FetchAttempts = 0 }, true},
		{"zero-shards", func(c *Config) { c.Content.DictShards = 0 }, true},
		{"empty-version", func(c *Config) { c.Content.CacheVersion = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
