package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := `
[credentials.youtube]
api_key = "test-key"
client_id = "test-client"
client_secret = "test-secret"

[database]
path = "test.db"
max_open_conns = 8
max_idle_conns = 4

[cache]
expiry_days = 3

[sync]
artists_file = "bands.txt"
delay_seconds = 0.5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Credentials.YouTube.APIKey != "test-key" {
			t.Errorf("expected api_key %q, got %q", "test-key", config.Credentials.YouTube.APIKey)
		}
		if config.Database.Path != "test.db" {
			t.Errorf("expected database path %q, got %q", "test.db", config.Database.Path)
		}
		if got := config.Cache.Expiry(); got != 3*24*time.Hour {
			t.Errorf("expected expiry 72h, got %v", got)
		}
		if got := config.Sync.Delay(); got != 500*time.Millisecond {
			t.Errorf("expected delay 500ms, got %v", got)
		}
		if config.Sync.ArtistsFile != "bands.txt" {
			t.Errorf("expected artists_file %q, got %q", "bands.txt", config.Sync.ArtistsFile)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[credentials\nbroken"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed toml")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Database.Path != "ytsync.db" {
		t.Errorf("expected default database path %q, got %q", "ytsync.db", config.Database.Path)
	}
	if got := config.Cache.Expiry(); got != 7*24*time.Hour {
		t.Errorf("expected default expiry 7 days, got %v", got)
	}
	if got := config.Sync.Delay(); got != 2*time.Second {
		t.Errorf("expected default delay 2s, got %v", got)
	}
	if config.Sync.ArtistsFile != "artists.txt" {
		t.Errorf("expected default artists file %q, got %q", "artists.txt", config.Sync.ArtistsFile)
	}
}

func TestCacheConfigExpiry(t *testing.T) {
	tests := []struct {
		name string
		days int
		want time.Duration
	}{
		{"zero falls back to a week", 0, 7 * 24 * time.Hour},
		{"negative falls back to a week", -2, 7 * 24 * time.Hour},
		{"explicit value", 14, 14 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CacheConfig{ExpiryDays: tt.days}
			if got := c.Expiry(); got != tt.want {
				t.Errorf("Expiry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if config.Cache.ExpiryDays != 7 {
		t.Errorf("expected expiry_days 7, got %d", config.Cache.ExpiryDays)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}
