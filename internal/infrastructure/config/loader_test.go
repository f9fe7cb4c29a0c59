package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedsDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.Windows.CacheSeconds != 2 {
		t.Fatalf("cache_seconds = %d, want 2", cfg.Windows.CacheSeconds)
	}
	if cfg.Terminal.CaptureTimeoutSeconds != 30 {
		t.Fatalf("capture_timeout_seconds = %d, want 30", cfg.Terminal.CaptureTimeoutSeconds)
	}
	if !cfg.Security.Enabled || !cfg.History.Enabled {
		t.Fatalf("default gates wrong: %+v", cfg)
	}
}

func TestLoadHydratesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "terminal:\n  title: \"My Terminal\"\n"
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terminal.Title != "My Terminal" {
		t.Fatalf("explicit value lost: %q", cfg.Terminal.Title)
	}
	if cfg.Windows.CacheSeconds != 2 || cfg.Terminal.CaptureTimeoutSeconds != 30 {
		t.Fatalf("zero values not hydrated: %+v", cfg)
	}
	if cfg.ConfigFormatVersion != "1" {
		t.Fatalf("format version not hydrated: %q", cfg.ConfigFormatVersion)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("terminal: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env-config.yaml")
	t.Setenv(EnvConfigPath, path)

	loader := NewFileLoader("")
	if loader.Path() != path {
		t.Fatalf("path = %q, want %q", loader.Path(), path)
	}
}

func TestExplicitPathBeatsEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/somewhere/else.yaml")
	loader := NewFileLoader("/explicit/config.yaml")
	if loader.Path() != "/explicit/config.yaml" {
		t.Fatalf("path = %q", loader.Path())
	}
}
