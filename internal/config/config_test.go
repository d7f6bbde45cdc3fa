package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != Default().Workers {
		t.Errorf("expected default workers, got %d", cfg.Workers)
	}
}

func TestLoadOverlaysYAMLOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "egh.yaml")
	content := "workers: 8\nentries:\n  - App.egh\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected workers overridden to 8, got %d", cfg.Workers)
	}
	if cfg.CacheDir != Default().CacheDir {
		t.Errorf("expected cache_dir to retain its default, got %q", cfg.CacheDir)
	}
	if len(cfg.Entries) != 1 || cfg.Entries[0] != "App.egh" {
		t.Errorf("expected entries to be parsed, got %v", cfg.Entries)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "egh.yaml")
	if err := os.WriteFile(path, []byte("workers: [not a number"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Errorf("expected an error for malformed YAML")
	}
}
