// Package config loads project-level build settings from an egh.yaml
// file, falling back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the project-level configuration read from egh.yaml at the
// project root.
type Config struct {
	CacheDir     string   `yaml:"cache_dir"`
	MaxMemBytes  int64    `yaml:"max_mem_bytes"`
	MaxDiskBytes int64    `yaml:"max_disk_bytes"`
	Workers      int      `yaml:"workers"`
	Entries      []string `yaml:"entries"`
}

// Default returns the configuration used when no egh.yaml is present.
func Default() *Config {
	return &Config{
		CacheDir:     ".egh-cache",
		MaxMemBytes:  64 << 20,
		MaxDiskBytes: 512 << 20,
		Workers:      4,
	}
}

// Load reads path as YAML, overlaying it onto the defaults. A missing
// file is not an error: the project simply runs with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
