// Package config holds the engine's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devpatel/spacelens/internal/platform"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// TopN is how many largest files a scan tracks.
	TopN int `yaml:"top_n"`
	// CacheWorkers bounds the cache-locator scanning pool.
	CacheWorkers int `yaml:"cache_workers"`
	// HoldingDir is the recoverable holding area for reversible deletes.
	// Empty means the platform default.
	HoldingDir string `yaml:"holding_dir"`
	// ProtectedPaths extends the platform protected-path list.
	ProtectedPaths []string `yaml:"protected_paths"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TopN:         10,
		CacheWorkers: 3,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := platform.GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "spacelens", "config.yaml"), nil
}

// Load reads a config file, falling back to defaults when it does not
// exist. Loaded values are validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks configured values against their allowed ranges.
func (c *Config) Validate() error {
	if c.TopN < 1 || c.TopN > 1000 {
		return fmt.Errorf("top_n must be between 1 and 1000, got %d", c.TopN)
	}
	if c.CacheWorkers < 1 || c.CacheWorkers > 8 {
		return fmt.Errorf("cache_workers must be between 1 and 8, got %d", c.CacheWorkers)
	}
	return nil
}

// ResolveHoldingDir returns the configured holding area, or the platform
// default for the given home directory.
func (c *Config) ResolveHoldingDir(homeDir string) string {
	if c.HoldingDir != "" {
		return c.HoldingDir
	}
	return platform.DefaultHoldingDir(homeDir)
}
