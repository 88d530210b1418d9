package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/securetoken-go/internal/infra/confloader"
)

// Load loads CLI configuration with the usual priority: defaults,
// then the YAML file (if present), then SECURETOKEN_* environment
// variables. An empty path means the default location.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	loader := confloader.NewLoader()

	if _, err := os.Stat(path); err == nil {
		if err := loader.LoadFile(path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loader.LoadEnv(); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := loader.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the CLI configuration to a YAML file with owner-only
// permissions. An empty path means the default location.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
