package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/securetoken-go/pkg/securetoken"
)

// CLIConfig is the configuration for securetoken-cli.
type CLIConfig struct {
	// Storage holds local store settings.
	Storage StorageConfig `koanf:"storage" yaml:"storage"`

	// Log holds logging settings.
	Log LogConfig `koanf:"log" yaml:"log"`

	// Output is the default output format (table, json, yaml).
	Output string `koanf:"output" yaml:"output"`

	// Fields are the token fields declared for records created
	// through the CLI.
	Fields []FieldConfig `koanf:"fields" yaml:"fields"`
}

// StorageConfig holds local store settings.
type StorageConfig struct {
	// Dir is the Badger data directory.
	Dir string `koanf:"dir" yaml:"dir"`

	// SyncWrites enables fsync after each write.
	SyncWrites bool `koanf:"sync_writes" yaml:"sync_writes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// FieldConfig declares one token field.
type FieldConfig struct {
	// Attribute is the record field name.
	Attribute string `koanf:"attribute" yaml:"attribute"`

	// Size is the token length in characters.
	Size int `koanf:"size" yaml:"size"`

	// Unique requires best-effort uniqueness against the store.
	Unique bool `koanf:"unique" yaml:"unique"`
}

// Default returns the default CLI configuration: one standard token
// field, table output, text logs at info level.
func Default() *CLIConfig {
	return &CLIConfig{
		Storage: StorageConfig{
			Dir:        DefaultDataDir(),
			SyncWrites: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: "table",
		Fields: []FieldConfig{
			{Attribute: securetoken.DefaultAttribute, Size: securetoken.DefaultSize},
		},
	}
}

// Validate checks the configuration for consistency.
func (c *CLIConfig) Validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("config: storage.dir is required")
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("config: at least one token field must be declared")
	}

	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Attribute == "" {
			return fmt.Errorf("config: field attribute must not be empty")
		}
		if f.Size < 1 {
			return fmt.Errorf("config: field %q: size must be positive, got %d", f.Attribute, f.Size)
		}
		if seen[f.Attribute] {
			return fmt.Errorf("config: field %q declared twice", f.Attribute)
		}
		seen[f.Attribute] = true
	}

	return nil
}

// UniqueAttributes returns the attributes of fields declared unique,
// in declaration order. These are the attributes the store indexes.
func (c *CLIConfig) UniqueAttributes() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Unique {
			out = append(out, f.Attribute)
		}
	}
	return out
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".securetoken", "cli.yaml")
}

// DefaultDataDir returns the default local store directory.
func DefaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".securetoken", "data")
}
