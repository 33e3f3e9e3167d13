package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins).
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given project root.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (PYWAND_*)
// 2. Config file (.pywand/config.yml or .pywand/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := newViper()

	configDir := filepath.Join(l.rootDir, ".pywand")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - defaults + env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newViper builds a viper instance with environment bindings and
// defaults applied; callers add the config-file source.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("PYWAND")
	v.AutomaticEnv()
	// PYWAND_PYTHON_VERSION overrides python.version, and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("python.version")
	v.BindEnv("scan.workers")
	v.BindEnv("export.output")

	setDefaults(v)
	return v
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("python.version", defaults.Python.Version)
	v.SetDefault("scan.exclude", defaults.Scan.Exclude)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("export.output", defaults.Export.Output)
}

// LoadConfigFromFile loads configuration from an explicit config file.
// Unlike the directory search, a missing file here is an error.
func LoadConfigFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromDir loads configuration for a specific project directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// LoadConfig is a convenience function that loads configuration using
// the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}
