// Package config loads pywand configuration from .pywand/config.yml
// with environment variable overrides.
package config

import "github.com/pywand/pywand/internal/scanner"

// Config is the complete pywand configuration.
type Config struct {
	Python PythonConfig `yaml:"python" mapstructure:"python"`
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
}

// PythonConfig selects the target runtime.
type PythonConfig struct {
	// Version picks the standard-library registry variant and the
	// interpreter requested from uv ("3.11" or "3.11.7").
	Version string `yaml:"version" mapstructure:"version"`
}

// ScanConfig tunes dependency discovery.
type ScanConfig struct {
	// Exclude lists directory names or glob patterns to skip.
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`

	// Workers bounds concurrent per-file extraction; 0 means one per CPU.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Aliases supplements the built-in import-to-distribution table,
	// e.g. for private packages.
	Aliases map[string]string `yaml:"aliases" mapstructure:"aliases"`
}

// ExportConfig controls offline bundle creation.
type ExportConfig struct {
	// Output is the directory archives are written to.
	Output string `yaml:"output" mapstructure:"output"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Python: PythonConfig{
			Version: scanner.DefaultPythonVersion,
		},
		Scan: ScanConfig{
			Exclude: scanner.DefaultExcludes,
			Workers: 0,
		},
		Export: ExportConfig{
			Output: ".",
		},
	}
}

// ScanOptions converts the configuration into scanner options for the
// given project root.
func (c *Config) ScanOptions(root string) scanner.Options {
	return scanner.Options{
		Root:            root,
		ExcludePatterns: c.Scan.Exclude,
		PythonVersion:   c.Python.Version,
		Workers:         c.Scan.Workers,
		ExtraAliases:    c.Scan.Aliases,
	}
}
