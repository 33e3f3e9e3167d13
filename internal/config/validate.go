package config

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidPythonVersion indicates an unparseable runtime version
	ErrInvalidPythonVersion = errors.New("invalid python version")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrEmptyExportOutput indicates a missing export output directory
	ErrEmptyExportOutput = errors.New("empty export output directory")
)

// versionPattern accepts "3", "3.11", or "3.11.7".
var versionPattern = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Python.Version != "" && !versionPattern.MatchString(cfg.Python.Version) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPythonVersion, cfg.Python.Version))
	}
	if cfg.Scan.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Scan.Workers))
	}
	if cfg.Export.Output == "" {
		errs = append(errs, ErrEmptyExportOutput)
	}

	return errors.Join(errs...)
}
