package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for config:
// - Defaults are valid and sensible
// - Config file values override defaults
// - Environment variables override the config file
// - Missing config file falls back to defaults
// - An explicit config file path loads directly and must exist
// - Malformed YAML is an error
// - Validation rejects bad versions and negative workers
// - ScanOptions conversion carries every field

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.NotEmpty(t, cfg.Python.Version)
	assert.Contains(t, cfg.Scan.Exclude, ".venv")
	assert.Contains(t, cfg.Scan.Exclude, "__pycache__")
	assert.Zero(t, cfg.Scan.Workers)
	assert.Equal(t, ".", cfg.Export.Output)
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromDir(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, Default().Python.Version, cfg.Python.Version)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("python:\n  version: \"3.9\"\n"), 0o644))

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3.9", cfg.Python.Version)

	_, err = LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := filepath.Join(root, ".pywand")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `python:
  version: "3.10"
scan:
  workers: 4
  exclude:
    - .git
    - generated
  aliases:
    internal_sdk: acme-sdk
export:
  output: bundles
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0o644))

	cfg, err := LoadConfigFromDir(root)

	require.NoError(t, err)
	assert.Equal(t, "3.10", cfg.Python.Version)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, []string{".git", "generated"}, cfg.Scan.Exclude)
	assert.Equal(t, "acme-sdk", cfg.Scan.Aliases["internal_sdk"])
	assert.Equal(t, "bundles", cfg.Export.Output)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, ".pywand")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.yml"),
		[]byte("python:\n  version: \"3.10\"\n"),
		0o644,
	))

	t.Setenv("PYWAND_PYTHON_VERSION", "3.12")

	cfg, err := LoadConfigFromDir(root)

	require.NoError(t, err)
	assert.Equal(t, "3.12", cfg.Python.Version)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := filepath.Join(root, ".pywand")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.yml"),
		[]byte("python: [unterminated\n"),
		0o644,
	))

	_, err := LoadConfigFromDir(root)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Python.Version = "not-a-version"
	require.ErrorIs(t, Validate(cfg), ErrInvalidPythonVersion)

	cfg = Default()
	cfg.Scan.Workers = -1
	require.ErrorIs(t, Validate(cfg), ErrInvalidWorkers)

	cfg = Default()
	cfg.Export.Output = ""
	require.ErrorIs(t, Validate(cfg), ErrEmptyExportOutput)

	cfg = Default()
	cfg.Python.Version = "3.11.7"
	require.NoError(t, Validate(cfg))
}

func TestScanOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Python.Version = "3.11"
	cfg.Scan.Workers = 2
	cfg.Scan.Aliases = map[string]string{"x": "y"}

	opts := cfg.ScanOptions("/proj")

	assert.Equal(t, "/proj", opts.Root)
	assert.Equal(t, "3.11", opts.PythonVersion)
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, cfg.Scan.Exclude, opts.ExcludePatterns)
	assert.Equal(t, "y", opts.ExtraAliases["x"])
}
