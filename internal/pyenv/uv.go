// Package pyenv drives the external uv package manager: virtual
// environment creation, dependency installation, and script execution.
// It consumes the manifest produced by the scanner and never assumes
// installation succeeded — per-package results are reported back.
package pyenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUvNotFound indicates no uv binary could be located.
var ErrUvNotFound = errors.New("uv not found in PATH or managed directory")

// DefaultVenvDir is where project virtual environments are created.
const DefaultVenvDir = ".venv"

// InstallStatus is the outcome of one package installation.
type InstallStatus string

const (
	StatusInstalled InstallStatus = "installed"
	StatusFailed    InstallStatus = "failed"
)

// Requirement is one package to install, with an optional version
// constraint in requirements syntax.
type Requirement struct {
	Name       string
	Constraint string
}

// String renders the requirement as a pip/uv specifier.
func (r Requirement) String() string {
	return r.Name + r.Constraint
}

// InstallResult reports one package's installation outcome for user
// display.
type InstallResult struct {
	Package string
	Status  InstallStatus
	Message string
}

// UvManager locates and invokes the uv binary.
type UvManager struct {
	binPath string
}

// NewUvManager finds uv in PATH, falling back to the managed copy
// under ~/.pywand/bin.
func NewUvManager() (*UvManager, error) {
	if path, err := exec.LookPath(uvBinaryName()); err == nil {
		return &UvManager{binPath: path}, nil
	}

	managed, err := ManagedUvPath()
	if err == nil {
		if _, statErr := os.Stat(managed); statErr == nil {
			return &UvManager{binPath: managed}, nil
		}
	}

	return nil, ErrUvNotFound
}

// NewUvManagerWithPath uses an explicit uv binary, bypassing lookup.
func NewUvManagerWithPath(path string) *UvManager {
	return &UvManager{binPath: path}
}

// Path returns the uv binary path in use.
func (m *UvManager) Path() string {
	return m.binPath
}

// ManagedUvPath returns where pywand keeps its own uv copy.
func ManagedUvPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".pywand", "bin", uvBinaryName()), nil
}

// uvBinaryName returns the platform-specific binary name.
func uvBinaryName() string {
	if runtime.GOOS == "windows" {
		return "uv.exe"
	}
	return "uv"
}

// Run executes uv with the given arguments, inheriting stdout/stderr
// so uv's own progress output reaches the user.
func (m *UvManager) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, m.binPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("uv %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// runQuiet executes uv capturing stderr for error reporting.
func (m *UvManager) runQuiet(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, m.binPath, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("uv %s: %s", strings.Join(args, " "), msg)
		}
		return fmt.Errorf("uv %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// CreateVenv creates a virtual environment with the requested Python
// version.
func (m *UvManager) CreateVenv(ctx context.Context, venvDir, pythonVersion string) error {
	args := []string{"venv", venvDir}
	if pythonVersion != "" {
		args = append(args, "--python="+pythonVersion)
	}
	return m.Run(ctx, args...)
}

// VenvPython returns the interpreter path inside a virtual environment.
func VenvPython(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(venvDir, "bin", "python")
}

// InstallRequirements installs a requirements file into the given
// environment. A missing requirements file is not an error: there is
// simply nothing to install.
func (m *UvManager) InstallRequirements(ctx context.Context, requirementsPath, venvDir string) error {
	if _, err := os.Stat(requirementsPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("requirements file %s: %w", requirementsPath, err)
	}
	return m.Run(ctx, "pip", "install", "-r", requirementsPath, "--python", VenvPython(venvDir))
}

// InstallPackages installs each requirement individually and reports
// per-package outcomes. A failed package does not stop the rest; the
// caller decides what to do with the failures.
func (m *UvManager) InstallPackages(ctx context.Context, venvDir string, reqs []Requirement) []InstallResult {
	results := make([]InstallResult, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			results = append(results, InstallResult{
				Package: req.Name,
				Status:  StatusFailed,
				Message: "cancelled",
			})
			continue
		}
		err := m.runQuiet(ctx, "pip", "install", req.String(), "--python", VenvPython(venvDir))
		if err != nil {
			results = append(results, InstallResult{
				Package: req.Name,
				Status:  StatusFailed,
				Message: err.Error(),
			})
			continue
		}
		results = append(results, InstallResult{Package: req.Name, Status: StatusInstalled, Message: "ok"})
	}
	return results
}

// RunScript executes a Python script through "uv run" so the project
// environment is used.
func (m *UvManager) RunScript(ctx context.Context, script string, args []string) error {
	runArgs := append([]string{"run", script}, args...)
	cmd := exec.CommandContext(ctx, m.binPath, runArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
