package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pywand/pywand/internal/scanner"
)

const setupSh = `#!/bin/sh
# Recreates the project environment on this machine.
set -e

if ! command -v uv >/dev/null 2>&1; then
    echo "uv is required: https://docs.astral.sh/uv/getting-started/installation/" >&2
    exit 1
fi

uv venv .venv%s
uv pip install -r requirements.txt --python .venv/bin/python

echo "Environment ready. Activate with: . .venv/bin/activate"
`

const setupBat = `@echo off
rem Recreates the project environment on this machine.

where uv >nul 2>nul
if errorlevel 1 (
    echo uv is required: https://docs.astral.sh/uv/getting-started/installation/
    exit /b 1
)

uv venv .venv%s
if errorlevel 1 exit /b 1
uv pip install -r requirements.txt --python .venv\Scripts\python.exe
if errorlevel 1 exit /b 1

echo Environment ready. Activate with: .venv\Scripts\activate.bat
`

// writeSetupScripts writes POSIX and Windows setup scripts into the
// staging directory.
func writeSetupScripts(staging, pythonVersion string) error {
	versionFlag := ""
	if pythonVersion != "" {
		versionFlag = " --python=" + pythonVersion
	}

	shPath := filepath.Join(staging, "setup.sh")
	if err := os.WriteFile(shPath, []byte(fmt.Sprintf(setupSh, versionFlag)), 0o755); err != nil {
		return fmt.Errorf("failed to write setup.sh: %w", err)
	}

	batPath := filepath.Join(staging, "setup.bat")
	if err := os.WriteFile(batPath, []byte(fmt.Sprintf(setupBat, versionFlag)), 0o644); err != nil {
		return fmt.Errorf("failed to write setup.bat: %w", err)
	}
	return nil
}

// writeReadme writes a short bundle README listing contents and setup
// instructions.
func writeReadme(staging, projectName string, manifest *scanner.Manifest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", projectName)
	b.WriteString("Portable project bundle.\n\n")
	b.WriteString("## Contents\n\n")
	b.WriteString("- `src/` — project sources\n")
	b.WriteString("- `requirements.txt` — pinned dependencies\n")
	b.WriteString("- `setup.sh` / `setup.bat` — environment setup\n\n")
	b.WriteString("## Setup\n\n")
	b.WriteString("Run `./setup.sh` (Linux/macOS) or `setup.bat` (Windows).\n")

	if len(manifest.Packages) > 0 {
		b.WriteString("\n## Dependencies\n\n")
		for _, pkg := range manifest.Packages {
			fmt.Fprintf(&b, "- %s%s\n", pkg.Name, pkg.Constraint)
		}
	}

	path := filepath.Join(staging, "README.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write README.md: %w", err)
	}
	return nil
}
