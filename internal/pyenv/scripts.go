package pyenv

import (
	"fmt"
	"os"
	"path/filepath"
)

const activateSh = `#!/bin/sh
# Convenience wrapper for the project virtual environment.
# Usage: . ./activate.sh
. "%s/bin/activate"
`

const activateBat = `@echo off
rem Convenience wrapper for the project virtual environment.
call "%s\Scripts\activate.bat"
`

// WriteActivationScripts writes activate.sh and activate.bat next to
// the virtual environment so users on either platform can source the
// environment without remembering the venv layout.
func WriteActivationScripts(projectDir, venvDir string) error {
	shPath := filepath.Join(projectDir, "activate.sh")
	if err := os.WriteFile(shPath, []byte(fmt.Sprintf(activateSh, venvDir)), 0o755); err != nil {
		return fmt.Errorf("failed to write %s: %w", shPath, err)
	}

	batPath := filepath.Join(projectDir, "activate.bat")
	if err := os.WriteFile(batPath, []byte(fmt.Sprintf(activateBat, venvDir)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", batPath, err)
	}
	return nil
}
