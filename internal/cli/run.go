package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pywand/pywand/internal/pyenv"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script.py> [args...]",
	Short: "Run a Python script in the project environment",
	Long: `Run executes a Python script through uv using the project's virtual
environment. Arguments after the script name are passed through.

Examples:
  pywand run main.py
  pywand run tools/migrate.py --dry-run
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().SetInterspersed(false)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	script := args[0]
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("script %s: %w", script, err)
	}

	uv, err := pyenv.NewUvManager()
	if err != nil {
		return err
	}

	// First run in a fresh checkout: create the environment and install
	// any generated requirements before handing off to the script.
	root, err := projectRoot(nil)
	if err != nil {
		return err
	}
	venvDir := filepath.Join(root, pyenv.DefaultVenvDir)
	if _, statErr := os.Stat(venvDir); os.IsNotExist(statErr) {
		cfg, err := loadProjectConfig(root)
		if err != nil {
			return err
		}
		if err := uv.CreateVenv(ctx, venvDir, cfg.Python.Version); err != nil {
			return err
		}
		if err := uv.InstallRequirements(ctx, filepath.Join(root, "requirements.txt"), venvDir); err != nil {
			return err
		}
	}

	if err := uv.RunScript(ctx, script, args[1:]); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", filepath.Base(script), err)
	}
	return nil
}
