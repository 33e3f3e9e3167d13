package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pywand/pywand/internal/pyenv"
)

var (
	setupQuietFlag  bool
	setupVenvFlag   string
	setupPythonFlag string
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup [path]",
	Short: "Create a virtual environment and install discovered dependencies",
	Long: `Setup scans the project, creates a virtual environment with uv, and
installs every discovered external dependency into it. Each package
is installed individually so one unavailable package does not block
the rest; failures are reported at the end.

Convenience activation scripts (activate.sh, activate.bat) are
written next to the environment.

Examples:
  # Set up the current project
  pywand setup

  # Use a custom environment directory
  pywand setup --venv .env
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().BoolVarP(&setupQuietFlag, "quiet", "q", false, "Disable progress output")
	setupCmd.Flags().StringVar(&setupVenvFlag, "venv", pyenv.DefaultVenvDir, "Virtual environment directory, relative to the project root")
	setupCmd.Flags().StringVar(&setupPythonFlag, "python", "", "Python version for the environment (default from config)")
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	root, err := projectRoot(args)
	if err != nil {
		return err
	}

	result, cfg, err := runScan(ctx, root, setupQuietFlag, nil)
	if err != nil {
		return err
	}
	printDiagnostics(result, verbose)

	uv, err := pyenv.NewUvManager()
	if err != nil {
		return err
	}

	pythonVersion := setupPythonFlag
	if pythonVersion == "" {
		pythonVersion = cfg.Python.Version
	}
	if err := pyenv.ValidatePythonVersion(pythonVersion); err != nil {
		return err
	}

	venvDir := filepath.Join(root, setupVenvFlag)
	if !setupQuietFlag {
		fmt.Printf("Creating virtual environment (Python %s)...\n", pythonVersion)
	}
	if err := uv.CreateVenv(ctx, venvDir, pythonVersion); err != nil {
		return err
	}

	reqs := make([]pyenv.Requirement, 0, len(result.Manifest.Packages))
	for _, pkg := range result.Manifest.Packages {
		reqs = append(reqs, pyenv.Requirement{Name: pkg.Name, Constraint: pkg.Constraint})
	}

	if len(reqs) == 0 {
		fmt.Println("No external dependencies to install.")
	} else {
		if !setupQuietFlag {
			fmt.Printf("Installing %d packages...\n", len(reqs))
		}
		results := uv.InstallPackages(ctx, venvDir, reqs)
		failed := reportInstallResults(results)
		if failed > 0 {
			return fmt.Errorf("%d of %d packages failed to install", failed, len(results))
		}
	}

	if err := pyenv.WriteActivationScripts(root, setupVenvFlag); err != nil {
		return err
	}

	fmt.Printf("Environment ready. Activate with: . %s/bin/activate\n", setupVenvFlag)
	return nil
}

// reportInstallResults prints per-package outcomes and returns the
// failure count.
func reportInstallResults(results []pyenv.InstallResult) int {
	failed := 0
	for _, r := range results {
		switch r.Status {
		case pyenv.StatusInstalled:
			if !setupQuietFlag {
				fmt.Printf("  ✓ %s\n", r.Package)
			}
		case pyenv.StatusFailed:
			failed++
			fmt.Printf("  ✗ %s: %s\n", r.Package, r.Message)
		}
	}
	return failed
}
