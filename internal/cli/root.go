// Package cli wires the pywand commands: scanning Python projects for
// dependencies, generating requirements, provisioning environments, and
// exporting portable bundles.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pywand",
	Short: "PyWand - Python dependency discovery and environment setup",
	Long: `PyWand scans a Python project for imports, resolves them to
installable PyPI packages, and sets up a ready-to-use environment.

It distinguishes standard-library modules, the project's own modules,
and external dependencies, and knows that "import yaml" means the
PyYAML distribution.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <project>/.pywand/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// projectRoot resolves the optional positional path argument, defaulting
// to the current directory.
func projectRoot(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path %s: %w", dir, err)
	}
	return abs, nil
}
