package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanQuietFlag bool

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a Python project and report its external dependencies",
	Long: `Scan walks the project tree, extracts import statements from every
Python file, and resolves external imports to installable PyPI
package names.

Standard-library imports and the project's own modules are filtered
out. Import names that differ from their distribution name (yaml,
PIL, cv2, ...) are mapped through the built-in alias table, extended
by the scan.aliases section of .pywand/config.yml.

Examples:
  # Scan the current directory
  pywand scan

  # Scan another project and show where each package is imported
  pywand scan ../other-project --verbose
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVarP(&scanQuietFlag, "quiet", "q", false, "Disable progress output")
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	root, err := projectRoot(args)
	if err != nil {
		return err
	}

	result, _, err := runScan(ctx, root, scanQuietFlag, nil)
	if err != nil {
		return err
	}

	printDiagnostics(result, verbose)

	if len(result.Manifest.Packages) == 0 {
		fmt.Printf("No external dependencies found in %d files.\n", result.FilesScanned)
		return nil
	}

	fmt.Printf("External dependencies (%d files scanned):\n", result.FilesScanned)
	for _, pkg := range result.Manifest.Packages {
		fmt.Printf("  %s%s\n", pkg.Name, pkg.Constraint)
		if verbose {
			for _, ref := range pkg.Refs {
				fmt.Printf("      %s:%d (import %s)\n", ref.File, ref.Line, ref.Module)
			}
		}
	}
	return nil
}
