package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pywand/pywand/internal/exporter"
)

var (
	exportOutputFlag string
	exportPythonFlag string
	exportQuietFlag  bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Bundle the project and its dependency list into a tar.gz archive",
	Long: `Export scans the project and packs its Python sources, a pinned
requirements.txt, and setup scripts into a single tar.gz archive.
Unpacking the archive and running setup.sh (or setup.bat) recreates
the environment on another machine.

Examples:
  # Export the current project
  pywand export

  # Choose the archive location
  pywand export -o /tmp/myproject.tar.gz
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Archive path (default <project>-bundle.tar.gz)")
	exportCmd.Flags().StringVar(&exportPythonFlag, "python", "", "Python version recorded in the bundle's setup scripts (default from config)")
	exportCmd.Flags().BoolVarP(&exportQuietFlag, "quiet", "q", false, "Disable progress output")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	root, err := projectRoot(args)
	if err != nil {
		return err
	}

	result, cfg, err := runScan(ctx, root, exportQuietFlag, nil)
	if err != nil {
		return err
	}
	printDiagnostics(result, verbose)

	// The config names an output directory; the flag names the exact
	// archive path and wins when set.
	output := exportOutputFlag
	if output == "" {
		outDir := cfg.Export.Output
		if outDir == "" {
			outDir = "."
		}
		output = filepath.Join(outDir, filepath.Base(root)+"-bundle.tar.gz")
	}

	pythonVersion := exportPythonFlag
	if pythonVersion == "" {
		pythonVersion = cfg.Python.Version
	}

	exportResult, err := exporter.Export(ctx, exporter.Options{
		ProjectRoot:     root,
		OutputPath:      output,
		Manifest:        result.Manifest,
		PythonVersion:   pythonVersion,
		ExcludePatterns: cfg.Scan.Exclude,
		ShowProgress:    !exportQuietFlag,
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("export cancelled")
		}
		return err
	}

	fmt.Printf("Exported %d files and %d packages to %s\n",
		exportResult.FilesCopied, exportResult.Packages, exportResult.ArchivePath)
	return nil
}
