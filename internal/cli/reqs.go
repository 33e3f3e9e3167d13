package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pywand/pywand/internal/scanner"
	"github.com/pywand/pywand/internal/watcher"
)

var (
	reqsOutputFlag string
	reqsPrintFlag  bool
	reqsQuietFlag  bool
	reqsWatchFlag  bool
)

// reqsCmd represents the reqs command
var reqsCmd = &cobra.Command{
	Use:   "reqs [path]",
	Short: "Generate requirements.txt from the project's imports",
	Long: `Reqs scans the project and writes a requirements.txt listing every
external dependency, one per line, with any version pins found in
source comments (e.g. "import requests  # requests==2.31.0").

With --watch, pywand keeps running and regenerates the file whenever
a Python source changes. Re-scans reuse cached extraction results for
unchanged files.

Examples:
  # Write requirements.txt in the project root
  pywand reqs

  # Print to stdout instead of writing a file
  pywand reqs --print

  # Keep requirements.txt up to date while editing
  pywand reqs --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReqs,
}

func init() {
	rootCmd.AddCommand(reqsCmd)
	reqsCmd.Flags().StringVarP(&reqsOutputFlag, "output", "o", "", "Output file (default <project>/requirements.txt)")
	reqsCmd.Flags().BoolVar(&reqsPrintFlag, "print", false, "Print requirements to stdout instead of writing a file")
	reqsCmd.Flags().BoolVarP(&reqsQuietFlag, "quiet", "q", false, "Disable progress output")
	reqsCmd.Flags().BoolVarP(&reqsWatchFlag, "watch", "w", false, "Watch for source changes and regenerate")
}

func runReqs(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	root, err := projectRoot(args)
	if err != nil {
		return err
	}

	if reqsWatchFlag {
		return watchReqs(ctx, root)
	}

	result, _, err := runScan(ctx, root, reqsQuietFlag, nil)
	if err != nil {
		return err
	}
	printDiagnostics(result, verbose)

	return emitRequirements(root, result)
}

// emitRequirements writes (or prints) the manifest as requirements.txt.
func emitRequirements(root string, result *scanner.Result) error {
	content := result.Manifest.Requirements()

	if reqsPrintFlag {
		fmt.Print(content)
		return nil
	}

	outPath := reqsOutputFlag
	if outPath == "" {
		outPath = filepath.Join(root, "requirements.txt")
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	if !reqsQuietFlag {
		fmt.Printf("Wrote %d packages to %s\n", len(result.Manifest.Packages), outPath)
	}
	return nil
}

// watchReqs performs an initial generation, then regenerates on every
// batch of source changes until the context is cancelled.
func watchReqs(ctx context.Context, root string) error {
	cache, err := scanner.NewExtractionCache()
	if err != nil {
		return fmt.Errorf("failed to create extraction cache: %w", err)
	}
	defer cache.Close()

	rescan := func() {
		result, _, err := runScan(ctx, root, true, cache)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("rescan failed: %v", err)
			}
			return
		}
		if err := emitRequirements(root, result); err != nil {
			log.Printf("failed to write requirements: %v", err)
			return
		}
		if !reqsQuietFlag {
			log.Printf("requirements updated: %d packages", len(result.Manifest.Packages))
		}
	}

	// Initial pass before watching.
	result, cfg, err := runScan(ctx, root, reqsQuietFlag, cache)
	if err != nil {
		return err
	}
	printDiagnostics(result, verbose)
	if err := emitRequirements(root, result); err != nil {
		return err
	}

	w, err := watcher.New(root, cfg.Scan.Exclude)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx, func([]string) { rescan() }); err != nil {
		return err
	}

	if !reqsQuietFlag {
		log.Println("Watching for changes (Ctrl+C to stop)...")
	}
	<-ctx.Done()
	return nil
}
