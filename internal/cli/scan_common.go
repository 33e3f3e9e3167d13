package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pywand/pywand/internal/config"
	"github.com/pywand/pywand/internal/scanner"
)

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// loadProjectConfig loads the project configuration: the file named by
// the global --config flag when set, otherwise .pywand/config.yml under
// root. Validation happens inside the loader.
func loadProjectConfig(root string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFromFile(cfgFile)
	} else {
		cfg, err = config.LoadConfigFromDir(root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// runScan executes one scan of root with the project's configuration.
func runScan(ctx context.Context, root string, quiet bool, cache *scanner.ExtractionCache) (*scanner.Result, *config.Config, error) {
	cfg, err := loadProjectConfig(root)
	if err != nil {
		return nil, nil, err
	}

	opts := cfg.ScanOptions(root)
	opts.Cache = cache
	opts.Progress = NewCLIProgressReporter(quiet)

	result, err := scanner.Scan(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("scan cancelled")
		}
		return nil, nil, err
	}
	return result, cfg, nil
}

// printDiagnostics writes scan diagnostics to stderr, warnings first.
func printDiagnostics(result *scanner.Result, verbose bool) {
	for _, d := range result.Diagnostics {
		if d.Severity == scanner.SeverityInfo && !verbose {
			continue
		}
		if d.Line > 0 {
			fmt.Fprintf(os.Stderr, "%s: %s:%d: %s\n", d.Severity, d.File, d.Line, d.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", d.Severity, d.File, d.Message)
		}
	}
}
