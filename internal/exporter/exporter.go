// Package exporter builds portable project bundles: a tar.gz archive
// holding the project's Python sources, a requirements file rendered
// from a scan manifest, and setup scripts that recreate the environment
// on the target machine.
package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/pywand/pywand/internal/scanner"
)

// Options configures one export.
type Options struct {
	// ProjectRoot is the directory whose Python sources are bundled.
	ProjectRoot string

	// OutputPath is the destination archive. Empty means
	// <project>-bundle.tar.gz next to the project root.
	OutputPath string

	// Manifest supplies the external dependencies to pin in the
	// bundle's requirements file.
	Manifest *scanner.Manifest

	// PythonVersion is recorded in the setup scripts so the recreated
	// environment matches the scanned one.
	PythonVersion string

	// ExcludePatterns filters the source walk, same syntax as the
	// scanner's excludes.
	ExcludePatterns []string

	// ShowProgress enables a terminal progress bar during the copy
	// phase.
	ShowProgress bool
}

// Result describes a completed export.
type Result struct {
	ArchivePath string
	FilesCopied int
	Packages    int
}

// Export stages the bundle in a temporary directory and writes the
// final archive. The staging directory is always cleaned up.
func Export(ctx context.Context, opts Options) (*Result, error) {
	if opts.Manifest == nil {
		return nil, fmt.Errorf("export requires a dependency manifest")
	}

	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Base(root) + "-bundle.tar.gz"
	}

	excludes := opts.ExcludePatterns
	if len(excludes) == 0 {
		excludes = scanner.DefaultExcludes
	}
	discovery, err := scanner.NewFileDiscovery(root, excludes)
	if err != nil {
		return nil, err
	}
	listing, err := discovery.Discover(ctx)
	if err != nil {
		return nil, err
	}

	staging := filepath.Join(os.TempDir(), "pywand-export-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := copySources(ctx, root, staging, listing.Files, opts.ShowProgress); err != nil {
		return nil, err
	}

	reqPath := filepath.Join(staging, "requirements.txt")
	if err := os.WriteFile(reqPath, []byte(opts.Manifest.Requirements()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write requirements.txt: %w", err)
	}

	if err := writeSetupScripts(staging, opts.PythonVersion); err != nil {
		return nil, err
	}
	if err := writeReadme(staging, filepath.Base(root), opts.Manifest); err != nil {
		return nil, err
	}

	if err := writeTarGz(ctx, outputPath, staging); err != nil {
		return nil, err
	}

	return &Result{
		ArchivePath: outputPath,
		FilesCopied: len(listing.Files),
		Packages:    len(opts.Manifest.Packages),
	}, nil
}

// copySources copies the discovered sources into staging/src, keeping
// their root-relative layout.
func copySources(ctx context.Context, root, staging string, files []string, showProgress bool) error {
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Copying sources"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(root, filepath.FromSlash(rel))
		dst := filepath.Join(staging, "src", filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
