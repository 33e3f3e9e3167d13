package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Options configures a scan.
type Options struct {
	// Root is the project directory to scan. Required.
	Root string

	// ExcludePatterns are directory names or glob patterns to skip.
	// Nil means DefaultExcludes.
	ExcludePatterns []string

	// PythonVersion selects the standard-library registry variant
	// ("3.11" or "3.11.7"). Empty means DefaultPythonVersion.
	PythonVersion string

	// Workers bounds concurrent per-file extraction. Non-positive
	// means runtime.NumCPU().
	Workers int

	// ExtraAliases supplements the built-in import-to-distribution
	// alias table.
	ExtraAliases map[string]string

	// Cache, when set, memoizes per-file extraction across scans.
	Cache *ExtractionCache

	// Progress receives scan progress callbacks. Nil means no-op.
	Progress ProgressReporter
}

// Result is a completed scan: the dependency manifest plus the
// diagnostics gathered along the way.
type Result struct {
	Manifest     *Manifest
	Diagnostics  []Diagnostic
	FilesScanned int
}

// fileResult carries one file's pipeline output to the merge point.
type fileResult struct {
	path     string
	resolved []ResolvedPackage
	diags    []Diagnostic
}

// Scan runs the full discovery pipeline: walk, extract, classify,
// resolve, merge. Extraction and classification fan out across worker
// goroutines; the manifest builder is the single serialized merge
// point. Cancelling ctx aborts the scan and no manifest is returned.
func Scan(ctx context.Context, opts Options) (*Result, error) {
	progress := opts.Progress
	if progress == nil {
		progress = NoOpProgressReporter{}
	}
	excludes := opts.ExcludePatterns
	if excludes == nil {
		excludes = DefaultExcludes
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	progress.OnDiscoveryStart()
	discovery, err := NewFileDiscovery(opts.Root, excludes)
	if err != nil {
		return nil, err
	}
	listing, err := discovery.Discover(ctx)
	if err != nil {
		return nil, err
	}
	progress.OnDiscoveryComplete(len(listing.Files))

	extractor := NewExtractor()
	classifier := NewClassifier(StdlibFor(opts.PythonVersion), listing.LocalModules)
	resolver := NewResolver(opts.ExtraAliases)
	builder := NewBuilder()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan string)
	results := make(chan fileResult)

	g.Go(func() error {
		defer close(jobs)
		for _, rel := range listing.Files {
			select {
			case jobs <- rel:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for rel := range jobs {
				res := processFile(opts, extractor, classifier, resolver, rel)
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var diags []Diagnostic
	diags = append(diags, listing.Diagnostics...)

	var conflictErr error
	for res := range results {
		if conflictErr != nil {
			continue // drain after abort
		}
		diags = append(diags, res.diags...)
		for _, pkg := range res.resolved {
			if err := builder.Add(pkg); err != nil {
				conflictErr = err
				cancel()
				break
			}
		}
		progress.OnFileProcessed(res.path)
	}

	waitErr := g.Wait()
	if conflictErr != nil {
		return nil, conflictErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stable diagnostic order regardless of worker scheduling.
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Message < diags[j].Message
	})

	manifest := builder.Manifest()
	warnings := 0
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			warnings++
		}
	}
	progress.OnScanComplete(len(manifest.Packages), warnings)

	return &Result{
		Manifest:     manifest,
		Diagnostics:  diags,
		FilesScanned: len(listing.Files),
	}, nil
}

// processFile runs extraction, classification, and resolution for one
// file. Per-file failures degrade to diagnostics, never errors.
func processFile(opts Options, extractor *Extractor, classifier *Classifier, resolver *Resolver, rel string) fileResult {
	abs := filepath.Join(opts.Root, filepath.FromSlash(rel))

	var refs []ImportRef
	var diags []Diagnostic

	info, statErr := os.Stat(abs)
	cached := false
	if statErr == nil {
		refs, diags, cached = opts.Cache.get(rel, info)
	}
	if !cached {
		content, err := os.ReadFile(abs)
		if err != nil {
			return fileResult{path: rel, diags: []Diagnostic{{
				File:     rel,
				Message:  "skipping unreadable file: " + err.Error(),
				Severity: SeverityWarning,
			}}}
		}
		refs, diags = extractor.Extract(SourceFile{Path: rel, Content: content})
		if statErr == nil {
			opts.Cache.put(rel, info, refs, diags)
		}
	}

	// Copy so appends below never mutate a cached slice.
	res := fileResult{path: rel, diags: append([]Diagnostic(nil), diags...)}
	for _, ref := range refs {
		if classifier.Classify(ref) != ClassExternal {
			continue
		}
		pkg, resolveDiags, ok := resolver.Resolve(ref)
		res.diags = append(res.diags, resolveDiags...)
		if ok {
			res.resolved = append(res.resolved, pkg)
		}
	}
	return res
}
