package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultExcludes are directory names skipped during discovery:
// virtual environments, version-control metadata, and caches.
var DefaultExcludes = []string{
	".git",
	".hg",
	".svn",
	".venv",
	"venv",
	"env",
	"__pycache__",
	"node_modules",
	".idea",
	".vscode",
	"dist",
	"build",
	"target",
	".pytest_cache",
	".mypy_cache",
	".tox",
	".pywand",
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery enumerates Python source files under a project root,
// honoring exclusion patterns and following directory symlinks without
// looping.
type FileDiscovery struct {
	rootDir         string
	excludePatterns []compiledPattern
}

// Listing is the result of one discovery pass.
type Listing struct {
	// Files holds root-relative, slash-separated paths of all
	// discovered Python files, in walk order.
	Files []string

	// LocalModules holds the project's own top-level module names:
	// stems of root-level .py files plus every non-excluded top-level
	// directory, whether or not it contains Python files.
	LocalModules map[string]struct{}

	// Diagnostics records skipped entries (permission errors,
	// symlink cycles).
	Diagnostics []Diagnostic
}

// NewFileDiscovery compiles the exclusion patterns for the given root.
// Patterns match either a directory's base name or its root-relative
// path; plain names like "__pycache__" therefore exclude the directory
// at any depth.
func NewFileDiscovery(rootDir string, excludePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		fd.excludePatterns = append(fd.excludePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return fd, nil
}

// Discover walks the tree and returns the listing. A root that does not
// exist or is not a directory is a fatal error; unreadable entries below
// the root are recorded as warnings and skipped.
func (fd *FileDiscovery) Discover(ctx context.Context) (*Listing, error) {
	info, err := os.Stat(fd.rootDir)
	if err != nil {
		return nil, fmt.Errorf("project root %s: %w", fd.rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", fd.rootDir)
	}

	listing := &Listing{LocalModules: make(map[string]struct{})}

	// Visited canonical directory identities guard against symlink loops.
	visited := make(map[string]struct{})
	if canonical, err := filepath.EvalSymlinks(fd.rootDir); err == nil {
		visited[canonical] = struct{}{}
	}

	if err := fd.walkDir(ctx, fd.rootDir, "", visited, listing); err != nil {
		return nil, err
	}

	// Directories were collected during the walk; root-level files
	// contribute their stems.
	for _, rel := range listing.Files {
		if !strings.Contains(rel, "/") {
			listing.LocalModules[strings.TrimSuffix(rel, ".py")] = struct{}{}
		}
	}

	return listing, nil
}

// walkDir recursively enumerates dir (relPath is root-relative, "" at
// the root), appending discovered files and diagnostics to listing.
func (fd *FileDiscovery) walkDir(ctx context.Context, dir, relPath string, visited map[string]struct{}, listing *Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		listing.Diagnostics = append(listing.Diagnostics, Diagnostic{
			File:     relPath,
			Message:  fmt.Sprintf("skipping unreadable directory: %v", err),
			Severity: SeverityWarning,
		})
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		entryRel := name
		if relPath != "" {
			entryRel = relPath + "/" + name
		}
		entryAbs := filepath.Join(dir, name)

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			// Follow directory symlinks; broken links are skipped.
			target, err := os.Stat(entryAbs)
			if err != nil {
				listing.Diagnostics = append(listing.Diagnostics, Diagnostic{
					File:     entryRel,
					Message:  fmt.Sprintf("skipping broken symlink: %v", err),
					Severity: SeverityWarning,
				})
				continue
			}
			isDir = target.IsDir()
		}

		if isDir {
			if fd.excluded(name, entryRel) {
				continue
			}
			// Every top-level directory is one of the project's own
			// importable names, Python files or not: resource and data
			// directories are reached via importlib.resources.
			if relPath == "" {
				listing.LocalModules[name] = struct{}{}
			}
			canonical, err := filepath.EvalSymlinks(entryAbs)
			if err != nil {
				listing.Diagnostics = append(listing.Diagnostics, Diagnostic{
					File:     entryRel,
					Message:  fmt.Sprintf("skipping unresolvable directory: %v", err),
					Severity: SeverityWarning,
				})
				continue
			}
			if _, seen := visited[canonical]; seen {
				listing.Diagnostics = append(listing.Diagnostics, Diagnostic{
					File:     entryRel,
					Message:  "skipping already-visited directory (symlink cycle)",
					Severity: SeverityInfo,
				})
				continue
			}
			visited[canonical] = struct{}{}
			if err := fd.walkDir(ctx, entryAbs, entryRel, visited, listing); err != nil {
				return err
			}
			continue
		}

		if filepath.Ext(name) != ".py" || fd.excluded(name, entryRel) {
			continue
		}
		listing.Files = append(listing.Files, entryRel)
	}

	return nil
}

// excluded reports whether a base name or root-relative path matches any
// exclusion pattern.
func (fd *FileDiscovery) excluded(name, relPath string) bool {
	for _, cp := range fd.excludePatterns {
		if cp.glob.Match(name) || cp.glob.Match(relPath) {
			return true
		}
	}
	return false
}
