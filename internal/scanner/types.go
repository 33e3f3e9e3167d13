// Package scanner implements dependency discovery for Python projects:
// it walks a project tree, extracts import references from each source
// file, filters out standard-library and project-local modules, and
// resolves the remaining references to installable PyPI package names.
package scanner

// SourceFile is one Python file queued for import extraction. Path is
// relative to the scanned project root.
type SourceFile struct {
	Path    string
	Content []byte
}

// ImportRef is a single import reference as written in source.
// Module holds only the top-level segment of a dotted import path
// ("a.b.c" is recorded as "a"); relative imports keep their leading dot
// so the classifier can recognize them.
type ImportRef struct {
	Module     string
	File       string // relative path of the originating file
	Line       int    // 1-based line number
	Constraint string // optional requirements-style pin from a trailing comment
}

// Classification labels an ImportRef after filtering.
type Classification int

const (
	// ClassExternal is the default: not proven local or standard.
	ClassExternal Classification = iota
	// ClassStandardLibrary means the module ships with the Python runtime.
	ClassStandardLibrary
	// ClassProjectLocal means the module is defined inside the scanned project.
	ClassProjectLocal
)

// String returns a human-readable label.
func (c Classification) String() string {
	switch c {
	case ClassStandardLibrary:
		return "stdlib"
	case ClassProjectLocal:
		return "local"
	default:
		return "external"
	}
}

// ResolvedPackage is an installable package with the references that
// produced it, kept for provenance and diagnostics.
type ResolvedPackage struct {
	Name       string
	Constraint string
	Refs       []ImportRef
}

// Manifest is the final ordered, deduplicated dependency list for one
// scan. Package names are unique (case-insensitive) and ordering is
// stable across runs on unchanged input.
type Manifest struct {
	Packages []ResolvedPackage
}

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic records a per-item condition that did not abort the scan:
// unreadable files, malformed sources, dynamic imports, low-confidence
// name resolutions.
type Diagnostic struct {
	File     string
	Line     int
	Message  string
	Severity Severity
}
