package scanner

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ConflictError reports two mutually incompatible explicit version
// pins for the same package. It is fatal for the whole scan: the
// ambiguity must be resolved manually, never silently.
type ConflictError struct {
	Package     string
	Constraints [2]string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting version pins for %s: %q vs %q",
		e.Package, e.Constraints[0], e.Constraints[1])
}

// Builder is the single merge point of the scan pipeline. It
// deduplicates resolved packages case-insensitively, unions their
// provenance, and checks version-constraint compatibility. Safe for
// concurrent use.
type Builder struct {
	mu       sync.Mutex
	packages map[string]*ResolvedPackage // key: lowercased name
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{packages: make(map[string]*ResolvedPackage)}
}

// Add merges one resolved package into the in-progress manifest.
// Returns a *ConflictError when the entry pins the package to a version
// incompatible with an earlier pin.
func (b *Builder) Add(pkg ResolvedPackage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.ToLower(pkg.Name)
	existing, ok := b.packages[key]
	if !ok {
		entry := pkg
		entry.Refs = append([]ImportRef(nil), pkg.Refs...)
		b.packages[key] = &entry
		return nil
	}

	merged, compatible := mergeConstraints(existing.Constraint, pkg.Constraint)
	if !compatible {
		return &ConflictError{
			Package:     existing.Name,
			Constraints: [2]string{existing.Constraint, pkg.Constraint},
		}
	}
	existing.Constraint = merged
	existing.Refs = append(existing.Refs, pkg.Refs...)
	return nil
}

// Manifest finalizes the deduplicated set: packages ordered by
// case-insensitive name, provenance ordered by file then line, so
// repeated scans of an unchanged project are byte-identical.
func (b *Builder) Manifest() *Manifest {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := &Manifest{Packages: make([]ResolvedPackage, 0, len(b.packages))}
	for _, pkg := range b.packages {
		entry := *pkg
		sort.Slice(entry.Refs, func(i, j int) bool {
			if entry.Refs[i].File != entry.Refs[j].File {
				return entry.Refs[i].File < entry.Refs[j].File
			}
			return entry.Refs[i].Line < entry.Refs[j].Line
		})
		m.Packages = append(m.Packages, entry)
	}
	sort.Slice(m.Packages, func(i, j int) bool {
		return strings.ToLower(m.Packages[i].Name) < strings.ToLower(m.Packages[j].Name)
	})
	return m
}

// mergeConstraints combines two constraint strings. An absent
// constraint is compatible with anything; equal constraints merge to
// themselves; two different exact pins are incompatible; anything else
// joins with a comma (pip's conjunction semantics).
func mergeConstraints(a, b string) (merged string, compatible bool) {
	switch {
	case a == "":
		return b, true
	case b == "" || a == b:
		return a, true
	}
	if isExactPin(a) && isExactPin(b) {
		return "", false
	}
	return a + "," + b, true
}

// isExactPin reports whether a constraint is a single "==" pin.
func isExactPin(c string) bool {
	return strings.HasPrefix(c, "==") && !strings.Contains(c, ",")
}

// Requirements renders the manifest in requirements.txt format, one
// package per line in manifest order.
func (m *Manifest) Requirements() string {
	var sb strings.Builder
	for _, pkg := range m.Packages {
		sb.WriteString(pkg.Name)
		sb.WriteString(pkg.Constraint)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PackageNames returns the manifest's package names in order.
func (m *Manifest) PackageNames() []string {
	names := make([]string, len(m.Packages))
	for i, pkg := range m.Packages {
		names[i] = pkg.Name
	}
	return names
}
