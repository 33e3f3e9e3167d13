package scanner

import (
	"fmt"
	"strings"
)

// Resolver maps external import references to installable package
// names: alias table first, identity otherwise. It never fails on an
// unrecognized name — the installer reports a clear error if the
// identity guess is wrong.
type Resolver struct {
	extraAliases map[string]string
}

// NewResolver creates a resolver. extraAliases (from configuration)
// take precedence over the built-in table and may be nil.
func NewResolver(extraAliases map[string]string) *Resolver {
	return &Resolver{extraAliases: extraAliases}
}

// Resolve turns one External reference into a ResolvedPackage. Names
// that cannot be a distribution at all (single character, leading
// underscore) are dropped with a warning; other unknown names resolve
// by identity.
func (r *Resolver) Resolve(ref ImportRef) (ResolvedPackage, []Diagnostic, bool) {
	if len(ref.Module) <= 1 || strings.HasPrefix(ref.Module, "_") {
		return ResolvedPackage{}, []Diagnostic{{
			File:     ref.File,
			Line:     ref.Line,
			Message:  fmt.Sprintf("import %q does not look like an installable package; skipped", ref.Module),
			Severity: SeverityWarning,
		}}, false
	}

	if name, ok := r.extraAliases[ref.Module]; ok {
		return ResolvedPackage{Name: name, Constraint: ref.Constraint, Refs: []ImportRef{ref}}, nil, true
	}
	if name, ok := LookupAlias(ref.Module); ok {
		return ResolvedPackage{Name: name, Constraint: ref.Constraint, Refs: []ImportRef{ref}}, nil, true
	}

	return ResolvedPackage{Name: ref.Module, Constraint: ref.Constraint, Refs: []ImportRef{ref}}, nil, true
}
