package scanner

import "strings"

// Classifier assigns a Classification to each import reference using
// the standard-library registry for the configured runtime and the
// project's own top-level module names.
type Classifier struct {
	stdlib       *StdlibRegistry
	localModules map[string]struct{}
}

// NewClassifier builds a classifier for one scan. localModules comes
// from the discovery listing and is not mutated.
func NewClassifier(stdlib *StdlibRegistry, localModules map[string]struct{}) *Classifier {
	return &Classifier{stdlib: stdlib, localModules: localModules}
}

// Classify labels one reference. The stdlib check runs before the
// project-local check: a project module shadowing a stdlib name is
// skipped as standard, since it cannot be installed either way and
// resolves to the standard module at runtime.
func (c *Classifier) Classify(ref ImportRef) Classification {
	if strings.HasPrefix(ref.Module, ".") {
		return ClassProjectLocal
	}
	if c.stdlib.Contains(ref.Module) {
		return ClassStandardLibrary
	}
	if _, ok := c.localModules[ref.Module]; ok {
		return ClassProjectLocal
	}
	return ClassExternal
}
