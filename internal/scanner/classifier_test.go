package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for Classifier:
// - Stdlib modules -> ClassStandardLibrary
// - Project-local files and packages -> ClassProjectLocal
// - Everything else -> ClassExternal
// - Relative references -> ClassProjectLocal
// - Stdlib wins when a project module shadows a stdlib name

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	local := map[string]struct{}{
		"utils": {},
		"mylib": {},
		"json":  {}, // shadows the stdlib module
	}
	c := NewClassifier(StdlibFor("3.12"), local)

	tests := []struct {
		module string
		want   Classification
	}{
		{"os", ClassStandardLibrary},
		{"json", ClassStandardLibrary}, // shadow: stdlib takes precedence
		{"utils", ClassProjectLocal},
		{"mylib", ClassProjectLocal},
		{".helpers", ClassProjectLocal},
		{"..core", ClassProjectLocal},
		{"requests", ClassExternal},
		{"numpy", ClassExternal},
	}

	for _, tt := range tests {
		got := c.Classify(ImportRef{Module: tt.module})
		assert.Equal(t, tt.want, got, "Classify(%q)", tt.module)
	}
}

func TestClassifier_VersionDependentStdlib(t *testing.T) {
	t.Parallel()

	none := map[string]struct{}{}

	// distutils left the stdlib in 3.12.
	old := NewClassifier(StdlibFor("3.11"), none)
	assert.Equal(t, ClassStandardLibrary, old.Classify(ImportRef{Module: "distutils"}))

	recent := NewClassifier(StdlibFor("3.12"), none)
	assert.Equal(t, ClassExternal, recent.Classify(ImportRef{Module: "distutils"}))
}

func TestClassificationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stdlib", ClassStandardLibrary.String())
	assert.Equal(t, "local", ClassProjectLocal.String())
	assert.Equal(t, "external", ClassExternal.String())
}
