package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Resolver:
// - Alias table maps import name to distribution name
// - Unknown names resolve by identity without diagnostics
// - Config-supplied aliases take precedence over built-ins
// - Single-char / underscore-prefixed names are dropped with a warning
// - Constraints carry through resolution

func TestResolver_AliasMapping(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	tests := map[string]string{
		"yaml":    "PyYAML",
		"PIL":     "Pillow",
		"bs4":     "beautifulsoup4",
		"sklearn": "scikit-learn",
		"cv2":     "opencv-python",
	}
	for module, want := range tests {
		pkg, diags, ok := r.Resolve(ImportRef{Module: module, File: "a.py", Line: 1})
		require.True(t, ok)
		assert.Empty(t, diags)
		assert.Equal(t, want, pkg.Name, "alias for %q", module)
	}
}

func TestResolver_IdentityFallback(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	pkg, diags, ok := r.Resolve(ImportRef{Module: "somethingobscure", File: "a.py", Line: 3})
	require.True(t, ok)
	assert.Empty(t, diags, "identity fallback is not an error")
	assert.Equal(t, "somethingobscure", pkg.Name)
}

func TestResolver_ExtraAliasesWin(t *testing.T) {
	t.Parallel()

	r := NewResolver(map[string]string{"yaml": "ruamel.yaml", "internal_sdk": "acme-sdk"})

	pkg, _, ok := r.Resolve(ImportRef{Module: "yaml"})
	require.True(t, ok)
	assert.Equal(t, "ruamel.yaml", pkg.Name)

	pkg, _, ok = r.Resolve(ImportRef{Module: "internal_sdk"})
	require.True(t, ok)
	assert.Equal(t, "acme-sdk", pkg.Name)
}

func TestResolver_DropsUninstallableNames(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	for _, module := range []string{"a", "_private", "__weird"} {
		_, diags, ok := r.Resolve(ImportRef{Module: module, File: "a.py", Line: 7})
		assert.False(t, ok, "%q should be dropped", module)
		require.Len(t, diags, 1)
		assert.Equal(t, SeverityWarning, diags[0].Severity)
		assert.Equal(t, 7, diags[0].Line)
	}
}

func TestResolver_ConstraintCarriesThrough(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	pkg, _, ok := r.Resolve(ImportRef{Module: "yaml", Constraint: "==6.0.1"})
	require.True(t, ok)
	assert.Equal(t, "PyYAML", pkg.Name)
	assert.Equal(t, "==6.0.1", pkg.Constraint)
	require.Len(t, pkg.Refs, 1)
}
