package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Extractor:
// - Plain imports, dotted imports reduced to top-level name
// - Aliased imports (import x as y)
// - from X import Y (module X is the reference, Y is not)
// - Relative imports keep their leading dot
// - Multiple imports on one statement
// - importlib.import_module / __import__ with string literals
// - Dynamic import with computed target -> info diagnostic, no reference
// - Version pin hints in trailing comments apply only to the named
//   import (directly or through its distribution alias)
// - Malformed source still yields imports (tree-sitter error recovery)
// - Invalid UTF-8 -> warning, no references

func extract(t *testing.T, source string) ([]ImportRef, []Diagnostic) {
	t.Helper()
	return NewExtractor().Extract(SourceFile{Path: "app.py", Content: []byte(source)})
}

func modules(refs []ImportRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Module
	}
	return out
}

func TestExtractor_PlainImports(t *testing.T) {
	t.Parallel()

	refs, diags := extract(t, "import os\nimport requests\nimport numpy.linalg\n")

	require.Empty(t, diags)
	assert.Equal(t, []string{"os", "requests", "numpy"}, modules(refs))
	assert.Equal(t, 2, refs[1].Line)
	assert.Equal(t, "app.py", refs[1].File)
}

func TestExtractor_AliasedImports(t *testing.T) {
	t.Parallel()

	refs, diags := extract(t, "import numpy as np\nimport pandas.core as pc\n")

	require.Empty(t, diags)
	assert.Equal(t, []string{"numpy", "pandas"}, modules(refs))
}

func TestExtractor_MultipleImportsOneStatement(t *testing.T) {
	t.Parallel()

	refs, diags := extract(t, "import os, requests, flask\n")

	require.Empty(t, diags)
	assert.Equal(t, []string{"os", "requests", "flask"}, modules(refs))
	for _, ref := range refs {
		assert.Equal(t, 1, ref.Line)
	}
}

func TestExtractor_FromImports(t *testing.T) {
	t.Parallel()

	source := `from collections import OrderedDict
from sklearn.linear_model import LinearRegression
from flask import Flask, request
`
	refs, diags := extract(t, source)

	require.Empty(t, diags)
	// Only the module after "from" matters; imported attributes are not
	// installable on their own.
	assert.Equal(t, []string{"collections", "sklearn", "flask"}, modules(refs))
}

func TestExtractor_RelativeImports(t *testing.T) {
	t.Parallel()

	refs, diags := extract(t, "from . import helpers\nfrom .utils import trim\nfrom ..core import engine\n")

	require.Empty(t, diags)
	require.Len(t, refs, 3)
	for _, ref := range refs {
		assert.True(t, ref.Module[0] == '.', "relative reference %q should keep its dot", ref.Module)
	}
}

func TestExtractor_DynamicImportLiteral(t *testing.T) {
	t.Parallel()

	source := `import importlib
mod = importlib.import_module("redis.client")
other = __import__("boto3")
`
	refs, diags := extract(t, source)

	require.Empty(t, diags)
	assert.Equal(t, []string{"importlib", "redis", "boto3"}, modules(refs))
}

func TestExtractor_DynamicImportComputed(t *testing.T) {
	t.Parallel()

	source := `import importlib
name = "requests"
mod = importlib.import_module(name)
`
	refs, diags := extract(t, source)

	assert.Equal(t, []string{"importlib"}, modules(refs))
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityInfo, diags[0].Severity)
	assert.Equal(t, 3, diags[0].Line)
	assert.Contains(t, diags[0].Message, "not a string literal")
}

func TestExtractor_VersionPins(t *testing.T) {
	t.Parallel()

	source := `import requests  # requests==2.31.0
import flask  # flask>=2.0,<3.0
import numpy
import yaml  # PyYAML==6.0.1
`
	refs, diags := extract(t, source)

	require.Empty(t, diags)
	require.Len(t, refs, 4)
	assert.Equal(t, "==2.31.0", refs[0].Constraint)
	assert.Equal(t, ">=2.0,<3.0", refs[1].Constraint)
	assert.Empty(t, refs[2].Constraint)
	// Pin on the distribution name applies through the alias table.
	assert.Equal(t, "==6.0.1", refs[3].Constraint)
}

func TestExtractor_PinNamingOtherPackageIgnored(t *testing.T) {
	t.Parallel()

	// A trailing comment pinning some unrelated package must not leak
	// onto the import it happens to share a line with.
	refs, diags := extract(t, "import requests  # urllib3>=1.26\n")

	require.Empty(t, diags)
	require.Len(t, refs, 1)
	assert.Empty(t, refs[0].Constraint)
}

func TestExtractor_PinWithMultipleImportsOnLine(t *testing.T) {
	t.Parallel()

	refs, diags := extract(t, "import flask, requests  # requests==2.31.0\n")

	require.Empty(t, diags)
	require.Len(t, refs, 2)
	assert.Empty(t, refs[0].Constraint)
	assert.Equal(t, "==2.31.0", refs[1].Constraint)
}

func TestExtractor_MalformedSource(t *testing.T) {
	t.Parallel()

	// The def line is broken, but the imports around it must survive.
	source := `import requests
def broken(:
import flask
`
	refs, _ := extract(t, source)

	assert.Contains(t, modules(refs), "requests")
	assert.Contains(t, modules(refs), "flask")
}

func TestExtractor_InvalidUTF8(t *testing.T) {
	t.Parallel()

	refs, diags := NewExtractor().Extract(SourceFile{
		Path:    "bad.py",
		Content: []byte{'i', 'm', 'p', 0xff, 0xfe, 'o', 'r', 't'},
	})

	assert.Empty(t, refs)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "UTF-8")
}

func TestExtractor_EmptyFile(t *testing.T) {
	t.Parallel()

	refs, diags := extract(t, "")

	assert.Empty(t, refs)
	assert.Empty(t, diags)
}

func TestTopLevelModule(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a", topLevelModule("a.b.c"))
	assert.Equal(t, "requests", topLevelModule("requests"))
	assert.Equal(t, ".utils", topLevelModule(".utils"))
	assert.Equal(t, "..core", topLevelModule("..core"))
}
