package scanner

import (
	"regexp"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Extractor pulls import references out of Python source. It parses
// with tree-sitter, which tolerates partial and malformed files: the
// imports around ERROR nodes are still recovered, so one corrupted file
// never blocks the rest of a scan.
type Extractor struct {
	language *sitter.Language
}

// NewExtractor creates a Python import extractor.
func NewExtractor() *Extractor {
	return &Extractor{language: sitter.NewLanguage(python.Language())}
}

// pinPattern matches a requirements-style version hint in a trailing
// comment, e.g. "# requests>=2.28" or "# PyYAML==6.0.1".
var pinPattern = regexp.MustCompile(`#\s*([A-Za-z0-9][A-Za-z0-9._-]*)\s*((?:==|>=|<=|~=|!=|>|<)[^\s#,]+(?:\s*,\s*(?:==|>=|<=|~=|!=|>|<)[^\s#,]+)*)`)

// importLinePattern is the lexical fallback for files tree-sitter
// cannot produce a tree for at all.
var importLinePattern = regexp.MustCompile(`^\s*(?:import|from)\s+([.\w]+)`)

// Extract returns the import references of one source file, in source
// order, plus any per-file diagnostics. It never fails: undecodable or
// unparseable content degrades to a diagnostic and a best-effort result.
func (e *Extractor) Extract(file SourceFile) ([]ImportRef, []Diagnostic) {
	if !utf8.Valid(file.Content) {
		return nil, []Diagnostic{{
			File:     file.Path,
			Message:  "skipping file: content is not valid UTF-8",
			Severity: SeverityWarning,
		}}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.language)

	tree := parser.Parse(file.Content, nil)
	if tree == nil {
		refs := e.extractLexical(file)
		return refs, []Diagnostic{{
			File:     file.Path,
			Message:  "file could not be parsed; imports recovered by line scan",
			Severity: SeverityWarning,
		}}
	}
	defer tree.Close()

	var refs []ImportRef
	var diags []Diagnostic

	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			refs = append(refs, e.importedNames(n, file)...)
			return false
		case "import_from_statement":
			if ref, ok := e.fromModule(n, file); ok {
				refs = append(refs, ref)
			}
			return false
		case "call":
			if ref, diag, ok := e.dynamicImport(n, file); ok {
				if diag != nil {
					diags = append(diags, *diag)
				} else {
					refs = append(refs, ref)
				}
			}
		}
		return true
	})

	e.applyPins(refs, file)
	return refs, diags
}

// importedNames handles "import a.b, x as y": every dotted name listed
// after the keyword yields one reference.
func (e *Extractor) importedNames(node *sitter.Node, file SourceFile) []ImportRef {
	var refs []ImportRef
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		var nameNode *sitter.Node
		switch child.Kind() {
		case "dotted_name":
			nameNode = child
		case "aliased_import":
			nameNode = child.ChildByFieldName("name")
		}
		if nameNode == nil {
			continue
		}
		refs = append(refs, ImportRef{
			Module: topLevelModule(nodeText(nameNode, file.Content)),
			File:   file.Path,
			Line:   int(nameNode.StartPosition().Row) + 1,
		})
	}
	return refs
}

// fromModule handles "from X import ..." and its relative forms. Only
// the module after "from" matters; imported attributes are not
// independently installable.
func (e *Extractor) fromModule(node *sitter.Node, file SourceFile) (ImportRef, bool) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return ImportRef{}, false
	}
	name := nodeText(moduleNode, file.Content)
	if name == "" {
		return ImportRef{}, false
	}
	return ImportRef{
		Module: topLevelModule(name),
		File:   file.Path,
		Line:   int(moduleNode.StartPosition().Row) + 1,
	}, true
}

// dynamicImport recognizes importlib.import_module("x") and
// __import__("x"). A string-literal target counts as a reference; a
// computed target cannot be resolved statically and only produces an
// info diagnostic.
func (e *Extractor) dynamicImport(node *sitter.Node, file SourceFile) (ImportRef, *Diagnostic, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ImportRef{}, nil, false
	}

	var callee string
	switch fn.Kind() {
	case "identifier":
		callee = nodeText(fn, file.Content)
	case "attribute":
		callee = nodeText(fn.ChildByFieldName("attribute"), file.Content)
	}
	if callee != "__import__" && callee != "import_module" {
		return ImportRef{}, nil, false
	}

	line := int(node.StartPosition().Row) + 1
	args := node.ChildByFieldName("arguments")
	if args != nil {
		for i := 0; i < int(args.ChildCount()); i++ {
			arg := args.Child(uint(i))
			if arg.Kind() != "string" {
				continue
			}
			target := strings.Trim(nodeText(arg, file.Content), `"'`)
			if target == "" {
				break
			}
			return ImportRef{
				Module: topLevelModule(target),
				File:   file.Path,
				Line:   line,
			}, nil, true
		}
	}

	return ImportRef{}, &Diagnostic{
		File:     file.Path,
		Line:     line,
		Message:  callee + " target is not a string literal; cannot be resolved statically",
		Severity: SeverityInfo,
	}, true
}

// extractLexical is the best-effort line scan used when no syntax tree
// is available.
func (e *Extractor) extractLexical(file SourceFile) []ImportRef {
	var refs []ImportRef
	for i, line := range strings.Split(string(file.Content), "\n") {
		m := importLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		refs = append(refs, ImportRef{
			Module: topLevelModule(m[1]),
			File:   file.Path,
			Line:   i + 1,
		})
	}
	e.applyPins(refs, file)
	return refs
}

// applyPins attaches requirements-style trailing-comment constraints to
// the references on the same line. A pin applies only to a reference it
// names, either by import name or by the import's known distribution
// name; a comment naming an unrelated package pins nothing.
func (e *Extractor) applyPins(refs []ImportRef, file SourceFile) {
	if len(refs) == 0 {
		return
	}

	lines := strings.Split(string(file.Content), "\n")
	byLine := make(map[int][]int)
	for i, ref := range refs {
		byLine[ref.Line] = append(byLine[ref.Line], i)
	}

	for line, idxs := range byLine {
		if line < 1 || line > len(lines) {
			continue
		}
		m := pinPattern.FindStringSubmatch(lines[line-1])
		if m == nil {
			continue
		}
		pinName, constraint := m[1], strings.ReplaceAll(m[2], " ", "")

		for _, i := range idxs {
			if pinMatches(pinName, refs[i].Module) {
				refs[i].Constraint = constraint
			}
		}
	}
}

// pinMatches reports whether a pin name targets the given module,
// either directly or through its aliased distribution name.
func pinMatches(pinName, module string) bool {
	if strings.EqualFold(pinName, module) {
		return true
	}
	if dist, ok := LookupAlias(module); ok {
		return strings.EqualFold(pinName, dist)
	}
	return false
}

// topLevelModule reduces a dotted import path to its top-level segment;
// relative imports keep their leading dots so classification can
// recognize them.
func topLevelModule(name string) string {
	if strings.HasPrefix(name, ".") {
		return name
	}
	if top, _, found := strings.Cut(name, "."); found {
		return top
	}
	return name
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor
// for each node. Returning false stops descent into that node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}
