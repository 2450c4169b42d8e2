package grammar

import (
	"unicode"
	"unicode/utf8"

	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

func goSpec() *langSpec {
	return &langSpec{
		info: syntax.LanguageInfo{
			Name:          "Go",
			Extensions:    []string{".go"},
			ParserVersion: "tree-sitter-go 0.25.0",
		},
		language: tree_sitter_go.Language,
		comments: CommentSyntax{
			Line:  []string{"//"},
			Block: []BlockComment{cBlock},
			Quotes: []Quote{
				doubleQuote,
				singleQuote,
				{Open: "`", Close: "`", Multiline: true, Raw: true},
			},
		},
		branches: kinds(
			"if_statement",
			"for_statement",
			"expression_case",
			"type_case",
			"communication_case",
			"&&", "||",
		),
		style:  skeleton.BraceStyle,
		deps:   goDependencies,
		export: goExport,
		decl:   goDeclaration,
		public: goPublic,
	}
}

func goDependencies(t *syntax.Tree, n *syntax.Node) []syntax.Dependency {
	if n.Kind != "import_spec" {
		return nil
	}
	pathNode := n.ChildByField("path")
	if pathNode == nil {
		// Fall back to finding a string literal child.
		pathNode = n.ChildOfKind("interpreted_string_literal")
	}
	if pathNode == nil {
		return nil
	}
	return dependency(syntax.DependencyImport, unquote(t.Text(pathNode)), n)
}

func goExport(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol {
	var kind syntax.SymbolKind
	switch n.Kind {
	case "function_declaration":
		kind = syntax.SymbolKindFunction
	case "method_declaration":
		kind = syntax.SymbolKindMethod
	case "type_spec", "type_alias":
		kind = syntax.SymbolKindType
		if typeNode := n.ChildByField("type"); typeNode != nil && typeNode.Kind == "interface_type" {
			kind = syntax.SymbolKindInterface
		}
	case "const_spec":
		kind = syntax.SymbolKindConstant
	case "var_spec":
		kind = syntax.SymbolKindVariable
	default:
		return nil
	}

	if !goTopLevel(n, parents) {
		return nil
	}
	// const_spec and var_spec can declare several names at once.
	var syms []syntax.ExportedSymbol
	for _, name := range namesOf(t, n) {
		if isGoExported(name) {
			syms = append(syms, symbol(name, kind, n))
		}
	}
	return syms
}

// goTopLevel walks up past spec lists to the enclosing declaration and
// checks that it sits directly under the file root.
func goTopLevel(n *syntax.Node, parents syntax.Parents) bool {
	for p := parents.Of(n); p != nil; p = parents.Of(p) {
		switch p.Kind {
		case syntax.RootKind:
			return true
		case "type_declaration", "const_declaration", "var_declaration", "var_spec_list":
			continue
		default:
			return false
		}
	}
	return false
}

func goDeclaration(_ *syntax.Tree, n *syntax.Node) (skeleton.Decl, bool) {
	switch n.Kind {
	case "package_clause", "import_declaration",
		"type_declaration", "const_declaration", "var_declaration":
		return verbatim(n)
	case "function_declaration", "method_declaration":
		return elided(n, n.ChildByField("body"))
	}
	return skeleton.Decl{}, false
}

func goPublic(t *syntax.Tree, n *syntax.Node, _ syntax.Parents) bool {
	switch n.Kind {
	case "function_declaration", "method_declaration":
		return isGoExported(nameOf(t, n))
	case "type_declaration", "const_declaration", "var_declaration":
		for _, spec := range goSpecs(n) {
			for _, name := range namesOf(t, spec) {
				if isGoExported(name) {
					return true
				}
			}
		}
	}
	return false
}

// goSpecs returns the spec children of a grouped declaration.
func goSpecs(n *syntax.Node) []*syntax.Node {
	var specs []*syntax.Node
	for _, c := range n.Children {
		switch c.Kind {
		case "type_spec", "type_alias", "const_spec", "var_spec":
			specs = append(specs, c)
		case "var_spec_list":
			specs = append(specs, goSpecs(c)...)
		}
	}
	return specs
}

// isGoExported returns true if the first rune of name is an uppercase letter.
func isGoExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
