package grammar

import (
	"strings"

	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

func javaSpec() *langSpec {
	return &langSpec{
		info: syntax.LanguageInfo{
			Name:          "Java",
			Extensions:    []string{".java"},
			ParserVersion: "tree-sitter-java 0.23.5",
		},
		language: tree_sitter_java.Language,
		comments: CommentSyntax{
			Line:   []string{"//"},
			Block:  []BlockComment{cBlock},
			Quotes: []Quote{tripleDouble, doubleQuote, singleQuote},
		},
		branches: kinds(
			"if_statement",
			"for_statement",
			"enhanced_for_statement",
			"while_statement",
			"do_statement",
			"switch_label",
			"catch_clause",
			"ternary_expression",
			"&&", "||",
		),
		style:  skeleton.BraceStyle,
		deps:   javaDependencies,
		export: javaExport,
		decl:   javaDeclaration,
		public: javaPublic,
	}
}

func javaDependencies(t *syntax.Tree, n *syntax.Node) []syntax.Dependency {
	if n.Kind != "import_declaration" {
		return nil
	}
	// import static a.b.C.*;  ->  a.b.C.*
	spec := strings.TrimSpace(t.Text(n))
	spec = strings.TrimSuffix(spec, ";")
	spec = strings.TrimSpace(strings.TrimPrefix(spec, "import"))
	if rest, ok := strings.CutPrefix(spec, "static"); ok {
		spec = rest
	}
	return dependency(syntax.DependencyImport, strings.Join(strings.Fields(spec), ""), n)
}

func javaExport(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol {
	var kind syntax.SymbolKind
	name := nameOf(t, n)
	switch n.Kind {
	case "class_declaration", "record_declaration":
		kind = syntax.SymbolKindClass
	case "interface_declaration", "annotation_type_declaration":
		kind = syntax.SymbolKindInterface
	case "enum_declaration":
		kind = syntax.SymbolKindEnum
	case "method_declaration", "constructor_declaration":
		kind = syntax.SymbolKindMethod
	case "field_declaration", "constant_declaration":
		if declarator := n.ChildByField("declarator"); declarator != nil {
			name = nameOf(t, declarator)
		}
		kind = syntax.SymbolKindVariable
		mods := n.ChildOfKind("modifiers")
		if n.Kind == "constant_declaration" || (hasModifier(t, mods, "static") && hasModifier(t, mods, "final")) {
			kind = syntax.SymbolKindConstant
		}
	default:
		return nil
	}

	if name == "" || !javaPublic(t, n, parents) {
		return nil
	}
	return []syntax.ExportedSymbol{symbol(name, kind, n)}
}

func javaDeclaration(_ *syntax.Tree, n *syntax.Node) (skeleton.Decl, bool) {
	switch n.Kind {
	case "package_declaration", "import_declaration",
		"field_declaration", "constant_declaration",
		"enum_declaration", "annotation_type_declaration":
		return verbatim(n)
	case "method_declaration", "constructor_declaration":
		return elided(n, n.ChildByField("body"))
	case "class_declaration", "interface_declaration", "record_declaration":
		return container(n, n.ChildByField("body"))
	}
	return skeleton.Decl{}, false
}

// javaPublic requires the declaration and every enclosing type to be public.
// Interface members are implicitly public.
func javaPublic(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool {
	switch n.Kind {
	case "package_declaration", "import_declaration":
		return false
	}

	parent := parents.Of(n)
	if parent == nil {
		return false
	}
	implicit := parent.Kind == "interface_body" || parent.Kind == "annotation_type_body"
	if !implicit && !hasModifier(t, n.ChildOfKind("modifiers"), "public") {
		return false
	}

	switch parent.Kind {
	case syntax.RootKind:
		return true
	case "class_body", "interface_body", "annotation_type_body":
		owner := parents.Of(parent)
		return owner != nil && javaPublic(t, owner, parents)
	case "enum_body_declarations":
		body := parents.Of(parent)
		if body == nil {
			return false
		}
		owner := parents.Of(body)
		return owner != nil && javaPublic(t, owner, parents)
	}
	return false
}
