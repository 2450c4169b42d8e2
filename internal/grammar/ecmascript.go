package grammar

import (
	"strings"

	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// TypeScript and JavaScript share node kinds for everything the engine
// looks at, so both specs use the same rule functions.

var ecmaComments = CommentSyntax{
	Line:   []string{"//"},
	Block:  []BlockComment{cBlock},
	Quotes: []Quote{doubleQuote, singleQuote, {Open: "`", Close: "`", Multiline: true}},
}

var ecmaBranches = kinds(
	"if_statement",
	"for_statement",
	"for_in_statement",
	"while_statement",
	"do_statement",
	"switch_case",
	"catch_clause",
	"ternary_expression",
	"&&", "||", "??",
)

func typescriptSpec() *langSpec {
	return &langSpec{
		info: syntax.LanguageInfo{
			Name:          "TypeScript",
			Extensions:    []string{".ts", ".mts", ".cts"},
			ParserVersion: "tree-sitter-typescript 0.23.2",
		},
		language: tree_sitter_typescript.LanguageTypescript,
		comments: ecmaComments,
		branches: ecmaBranches,
		style:    skeleton.BraceStyle,
		deps:     ecmaDependencies,
		export:   ecmaExport,
		decl:     ecmaDeclaration,
		public:   ecmaPublic,
	}
}

// tsxSpec covers TypeScript with JSX. The plain TypeScript grammar rejects
// JSX elements, and the TSX grammar rejects <T>x type assertions, so each
// extension keeps its own grammar.
func tsxSpec() *langSpec {
	s := typescriptSpec()
	s.info = syntax.LanguageInfo{
		Name:          "TSX",
		Extensions:    []string{".tsx"},
		ParserVersion: "tree-sitter-typescript 0.23.2",
	}
	s.language = tree_sitter_typescript.LanguageTSX
	return s
}

func javascriptSpec() *langSpec {
	return &langSpec{
		info: syntax.LanguageInfo{
			Name:          "JavaScript",
			Extensions:    []string{".js", ".jsx", ".mjs"},
			ParserVersion: "tree-sitter-javascript 0.23.1",
		},
		language: tree_sitter_javascript.Language,
		comments: ecmaComments,
		branches: ecmaBranches,
		style:    skeleton.BraceStyle,
		deps:     ecmaDependencies,
		export:   ecmaExport,
		decl:     ecmaDeclaration,
		public:   ecmaPublic,
	}
}

func ecmaDependencies(t *syntax.Tree, n *syntax.Node) []syntax.Dependency {
	switch n.Kind {
	case "import_statement":
		if src := n.ChildByField("source"); src != nil {
			return dependency(syntax.DependencyImport, unquote(t.Text(src)), n)
		}
	case "export_statement":
		if src := n.ChildByField("source"); src != nil {
			return dependency(syntax.DependencyReexport, unquote(t.Text(src)), n)
		}
	case "import_require_clause":
		// import fs = require("fs")
		if src := n.ChildByField("source"); src != nil {
			return dependency(syntax.DependencyRequire, unquote(t.Text(src)), n)
		}
	case "call_expression":
		fn := n.ChildByField("function")
		if fn == nil {
			return nil
		}
		var kind syntax.DependencyKind
		switch {
		case fn.Kind == "import":
			kind = syntax.DependencyDynamicImport
		case fn.Kind == "identifier" && t.Text(fn) == "require":
			kind = syntax.DependencyRequire
		default:
			return nil
		}
		// Only literal specifiers are facts; computed ones are skipped.
		if args := n.ChildByField("arguments"); args != nil {
			if lit := args.ChildOfKind("string"); lit != nil {
				return dependency(kind, unquote(t.Text(lit)), n)
			}
		}
	}
	return nil
}

func ecmaExport(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol {
	var kind syntax.SymbolKind
	name := nameOf(t, n)
	switch n.Kind {
	case "function_declaration", "generator_function_declaration", "function_signature":
		kind = syntax.SymbolKindFunction
	case "class_declaration", "abstract_class_declaration":
		kind = syntax.SymbolKindClass
	case "interface_declaration":
		kind = syntax.SymbolKindInterface
	case "type_alias_declaration":
		kind = syntax.SymbolKindType
	case "enum_declaration":
		kind = syntax.SymbolKindEnum
	case "internal_module", "module":
		kind = syntax.SymbolKindModule
	case "method_definition", "method_signature", "abstract_method_signature":
		kind = syntax.SymbolKindMethod
	case "variable_declarator":
		decl := parents.Of(n)
		if decl == nil || !ecmaPublic(t, decl, parents) {
			return nil
		}
		nameNode := n.ChildByField("name")
		if nameNode == nil || nameNode.Kind != "identifier" {
			// Destructuring patterns export several names; skipped.
			return nil
		}
		kind = syntax.SymbolKindVariable
		if value := n.ChildByField("value"); value != nil && isFunctionValue(value) {
			kind = syntax.SymbolKindFunction
		} else if strings.HasPrefix(t.Text(decl), "const") {
			kind = syntax.SymbolKindConstant
		}
		return []syntax.ExportedSymbol{symbol(t.Text(nameNode), kind, n)}
	case "export_statement":
		// export default <expression>
		if n.ChildByField("value") == nil {
			return nil
		}
		return []syntax.ExportedSymbol{symbol("default", syntax.SymbolKindVariable, n)}
	default:
		return nil
	}

	if name == "" || !ecmaPublic(t, n, parents) {
		return nil
	}
	return []syntax.ExportedSymbol{symbol(name, kind, n)}
}

func isFunctionValue(n *syntax.Node) bool {
	switch n.Kind {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

func ecmaDeclaration(t *syntax.Tree, n *syntax.Node) (skeleton.Decl, bool) {
	switch n.Kind {
	case "import_statement", "interface_declaration", "type_alias_declaration",
		"enum_declaration", "ambient_declaration", "function_signature",
		"method_signature", "abstract_method_signature",
		"public_field_definition", "field_definition":
		return verbatim(n)
	case "export_statement":
		if inner := n.ChildByField("declaration"); inner != nil {
			return ecmaDeclaration(t, inner)
		}
		return verbatim(n)
	case "function_declaration", "generator_function_declaration", "method_definition":
		return elided(n, n.ChildByField("body"))
	case "class_declaration", "abstract_class_declaration":
		return container(n, n.ChildByField("body"))
	case "internal_module", "module":
		return container(n, n.ChildByField("body"))
	case "lexical_declaration", "variable_declaration":
		declarators := 0
		var value *syntax.Node
		for _, c := range n.Children {
			if c.Kind == "variable_declarator" {
				declarators++
				value = c.ChildByField("value")
			}
		}
		if declarators != 1 || value == nil {
			return verbatim(n)
		}
		switch {
		case isFunctionValue(value):
			return elided(n, value.ChildByField("body"))
		case value.Kind == "object" || value.Kind == "array":
			return elided(n, value)
		}
		return verbatim(n)
	}
	return skeleton.Decl{}, false
}

func ecmaPublic(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool {
	switch n.Kind {
	case "import_statement":
		return false
	case "export_statement":
		return ecmaExported(t, n, parents)
	}

	parent := parents.Of(n)
	if parent == nil {
		return false
	}
	switch parent.Kind {
	case "export_statement":
		return ecmaExported(t, parent, parents)
	case "class_body", "interface_body", "object_type":
		owner := parents.Of(parent)
		if owner == nil || !ecmaPublic(t, owner, parents) {
			return false
		}
		if nameNode := n.ChildByField("name"); nameNode != nil && nameNode.Kind == "private_property_identifier" {
			return false
		}
		if mod := n.ChildOfKind("accessibility_modifier"); mod != nil {
			return t.Text(mod) == "public"
		}
		return true
	}
	return false
}

// ecmaExported checks that an export statement sits at module level or in
// the body of an exported namespace.
func ecmaExported(t *syntax.Tree, export *syntax.Node, parents syntax.Parents) bool {
	parent := parents.Of(export)
	if parent == nil {
		return false
	}
	if parent.Kind == syntax.RootKind {
		return true
	}
	if parent.Kind != "statement_block" {
		return false
	}
	owner := parents.Of(parent)
	return owner != nil && (owner.Kind == "internal_module" || owner.Kind == "module") &&
		ecmaPublic(t, owner, parents)
}
