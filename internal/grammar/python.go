package grammar

import (
	"strings"

	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

func pythonSpec() *langSpec {
	return &langSpec{
		info: syntax.LanguageInfo{
			Name:          "Python",
			Extensions:    []string{".py", ".pyi"},
			ParserVersion: "tree-sitter-python 0.25.0",
		},
		language: tree_sitter_python.Language,
		comments: CommentSyntax{
			Line:   []string{"#"},
			Quotes: []Quote{tripleDouble, tripleSingle, doubleQuote, singleQuote},
		},
		branches: kinds(
			"if_statement",
			"elif_clause",
			"for_statement",
			"while_statement",
			"except_clause",
			"conditional_expression",
			"case_clause",
			"for_in_clause",
			"if_clause",
			"and", "or",
		),
		style:  skeleton.Style{Elision: " ...", Indent: "    "},
		deps:   pythonDependencies,
		export: pythonExport,
		decl:   pythonDeclaration,
		public: pythonPublic,
	}
}

func pythonDependencies(t *syntax.Tree, n *syntax.Node) []syntax.Dependency {
	switch n.Kind {
	case "import_statement":
		// import a.b, c as d
		var deps []syntax.Dependency
		for _, c := range n.Children {
			if c.Field != "name" {
				continue
			}
			target := c
			if c.Kind == "aliased_import" {
				target = c.ChildByField("name")
			}
			if target != nil {
				deps = append(deps, dependency(syntax.DependencyImport, t.Text(target), n)...)
			}
		}
		return deps
	case "import_from_statement":
		moduleNode := n.ChildByField("module_name")
		if moduleNode == nil {
			// Fall back: look for a dotted_name child.
			moduleNode = n.ChildOfKind("dotted_name")
		}
		if moduleNode != nil {
			return dependency(syntax.DependencyFrom, t.Text(moduleNode), n)
		}
	}
	return nil
}

func pythonExport(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol {
	var kind syntax.SymbolKind
	name := nameOf(t, n)
	switch n.Kind {
	case "function_definition":
		kind = syntax.SymbolKindFunction
		if pyEnclosingClass(n, parents) != nil {
			kind = syntax.SymbolKindMethod
		}
	case "class_definition":
		kind = syntax.SymbolKindClass
	case "assignment":
		left := n.ChildByField("left")
		stmt := parents.Of(n)
		if left == nil || left.Kind != "identifier" || stmt == nil || stmt.Kind != "expression_statement" {
			return nil
		}
		if p := parents.Of(stmt); p == nil || p.Kind != syntax.RootKind {
			return nil
		}
		name = t.Text(left)
		kind = syntax.SymbolKindVariable
		if strings.ToUpper(name) == name {
			kind = syntax.SymbolKindConstant
		}
		if !isPyExported(name) {
			return nil
		}
		return []syntax.ExportedSymbol{symbol(name, kind, stmt)}
	default:
		return nil
	}

	if !pythonPublic(t, n, parents) {
		return nil
	}
	return []syntax.ExportedSymbol{symbol(name, kind, n)}
}

func pythonDeclaration(t *syntax.Tree, n *syntax.Node) (skeleton.Decl, bool) {
	switch n.Kind {
	case "import_statement", "import_from_statement", "future_import_statement":
		return verbatim(n)
	case "function_definition":
		return elided(n, n.ChildByField("body"))
	case "class_definition":
		return container(n, n.ChildByField("body"))
	case "decorated_definition":
		inner := n.ChildByField("definition")
		if inner == nil {
			return skeleton.Decl{}, false
		}
		d, ok := pythonDeclaration(t, inner)
		return d, ok
	case "expression_statement":
		if a := n.ChildOfKind("assignment"); a != nil {
			return verbatim(n)
		}
	}
	return skeleton.Decl{}, false
}

func pythonPublic(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool {
	switch n.Kind {
	case "function_definition", "class_definition":
	case "expression_statement":
		a := n.ChildOfKind("assignment")
		if a == nil {
			return false
		}
		left := a.ChildByField("left")
		return left != nil && isPyExported(t.Text(left)) && pyTopLevel(n, parents)
	default:
		return false
	}

	if !isPyExported(nameOf(t, n)) {
		return false
	}
	if pyTopLevel(n, parents) {
		return true
	}
	if class := pyEnclosingClass(n, parents); class != nil {
		return pythonPublic(t, class, parents)
	}
	return false
}

// pyTopLevel returns true if the node is at the module top level, either
// directly or through a decorated_definition.
func pyTopLevel(n *syntax.Node, parents syntax.Parents) bool {
	parent := parents.Of(n)
	if parent == nil {
		return false
	}
	if parent.Kind == syntax.RootKind {
		return true
	}
	if parent.Kind == "decorated_definition" {
		grandparent := parents.Of(parent)
		return grandparent != nil && grandparent.Kind == syntax.RootKind
	}
	return false
}

// pyEnclosingClass returns the class whose body directly holds n.
func pyEnclosingClass(n *syntax.Node, parents syntax.Parents) *syntax.Node {
	p := parents.Of(n)
	if p != nil && p.Kind == "decorated_definition" {
		p = parents.Of(p)
	}
	if p == nil || p.Kind != "block" {
		return nil
	}
	if class := parents.Of(p); class != nil && class.Kind == "class_definition" {
		return class
	}
	return nil
}

// isPyExported treats leading-underscore names as private, except dunder
// methods, which are part of a class's protocol.
func isPyExported(name string) bool {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4 {
		return true
	}
	return name != "" && !strings.HasPrefix(name, "_")
}
