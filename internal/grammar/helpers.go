package grammar

import (
	"strings"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// nameOf returns the text of n's "name" field child.
func nameOf(t *syntax.Tree, n *syntax.Node) string {
	if nameNode := n.ChildByField("name"); nameNode != nil {
		return t.Text(nameNode)
	}
	return ""
}

// namesOf returns the text of every "name" field child of n, in order.
func namesOf(t *syntax.Tree, n *syntax.Node) []string {
	var names []string
	for _, c := range n.Children {
		if c.Field == "name" {
			names = append(names, t.Text(c))
		}
	}
	return names
}

func symbol(name string, kind syntax.SymbolKind, n *syntax.Node) syntax.ExportedSymbol {
	return syntax.ExportedSymbol{Name: name, Kind: kind, Span: n.Span()}
}

func dependency(kind syntax.DependencyKind, specifier string, n *syntax.Node) []syntax.Dependency {
	if specifier == "" {
		return nil
	}
	return []syntax.Dependency{{Kind: kind, Specifier: specifier, Line: n.StartLine}}
}

// unquote strips string delimiters from a literal's text.
func unquote(s string) string {
	return strings.Trim(s, "\"'`")
}

// hasModifier reports whether a modifiers-like node lists word.
func hasModifier(t *syntax.Tree, n *syntax.Node, word string) bool {
	if n == nil {
		return false
	}
	for _, f := range strings.Fields(t.Text(n)) {
		if f == word {
			return true
		}
	}
	return false
}

// verbatim marks n as a declaration rendered without elision.
func verbatim(n *syntax.Node) (skeleton.Decl, bool) {
	return skeleton.Decl{Node: n}, true
}

// elided marks n as a declaration whose body is replaced by the elision marker.
func elided(n, body *syntax.Node) (skeleton.Decl, bool) {
	if body == nil {
		return verbatim(n)
	}
	return skeleton.Decl{Node: n, Body: body}, true
}

// container marks n as a declaration whose body lists member declarations.
func container(n, body *syntax.Node) (skeleton.Decl, bool) {
	if body == nil {
		return verbatim(n)
	}
	return skeleton.Decl{Node: n, Body: body, Members: true}, true
}
