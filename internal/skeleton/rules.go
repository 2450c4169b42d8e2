package skeleton

import "github.com/dusk-indust/archparse/internal/syntax"

// Decl describes a declaration-level node retained in a skeleton.
type Decl struct {
	// Node is the declaration itself. It may sit inside the node being
	// rendered (export wrappers, decorators); rendering always starts at the
	// outer node so modifiers are kept.
	Node *syntax.Node

	// Body is the part of the declaration replaced by the elision marker.
	// A nil Body renders the declaration verbatim.
	Body *syntax.Node

	// Members marks Body as a container (class body, impl block) whose
	// declarations are listed instead of elided.
	Members bool
}

// Style controls how a language's skeleton lines are rendered.
type Style struct {
	Elision string // appended to a header whose body was dropped
	Open    string // appended to a container header
	Close   string // line closing a container; empty for indentation-scoped languages
	Indent  string
}

// BraceStyle is shared by the C-family languages.
var BraceStyle = Style{Elision: " { ... }", Open: " {", Close: "}", Indent: "    "}

// Rules are the language-specific decisions the extractor defers to. They
// are supplied by the grammar adapter of the file's language.
type Rules interface {
	// Declaration reports whether n is a declaration to retain.
	Declaration(t *syntax.Tree, n *syntax.Node) (Decl, bool)

	// IsPublic reports whether the declaration n belongs to the public API.
	IsPublic(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool

	// Style returns the rendering style of the language.
	Style() Style
}
