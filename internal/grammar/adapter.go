// Package grammar implements the pluggable per-language grammar adapters.
// Every adapter turns raw text into a language-neutral syntax tree and
// supplies the tables the engine and skeleton extractor need: comment and
// string delimiters, branching constructs, dependency and export rules, and
// declaration visibility.
package grammar

import (
	"context"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// Adapter is the unit a language plugs in through. Implementations must be
// deterministic and safe for concurrent use; Parse must return a
// best-effort tree with diagnostics for malformed input instead of failing.
type Adapter interface {
	// Info describes the language for capability discovery.
	Info() syntax.LanguageInfo

	// Comments returns the comment and string delimiters used to classify
	// physical lines.
	Comments() CommentSyntax

	// Parse builds the syntax tree for source.
	Parse(ctx context.Context, source []byte) (*syntax.Tree, error)

	// IsBranch reports whether n adds an execution path (conditionals,
	// loops, short-circuit operators, exception handlers).
	IsBranch(n *syntax.Node) bool

	// Dependencies returns the dependency facts declared directly by n.
	Dependencies(t *syntax.Tree, n *syntax.Node) []syntax.Dependency

	// Exports returns the symbols n exports when n is a public
	// declaration. A declaration can introduce several names (Go's
	// "const A, B = 1, 2"). parents covers n's ancestors.
	Exports(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol

	skeleton.Rules
}

// Options tune adapters built by Builtin.
type Options struct {
	// TextLimit is the largest span, in bytes, whose text is copied into a
	// non-leaf node. Leaves always carry their text.
	TextLimit int
}

// DefaultTextLimit is used when Options.TextLimit is zero.
const DefaultTextLimit = 256

// Builtin returns the compiled-in adapters in registration order.
func Builtin(opts Options) []Adapter {
	if opts.TextLimit <= 0 {
		opts.TextLimit = DefaultTextLimit
	}
	specs := []*langSpec{
		typescriptSpec(),
		tsxSpec(),
		javascriptSpec(),
		pythonSpec(),
		rustSpec(),
		goSpec(),
		javaSpec(),
	}
	adapters := make([]Adapter, 0, len(specs))
	for _, s := range specs {
		adapters = append(adapters, newTreeSitterAdapter(s, opts))
	}
	return adapters
}
