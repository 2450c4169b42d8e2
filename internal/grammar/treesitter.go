package grammar

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

type kindSet map[string]bool

func kinds(ks ...string) kindSet {
	set := make(kindSet, len(ks))
	for _, k := range ks {
		set[k] = true
	}
	return set
}

// langSpec is the data-driven description of one tree-sitter language. The
// per-language files fill it in; the shared adapter does the rest.
type langSpec struct {
	info     syntax.LanguageInfo
	language func() unsafe.Pointer
	comments CommentSyntax
	branches kindSet
	style    skeleton.Style

	deps   func(t *syntax.Tree, n *syntax.Node) []syntax.Dependency
	export func(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol
	decl   func(t *syntax.Tree, n *syntax.Node) (skeleton.Decl, bool)
	public func(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool
}

// treeSitterAdapter implements Adapter on top of a tree-sitter grammar. A new
// tree-sitter parser is created per Parse call, so one adapter can serve any
// number of concurrent parses.
type treeSitterAdapter struct {
	spec      *langSpec
	lang      *tree_sitter.Language
	textLimit int
}

var _ Adapter = (*treeSitterAdapter)(nil)

func newTreeSitterAdapter(spec *langSpec, opts Options) *treeSitterAdapter {
	return &treeSitterAdapter{
		spec:      spec,
		lang:      tree_sitter.NewLanguage(spec.language()),
		textLimit: opts.TextLimit,
	}
}

func (a *treeSitterAdapter) Info() syntax.LanguageInfo {
	info := a.spec.info
	info.Extensions = append([]string(nil), info.Extensions...)
	return info
}

func (a *treeSitterAdapter) Comments() CommentSyntax { return a.spec.comments }

func (a *treeSitterAdapter) Style() skeleton.Style { return a.spec.style }

func (a *treeSitterAdapter) IsBranch(n *syntax.Node) bool {
	return a.spec.branches[n.Kind]
}

func (a *treeSitterAdapter) Dependencies(t *syntax.Tree, n *syntax.Node) []syntax.Dependency {
	if a.spec.deps == nil {
		return nil
	}
	return a.spec.deps(t, n)
}

func (a *treeSitterAdapter) Exports(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol {
	if a.spec.export == nil {
		return nil
	}
	return a.spec.export(t, n, parents)
}

func (a *treeSitterAdapter) Declaration(t *syntax.Tree, n *syntax.Node) (skeleton.Decl, bool) {
	if a.spec.decl == nil {
		return skeleton.Decl{}, false
	}
	return a.spec.decl(t, n)
}

func (a *treeSitterAdapter) IsPublic(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool {
	if a.spec.public == nil {
		return false
	}
	return a.spec.public(t, n, parents)
}

// Parse runs the grammar over source and converts the result into the
// neutral tree. Syntax errors never fail the call; they surface as
// diagnostics next to the best-effort tree.
func (a *treeSitterAdapter) Parse(ctx context.Context, source []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(a.lang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", a.spec.info.Name, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &syntax.Error{Kind: syntax.ErrSyntax, Message: "grammar produced no tree"}
	}
	defer tree.Close()

	// Parsing is not interruptible; a parse that finished after cancellation
	// is discarded here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &builder{source: source, textLimit: a.textLimit}
	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	root := b.build(cursor, "")
	root.Kind = syntax.RootKind
	// The root always covers the whole file, including leading and
	// trailing trivia the grammar leaves outside its first and last token.
	root.StartLine, root.StartCol, root.StartByte = 0, 0, 0
	root.EndLine, root.EndCol = endPosition(source)
	root.EndByte = uint32(len(source))
	root.Text = ""
	b.setText(root)

	return &syntax.Tree{Root: root, Source: source, Diagnostics: b.diagnostics}, nil
}

// builder converts a tree-sitter tree into syntax.Node values. Named nodes
// and field-bearing anonymous tokens (operators) are kept; punctuation is
// dropped.
type builder struct {
	source      []byte
	textLimit   int
	diagnostics []syntax.Diagnostic
}

func (b *builder) build(cursor *tree_sitter.TreeCursor, field string) *syntax.Node {
	n := cursor.Node()
	start, end := n.StartPosition(), n.EndPosition()
	out := &syntax.Node{
		Kind:      n.Kind(),
		Field:     field,
		StartLine: uint32(start.Row),
		StartCol:  uint32(start.Column),
		EndLine:   uint32(end.Row),
		EndCol:    uint32(end.Column),
		StartByte: uint32(n.StartByte()),
		EndByte:   uint32(n.EndByte()),
	}
	b.diagnose(n)

	if cursor.GotoFirstChild() {
		for {
			child := cursor.Node()
			childField := cursor.FieldName()
			if child.IsNamed() || childField != "" {
				out.Children = append(out.Children, b.build(cursor, childField))
			} else {
				b.diagnose(child)
			}
			if !cursor.GotoNextSibling() {
				break
			}
		}
		cursor.GotoParent()
	}

	b.setText(out)
	return out
}

func (b *builder) setText(n *syntax.Node) {
	size := int(n.EndByte) - int(n.StartByte)
	if size < 0 || int(n.EndByte) > len(b.source) {
		return
	}
	if len(n.Children) == 0 || size <= b.textLimit {
		n.Text = string(b.source[n.StartByte:n.EndByte])
	}
}

func (b *builder) diagnose(n *tree_sitter.Node) {
	pos := n.StartPosition()
	switch {
	case n.IsMissing():
		b.diagnostics = append(b.diagnostics, syntax.Diagnostic{
			Line:    uint32(pos.Row),
			Col:     uint32(pos.Column),
			Message: fmt.Sprintf("missing %s", n.Kind()),
		})
	case n.IsError():
		snippet := n.Utf8Text(b.source)
		if len(snippet) > 24 {
			snippet = snippet[:24]
		}
		b.diagnostics = append(b.diagnostics, syntax.Diagnostic{
			Line:    uint32(pos.Row),
			Col:     uint32(pos.Column),
			Message: fmt.Sprintf("unexpected %q", strings.TrimSpace(snippet)),
		})
	}
}

// endPosition returns the 0-based row and column just past the last byte.
func endPosition(source []byte) (uint32, uint32) {
	row := bytes.Count(source, []byte{'\n'})
	col := len(source) - (bytes.LastIndexByte(source, '\n') + 1)
	return uint32(row), uint32(col)
}
