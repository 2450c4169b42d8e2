// Package engine turns one ParseRequest into a ParseResponse: it resolves
// the language, runs the grammar adapter, classifies lines, counts
// complexity and collects dependency and export facts in a single walk.
//
// The engine is stateless per call and safe for concurrent use. It never
// returns an error; every failure is reported on the Response.
package engine

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"lukechampine.com/blake3"

	"github.com/dusk-indust/archparse/internal/grammar"
	"github.com/dusk-indust/archparse/internal/registry"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// Options tune an Engine.
type Options struct {
	// StrictSyntax reports the first diagnostic as a SyntaxError on the
	// response. The best-effort tree and metrics stay attached.
	StrictSyntax bool
}

// Engine parses requests against a language registry.
type Engine struct {
	reg    *registry.Registry
	strict bool
}

// New creates an Engine. A nil registry means registry.Default().
func New(reg *registry.Registry, opts Options) *Engine {
	if reg == nil {
		reg = registry.Default()
	}
	return &Engine{reg: reg, strict: opts.StrictSyntax}
}

// Registry returns the registry the engine resolves languages against.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Parse runs the full pipeline for req. Panics inside adapters are
// recovered and reported as Internal for this request only.
func (e *Engine) Parse(ctx context.Context, req syntax.Request) (resp syntax.Response) {
	resp = syntax.Response{
		FileID:       req.FileID,
		FilePath:     req.FilePath,
		Language:     req.Language,
		Dependencies: []syntax.Dependency{},
		Exports:      []syntax.ExportedSymbol{},
	}
	defer func() {
		if r := recover(); r != nil {
			resp = failed(resp, internalError(r))
		}
	}()

	adapter, err := e.reg.Resolve(req.Language)
	if err != nil {
		return failed(resp, err)
	}
	resp.Language = adapter.Info().Name

	start := time.Now()
	source := []byte(req.Content)
	tree, err := adapter.Parse(ctx, source)
	if err != nil {
		return failed(resp, err)
	}

	lines := CountLines(req.Content, adapter.Comments())
	f := collectFacts(adapter, tree)
	elapsed := time.Since(start)

	resp.Root = tree.Root
	resp.Diagnostics = tree.Diagnostics
	resp.Dependencies = f.dependencies
	resp.Exports = f.exports
	resp.Metrics = &syntax.Metrics{
		TotalLines:   lines.Total,
		CodeLines:    lines.Code,
		CommentLines: lines.Comment,
		BlankLines:   lines.Blank,
		Complexity:   f.complexity,
		ParseTimeMs:  float64(elapsed.Microseconds()) / 1000,
	}
	resp.ContentHash = ContentHash(source)

	if e.strict && len(tree.Diagnostics) > 0 {
		d := tree.Diagnostics[0]
		resp = failed(resp, &syntax.Error{Kind: syntax.ErrSyntax, Line: d.Line, Col: d.Col, Message: d.Message})
	}
	return resp
}

// Tree resolves and parses req without deriving facts, returning the
// adapter so callers can apply its rules to the tree.
func (e *Engine) Tree(ctx context.Context, req syntax.Request) (adapter grammar.Adapter, tree *syntax.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			adapter, tree, err = nil, nil, internalError(r)
		}
	}()

	adapter, err = e.reg.Resolve(req.Language)
	if err != nil {
		return nil, nil, err
	}
	tree, err = adapter.Parse(ctx, []byte(req.Content))
	if err != nil {
		return nil, nil, err
	}
	return adapter, tree, nil
}

// ContentHash returns the hex BLAKE3-256 digest of source.
func ContentHash(source []byte) string {
	sum := blake3.Sum256(source)
	return hex.EncodeToString(sum[:])
}

type facts struct {
	complexity   uint32
	dependencies []syntax.Dependency
	exports      []syntax.ExportedSymbol
}

// collectFacts walks the tree once. The parent index is filled as the walk
// descends, so export rules can inspect every ancestor of the current node.
func collectFacts(a grammar.Adapter, tree *syntax.Tree) facts {
	f := facts{
		complexity:   1,
		dependencies: []syntax.Dependency{},
		exports:      []syntax.ExportedSymbol{},
	}
	parents := make(syntax.Parents)
	syntax.Walk(tree.Root, func(n, parent *syntax.Node) bool {
		if parent != nil {
			parents[n] = parent
		}
		if a.IsBranch(n) {
			f.complexity++
		}
		f.dependencies = append(f.dependencies, a.Dependencies(tree, n)...)
		f.exports = append(f.exports, a.Exports(tree, n, parents)...)
		return true
	})
	return f
}

func failed(resp syntax.Response, err error) syntax.Response {
	resp.Error = err.Error()
	resp.ErrorKind = syntax.KindOf(err)
	return resp
}

func internalError(r any) *syntax.Error {
	return &syntax.Error{
		Kind:    syntax.ErrInternal,
		Message: fmt.Sprintf("panic: %v", r),
	}
}
