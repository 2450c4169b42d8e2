package grammar

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/archparse/internal/syntax"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func adapterFor(t *testing.T, name string) Adapter {
	t.Helper()
	for _, a := range Builtin(Options{}) {
		if a.Info().Name == name {
			return a
		}
	}
	t.Fatalf("no adapter named %s", name)
	return nil
}

// readFixture reads a test fixture file relative to the project root.
func readFixture(t *testing.T, relPath string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../" + relPath)
	require.NoError(t, err, "reading fixture %s", relPath)
	return data
}

type facts struct {
	tree       *syntax.Tree
	deps       []syntax.Dependency
	exports    []syntax.ExportedSymbol
	complexity int
}

func collect(t *testing.T, a Adapter, src []byte) facts {
	t.Helper()
	tree, err := a.Parse(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, tree)

	f := facts{tree: tree, complexity: 1}
	parents := syntax.IndexParents(tree.Root)
	syntax.Walk(tree.Root, func(n, _ *syntax.Node) bool {
		if a.IsBranch(n) {
			f.complexity++
		}
		f.deps = append(f.deps, a.Dependencies(tree, n)...)
		f.exports = append(f.exports, a.Exports(tree, n, parents)...)
		return true
	})
	return f
}

func specifiers(deps []syntax.Dependency, kind syntax.DependencyKind) []string {
	var out []string
	for _, d := range deps {
		if d.Kind == kind {
			out = append(out, d.Specifier)
		}
	}
	return out
}

func exported(syms []syntax.ExportedSymbol) map[string]syntax.SymbolKind {
	out := make(map[string]syntax.SymbolKind, len(syms))
	for _, s := range syms {
		// Keep the first: a Java constructor shares its class's name.
		if _, seen := out[s.Name]; !seen {
			out[s.Name] = s.Kind
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Builtin
// ---------------------------------------------------------------------------

func TestBuiltin_Languages(t *testing.T) {
	var names []string
	exts := make(map[string]string)
	for _, a := range Builtin(Options{}) {
		info := a.Info()
		names = append(names, info.Name)
		assert.NotEmpty(t, info.ParserVersion, info.Name)
		for _, e := range info.Extensions {
			_, dup := exts[e]
			assert.False(t, dup, "extension %s registered twice", e)
			exts[e] = info.Name
		}
	}
	assert.Equal(t, []string{"TypeScript", "TSX", "JavaScript", "Python", "Rust", "Go", "Java"}, names)
	assert.Equal(t, "Rust", exts[".rs"])
	assert.Equal(t, "Python", exts[".pyi"])
	assert.Equal(t, "TSX", exts[".tsx"])
	assert.Equal(t, "TypeScript", exts[".ts"])
}

func TestInfo_ReturnsCopy(t *testing.T) {
	a := adapterFor(t, "Go")
	info := a.Info()
	info.Extensions[0] = ".changed"
	assert.Equal(t, ".go", a.Info().Extensions[0])
}

// ---------------------------------------------------------------------------
// Tree shape
// ---------------------------------------------------------------------------

func TestParse_TreeShape(t *testing.T) {
	a := adapterFor(t, "Go")
	src := []byte("package p\n\nfunc f() {}\n")
	tree, err := a.Parse(context.Background(), src)
	require.NoError(t, err)

	root := tree.Root
	assert.Equal(t, syntax.RootKind, root.Kind)
	assert.Equal(t, uint32(0), root.StartLine)
	assert.Equal(t, uint32(0), root.StartCol)
	assert.Equal(t, string(src), root.Text)
	assert.Empty(t, tree.Diagnostics)

	fn := root.ChildOfKind("function_declaration")
	require.NotNil(t, fn)
	assert.Equal(t, uint32(2), fn.StartLine)
	name := fn.ChildByField("name")
	require.NotNil(t, name)
	assert.Equal(t, "f", name.Text)

	// Children are ordered and non-overlapping.
	syntax.Walk(root, func(n, _ *syntax.Node) bool {
		for i := 1; i < len(n.Children); i++ {
			assert.LessOrEqual(t, n.Children[i-1].EndByte, n.Children[i].StartByte)
		}
		return true
	})
}

func TestParse_TextLimit(t *testing.T) {
	var a Adapter
	for _, candidate := range Builtin(Options{TextLimit: 8}) {
		if candidate.Info().Name == "Go" {
			a = candidate
		}
	}
	require.NotNil(t, a)

	tree, err := a.Parse(context.Background(), []byte("package p\n\nfunc longName() {}\n"))
	require.NoError(t, err)
	fn := tree.Root.ChildOfKind("function_declaration")
	require.NotNil(t, fn)
	assert.Empty(t, fn.Text, "large inner nodes carry no text")
	assert.Equal(t, "longName", fn.ChildByField("name").Text, "leaves always carry text")
	assert.Equal(t, "func longName() {}", tree.Text(fn))
}

func TestParse_MalformedInputYieldsDiagnostics(t *testing.T) {
	a := adapterFor(t, "Go")
	tree, err := a.Parse(context.Background(), []byte("package p\n\nfunc f( {\n"))
	require.NoError(t, err)
	require.NotNil(t, tree.Root)
	assert.NotEmpty(t, tree.Diagnostics)
}

func TestParse_Cancelled(t *testing.T) {
	a := adapterFor(t, "Python")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Parse(ctx, []byte("x = 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_Deterministic(t *testing.T) {
	a := adapterFor(t, "Rust")
	src := readFixture(t, "testdata/fixtures/rust_project/lib.rs")
	first, err := a.Parse(context.Background(), src)
	require.NoError(t, err)
	second, err := a.Parse(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, syntax.Equal(first.Root, second.Root))
}

// ---------------------------------------------------------------------------
// Per-language facts
// ---------------------------------------------------------------------------

func TestGo_Facts(t *testing.T) {
	a := adapterFor(t, "Go")

	t.Run("model.go", func(t *testing.T) {
		f := collect(t, a, readFixture(t, "testdata/fixtures/go_project/model.go"))
		assert.Empty(t, f.deps)
		got := exported(f.exports)
		assert.Equal(t, syntax.SymbolKindType, got["User"])
		assert.Equal(t, syntax.SymbolKindInterface, got["Repository"])
		assert.NotContains(t, got, "newUser")
		assert.NotContains(t, got, "FindByID", "interface methods are not top-level")
	})

	t.Run("service.go", func(t *testing.T) {
		f := collect(t, a, readFixture(t, "testdata/fixtures/go_project/service.go"))
		assert.Equal(t, []string{"fmt"}, specifiers(f.deps, syntax.DependencyImport))
		got := exported(f.exports)
		assert.Equal(t, syntax.SymbolKindType, got["UserService"])
		assert.Equal(t, syntax.SymbolKindFunction, got["NewUserService"])
		assert.Equal(t, syntax.SymbolKindMethod, got["GetUser"])
		assert.Equal(t, syntax.SymbolKindMethod, got["CreateUser"])
		assert.Equal(t, 3, f.complexity, "two if statements")
	})
}

func TestTSX_ParsesJSX(t *testing.T) {
	src := []byte(`import React from "react";

export function Greeting({ name }: { name: string }) {
  return <div className="greeting">Hello {name}</div>;
}
`)
	f := collect(t, adapterFor(t, "TSX"), src)
	assert.Empty(t, f.tree.Diagnostics)
	assert.Equal(t, []string{"react"}, specifiers(f.deps, syntax.DependencyImport))
	assert.Equal(t, syntax.SymbolKindFunction, exported(f.exports)["Greeting"])

	plain, err := adapterFor(t, "TypeScript").Parse(context.Background(), src)
	require.NoError(t, err)
	assert.NotEmpty(t, plain.Diagnostics, "JSX needs the TSX grammar")
}

func TestGo_MultiNameSpecs(t *testing.T) {
	a := adapterFor(t, "Go")
	src := []byte("package p\n\nconst A, b, C = 1, 2, 3\n\nvar (\n\tX, Y int\n\tz    int\n)\n\nconst d, E = 4, 5\n")
	f := collect(t, a, src)

	got := exported(f.exports)
	assert.Equal(t, map[string]syntax.SymbolKind{
		"A": syntax.SymbolKindConstant,
		"C": syntax.SymbolKindConstant,
		"X": syntax.SymbolKindVariable,
		"Y": syntax.SymbolKindVariable,
		"E": syntax.SymbolKindConstant,
	}, got)

	parents := syntax.IndexParents(f.tree.Root)
	var decls []*syntax.Node
	for _, c := range f.tree.Root.Children {
		if c.Kind == "const_declaration" {
			decls = append(decls, c)
		}
	}
	require.Len(t, decls, 2)
	assert.True(t, a.IsPublic(f.tree, decls[1], parents), "a later exported name makes the group public")
}

func TestRust_ModuleVisibility(t *testing.T) {
	src := []byte(`mod inner {
    pub fn hidden() {}
    pub struct Secret;
    impl Secret {
        pub fn reveal(&self) {}
    }
}

pub mod outer {
    pub fn shown() {}
    mod deep {
        pub fn buried() {}
    }
    pub struct Open;
    impl Open {
        pub fn method(&self) {}
    }
}
`)
	f := collect(t, adapterFor(t, "Rust"), src)

	assert.Equal(t, map[string]syntax.SymbolKind{
		"outer":  syntax.SymbolKindModule,
		"shown":  syntax.SymbolKindFunction,
		"Open":   syntax.SymbolKindType,
		"method": syntax.SymbolKindMethod,
	}, exported(f.exports))
}

func TestRust_Facts(t *testing.T) {
	f := collect(t, adapterFor(t, "Rust"), readFixture(t, "testdata/fixtures/rust_project/lib.rs"))

	assert.Equal(t, []string{"std::collections::HashMap", "crate::model::{Item, Sku}"},
		specifiers(f.deps, syntax.DependencyUse))
	assert.Equal(t, []string{"model"}, specifiers(f.deps, syntax.DependencyMod))

	got := exported(f.exports)
	assert.Equal(t, syntax.SymbolKindType, got["Inventory"])
	assert.Equal(t, syntax.SymbolKindInterface, got["Store"])
	assert.Equal(t, syntax.SymbolKindMethod, got["get"])
	assert.Equal(t, syntax.SymbolKindMethod, got["new"])
	assert.Equal(t, syntax.SymbolKindMethod, got["restock"])
	assert.Equal(t, syntax.SymbolKindConstant, got["MAX_ITEMS"])
	assert.NotContains(t, got, "audit")
	assert.NotContains(t, got, "internal", "pub(crate) is not public")

	// if + || + for
	assert.Equal(t, 4, f.complexity)
}

func TestPython_Facts(t *testing.T) {
	f := collect(t, adapterFor(t, "Python"), readFixture(t, "testdata/fixtures/python_project/service.py"))

	assert.Equal(t, []string{"os", "json"}, specifiers(f.deps, syntax.DependencyImport))
	assert.Equal(t, []string{"collections", ".models"}, specifiers(f.deps, syntax.DependencyFrom))

	got := exported(f.exports)
	assert.Equal(t, syntax.SymbolKindConstant, got["PAGE_SIZE"])
	assert.Equal(t, syntax.SymbolKindClass, got["OrderService"])
	assert.Equal(t, syntax.SymbolKindMethod, got["find"])
	assert.Equal(t, syntax.SymbolKindMethod, got["__init__"])
	assert.Equal(t, syntax.SymbolKindFunction, got["total"])
	for _, private := range []string{"_cache", "_reset", "_Helper", "run"} {
		assert.NotContains(t, got, private)
	}
}

func TestTypeScript_Facts(t *testing.T) {
	f := collect(t, adapterFor(t, "TypeScript"), readFixture(t, "testdata/fixtures/ts_project/user.ts"))

	assert.Equal(t, []string{"@core/di", "path"}, specifiers(f.deps, syntax.DependencyImport))
	assert.Equal(t, []string{"./helper"}, specifiers(f.deps, syntax.DependencyReexport))
	assert.Equal(t, []string{"./loader"}, specifiers(f.deps, syntax.DependencyDynamicImport))

	got := exported(f.exports)
	assert.Equal(t, syntax.SymbolKindInterface, got["User"])
	assert.Equal(t, syntax.SymbolKindType, got["UserId"])
	assert.Equal(t, syntax.SymbolKindClass, got["UserService"])
	assert.Equal(t, syntax.SymbolKindMethod, got["find"])
	assert.Equal(t, syntax.SymbolKindFunction, got["loadUser"])
	assert.NotContains(t, got, "evict")
	assert.NotContains(t, got, "internal")
}

func TestJavaScript_Facts(t *testing.T) {
	f := collect(t, adapterFor(t, "JavaScript"), readFixture(t, "testdata/fixtures/js_project/app.js"))

	assert.Equal(t, []string{"express"}, specifiers(f.deps, syntax.DependencyRequire))
	assert.Equal(t, []string{"./view.js"}, specifiers(f.deps, syntax.DependencyImport))

	got := exported(f.exports)
	assert.Equal(t, syntax.SymbolKindFunction, got["start"])
	assert.Equal(t, syntax.SymbolKindClass, got["Router"])
	assert.Equal(t, syntax.SymbolKindMethod, got["add"])
	assert.NotContains(t, got, "#match")
	assert.NotContains(t, got, "helper")
}

func TestJava_Facts(t *testing.T) {
	f := collect(t, adapterFor(t, "Java"), readFixture(t, "testdata/fixtures/java_project/OrderService.java"))

	assert.Equal(t, []string{"java.util.List", "java.util.Collections.sort"},
		specifiers(f.deps, syntax.DependencyImport))

	got := exported(f.exports)
	assert.Equal(t, syntax.SymbolKindClass, got["OrderService"])
	assert.Equal(t, syntax.SymbolKindConstant, got["LIMIT"])
	assert.Equal(t, syntax.SymbolKindMethod, got["recent"])
	assert.NotContains(t, got, "repo")
	assert.NotContains(t, got, "audit")
	assert.NotContains(t, got, "Repository")
	assert.NotContains(t, got, "all", "members of a package-private interface")

	// if + || + enhanced for
	assert.Equal(t, 4, f.complexity)
}
