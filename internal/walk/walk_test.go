package walk

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dusk-indust/archparse/internal/syntax"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func ids(reqs []syntax.Request) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.FileID
	}
	return out
}

var sampleTree = map[string]string{
	"main.go":                  "package main\n",
	"README.md":                "# readme\n",
	"pkg/util.py":              "import os\n",
	"pkg/util_test.py":         "import pytest\n",
	"web/app.ts":               "export const a = 1;\n",
	"web/node_modules/x/i.js":  "module.exports = 1;\n",
	".git/hooks/pre-commit.py": "print(1)\n",
	"vendor/lib/lib.go":        "package lib\n",
	"src/Main.java":            "class Main {}\n",
}

func TestCollect_SelectsRegisteredExtensions(t *testing.T) {
	root := writeTree(t, sampleTree)
	w, err := New(nil, Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	reqs, err := w.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "pkg/util.py", "pkg/util_test.py", "src/Main.java", "web/app.ts"}, ids(reqs))

	byID := make(map[string]syntax.Request)
	for _, r := range reqs {
		byID[r.FileID] = r
	}
	assert.Equal(t, "Go", byID["main.go"].Language)
	assert.Equal(t, "Python", byID["pkg/util.py"].Language)
	assert.Equal(t, "TypeScript", byID["web/app.ts"].Language)
	assert.Equal(t, "import os\n", byID["pkg/util.py"].Content)
	assert.Equal(t, "pkg/util.py", byID["pkg/util.py"].FilePath)
}

func TestCollect_Globs(t *testing.T) {
	root := writeTree(t, sampleTree)
	w, err := New(nil, Options{
		Include: []string{"pkg/**", "./web/*.ts"},
		Exclude: []string{"**/*_test.py"},
	}, nil)
	require.NoError(t, err)

	reqs, err := w.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/util.py", "web/app.ts"}, ids(reqs))
}

func TestCollect_Languages(t *testing.T) {
	root := writeTree(t, sampleTree)
	w, err := New(nil, Options{Languages: []string{"python", ".java"}}, nil)
	require.NoError(t, err)

	reqs, err := w.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/util.py", "pkg/util_test.py", "src/Main.java"}, ids(reqs))
}

func TestCollect_CustomExcludeDirsReplaceDefaults(t *testing.T) {
	root := writeTree(t, sampleTree)
	w, err := New(nil, Options{ExcludeDirs: []string{"pkg"}}, nil)
	require.NoError(t, err)

	reqs, err := w.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Contains(t, ids(reqs), "vendor/lib/lib.go")
	assert.Contains(t, ids(reqs), "web/node_modules/x/i.js")
	assert.NotContains(t, ids(reqs), "pkg/util.py")
	assert.NotContains(t, ids(reqs), ".git/hooks/pre-commit.py")
}

func TestCollect_MaxFileSize(t *testing.T) {
	root := writeTree(t, map[string]string{
		"small.go": "package a\n",
		"big.go":   "package a\n\n// " + string(make([]byte, 200)) + "\n",
	})
	w, err := New(nil, Options{MaxFileSize: 64}, nil)
	require.NoError(t, err)

	reqs, err := w.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"small.go"}, ids(reqs))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, Options{Include: []string{"[unclosed"}}, nil)
	assert.Error(t, err)

	_, err = New(nil, Options{Languages: []string{"cobol"}}, nil)
	assert.True(t, syntax.IsKind(err, syntax.ErrUnsupportedLanguage))
}

func TestWalk_BadRoot(t *testing.T) {
	w, err := New(nil, Options{}, nil)
	require.NoError(t, err)

	_, err = w.Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "f.go")
	require.NoError(t, os.WriteFile(file, []byte("package f\n"), 0o644))
	_, err = w.Collect(context.Background(), file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestWalk_Cancelled(t *testing.T) {
	root := writeTree(t, sampleTree)
	w, err := New(nil, Options{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Collect(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_StreamsThenEOF(t *testing.T) {
	root := writeTree(t, sampleTree)
	w, err := New(nil, Options{}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	src := w.Source(ctx, root)
	var got []syntax.Request
	for {
		req, err := src.Recv(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, req)
	}
	assert.Len(t, got, 5)

	_, err = src.Recv(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSource_ReportsWalkError(t *testing.T) {
	w, err := New(nil, Options{}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	src := w.Source(ctx, filepath.Join(t.TempDir(), "missing"))
	_, err = src.Recv(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
