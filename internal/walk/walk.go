// Package walk turns a directory tree into parse requests. Files are
// selected by extension through the registry and filtered by doublestar
// globs; file_id is the slash-separated path relative to the root.
package walk

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/dusk-indust/archparse/internal/batch"
	"github.com/dusk-indust/archparse/internal/registry"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// DefaultExcludeDirs are skipped unless Options.ExcludeDirs is set.
var DefaultExcludeDirs = []string{"node_modules", "vendor", "target", "dist", "build", "__pycache__"}

// Options control which files a Walker yields.
type Options struct {
	// Include globs, matched against the relative slash path. Empty means
	// every file with a registered extension.
	Include []string
	// Exclude globs win over Include.
	Exclude []string
	// ExcludeDirs are directory base names that are never entered. .git is
	// always skipped.
	ExcludeDirs []string
	// Languages restricts output to these language names.
	Languages []string
	// MaxFileSize skips larger files. Zero means no limit.
	MaxFileSize int64
}

// Walker walks directory trees.
type Walker struct {
	reg   *registry.Registry
	opts  Options
	skip  map[string]bool
	langs map[string]bool
	log   *zap.Logger
}

// New validates opts and returns a Walker. A nil reg uses the default
// registry.
func New(reg *registry.Registry, opts Options, log *zap.Logger) (*Walker, error) {
	if reg == nil {
		reg = registry.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob %q", p)
		}
	}
	if opts.ExcludeDirs == nil {
		opts.ExcludeDirs = DefaultExcludeDirs
	}

	w := &Walker{reg: reg, opts: opts, skip: map[string]bool{".git": true}, log: log}
	for _, d := range opts.ExcludeDirs {
		w.skip[d] = true
	}
	if len(opts.Languages) > 0 {
		w.langs = make(map[string]bool, len(opts.Languages))
		for _, l := range opts.Languages {
			a, err := reg.Resolve(l)
			if err != nil {
				return nil, err
			}
			w.langs[a.Info().Name] = true
		}
	}
	return w, nil
}

// Walk calls fn with a request for every selected file under root, in
// lexical order. Unreadable files are logged and skipped.
func (w *Walker) Walk(ctx context.Context, root string, fn func(syntax.Request) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && w.skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		lang, ok := w.selects(rel)
		if !ok {
			return nil
		}
		if w.opts.MaxFileSize > 0 {
			if fi, err := d.Info(); err == nil && fi.Size() > w.opts.MaxFileSize {
				w.log.Debug("skipping large file", zap.String("file", rel), zap.Int64("size", fi.Size()))
				return nil
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			w.log.Warn("skipping unreadable file", zap.String("file", rel), zap.Error(err))
			return nil
		}
		return fn(syntax.Request{
			FileID:   rel,
			FilePath: rel,
			Language: lang,
			Content:  string(content),
		})
	})
}

// selects reports whether rel passes the filters and the language it is
// parsed as.
func (w *Walker) selects(rel string) (string, bool) {
	ext := filepath.Ext(rel)
	if ext == "" {
		return "", false
	}
	a, err := w.reg.Resolve(ext)
	if err != nil {
		return "", false
	}
	lang := a.Info().Name
	if w.langs != nil && !w.langs[lang] {
		return "", false
	}
	if len(w.opts.Include) > 0 && !matchAny(w.opts.Include, rel) {
		return "", false
	}
	if matchAny(w.opts.Exclude, rel) {
		return "", false
	}
	return lang, true
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.TrimPrefix(p, "./"), rel); ok {
			return true
		}
	}
	return false
}

// Collect returns every selected request under root.
func (w *Walker) Collect(ctx context.Context, root string) ([]syntax.Request, error) {
	var reqs []syntax.Request
	err := w.Walk(ctx, root, func(req syntax.Request) error {
		reqs = append(reqs, req)
		return nil
	})
	return reqs, err
}

// Source streams the tree under root as a batch source. The walk runs on
// its own goroutine and stops when ctx is cancelled.
func (w *Walker) Source(ctx context.Context, root string) batch.Source {
	reqs := make(chan syntax.Request)
	done := make(chan error, 1)
	go func() {
		defer close(reqs)
		done <- w.Walk(ctx, root, func(req syntax.Request) error {
			select {
			case reqs <- req:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	return batch.SourceFunc(func(rctx context.Context) (syntax.Request, error) {
		select {
		case req, ok := <-reqs:
			if ok {
				return req, nil
			}
			if err := <-done; err != nil {
				done <- err
				return syntax.Request{}, err
			}
			done <- nil
			return syntax.Request{}, io.EOF
		case <-rctx.Done():
			return syntax.Request{}, rctx.Err()
		}
	})
}
