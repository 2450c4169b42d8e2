// Package registry maps language names and file extensions to grammar
// adapters. A Registry is immutable after construction and safe for
// concurrent lookups.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dusk-indust/archparse/internal/grammar"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// Registry resolves language identifiers to adapters.
type Registry struct {
	adapters []grammar.Adapter
	byName   map[string]grammar.Adapter
	byExt    map[string]grammar.Adapter
}

// New builds a registry from adapters, kept in the given order. Names are
// matched case-insensitively; a name or extension claimed twice is an error.
func New(adapters ...grammar.Adapter) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]grammar.Adapter, len(adapters)),
		byExt:  make(map[string]grammar.Adapter),
	}
	for _, a := range adapters {
		info := a.Info()
		name := strings.ToLower(info.Name)
		if name == "" {
			return nil, fmt.Errorf("adapter with empty language name")
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("language %q registered twice", info.Name)
		}
		r.byName[name] = a

		for _, ext := range info.Extensions {
			key := normalizeExt(ext)
			if prev, dup := r.byExt[key]; dup {
				return nil, fmt.Errorf("extension %q claimed by both %s and %s", ext, prev.Info().Name, info.Name)
			}
			r.byExt[key] = a
		}
		r.adapters = append(r.adapters, a)
	}
	return r, nil
}

// defaultRegistry holds the compiled-in adapters with default options.
var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New(grammar.Builtin(grammar.Options{})...)
	if err != nil {
		panic(fmt.Sprintf("builtin grammars: %v", err))
	}
	return r
})

// Default returns the process-wide registry of compiled-in languages.
func Default() *Registry {
	return defaultRegistry()
}

// Languages lists every registered language in registration order.
func (r *Registry) Languages() []syntax.LanguageInfo {
	out := make([]syntax.LanguageInfo, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a.Info())
	}
	return out
}

// Resolve finds the adapter for a language name ("rust", "TypeScript") or a
// file extension (".rs" or "rs"). Names take precedence over extensions.
func (r *Registry) Resolve(language string) (grammar.Adapter, error) {
	key := strings.ToLower(strings.TrimSpace(language))
	if key == "" {
		return nil, syntax.Unsupported(language)
	}
	if a, ok := r.byName[key]; ok {
		return a, nil
	}
	if a, ok := r.byExt[normalizeExt(key)]; ok {
		return a, nil
	}
	return nil, syntax.Unsupported(language)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
