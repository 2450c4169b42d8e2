package export

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dusk-indust/archparse/internal/syntax"
)

// GenerateMermaid produces a Mermaid graph TD diagram of file dependencies.
// Files are grouped into one subgraph per language. Relative specifiers that
// resolve to a file in the batch point at that file; anything else becomes a
// shared external node.
func GenerateMermaid(responses []syntax.Response) string {
	files := make([]syntax.Response, 0, len(responses))
	for _, r := range responses {
		if !r.Failed() {
			files = append(files, r)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].FilePath < files[j].FilePath })

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	known := make(map[string]bool, len(files))
	byLang := make(map[string][]string)
	var langs []string
	for _, f := range files {
		known[f.FilePath] = true
		if _, ok := byLang[f.Language]; !ok {
			langs = append(langs, f.Language)
		}
		byLang[f.Language] = append(byLang[f.Language], f.FilePath)
	}
	sort.Strings(langs)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, lang := range langs {
		fmt.Fprintf(&sb, "  subgraph %s[\"%s\"]\n", getID("lang:"+lang), lang)
		for _, p := range byLang[lang] {
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", getID(p), label(shortPath(p)))
		}
		sb.WriteString("  end\n")
	}

	type edge struct{ from, to string }
	seen := make(map[edge]bool)
	var externals []string
	for _, f := range files {
		for _, d := range f.Dependencies {
			target, ok := resolve(f.FilePath, d.Specifier, known)
			if !ok {
				target = "ext:" + d.Specifier
				if _, exists := nodeIDs[target]; !exists {
					externals = append(externals, d.Specifier)
				}
			}
			e := edge{getID(f.FilePath), getID(target)}
			if seen[e] || e.from == e.to {
				continue
			}
			seen[e] = true
			fmt.Fprintf(&sb, "  %s --> %s\n", e.from, e.to)
		}
	}

	for _, spec := range externals {
		fmt.Fprintf(&sb, "  %s([\"%s\"])\n", getID("ext:"+spec), label(spec))
	}

	return sb.String()
}

// resolve maps a relative specifier to a file of the batch, trying the
// importing file's extension when the specifier has none.
func resolve(from, spec string, known map[string]bool) (string, bool) {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return "", false
	}
	base := path.Join(path.Dir(from), spec)
	candidates := []string{base, base + path.Ext(from), path.Join(base, "index"+path.Ext(from))}
	for _, c := range candidates {
		if known[c] {
			return c, true
		}
	}
	return "", false
}

// shortPath returns the last 2 path segments for readability.
func shortPath(p string) string {
	parts := strings.Split(p, "/")
	if len(parts) <= 2 {
		return p
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

// label escapes text for a quoted Mermaid label.
func label(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
