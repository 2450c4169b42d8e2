// Package skeleton renders the declarations-only view of a parsed file:
// top-level declarations with bodies elided, container members listed, and
// the public API as a list of collapsed signatures.
package skeleton

import (
	"strings"

	"github.com/dusk-indust/archparse/internal/syntax"
)

// Result is the output of Extract.
type Result struct {
	Skeleton  string
	PublicAPI []string
}

// Extract renders the skeleton of t using the language rules. The parent
// index rules need for visibility checks is built in one walk up front.
func Extract(t *syntax.Tree, rules Rules) Result {
	x := &extractor{
		tree:    t,
		rules:   rules,
		style:   rules.Style(),
		parents: syntax.IndexParents(t.Root),
		api:     []string{},
	}
	x.render(t.Root.Children, 0, true)
	return Result{Skeleton: x.out.String(), PublicAPI: x.api}
}

type extractor struct {
	tree    *syntax.Tree
	rules   Rules
	style   Style
	parents syntax.Parents
	out     strings.Builder
	api     []string
}

// render writes the declarations among nodes and returns how many it kept.
// exposed is false inside containers that are not public themselves.
func (x *extractor) render(nodes []*syntax.Node, depth int, exposed bool) int {
	kept := 0
	indent := strings.Repeat(x.style.Indent, depth)
	for _, n := range nodes {
		d, ok := x.rules.Declaration(x.tree, n)
		if !ok {
			continue
		}
		kept++
		public := exposed && x.rules.IsPublic(x.tree, d.Node, x.parents)

		if d.Body == nil {
			text := strings.TrimRight(x.tree.Text(n), " \t\r\n")
			x.line(indent, text)
			if sig := verbatimSignature(text); public && sig != "" {
				x.api = append(x.api, sig)
			}
			continue
		}

		header := x.header(n, d.Body)
		if sig := signature(header); public && sig != "" {
			x.api = append(x.api, sig)
		}
		if !d.Members {
			x.line(indent, header+x.style.Elision)
			continue
		}

		x.line(indent, header+x.style.Open)
		if x.render(d.Body.Children, depth+1, public) == 0 && x.style.Close == "" {
			x.line(indent+x.style.Indent, strings.TrimSpace(x.style.Elision))
		}
		if x.style.Close != "" {
			x.line(indent, x.style.Close)
		}
	}
	return kept
}

// header is the source from the start of n up to its body.
func (x *extractor) header(n, body *syntax.Node) string {
	src := x.tree.Source
	if body.StartByte < n.StartByte || int(body.StartByte) > len(src) {
		return ""
	}
	return strings.TrimRight(string(src[n.StartByte:body.StartByte]), " \t\r\n")
}

func (x *extractor) line(indent, text string) {
	x.out.WriteString(indent)
	x.out.WriteString(text)
	x.out.WriteByte('\n')
}

// signature collapses a declaration header onto one line, dropping
// decorator and annotation lines.
func signature(header string) string {
	var parts []string
	for _, l := range strings.Split(header, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "@") {
			continue
		}
		parts = append(parts, l)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// verbatimSignature keeps single-line declarations whole and reduces
// multi-line ones to their opening line.
func verbatimSignature(text string) string {
	first, _, multi := strings.Cut(text, "\n")
	if !multi {
		return signature(text)
	}
	first = strings.TrimSpace(first)
	first = strings.TrimSpace(strings.TrimRight(first, "{("))
	return signature(first)
}
