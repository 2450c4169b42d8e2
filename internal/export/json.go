// Package export renders parse results for humans and tools: a JSON report,
// JSON lines for streaming, and a Mermaid dependency diagram.
package export

import (
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dusk-indust/archparse/internal/syntax"
)

// Report is the top-level JSON export of one batch.
type Report struct {
	Root       string            `json:"root,omitempty"`
	ExportedAt string            `json:"exportedAt"`
	Languages  []LanguageSummary `json:"languages"`
	Files      []syntax.Response `json:"files"`
}

// LanguageSummary aggregates the files of one language.
type LanguageSummary struct {
	Language     string `json:"language"`
	Files        int    `json:"files"`
	Failed       int    `json:"failed"`
	CodeLines    uint32 `json:"codeLines"`
	CommentLines uint32 `json:"commentLines"`
	Complexity   uint32 `json:"complexity"`
}

// BuildReport sorts responses by path and totals them per language.
// Unsupported files are totalled under the language they asked for.
func BuildReport(root string, responses []syntax.Response) *Report {
	files := make([]syntax.Response, len(responses))
	copy(files, responses)
	sort.Slice(files, func(i, j int) bool { return files[i].FilePath < files[j].FilePath })

	byLang := make(map[string]*LanguageSummary)
	for _, f := range files {
		s, ok := byLang[f.Language]
		if !ok {
			s = &LanguageSummary{Language: f.Language}
			byLang[f.Language] = s
		}
		s.Files++
		if f.Failed() {
			s.Failed++
		}
		if f.Metrics != nil {
			s.CodeLines += f.Metrics.CodeLines
			s.CommentLines += f.Metrics.CommentLines
			s.Complexity += f.Metrics.Complexity
		}
	}

	langs := make([]LanguageSummary, 0, len(byLang))
	for _, s := range byLang {
		langs = append(langs, *s)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Language < langs[j].Language })

	return &Report{
		Root:       root,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Languages:  langs,
		Files:      files,
	}
}

// WriteReport writes r as indented JSON.
func WriteReport(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// JSONLWriter writes one response per line. It is safe for concurrent use,
// so it can be a batch sink directly.
type JSONLWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLWriter writes to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{enc: json.NewEncoder(w)}
}

// Write encodes resp followed by a newline.
func (w *JSONLWriter) Write(resp syntax.Response) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(resp)
}
