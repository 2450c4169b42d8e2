// Package syntax holds the language-neutral data model shared by the parse
// engine, the grammar adapters, the skeleton extractor and the call boundary.
package syntax

// --- Enums ---

// RootKind is the kind of every tree's root node regardless of grammar.
const RootKind = "program"

// SymbolKind classifies exported symbols.
type SymbolKind string

const (
	SymbolKindFunction  SymbolKind = "function"
	SymbolKindMethod    SymbolKind = "method"
	SymbolKindClass     SymbolKind = "class"
	SymbolKindInterface SymbolKind = "interface"
	SymbolKindType      SymbolKind = "type"
	SymbolKindEnum      SymbolKind = "enum"
	SymbolKindConstant  SymbolKind = "constant"
	SymbolKindVariable  SymbolKind = "variable"
	SymbolKindModule    SymbolKind = "module"
)

// DependencyKind classifies a reference from a file to another module.
type DependencyKind string

const (
	DependencyImport        DependencyKind = "import"
	DependencyFrom          DependencyKind = "from"
	DependencyUse           DependencyKind = "use"
	DependencyExternCrate   DependencyKind = "extern_crate"
	DependencyMod           DependencyKind = "mod"
	DependencyRequire       DependencyKind = "require"
	DependencyDynamicImport DependencyKind = "dynamic_import"
	DependencyReexport      DependencyKind = "reexport"
)

// --- Models ---

// Span is a 0-based, end-exclusive source range.
type Span struct {
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

// Node is one node of a syntax tree. A parent exclusively owns its children;
// children are ordered by source position and never overlap.
type Node struct {
	Kind string `json:"kind"`
	// Field is the grammar field this node occupies under its parent, if any.
	Field string `json:"field,omitempty"`
	// Text is the raw source span. Empty for nodes larger than the
	// configured text limit.
	Text      string  `json:"text"`
	StartLine uint32  `json:"start_line"`
	StartCol  uint32  `json:"start_col"`
	EndLine   uint32  `json:"end_line"`
	EndCol    uint32  `json:"end_col"`
	Children  []*Node `json:"children"`

	StartByte uint32 `json:"-"`
	EndByte   uint32 `json:"-"`
}

// Span returns the node's source range.
func (n *Node) Span() Span {
	return Span{StartLine: n.StartLine, StartCol: n.StartCol, EndLine: n.EndLine, EndCol: n.EndCol}
}

// ChildByField returns the first child hanging under the given field, or nil.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildOfKind returns the first child of the given kind, or nil.
func (n *Node) ChildOfKind(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Tree is a parsed file: the root node plus the source it was built from.
// Source stays on the server side; only Root crosses the call boundary.
type Tree struct {
	Root        *Node
	Source      []byte
	Diagnostics []Diagnostic
}

// Text returns the exact source text covered by n.
func (t *Tree) Text(n *Node) string {
	if n == nil || int(n.EndByte) > len(t.Source) || n.StartByte > n.EndByte {
		return ""
	}
	return string(t.Source[n.StartByte:n.EndByte])
}

// Diagnostic is a non-fatal problem found while building a best-effort tree.
type Diagnostic struct {
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	Message string `json:"message"`
}

// Dependency is an unresolved reference from the file to another module.
type Dependency struct {
	Kind      DependencyKind `json:"kind"`
	Specifier string         `json:"specifier"`
	Line      uint32         `json:"line"`
}

// ExportedSymbol is a publicly visible declaration.
type ExportedSymbol struct {
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`
	Span Span       `json:"span"`
}

// Metrics summarises a file. The four line buckets always sum to TotalLines.
type Metrics struct {
	TotalLines   uint32  `json:"total_lines"`
	CodeLines    uint32  `json:"code_lines"`
	CommentLines uint32  `json:"comment_lines"`
	BlankLines   uint32  `json:"blank_lines"`
	Complexity   uint32  `json:"complexity"`
	ParseTimeMs  float64 `json:"parse_time_ms"`
}

// LanguageInfo describes one supported language for capability discovery.
type LanguageInfo struct {
	Name          string   `json:"name"`
	Extensions    []string `json:"extensions"`
	ParserVersion string   `json:"parser_version"`
}

// --- Call boundary ---

// Request asks for one file to be parsed. FileID is a client-assigned
// correlation token, unique within a batch.
type Request struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// Response is the outcome for one Request. When Error is non-empty the
// structural fields are absent or best-effort partial.
type Response struct {
	FileID       string           `json:"file_id"`
	FilePath     string           `json:"file_path"`
	Language     string           `json:"language"`
	Root         *Node            `json:"root,omitempty"`
	Dependencies []Dependency     `json:"dependencies"`
	Exports      []ExportedSymbol `json:"exports"`
	Metrics      *Metrics         `json:"metrics,omitempty"`
	Diagnostics  []Diagnostic     `json:"diagnostics,omitempty"`
	ContentHash  string           `json:"content_hash,omitempty"`
	Error        string           `json:"error"`
	ErrorKind    ErrorKind        `json:"error_kind,omitempty"`
}

// Failed reports whether the response carries a per-file error.
func (r *Response) Failed() bool {
	return r.Error != ""
}

// SkeletonResponse is the declarations-only view of a file.
type SkeletonResponse struct {
	FileID    string   `json:"file_id"`
	FilePath  string   `json:"file_path"`
	Skeleton  string   `json:"skeleton"`
	PublicAPI []string `json:"public_api"`
}

// LanguagesResponse lists the registry contents.
type LanguagesResponse struct {
	Languages []LanguageInfo `json:"languages"`
}

// Empty is the input of operations that take no arguments.
type Empty struct{}
