package mcptools

import "github.com/dusk-indust/archparse/internal/syntax"

// --- MCP Tool Input Types ---
// The SDK derives each tool's JSON schema from these struct tags.

// ParseFileInput is the input for the parse_file MCP tool.
type ParseFileInput struct {
	Path     string `json:"path,omitempty" jsonschema:"path of a source file to read and parse"`
	Content  string `json:"content,omitempty" jsonschema:"source text to parse instead of reading path"`
	Language string `json:"language,omitempty" jsonschema:"language name or extension; inferred from path when empty"`
}

// FileSummary is a parse result without the syntax tree, which is too large
// to hand to a model verbatim.
type FileSummary struct {
	FileID       string                  `json:"fileId"`
	FilePath     string                  `json:"filePath"`
	Language     string                  `json:"language"`
	Metrics      *syntax.Metrics         `json:"metrics,omitempty"`
	Dependencies []syntax.Dependency     `json:"dependencies"`
	Exports      []syntax.ExportedSymbol `json:"exports"`
	Diagnostics  []syntax.Diagnostic     `json:"diagnostics,omitempty"`
	ContentHash  string                  `json:"contentHash,omitempty"`
	Error        string                  `json:"error,omitempty"`
	ErrorKind    syntax.ErrorKind        `json:"errorKind,omitempty"`
}

// ParseFileOutput is the result of the parse_file MCP tool.
type ParseFileOutput struct {
	File FileSummary `json:"file"`
}

// ExtractSkeletonInput is the input for the extract_skeleton MCP tool.
type ExtractSkeletonInput = ParseFileInput

// ExtractSkeletonOutput is the result of the extract_skeleton MCP tool.
type ExtractSkeletonOutput struct {
	FilePath  string   `json:"filePath"`
	Skeleton  string   `json:"skeleton"`
	PublicAPI []string `json:"publicApi"`
}

// GetSupportedLanguagesInput is the input for the get_supported_languages
// MCP tool.
type GetSupportedLanguagesInput struct{}

// GetSupportedLanguagesOutput is the result of the get_supported_languages
// MCP tool.
type GetSupportedLanguagesOutput struct {
	Languages []syntax.LanguageInfo `json:"languages"`
}

// ParseDirectoryInput is the input for the parse_directory MCP tool.
type ParseDirectoryInput struct {
	Root        string   `json:"root" jsonschema:"absolute path of the directory to parse"`
	Include     []string `json:"include,omitempty" jsonschema:"doublestar globs of files to include, relative to root"`
	Exclude     []string `json:"exclude,omitempty" jsonschema:"doublestar globs of files to skip"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to parse (default: all supported)"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directory names never entered (e.g. vendor, node_modules)"`
}

// ParseDirectoryOutput is the result of the parse_directory MCP tool.
type ParseDirectoryOutput struct {
	Files     []FileSummary `json:"files"`
	Total     int           `json:"total"`
	Failed    int           `json:"failed"`
	CodeLines uint32        `json:"codeLines"`
}

func summarize(resp syntax.Response) FileSummary {
	return FileSummary{
		FileID:       resp.FileID,
		FilePath:     resp.FilePath,
		Language:     resp.Language,
		Metrics:      resp.Metrics,
		Dependencies: resp.Dependencies,
		Exports:      resp.Exports,
		Diagnostics:  resp.Diagnostics,
		ContentHash:  resp.ContentHash,
		Error:        resp.Error,
		ErrorKind:    resp.ErrorKind,
	}
}
