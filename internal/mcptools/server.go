// Package mcptools exposes the parser operations as Model Context Protocol
// tools, over stdio or streamable HTTP.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewParserMCPServer creates an MCP server with the four parser tools
// registered.
func NewParserMCPServer(tools *ParserTools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "archparse",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_file",
		Description: "Parse one source file. Returns line metrics, cyclomatic complexity, dependencies and exported symbols. Pass either path or content with language.",
	}, tools.ParseFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_skeleton",
		Description: "Return a declarations-only view of a source file with function bodies elided, plus the signatures of its public API.",
	}, tools.ExtractSkeleton)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_supported_languages",
		Description: "List the supported languages with their file extensions and grammar versions.",
	}, tools.GetSupportedLanguages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_directory",
		Description: "Walk a directory, parse every supported file concurrently and return per-file summaries. Unsupported or broken files are reported without failing the call.",
	}, tools.ParseDirectory)

	return server
}

// RunStdio serves server on stdin/stdout until stdin closes or ctx is
// cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// NewHTTPHandler serves server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
}
