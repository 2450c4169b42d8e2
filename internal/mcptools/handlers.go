package mcptools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/dusk-indust/archparse/internal/service"
	"github.com/dusk-indust/archparse/internal/syntax"
	"github.com/dusk-indust/archparse/internal/walk"
)

// ParserTools holds the service used by the MCP tool handlers.
type ParserTools struct {
	svc      *service.Service
	walkOpts walk.Options
	log      *zap.Logger
}

// NewParserTools creates ParserTools. walkOpts are the defaults for
// parse_directory; its input overrides the filters it sets.
func NewParserTools(svc *service.Service, walkOpts walk.Options, log *zap.Logger) *ParserTools {
	if log == nil {
		log = zap.NewNop()
	}
	return &ParserTools{svc: svc, walkOpts: walkOpts, log: log}
}

// request builds a parse request from a tool input, reading the file when
// no content is given.
func request(input ParseFileInput) (syntax.Request, error) {
	if input.Path == "" && input.Content == "" {
		return syntax.Request{}, fmt.Errorf("path or content is required")
	}
	req := syntax.Request{
		FileID:   input.Path,
		FilePath: input.Path,
		Language: input.Language,
		Content:  input.Content,
	}
	if req.Language == "" {
		if input.Path == "" {
			return syntax.Request{}, fmt.Errorf("language is required when path is empty")
		}
		req.Language = filepath.Ext(input.Path)
	}
	if input.Content == "" {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return syntax.Request{}, fmt.Errorf("read %s: %w", input.Path, err)
		}
		req.Content = string(data)
	}
	return req, nil
}

// ParseFile parses one file and returns its metrics and facts.
func (t *ParserTools) ParseFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseFileInput,
) (*mcp.CallToolResult, ParseFileOutput, error) {
	req, err := request(input)
	if err != nil {
		return nil, ParseFileOutput{}, err
	}
	resp, err := t.svc.ParseFile(ctx, req)
	if err != nil {
		return nil, ParseFileOutput{}, fmt.Errorf("parse: %w", err)
	}
	return nil, ParseFileOutput{File: summarize(resp)}, nil
}

// ExtractSkeleton returns the declarations-only view of a file.
func (t *ParserTools) ExtractSkeleton(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractSkeletonInput,
) (*mcp.CallToolResult, ExtractSkeletonOutput, error) {
	req, err := request(input)
	if err != nil {
		return nil, ExtractSkeletonOutput{}, err
	}
	resp, err := t.svc.ExtractSkeleton(ctx, req)
	if err != nil {
		return nil, ExtractSkeletonOutput{}, fmt.Errorf("extract skeleton: %w", err)
	}
	return nil, ExtractSkeletonOutput{
		FilePath:  resp.FilePath,
		Skeleton:  resp.Skeleton,
		PublicAPI: resp.PublicAPI,
	}, nil
}

// GetSupportedLanguages lists the registered languages.
func (t *ParserTools) GetSupportedLanguages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetSupportedLanguagesInput,
) (*mcp.CallToolResult, GetSupportedLanguagesOutput, error) {
	return nil, GetSupportedLanguagesOutput{Languages: t.svc.GetSupportedLanguages(ctx).Languages}, nil
}

// ParseDirectory walks a directory and parses every selected file as one
// batch. Files are returned sorted by path.
func (t *ParserTools) ParseDirectory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseDirectoryInput,
) (*mcp.CallToolResult, ParseDirectoryOutput, error) {
	if input.Root == "" {
		return nil, ParseDirectoryOutput{}, fmt.Errorf("root is required")
	}

	opts := t.walkOpts
	if len(input.Include) > 0 {
		opts.Include = input.Include
	}
	if len(input.Exclude) > 0 {
		opts.Exclude = input.Exclude
	}
	if len(input.Languages) > 0 {
		opts.Languages = input.Languages
	}
	if len(input.ExcludeDirs) > 0 {
		opts.ExcludeDirs = input.ExcludeDirs
	}
	w, err := walk.New(t.svc.Registry(), opts, t.log)
	if err != nil {
		return nil, ParseDirectoryOutput{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu  sync.Mutex
		out ParseDirectoryOutput
	)
	stats, err := t.svc.ParseBatch(ctx, w.Source(ctx, input.Root), func(resp syntax.Response) error {
		mu.Lock()
		defer mu.Unlock()
		out.Files = append(out.Files, summarize(resp))
		if resp.Metrics != nil {
			out.CodeLines += resp.Metrics.CodeLines
		}
		return nil
	})
	if err != nil {
		return nil, ParseDirectoryOutput{}, fmt.Errorf("walk %s: %w", input.Root, err)
	}

	sort.Slice(out.Files, func(i, j int) bool { return out.Files[i].FilePath < out.Files[j].FilePath })
	if out.Files == nil {
		out.Files = []FileSummary{}
	}
	out.Total = len(out.Files)
	out.Failed = stats.Failed
	return nil, out, nil
}
