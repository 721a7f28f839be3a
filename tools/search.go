package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/contextengine-mcp/scanner"
	"github.com/lexandro/contextengine-mcp/search"
)

// SearchArgs defines the input parameters for the search_files tool.
type SearchArgs struct {
	Queries    []string `json:"queries" jsonschema:"Search terms. Plain words match whole words case-insensitively; terms with regex metacharacters are regular expressions"`
	Path       string   `json:"path,omitempty" jsonschema:"Root directory of the codebase (default: the server's working directory)"`
	Pattern    string   `json:"pattern,omitempty" jsonschema:"Optional glob limiting which files are searched (e.g. *.py or src/**/*.go)"`
	MaxResults int      `json:"maxResults,omitempty" jsonschema:"Maximum number of matching lines to return (default 50)"`
}

// SearchHandler holds the dependencies for the search_files tool.
type SearchHandler struct {
	Source scanner.Source
	Logger *slog.Logger
}

// Handle processes a search_files request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	queries := search.CompileAll(args.Queries)
	if len(queries) == 0 {
		h.Logger.Warn("search_files called without queries")
		return errorResult("Error: queries parameter is required"), nil, nil
	}

	if args.Pattern != "" && !doublestar.ValidatePattern(args.Pattern) {
		h.Logger.Warn("search_files called with invalid pattern", "pattern", args.Pattern)
		return errorResult(fmt.Sprintf("Error: invalid glob pattern %q", args.Pattern)), nil, nil
	}

	root, err := resolveRoot(args.Path)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	snapshot, err := h.Source.Snapshot(root)
	if err != nil {
		h.Logger.Error("search_files scan failed", "root", root, "error", err)
		return errorResult(fmt.Sprintf("Scan error: %v", err)), nil, nil
	}

	files := matchFiles(snapshot.Files, args.Pattern)
	hits, total := search.Search(root, files, queries, args.MaxResults)

	h.Logger.Info("search_files",
		"root", root,
		"queries", len(queries),
		"pattern", args.Pattern,
		"files", len(files),
		"hits", len(hits),
		"total", total,
		"elapsed", time.Since(start),
	)
	return textResult(FormatSearchResults(hits, total)), nil, nil
}
