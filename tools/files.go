package tools

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/contextengine-mcp/scanner"
)

// defaultMaxFiles caps list_files output when maxResults is not set.
const defaultMaxFiles = 200

// FilesArgs defines the input parameters for the list_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern,omitempty" jsonschema:"Glob pattern to match files (e.g. **/*.ts or src/**/*.go); empty lists every visible file"`
	Path       string `json:"path,omitempty" jsonschema:"Root directory of the codebase (default: the server's working directory)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of files to return (default 200)"`
}

// FilesHandler holds the dependencies for the list_files tool.
type FilesHandler struct {
	Source scanner.Source
	Logger *slog.Logger
}

// Handle processes a list_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern != "" && !doublestar.ValidatePattern(args.Pattern) {
		h.Logger.Warn("list_files called with invalid pattern", "pattern", args.Pattern)
		return errorResult(fmt.Sprintf("Error: invalid glob pattern %q", args.Pattern)), nil, nil
	}

	root, err := resolveRoot(args.Path)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	snapshot, err := h.Source.Snapshot(root)
	if err != nil {
		h.Logger.Error("list_files scan failed", "root", root, "error", err)
		return errorResult(fmt.Sprintf("Scan error: %v", err)), nil, nil
	}

	matched := matchFiles(snapshot.Files, args.Pattern)
	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxFiles
	}
	total := len(matched)
	if total > maxResults {
		matched = matched[:maxResults]
	}

	h.Logger.Info("list_files",
		"root", root,
		"pattern", args.Pattern,
		"results", total,
		"elapsed", time.Since(start),
	)
	return textResult(FormatFileResults(matched, total)), nil, nil
}

// matchFiles keeps files matching pattern. Patterns without a slash also
// match against the base name, so "*.go" finds Go files at any depth.
func matchFiles(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}
	var matched []string
	for _, f := range files {
		if ok, _ := doublestar.Match(pattern, f); ok {
			matched = append(matched, f)
			continue
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(f)); ok {
				matched = append(matched, f)
			}
		}
	}
	return matched
}
