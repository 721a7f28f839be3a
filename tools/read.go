package tools

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/contextengine-mcp/citation"
	"github.com/lexandro/contextengine-mcp/ignore"
)

// ReadArgs defines the input parameters for the read_file tool.
type ReadArgs struct {
	FilePath  string `json:"filePath" jsonschema:"File path relative to the root (e.g. src/main.go)"`
	Path      string `json:"path,omitempty" jsonschema:"Root directory of the codebase (default: the server's working directory)"`
	StartLine int    `json:"startLine,omitempty" jsonschema:"First line to return, 1-based (default 1)"`
	EndLine   int    `json:"endLine,omitempty" jsonschema:"Last line to return, inclusive (default: end of file)"`
}

// ReadHandler holds the dependencies for the read_file tool.
type ReadHandler struct {
	CustomPatterns []string
	Logger         *slog.Logger
}

// Handle processes a read_file request. The range is clamped to the file the
// same way citations are.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("read_file called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}
	if _, err := citation.CheckPath(args.FilePath, nil); err != nil {
		return errorResult(fmt.Sprintf("Error: %s is not a path inside the root", args.FilePath)), nil, nil
	}

	root, err := resolveRoot(args.Path)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root, CustomPatterns: h.CustomPatterns})
	rel, err := citation.CheckPath(args.FilePath, matcher)
	if err != nil {
		h.Logger.Info("read_file refused ignored path", "filePath", args.FilePath)
		return errorResult(fmt.Sprintf("Error: %s is excluded by ignore rules", args.FilePath)), nil, nil
	}

	ref := citation.Reference{Path: rel, StartLine: args.StartLine, EndLine: args.EndLine}
	if ref.StartLine <= 0 {
		ref.StartLine = 1
	}
	if ref.EndLine <= 0 {
		ref.EndLine = math.MaxInt
	}
	output := citation.RenderExcerpt(root, ref)

	h.Logger.Info("read_file", "filePath", rel, "startLine", ref.StartLine, "elapsed", time.Since(start))
	return textResult(output), nil, nil
}
