package tools

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/contextengine-mcp/engine"
)

// ContextArgs defines the input parameters for the context_engine tool.
type ContextArgs struct {
	Question string   `json:"question" jsonschema:"Question about the codebase, e.g. how does authentication work?"`
	Path     string   `json:"path,omitempty" jsonschema:"Root directory of the codebase (default: the server's working directory)"`
	Terms    []string `json:"terms,omitempty" jsonschema:"Optional search terms; files are annotated with per-term match counts before selection"`
}

// ContextHandler holds the dependencies for the context_engine tool.
type ContextHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a context_engine request. Pipeline failures come back as
// answer text, the way the engine reports them.
func (h *ContextHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ContextArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if strings.TrimSpace(args.Question) == "" {
		h.Logger.Warn("context_engine called with empty question")
		return errorResult("Error: question parameter is required"), nil, nil
	}

	answer := h.Engine.Answer(ctx, engine.Request{
		Question: args.Question,
		Root:     args.Path,
		Terms:    args.Terms,
	})

	h.Logger.Info("context_engine",
		"path", args.Path,
		"terms", len(args.Terms),
		"answerBytes", len(answer),
		"elapsed", time.Since(start),
	)
	return textResult(answer), nil, nil
}
