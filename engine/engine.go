// Package engine runs one context query end to end: scan, optional term
// scoring, file selection, content assembly, analysis and citation
// resolution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexandro/contextengine-mcp/citation"
	"github.com/lexandro/contextengine-mcp/config"
	"github.com/lexandro/contextengine-mcp/content"
	"github.com/lexandro/contextengine-mcp/ignore"
	"github.com/lexandro/contextengine-mcp/llm"
	"github.com/lexandro/contextengine-mcp/scanner"
	"github.com/lexandro/contextengine-mcp/search"
	"github.com/lexandro/contextengine-mcp/selection"
)

// ErrEmptyQuestion is returned for a blank question.
var ErrEmptyQuestion = errors.New("question must not be empty")

// maxGeneratedTerms caps the terms accepted from term generation.
const maxGeneratedTerms = 8

// Request is one query against a repository root.
type Request struct {
	Question string
	Root     string
	// Terms are scored and annotated onto the candidate list when present.
	Terms []string
	// GenerateTerms asks the reasoning step for terms when none are given.
	GenerateTerms bool
}

// Engine holds the collaborators shared by all queries. It keeps no
// per-query state.
type Engine struct {
	cfg       *config.Config
	completer llm.Completer
	source    scanner.Source
	logger    *slog.Logger
}

// New creates an engine. A nil source rescans the tree on every query.
func New(cfg *config.Config, completer llm.Completer, logger *slog.Logger, source scanner.Source) *Engine {
	if source == nil {
		source = scanner.Fresh{CustomPatterns: cfg.Excludes, Logger: logger}
	}
	return &Engine{cfg: cfg, completer: completer, source: source, logger: logger}
}

// Query runs the pipeline and returns the resolved answer. Input errors
// (blank question, missing root) are returned before any other work.
func (e *Engine) Query(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	logger := e.logger.With("queryID", uuid.NewString())

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", req.Root, err)
	}
	if err := scanner.ValidateRoot(root); err != nil {
		return "", err
	}
	logger.Info("context query started", "root", root, "question", question)

	snapshot, err := e.source.Snapshot(root)
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", root, err)
	}

	terms := req.Terms
	if len(terms) == 0 && (req.GenerateTerms || e.cfg.GenerateTerms) {
		terms = e.generateTerms(ctx, logger, question)
	}
	annotated := snapshot.Files
	if queries := search.CompileAll(terms); len(queries) > 0 {
		report := search.Score(root, snapshot.Files, queries)
		annotated = search.Annotate(snapshot.Files, report, queries)
		logger.Info("scored files", "terms", len(queries), "matchedFiles", len(report))
	}

	selected, err := selection.Select(ctx, e.completer, question, annotated, snapshot.Files, e.cfg.MaxFiles)
	if err != nil {
		return "", err
	}
	logger.Info("selected files", "selected", len(selected), "files", snapshot.Len())

	packet := content.Assemble(root, selected, content.Options{
		MaxLines:       e.cfg.MaxLines,
		MarkerInterval: e.cfg.MarkerInterval,
		Logger:         logger,
	})

	prompt := analysisPrompt(question, snapshot.Files, packet.Render())
	answer, err := e.completer.Complete(ctx, SystemPrompt, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		answer = noResponse
	}

	visible := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root, CustomPatterns: e.cfg.Excludes})
	resolved := citation.Resolve(answer, root, visible)
	logger.Info("context query complete",
		"citations", len(citation.Parse(answer)),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return resolved, nil
}

// generateTerms asks for search terms. Failures only cost the annotation.
func (e *Engine) generateTerms(ctx context.Context, logger *slog.Logger, question string) []string {
	text, err := e.completer.Complete(ctx, SystemPrompt, []llm.Message{llm.UserMessage(termsPrompt(question, maxGeneratedTerms))})
	if err != nil {
		logger.Warn("term generation failed, continuing without terms", "error", err)
		return nil
	}
	terms := selection.ParseCandidates(text)
	if len(terms) > maxGeneratedTerms {
		terms = terms[:maxGeneratedTerms]
	}
	logger.Debug("generated terms", "terms", terms)
	return terms
}

// Answer runs Query and always returns text: input errors become a short
// message, anything else an "Error during analysis:" report with a stack
// trace. Panics are recovered the same way.
func (e *Engine) Answer(ctx context.Context, req Request) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during analysis", "panic", r)
			answer = fmt.Sprintf("Error during analysis:\n%v\n\n%s", r, debug.Stack())
		}
	}()

	result, err := e.Query(ctx, req)
	if err != nil {
		return e.formatError(req, err)
	}
	return result
}

func (e *Engine) formatError(req Request, err error) string {
	switch {
	case errors.Is(err, scanner.ErrRootNotFound):
		return fmt.Sprintf("Error: Path %s does not exist.", req.Root)
	case errors.Is(err, scanner.ErrRootNotDir):
		return fmt.Sprintf("Error: Path %s is not a directory.", req.Root)
	case errors.Is(err, ErrEmptyQuestion):
		return "Error: " + err.Error()
	}
	e.logger.Error("analysis failed", "root", req.Root, "error", err)
	return fmt.Sprintf("Error during analysis:\n%v\n\n%s", err, debug.Stack())
}
