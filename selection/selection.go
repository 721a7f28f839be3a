package selection

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexandro/contextengine-mcp/llm"
)

// DefaultMaxFiles caps the number of files handed to content assembly.
const DefaultMaxFiles = 50

// Result is an ordered subset of the scanned files.
type Result []string

// SystemPrompt frames the selection call.
const SystemPrompt = `You are a codebase analysis expert. You pick the files a developer needs to read to answer a question about their codebase. You only ever answer with file paths copied exactly from the list you are given.`

const selectionPromptTemplate = `You are analyzing a codebase to answer a developer's question.

## Question
%s

## Complete File List
%s

## Your Task
Select (max %d) relevant files to answer this question. Consider:
- Files likely to contain the answer directly
- Configuration files that provide context
- Entry points (main.go, main.py, app.py, index.js, etc.)
- Core modules and utilities
- README and documentation files

Entries may carry a match-count annotation such as "path [term: 3]". It is a hint, not a requirement.

## Output Format
Return ONLY a list of file paths, one per line, exactly as they appear in the list, with NO additional text, numbering or annotations:

path/to/file1.py
path/to/file2.js
path/to/config.json
`

// Prompt builds the user message for the selection call.
func Prompt(question string, annotated []string, maxFiles int) string {
	return fmt.Sprintf(selectionPromptTemplate, question, strings.Join(annotated, "\n"), maxFiles)
}

// Validate keeps candidates that exactly equal an entry of groundTruth, in
// candidate order, without duplicates, stopping once maxFiles are collected.
// A non-positive maxFiles means DefaultMaxFiles.
func Validate(candidates, groundTruth []string, maxFiles int) Result {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	known := make(map[string]struct{}, len(groundTruth))
	for _, f := range groundTruth {
		known[f] = struct{}{}
	}

	result := Result{}
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if _, ok := known[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
		if len(result) >= maxFiles {
			break
		}
	}
	return result
}

// Select asks the completer to choose up to maxFiles files from annotated and
// validates the answer against groundTruth. A failed call is returned as an
// error; an empty or unparseable answer is an empty Result.
func Select(ctx context.Context, completer llm.Completer, question string, annotated, groundTruth []string, maxFiles int) (Result, error) {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if len(groundTruth) == 0 {
		return Result{}, nil
	}

	text, err := completer.Complete(ctx, SystemPrompt, []llm.Message{llm.UserMessage(Prompt(question, annotated, maxFiles))})
	if err != nil {
		return nil, fmt.Errorf("selecting files: %w", err)
	}
	return Validate(ParseCandidates(text), groundTruth, maxFiles), nil
}
