package engine

import (
	"fmt"
	"strings"

	"github.com/lexandro/contextengine-mcp/citation"
)

// SystemPrompt frames the analysis and term generation calls.
const SystemPrompt = `You are a codebase analysis expert. Your job is to help developers understand their codebase by answering questions with comprehensive, well-organized context.

You excel at:
- Identifying relevant files and code sections
- Explaining how code works and how components relate to each other
- Providing complete context with actual code snippets
- Organizing information clearly and concisely
- Identifying edge cases, limitations, and potential gotchas

Always be thorough but concise. Cite specific line numbers.

Your task is to give the user all of the context and code needed to start making actual code changes just through your answer.`

const analysisTemplate = `Question: %s

Files available:
%s

Code content:
%s

Instructions:
1. Give a direct 2-3 sentence answer first
2. Show the relevant code and the important context and uses of that code. Include all of the relevant context.
3. Be concise: simple questions need simple answers, complex questions need detailed answers
4. Cite line numbers when referencing code
5. Use markdown: headers, code blocks, tables if helpful

%s`

const termsTemplate = `A developer asked this question about a codebase:

%s

List up to %d search terms that would appear in the source code relevant to the question: identifiers, function names, keywords, or short regular expressions. Return ONLY the terms, one per line, with no numbering or explanation.`

// noFilesNotice stands in for the code content when nothing was selected.
const noFilesNotice = "[No files were selected for this question. Answer from the file list alone and say that no code could be inspected.]"

// noResponse is returned when the analysis call produced no text.
const noResponse = "No response generated."

func analysisPrompt(question string, files []string, contents string) string {
	if strings.TrimSpace(contents) == "" {
		contents = noFilesNotice
	}
	return fmt.Sprintf(analysisTemplate, question, strings.Join(files, "\n"), contents, citation.Instructions)
}

func termsPrompt(question string, maxTerms int) string {
	return fmt.Sprintf(termsTemplate, question, maxTerms)
}
