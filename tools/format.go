package tools

import (
	"fmt"
	"strings"

	"github.com/lexandro/contextengine-mcp/language"
	"github.com/lexandro/contextengine-mcp/search"
)

// FormatSearchResults groups line hits by file, in hit order.
func FormatSearchResults(hits []search.LineHit, totalMatches int) string {
	if len(hits) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	fileCount := 0
	for i, hit := range hits {
		if i == 0 || hits[i-1].Path != hit.Path {
			fileCount++
		}
	}
	builder.WriteString(fmt.Sprintf("Found %d matches in %d files", totalMatches, fileCount))
	if totalMatches > len(hits) {
		builder.WriteString(fmt.Sprintf(" (showing first %d)", len(hits)))
	}
	builder.WriteString(":\n")

	for i, hit := range hits {
		if i == 0 || hits[i-1].Path != hit.Path {
			builder.WriteString(fmt.Sprintf("\n── %s ──\n", hit.Path))
		}
		builder.WriteString(fmt.Sprintf("  %d: %s\n", hit.LineNumber, hit.Text))
	}

	return builder.String()
}

// FormatFileResults lists files with their detected language.
func FormatFileResults(files []string, total int) string {
	if len(files) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files", total))
	if total > len(files) {
		builder.WriteString(fmt.Sprintf(" (showing first %d)", len(files)))
	}
	builder.WriteString(":\n\n")

	for _, f := range files {
		builder.WriteString(fmt.Sprintf("  %s  (%s)\n", f, language.DetectLanguage(f)))
	}

	return builder.String()
}
