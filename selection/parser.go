// Package selection turns the reasoning step's free-text file choice into a
// validated subset of the scanned repository.
package selection

import (
	"strings"
	"unicode"
)

// stage is one normalization step applied to a candidate line.
type stage func(string) string

// candidateStages run in order on every line of a response.
var candidateStages = []stage{
	strings.TrimSpace,
	stripListMarker,
	stripWrapping,
	stripAnnotation,
	strings.TrimSpace,
}

// ParseCandidates splits text into lines and normalizes each one, dropping
// lines that end up empty. It accepts any input.
func ParseCandidates(text string) []string {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		if c := normalize(line); c != "" {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func normalize(line string) string {
	for _, s := range candidateStages {
		line = s(line)
		if line == "" {
			return ""
		}
	}
	return line
}

// stripListMarker removes leading bullets ("-", "*", "+", "•") and numbered
// markers ("1.", "2)") that are followed by whitespace or end the line.
// Markers may repeat, e.g. "- 1. path".
func stripListMarker(s string) string {
	for {
		rest, ok := cutMarker(s)
		if !ok {
			return s
		}
		s = strings.TrimLeftFunc(rest, unicode.IsSpace)
	}
}

func cutMarker(s string) (string, bool) {
	if s == "" {
		return s, false
	}
	for _, bullet := range []string{"-", "*", "+", "•"} {
		if rest, ok := strings.CutPrefix(s, bullet); ok && (rest == "" || startsWithSpace(rest)) {
			return rest, true
		}
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits == len(s) {
		return s, false
	}
	if s[digits] != '.' && s[digits] != ')' {
		return s, false
	}
	rest := s[digits+1:]
	if rest != "" && !startsWithSpace(rest) {
		return s, false
	}
	return rest, true
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}

// stripWrapping removes markdown code ticks, bold markers and quotes around a path.
func stripWrapping(s string) string {
	return strings.Trim(s, "`\"'*")
}

// stripAnnotation removes a trailing "[term: n, ...]" match-count annotation.
func stripAnnotation(s string) string {
	if !strings.HasSuffix(s, "]") {
		return s
	}
	i := strings.LastIndex(s, " [")
	if i < 0 {
		return s
	}
	return strings.Trim(strings.TrimSpace(s[:i]), "`\"'*")
}
