package search

import (
	"regexp"
	"strings"
)

// regexMetachars are the characters that make a term be treated as a regular expression.
const regexMetachars = `.*+?[]{}()^$|\`

// Word boundaries for ModeWord. RE2's \b only knows ASCII word characters,
// so letters and digits from every script are spelled out.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// Mode records how a query text was compiled.
type Mode int

const (
	// ModeWord matches the text as a whole word, case-insensitively.
	ModeWord Mode = iota
	// ModeRegex matches the text as a case-insensitive regular expression.
	ModeRegex
	// ModeLiteral matches the escaped text case-insensitively; used when the
	// text looked like a regex but did not compile.
	ModeLiteral
)

func (m Mode) String() string {
	switch m {
	case ModeRegex:
		return "regex"
	case ModeLiteral:
		return "literal"
	default:
		return "word"
	}
}

// Query is a compiled search term.
type Query struct {
	Text   string
	Mode   Mode
	Regexp *regexp.Regexp
}

// Compile classifies and compiles a search term:
//   - text with any regex metacharacter is compiled as a case-insensitive
//     regex, falling back to a case-insensitive literal match if it is invalid;
//   - anything else becomes a case-insensitive whole-word match, so "login"
//     does not match "relogin".
func Compile(text string) Query {
	if strings.ContainsAny(text, regexMetachars) {
		if re, err := regexp.Compile("(?i)" + text); err == nil {
			return Query{Text: text, Mode: ModeRegex, Regexp: re}
		}
		return Query{Text: text, Mode: ModeLiteral, Regexp: regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))}
	}
	return Query{Text: text, Mode: ModeWord, Regexp: regexp.MustCompile(`(?i)` + wordStart + regexp.QuoteMeta(text) + wordEnd)}
}

// CompileAll compiles terms in order, dropping blanks and duplicates.
func CompileAll(terms []string) []Query {
	seen := make(map[string]bool, len(terms))
	queries := make([]Query, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		queries = append(queries, Compile(term))
	}
	return queries
}

// MatchLine reports whether the query matches anywhere in line.
func (q Query) MatchLine(line string) bool {
	return q.Regexp.MatchString(line)
}
