package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lexandro/contextengine-mcp/language"
)

// Report maps a relative path to per-query counts of matching lines. Files and
// queries with zero matches are absent.
type Report map[string]map[string]int

// Total returns the number of matching lines for path summed over all queries.
func (r Report) Total(path string) int {
	total := 0
	for _, count := range r[path] {
		total += count
	}
	return total
}

// Files returns the matched paths in lexicographic order.
func (r Report) Files() []string {
	files := make([]string, 0, len(r))
	for path := range r {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Score counts, for every file and query, the lines on which the query matches
// at least once. A line with several hits counts once. Unreadable files are
// skipped; invalid UTF-8 and NUL bytes are decoded permissively.
func Score(root string, files []string, queries []Query) Report {
	report := make(Report)
	if len(queries) == 0 {
		return report
	}

	for _, relPath := range files {
		lines, ok := readLines(root, relPath, true)
		if !ok {
			continue
		}
		for _, q := range queries {
			count := 0
			for _, line := range lines {
				if q.MatchLine(line) {
					count++
				}
			}
			if count == 0 {
				continue
			}
			if report[relPath] == nil {
				report[relPath] = make(map[string]int)
			}
			report[relPath][q.Text] = count
		}
	}
	return report
}

// Annotate renders the candidate list shown to the reasoning step: one path
// per entry, followed by "[term: count, term: count]" when it has matches.
// Terms follow query order. The order of files is unchanged.
func Annotate(files []string, report Report, queries []Query) []string {
	annotated := make([]string, 0, len(files))
	for _, path := range files {
		counts, ok := report[path]
		if !ok {
			annotated = append(annotated, path)
			continue
		}
		parts := make([]string, 0, len(counts))
		for _, q := range queries {
			if count, ok := counts[q.Text]; ok {
				parts = append(parts, fmt.Sprintf("%s: %d", q.Text, count))
			}
		}
		annotated = append(annotated, fmt.Sprintf("%s [%s]", path, strings.Join(parts, ", ")))
	}
	return annotated
}

// LineHit is one matching line.
type LineHit struct {
	Path       string
	LineNumber int
	Text       string
	Query      string
}

// DefaultMaxHits caps Search results.
const DefaultMaxHits = 50

// MaxHitTextLength truncates long matching lines.
const MaxHitTextLength = 200

// Search returns matching lines across files, at most one hit per path and
// line (the first query that matches wins), capped at maxHits. The second
// return value is the uncapped number of hits.
func Search(root string, files []string, queries []Query, maxHits int) ([]LineHit, int) {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	var hits []LineHit
	total := 0
	for _, relPath := range files {
		lines, ok := readLines(root, relPath, false)
		if !ok {
			continue
		}
		for i, line := range lines {
			for _, q := range queries {
				if !q.MatchLine(line) {
					continue
				}
				total++
				if len(hits) < maxHits {
					hits = append(hits, LineHit{
						Path:       relPath,
						LineNumber: i + 1,
						Text:       truncate(line, MaxHitTextLength),
						Query:      q.Text,
					})
				}
				break
			}
		}
	}
	return hits, total
}

// readLines reads a file as lossily decoded lines. Files containing NUL are
// read only when includeBinary is set; scoring counts them like any other
// file, while line hits from them would be noise.
func readLines(root, relPath string, includeBinary bool) ([]string, bool) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, false
	}
	if !includeBinary && language.IsBinaryContent(data) {
		return nil, false
	}
	return language.SplitLines(language.DecodeLossy(data)), true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
