// Package citation finds symbolic code references in an answer and replaces
// them with numbered excerpts read from the repository.
package citation

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lexandro/contextengine-mcp/language"
)

// minLineNumberWidth is the narrowest right-aligned line number column.
const minLineNumberWidth = 4

// Instructions tells the reasoning step how to cite code. Resolve accepts
// exactly this form.
const Instructions = `When you reference code from the files above, cite it with a code reference block instead of copying the code:

<code_reference>
  <path>relative/path/to/file.ext</path>
  <lines>START,END</lines>
</code_reference>

Use the path exactly as it appears after "=== FILE:". START and END are 1-based, inclusive source line numbers. "[Line N]" markers are position hints inserted before line N; they are not part of the file and do not shift line numbers. A "... [TRUNCATED: K more lines] ..." footer means the remaining lines were not shown. Each reference is replaced with the real, line-numbered excerpt before your answer is shown.`

var referencePattern = regexp.MustCompile(`<code_reference>\s*<path>\s*(.*?)\s*</path>\s*<lines>\s*(\d+)\s*,\s*(\d+)\s*</lines>\s*</code_reference>`)

// Reference is one parsed citation.
type Reference struct {
	Path      string
	StartLine int
	EndLine   int
}

// Parse returns every well-formed reference in text, in order.
func Parse(text string) []Reference {
	var refs []Reference
	for _, m := range referencePattern.FindAllStringSubmatch(text, -1) {
		refs = append(refs, newReference(m[1], m[2], m[3]))
	}
	return refs
}

func newReference(path, start, end string) Reference {
	return Reference{Path: path, StartLine: parseLineNumber(start), EndLine: parseLineNumber(end)}
}

// parseLineNumber saturates numbers too large for int.
func parseLineNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// PathMatcher reports whether a root-relative path is excluded from view.
// *ignore.Matcher implements it.
type PathMatcher interface {
	Matches(relativePath string) bool
}

var (
	// ErrOutsideRoot is returned for a path that leaves the root.
	ErrOutsideRoot = errors.New("path is outside the repository root")
	// ErrExcluded is returned for a path hidden by the ignore rules.
	ErrExcluded = errors.New("path is excluded by ignore rules")
)

// CheckPath cleans a reference path and refuses it when it leaves the root
// or when excluded matches it. A nil excluded only enforces the root.
func CheckPath(rel string, excluded PathMatcher) (string, error) {
	cleaned := path.Clean(filepath.ToSlash(rel))
	if !filepath.IsLocal(filepath.FromSlash(cleaned)) {
		return "", ErrOutsideRoot
	}
	if excluded != nil && excluded.Matches(cleaned) {
		return "", ErrExcluded
	}
	return cleaned, nil
}

// Resolve replaces every reference in text with its rendered excerpt and
// keeps the surrounding prose. Text without references is returned as is.
// References to paths outside root or matched by excluded become notices.
func Resolve(text, root string, excluded PathMatcher) string {
	matches := referencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		ref := newReference(text[m[2]:m[3]], text[m[4]:m[5]], text[m[6]:m[7]])
		if cleaned, err := CheckPath(ref.Path, excluded); err != nil {
			sb.WriteString(notice(ref.Path, err.Error()))
		} else {
			ref.Path = cleaned
			sb.WriteString(RenderExcerpt(root, ref))
		}
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// RenderExcerpt reads ref from root and renders it as a header and a fenced,
// line-numbered block. Problems with the file are rendered as a notice.
func RenderExcerpt(root string, ref Reference) string {
	lines, err := readLines(root, ref.Path)
	if err != nil {
		return notice(ref.Path, err.Error())
	}

	total := len(lines)
	start := max(1, ref.StartLine)
	end := min(total, ref.EndLine)
	if start > total {
		return notice(ref.Path, fmt.Sprintf("start line %d exceeds file length (%d lines)", start, total))
	}
	if end < start {
		end = start
	}

	width := max(minLineNumberWidth, len(strconv.Itoa(end)))
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (lines %d-%d)\n", ref.Path, start, end)
	sb.WriteString("```")
	sb.WriteString(language.FenceTag(ref.Path))
	sb.WriteString("\n")
	for n := start; n <= end; n++ {
		fmt.Fprintf(&sb, "%*d | %s\n", width, n, lines[n-1])
	}
	sb.WriteString("```")
	return sb.String()
}

var (
	errNotFound  = errors.New("file not found")
	errNotFile   = errors.New("not a regular file")
	errUndecoded = errors.New("file could not be decoded as text")
)

func readLines(root, rel string) ([]string, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	// Lstat: a symlink could point outside the root, and scans skip them too.
	info, err := os.Lstat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errNotFound
		}
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errNotFile
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if language.IsBinaryContent(data) || !utf8.Valid(data) {
		return nil, errUndecoded
	}
	return language.SplitLines(string(data)), nil
}

func notice(path, msg string) string {
	return fmt.Sprintf("[Reference %s: %s]", path, msg)
}
