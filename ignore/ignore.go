package ignore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides whether a path relative to the repository root is excluded.
// It combines the built-in defaults, the root .gitignore and .contextignore
// files, and custom CLI patterns. A Matcher is immutable once built, so a fresh
// one is compiled for every scan.
type Matcher struct {
	rootDir        string
	patterns       []string
	compiled       gitignore.GitIgnore
	customPatterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string
	CustomPatterns []string
}

// NewMatcher compiles the ignore spec for a root directory. Missing ignore files
// are not an error; the defaults alone are used.
func NewMatcher(options MatcherOptions) *Matcher {
	patterns := append([]string(nil), DefaultIgnorePatterns...)
	for _, name := range IgnoreFileNames {
		patterns = append(patterns, readIgnoreLines(filepath.Join(options.RootDir, name))...)
	}

	custom := make([]string, 0, len(options.CustomPatterns))
	for _, pattern := range options.CustomPatterns {
		pattern = strings.TrimSpace(filepath.ToSlash(pattern))
		if pattern != "" {
			custom = append(custom, pattern)
		}
	}

	return &Matcher{
		rootDir:        options.RootDir,
		patterns:       patterns,
		compiled:       compile(patterns, options.RootDir),
		customPatterns: custom,
	}
}

// Patterns returns the compiled gitignore lines (defaults first, then ignore files).
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Matches reports whether a root-relative path is excluded. Directories are
// passed with a trailing slash ("build/"). A path inside an excluded directory
// is excluded as well, even if the caller never tested the directory itself.
func (m *Matcher) Matches(relativePath string) bool {
	rel := filepath.ToSlash(relativePath)
	isDir := strings.HasSuffix(rel, "/")
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return false
	}
	if !isDir && isIgnoreFile(rel) {
		return true
	}

	parts := strings.Split(rel, "/")
	for i := 1; i <= len(parts); i++ {
		prefix := strings.Join(parts[:i], "/")
		dir := i < len(parts) || isDir
		if m.matchOne(prefix, dir) {
			return true
		}
	}
	return false
}

// MatchesAbsolute is Matches for an absolute path under the root.
func (m *Matcher) MatchesAbsolute(absolutePath string, isDir bool) bool {
	rel, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return m.Matches(rel)
}

// ShouldIgnoreDir satisfies watcher.IgnoreChecker.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	return m.MatchesAbsolute(absolutePath, true)
}

// ShouldIgnore satisfies watcher.IgnoreChecker. The path may no longer exist.
// Edits to the root ignore files are never ignored since they change the scan.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	if rel, err := filepath.Rel(m.rootDir, absolutePath); err == nil && isIgnoreFile(filepath.ToSlash(rel)) {
		return false
	}
	isDir := false
	if info, err := os.Stat(absolutePath); err == nil {
		isDir = info.IsDir()
	}
	return m.MatchesAbsolute(absolutePath, isDir)
}

// matchOne tests a single path (no ancestors) against the compiled spec and the
// custom patterns.
func (m *Matcher) matchOne(relativePath string, isDir bool) bool {
	if m.compiled != nil {
		if match := m.compiled.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}
	return m.matchesCustomPatterns(relativePath, isDir)
}

// matchesCustomPatterns checks user-provided --exclude globs against the
// relative path and its basename. A trailing slash restricts a pattern to directories.
func (m *Matcher) matchesCustomPatterns(relativePath string, isDir bool) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.customPatterns {
		if strings.HasSuffix(pattern, "/") {
			if !isDir {
				continue
			}
			pattern = strings.TrimSuffix(pattern, "/")
		}
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// isIgnoreFile reports whether rel is one of the root-level ignore files,
// which configure the scan rather than being part of it.
func isIgnoreFile(rel string) bool {
	for _, name := range IgnoreFileNames {
		if rel == name {
			return true
		}
	}
	return false
}

// compile builds a GitIgnore from pattern lines. Malformed lines are skipped.
func compile(patterns []string, baseDir string) gitignore.GitIgnore {
	source := strings.Join(patterns, "\n") + "\n"
	return gitignore.New(strings.NewReader(source), baseDir, func(gitignore.Error) bool {
		return true
	})
}

// readIgnoreLines reads an ignore file best-effort: invalid UTF-8 is replaced,
// lines carrying NUL bytes are dropped, and a missing file yields nothing.
func readIgnoreLines(filePath string) []string {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}

	var lines []string
	for _, raw := range bytes.Split(data, []byte("\n")) {
		if bytes.IndexByte(raw, 0) >= 0 {
			continue
		}
		line := strings.TrimRight(strings.ToValidUTF8(string(raw), "�"), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
