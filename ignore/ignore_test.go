package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Matcher_DefaultPatterns_NodeModules(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})

	if !matcher.Matches("node_modules/") {
		t.Error("expected node_modules directory to be ignored")
	}
	if !matcher.Matches("web/node_modules/express/index.js") {
		t.Error("expected files under a nested node_modules to be ignored")
	}
}

func Test_Matcher_DefaultPatterns_GitDir(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})

	if !matcher.Matches(".git/") {
		t.Error("expected .git directory to be ignored")
	}
	if !matcher.Matches(".git/config") {
		t.Error("expected .git files to be ignored")
	}
}

func Test_Matcher_DefaultPatterns_CompiledPython(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})

	if !matcher.Matches("pkg/module.pyc") {
		t.Error("expected *.pyc files to be ignored")
	}
	if !matcher.Matches("pkg/__pycache__/") {
		t.Error("expected __pycache__ directories to be ignored")
	}
}

func Test_Matcher_DefaultPatterns_AllowsSourceFiles(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})

	for _, path := range []string{"main.go", "src/a.py", "src/", "docs/README.md"} {
		if matcher.Matches(path) {
			t.Errorf("expected %s to NOT be ignored", path)
		}
	}
}

func Test_Matcher_DirectoryOnlyPattern(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})

	// "build/" only applies to directories
	if !matcher.Matches("build/") {
		t.Error("expected build/ directory to be ignored")
	}
	if matcher.Matches("tools/build") {
		t.Error("expected a plain file named build to NOT be ignored")
	}
}

func Test_Matcher_GitignoreIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("*.log\nsecret/\n/generated.go\n"), 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	tests := []struct {
		path    string
		ignored bool
	}{
		{"run.log", true},
		{"logs/deep/app.log", true},
		{"secret/", true},
		{"secret/key.pem", true},
		{"generated.go", true},
		{"pkg/generated.go", false},
		{"main.go", false},
	}
	for _, tt := range tests {
		if got := matcher.Matches(tt.path); got != tt.ignored {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.ignored)
		}
	}
}

func Test_Matcher_DoubleStarPattern(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("docs/**/draft.md\n"), 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.Matches("docs/a/b/draft.md") {
		t.Error("expected ** pattern to match nested draft.md")
	}
	if matcher.Matches("notes/draft.md") {
		t.Error("expected draft.md outside docs to NOT be ignored")
	}
}

func Test_Matcher_ContextignoreIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ".contextignore"), []byte("fixtures/\n*.snap\n"), 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.Matches("fixtures/") {
		t.Error("expected .contextignore directory pattern to apply")
	}
	if !matcher.Matches("ui/button.snap") {
		t.Error("expected .contextignore glob pattern to apply")
	}
}

func Test_Matcher_MissingIgnoreFile(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: filepath.Join(t.TempDir(), "does-not-exist")})

	if len(matcher.Patterns()) != len(DefaultIgnorePatterns) {
		t.Errorf("expected only default patterns, got %d", len(matcher.Patterns()))
	}
	if !matcher.Matches(".git/") {
		t.Error("expected defaults to still apply")
	}
}

func Test_Matcher_BinaryIgnoreFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("*.tmp\n\x00\x01\x02garbage\n\xff\xfe\ncache-dir/\n")
	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), content, 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.Matches("x.tmp") {
		t.Error("expected readable lines before binary content to apply")
	}
	if !matcher.Matches("cache-dir/") {
		t.Error("expected readable lines after binary content to apply")
	}
	if matcher.Matches("main.go") {
		t.Error("expected main.go to NOT be ignored")
	}
}

func Test_Matcher_CustomPatterns(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{
		RootDir:        t.TempDir(),
		CustomPatterns: []string{"*.custom", "testdata/", "**/*.pb.go"},
	})

	tests := []struct {
		path    string
		ignored bool
	}{
		{"data.custom", true},
		{"a/b/data.custom", true},
		{"testdata/", true},
		{"testdata/input.txt", true},
		{"api/v1/service.pb.go", true},
		{"api/v1/service.go", false},
	}
	for _, tt := range tests {
		if got := matcher.Matches(tt.path); got != tt.ignored {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.ignored)
		}
	}
}

func Test_Matcher_ShouldIgnoreDir(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	tests := []struct {
		dirName string
		ignored bool
	}{
		{".git", true},
		{"node_modules", true},
		{"__pycache__", true},
		{".idea", true},
		{"src", false},
		{"lib", false},
	}

	for _, tt := range tests {
		dirPath := filepath.Join(tmpDir, tt.dirName)
		got := matcher.ShouldIgnoreDir(dirPath)
		if got != tt.ignored {
			t.Errorf("ShouldIgnoreDir(%s) = %v, want %v", tt.dirName, got, tt.ignored)
		}
	}
}

func Test_Matcher_ShouldIgnore_OutsideRoot(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: filepath.Join(tmpDir, "repo")})

	if matcher.ShouldIgnore(filepath.Join(tmpDir, "other", "x.pyc")) {
		t.Error("expected paths outside the root to never match")
	}
}

func Test_Matcher_RootIgnoreFilesExcluded(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("*.log\n"), 0644)
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.Matches(".gitignore") {
		t.Error("expected the root .gitignore to be excluded from scans")
	}
	if matcher.Matches("web/.gitignore") {
		t.Error("expected nested .gitignore files to stay visible")
	}
	if matcher.ShouldIgnore(filepath.Join(tmpDir, ".gitignore")) {
		t.Error("expected edits to the root .gitignore to be reported to watchers")
	}
}
