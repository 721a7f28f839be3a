package language

import (
	"path/filepath"
	"strings"
)

// Kind describes a file type: a display name and the markdown fence tag used
// when rendering excerpts of it. Fence is empty when no highlighter tag applies.
type Kind struct {
	Name  string
	Fence string
}

// extensionKinds maps lower-case file extensions (without dot) to their kind.
var extensionKinds = map[string]Kind{
	// Go
	"go": {"Go", "go"},
	// JavaScript / TypeScript
	"js": {"JavaScript", "javascript"}, "jsx": {"JavaScript", "jsx"},
	"mjs": {"JavaScript", "javascript"}, "cjs": {"JavaScript", "javascript"},
	"ts": {"TypeScript", "typescript"}, "tsx": {"TypeScript", "tsx"},
	// Python
	"py": {"Python", "python"}, "pyi": {"Python", "python"},
	// Rust
	"rs": {"Rust", "rust"},
	// JVM
	"java": {"Java", "java"}, "kt": {"Kotlin", "kotlin"}, "kts": {"Kotlin", "kotlin"},
	"scala": {"Scala", "scala"},
	// C family
	"c": {"C", "c"}, "h": {"C", "c"},
	"cpp": {"C++", "cpp"}, "cc": {"C++", "cpp"}, "cxx": {"C++", "cpp"}, "hpp": {"C++", "cpp"},
	"cs": {"C#", "csharp"},
	// Apple
	"swift": {"Swift", "swift"}, "m": {"Objective-C", "objectivec"},
	// Scripting
	"rb": {"Ruby", "ruby"}, "php": {"PHP", "php"}, "lua": {"Lua", "lua"},
	"pl": {"Perl", "perl"}, "r": {"R", "r"}, "dart": {"Dart", "dart"},
	"ex": {"Elixir", "elixir"}, "exs": {"Elixir", "elixir"},
	"hs": {"Haskell", "haskell"}, "zig": {"Zig", "zig"},
	// Shell
	"sh": {"Shell", "bash"}, "bash": {"Shell", "bash"}, "zsh": {"Shell", "zsh"},
	"ps1": {"PowerShell", "powershell"},
	// Web
	"html": {"HTML", "html"}, "htm": {"HTML", "html"},
	"css": {"CSS", "css"}, "scss": {"SCSS", "scss"}, "less": {"Less", "less"},
	"vue": {"Vue", "vue"}, "svelte": {"Svelte", "svelte"},
	// Data / Config
	"json": {"JSON", "json"}, "yaml": {"YAML", "yaml"}, "yml": {"YAML", "yaml"},
	"toml": {"TOML", "toml"}, "xml": {"XML", "xml"}, "ini": {"INI", "ini"},
	// Markup
	"md": {"Markdown", "markdown"}, "rst": {"reStructuredText", "rst"},
	// Query / schema
	"sql": {"SQL", "sql"}, "graphql": {"GraphQL", "graphql"}, "proto": {"Protobuf", "protobuf"},
	// Infra
	"tf": {"Terraform", "hcl"}, "dockerfile": {"Dockerfile", "dockerfile"},
	// Plain
	"txt": {"Text", ""}, "csv": {"CSV", ""},
}

// baseNameKinds covers extension-less files recognized by name.
var baseNameKinds = map[string]Kind{
	"makefile":    {"Makefile", "makefile"},
	"gnumakefile": {"Makefile", "makefile"},
	"dockerfile":  {"Dockerfile", "dockerfile"},
	"gemfile":     {"Ruby", "ruby"},
	"rakefile":    {"Ruby", "ruby"},
}

// Detect returns the kind for a path. ok is false for unknown files.
func Detect(filePath string) (Kind, bool) {
	base := strings.ToLower(filepath.Base(filePath))
	if kind, ok := baseNameKinds[base]; ok {
		return kind, true
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return Kind{}, false
	}
	kind, ok := extensionKinds[ext]
	return kind, ok
}

// DetectLanguage returns the language name for a path, or "Unknown".
func DetectLanguage(filePath string) string {
	if kind, ok := Detect(filePath); ok {
		return kind.Name
	}
	return "Unknown"
}

// FenceTag returns the markdown code fence tag for a path, or "" when the
// extension is not in the table.
func FenceTag(filePath string) string {
	kind, _ := Detect(filePath)
	return kind.Fence
}
