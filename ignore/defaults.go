package ignore

// DefaultIgnorePatterns are gitignore-style lines that are always active, before
// any root ignore file is consulted. Directory entries end in "/" so that the
// scanner prunes the whole subtree without descending into it.
var DefaultIgnorePatterns = []string{
	// Version control
	".git/",
	".svn/",
	".hg/",

	// Dependencies
	"node_modules/",
	"bower_components/",
	"venv/",
	".venv/",
	".npm/",
	".yarn/",

	// Build output
	"dist/",
	"build/",
	"target/",
	"__pycache__/",
	"*.pyc",
	"*.pyo",
	"*.o",
	"*.so",
	"*.dylib",
	"*.dll",
	"*.exe",
	"*.class",

	// Cache
	".cache/",
	".next/",
	".nuxt/",
	".parcel-cache/",
	".pytest_cache/",
	".mypy_cache/",

	// OS and editor noise
	".DS_Store",
	"Thumbs.db",
	".idea/",
	".vscode/",

	// Secrets
	".env",
	".env.local",
}

// IgnoreFileNames are the root-level files whose lines extend the defaults.
var IgnoreFileNames = []string{".gitignore", ".contextignore"}
