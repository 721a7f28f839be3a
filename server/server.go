package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/contextengine-mcp/tools"
)

// Name is the MCP implementation name and the default registration key.
const Name = "contextengine-mcp"

// Version is reported to MCP clients.
const Version = "0.1.0"

// Handlers groups the tool handlers registered on the server.
type Handlers struct {
	Context *tools.ContextHandler
	Search  *tools.SearchHandler
	Files   *tools.FilesHandler
	Read    *tools.ReadHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(h Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    Name,
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server answers questions about a codebase. It scans the tree under the given path (respecting .gitignore, .contextignore and built-in exclusions), lets a language model pick the relevant files, and returns an answer with real, line-numbered code excerpts.

- Use context_engine for "how does X work" or "where is Y" questions; it reads the relevant files for you.
- Use search_files to find the lines that mention a term.
- Use list_files to see which files are visible.
- Use read_file to fetch a numbered excerpt of one file.`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "context_engine",
		Description: `Answer a question about a codebase with comprehensive context.

Scans every visible file under path, selects up to the configured maximum of relevant files (--max-files), reads them, and answers with code excerpts that carry absolute line numbers.

Optional terms (e.g. ["login", "session.*token"]) are counted per file and shown to the file selector as hints.`,
	}, h.Context.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "search_files",
		Description: `Search file contents for one or more terms.

Term rules:
  - Plain words match whole words, case-insensitively ("login" does not match "relogin")
  - Terms containing regex metacharacters (. * + ? [ ] { } ( ) ^ $ | \) are case-insensitive regular expressions
  - Invalid regular expressions fall back to a literal match

An optional glob pattern (e.g. "*.py") limits which files are searched.

Returns matching lines with line numbers, at most one hit per line.`,
	}, h.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "list_files",
		Description: `List visible files, optionally filtered by glob pattern.

Pattern examples:
  - "**/*.go" - all Go files
  - "src/**/*.ts" - TypeScript files under src/
  - "*.json" - JSON files at any depth (patterns without "/" also match the base name)`,
	}, h.Files.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "read_file",
		Description: `Read a file, or a line range of it, as a fenced excerpt with right-aligned line numbers ("  12 | code"). Ranges are clamped to the file. Ignored files cannot be read.`,
	}, h.Read.Handle)

	return mcpServer
}
