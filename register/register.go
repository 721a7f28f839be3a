// Package register writes the MCP client entry that launches this server.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Scopes accepted by ParseArgs.
const (
	ScopeProject = "project"
	ScopeUser    = "user"
)

// ErrUnknownScope is returned for a scope other than project or user.
var ErrUnknownScope = errors.New(`unknown scope (must be "project" or "user")`)

// Usage describes the register arguments.
const Usage = `  register project [directory]  # -> <directory>/.mcp.json (default: .)
  register user                 # -> ~/.claude.json
  register project . -- --flag  # forward args to the server
  register user -- --flag       # forward args to the server`

// Options is a parsed register invocation.
type Options struct {
	Scope      string
	Directory  string
	ServerArgs []string
}

type clientEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// ParseArgs parses everything after "register": a scope, an optional
// project directory and server arguments after "--".
func ParseArgs(args []string) (Options, error) {
	if len(args) == 0 {
		return Options{}, fmt.Errorf("missing scope\n%s", Usage)
	}

	scope := args[0]
	switch scope {
	case ScopeProject:
		directory, serverArgs := parseProjectArgs(args[1:])
		return Options{Scope: scope, Directory: directory, ServerArgs: serverArgs}, nil
	case ScopeUser:
		return Options{Scope: scope, ServerArgs: parseUserArgs(args[1:])}, nil
	default:
		return Options{}, fmt.Errorf("%w: %q\n%s", ErrUnknownScope, scope, Usage)
	}
}

// Run registers serverName for the running binary and returns the config
// file it wrote.
func Run(serverName string, opts Options) (string, error) {
	binaryPath, err := detectBinaryPath()
	if err != nil {
		return "", fmt.Errorf("detecting binary path: %w", err)
	}
	return Write(serverName, binaryPath, opts)
}

// Write adds or replaces the serverName entry pointing at binaryPath.
func Write(serverName, binaryPath string, opts Options) (string, error) {
	configPath, err := resolveConfigPath(opts.Scope, opts.Directory)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	if err := writeConfig(configPath, serverName, buildEntry(binaryPath, opts.ServerArgs)); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return configPath, nil
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func parseProjectArgs(args []string) (directory string, serverArgs []string) {
	directory = "."
	for i, arg := range args {
		if arg == "--" {
			return directory, args[i+1:]
		}
		// First non-separator arg is the directory
		if i == 0 {
			directory = arg
		}
	}
	return directory, nil
}

func parseUserArgs(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args[i+1:]
		}
	}
	return nil
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	switch scope {
	case ScopeProject:
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	case ScopeUser:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(homeDir, ".claude.json"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
}

func buildEntry(binaryPath string, serverArgs []string) clientEntry {
	if runtime.GOOS == "windows" {
		return clientEntry{Command: "cmd", Args: append([]string{"/C", binaryPath}, serverArgs...)}
	}
	return clientEntry{Command: binaryPath, Args: serverArgs}
}

// writeConfig merges the entry into the mcpServers object of configPath,
// keeping every other key, and replaces the file atomically.
func writeConfig(configPath string, serverName string, entry clientEntry) error {
	config := map[string]any{}
	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"]
	if !ok || servers == nil {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", configDir, err)
	}
	tmpFile, err := os.CreateTemp(configDir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}
	return nil
}
