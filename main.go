package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexandro/contextengine-mcp/config"
	"github.com/lexandro/contextengine-mcp/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the MCP server, which is how MCP clients launch it.
func newRootCmd() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   server.Name,
		Short: "Codebase question answering over MCP with file/line citations",
		Long: `contextengine-mcp scans a source tree, lets a language model choose the files
relevant to a question, and answers with line-numbered excerpts resolved from
the model's code references.

Configuration comes from flags, the environment and a .env file:
  OPENROUTER_API_KEY (or LLM_API_KEY)  credential (required)
  LLM_PROVIDER                         openrouter | openai | anthropic | gemini
  CONTEXT_MODEL                        model name
  LLM_BASE_URL                         OpenAI-compatible endpoint override`,
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyProvider, "", "LLM provider: openrouter|openai|anthropic|gemini (env LLM_PROVIDER)")
	flags.String(config.KeyModel, "", "Model name (env CONTEXT_MODEL)")
	flags.String(config.KeyBaseURL, "", "Provider base URL override (env LLM_BASE_URL)")
	flags.Int64(config.KeyMaxTokens, 0, "Maximum tokens per model response (0: provider default)")
	flags.Int(config.KeyMaxFiles, 50, "Maximum files selected per question")
	flags.Int(config.KeyMaxLines, 5000, "Maximum lines read per file")
	flags.Int(config.KeyMarkerInterval, 50, "Insert a [Line N] marker every N lines")
	flags.Bool(config.KeyGenerateTerms, false, "Ask the model for search terms and annotate candidates with match counts")
	flags.Bool(config.KeyCacheSnapshots, false, "Reuse file lists between queries until the tree changes")
	flags.Int(config.KeyCacheSize, 16, "Maximum roots with a cached file list")
	flags.StringArray(config.KeyExclude, nil, "Extra ignore pattern (repeatable)")
	flags.String(config.KeyLogLevel, "info", "Log level: debug|info|warn|error")
	flags.String(config.KeyLogFile, config.DefaultLogFile(), "Log file path (empty: stderr)")

	for _, key := range []string{
		config.KeyProvider, config.KeyModel, config.KeyBaseURL, config.KeyMaxTokens,
		config.KeyMaxFiles, config.KeyMaxLines, config.KeyMarkerInterval, config.KeyGenerateTerms,
		config.KeyCacheSnapshots, config.KeyCacheSize, config.KeyExclude, config.KeyLogLevel, config.KeyLogFile,
	} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(newServeCmd(v), newAskCmd(v), newRegisterCmd())
	return rootCmd
}

// loadConfig loads .env, then the merged flag/env/default configuration.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	config.LoadDotEnv()
	return config.Load(v)
}

// setupLogger creates an slog.Logger writing to stderr or a file.
// stdout is reserved for MCP stdio.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	writer := os.Stderr
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot create log directory for %s: %v, falling back to stderr\n", logFile, err)
		} else if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
		} else {
			writer = f
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
