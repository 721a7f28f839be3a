package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexandro/contextengine-mcp/config"
	"github.com/lexandro/contextengine-mcp/engine"
	"github.com/lexandro/contextengine-mcp/llm"
	"github.com/lexandro/contextengine-mcp/scanner"
	"github.com/lexandro/contextengine-mcp/server"
	"github.com/lexandro/contextengine-mcp/tools"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
}

// app is everything a command needs after configuration succeeded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	source scanner.Source
	engine *engine.Engine
	close  func()
}

// buildApp validates configuration before any pipeline work; a missing
// credential stops the process here.
func buildApp(ctx context.Context, v *viper.Viper) (*app, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.LogLevel, cfg.LogFile)

	completer, err := llm.New(ctx, cfg.LLM.Options())
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	completer = llm.WithLogging(completer, cfg.LLM.Provider, logger)

	var source scanner.Source = scanner.Fresh{CustomPatterns: cfg.Excludes, Logger: logger}
	closeFn := func() {}
	if cfg.CacheSnapshots {
		cache, err := scanner.NewCache(cfg.CacheSize, cfg.Excludes, logger)
		if err != nil {
			return nil, err
		}
		source = cache
		closeFn = cache.Close
	}

	logger.Info("configuration loaded",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"maxFiles", cfg.MaxFiles,
		"maxLines", cfg.MaxLines,
		"cacheSnapshots", cfg.CacheSnapshots,
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		source: source,
		engine: engine.New(cfg, completer, logger, source),
		close:  closeFn,
	}, nil
}

func runServe(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildApp(ctx, v)
	if err != nil {
		return err
	}
	defer rt.close()

	mcpServer := server.Setup(server.Handlers{
		Context: &tools.ContextHandler{Engine: rt.engine, Logger: rt.logger},
		Search:  &tools.SearchHandler{Source: rt.source, Logger: rt.logger},
		Files:   &tools.FilesHandler{Source: rt.source, Logger: rt.logger},
		Read:    &tools.ReadHandler{CustomPatterns: rt.cfg.Excludes, Logger: rt.logger},
	})

	rt.logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		rt.logger.Error("MCP server error", "error", err)
		return fmt.Errorf("MCP server: %w", err)
	}
	return nil
}
