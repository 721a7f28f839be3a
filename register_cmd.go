package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexandro/contextengine-mcp/register"
	"github.com/lexandro/contextengine-mcp/server"
)

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register project|user [directory] [-- server flags]",
		Short: "Add this server to an MCP client configuration",
		Long:  "Writes an mcpServers entry that launches this binary.\n\nUsage:\n" + register.Usage,
		// Everything after "--" is forwarded to the server entry verbatim.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := register.ParseArgs(args)
			if err != nil {
				return err
			}
			serverName := register.DeriveServerName(server.Name)
			configPath, err := register.Run(serverName, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", serverName, configPath)
			return nil
		},
	}
}
