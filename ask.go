package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexandro/contextengine-mcp/engine"
)

func newAskCmd(v *viper.Viper) *cobra.Command {
	var path string
	var terms []string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question about a codebase and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer rt.close()

			answer := rt.engine.Answer(cmd.Context(), engine.Request{
				Question: strings.Join(args, " "),
				Root:     path,
				Terms:    terms,
			})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "path", ".", "Root directory of the codebase")
	cmd.Flags().StringArrayVar(&terms, "term", nil, "Search term used to annotate candidate files (repeatable)")
	return cmd
}
