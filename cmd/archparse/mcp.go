package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/archparse/internal/mcptools"
)

func newMCPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the parser tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.close()

			tools := mcptools.NewParserTools(a.svc, a.walkOptions(), a.log)
			return mcptools.RunStdio(cmd.Context(), mcptools.NewParserMCPServer(tools))
		},
	}
}
