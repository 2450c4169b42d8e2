package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// archparseMCPEntry runs this binary as a stdio MCP server.
var archparseMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "archparse",
  "args": ["mcp"]
}`)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [project-root]",
		Short: "Register the archparse MCP server in a project's .mcp.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			abs, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolving project root: %w", err)
			}
			return mergeMCPConfig(cmd.OutOrStdout(), filepath.Join(abs, ".mcp.json"), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing archparse entry")
	return cmd
}

// mergeMCPConfig creates or merges the archparse entry into .mcp.json,
// keeping every other server.
func mergeMCPConfig(out io.Writer, mcpPath string, force bool) error {
	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers["archparse"]; exists && !force {
		fmt.Fprintln(out, "  skipped .mcp.json archparse entry (exists, use --force to overwrite)")
		return nil
	}

	cfg.MCPServers["archparse"] = archparseMCPEntry

	encoded, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}

	if err := os.WriteFile(mcpPath, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Fprintf(out, "  %s .mcp.json with archparse MCP server\n", action)
	return nil
}
