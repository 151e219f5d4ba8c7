package main

import (
	"github.com/spf13/cobra"

	navlog "github.com/nao1215/navcheck/internal/log"
	"github.com/nao1215/navcheck/internal/mcpserver"
)

// NewMCPCmd creates the mcp command.
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve navcheck as an MCP tool over stdio",
		Long: `Serve the navcheck_validate tool over the Model Context Protocol on
stdin/stdout, so that editors and assistants can check documentation links.

The tool takes the same options as the command line: root (required),
strict, exclude and format. A .navcheck file in the root is honored.

Logs are written to stderr as JSON; stdout carries the protocol.

Example client configuration:
  {
    "mcpServers": {
      "navcheck": { "command": "navcheck", "args": ["mcp"] }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := navlog.NewJSONLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
			return mcpserver.New("navcheck", getVersion(), logger).ServeStdio(cmd.Context())
		},
	}
}
