package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/chaincheck/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
validate and extract methods.

The MCP server:
- Provides chaincheck_validate and chaincheck_extract tools
- Resolves file arguments against the project root and rejects paths outside it
- Communicates via stdio (standard MCP transport)

Example:
  chaincheck mcp --root ./healthapp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	server, err := mcp.NewServer(mcp.ServerConfig{
		Version: Version,
		Tools: mcp.ToolOptions{
			Root:         rootDir,
			SkipComments: cfg.SkipComments,
			ReadTimeout:  cfg.ReadTimeout,
			Logger:       logger,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Serve (blocks until shutdown)
	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
