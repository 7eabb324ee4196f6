package cmd

import (
	"github.com/clokep/arewetypedyet/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over the sample store",
	Long: `Launch an MCP server on stdio that lets AI agents query stored samples:
project list, weekly totals and per-module trends.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
