package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intakeflow/intakeflow/internal/config"
	mcpserver "github.com/intakeflow/intakeflow/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing lead lookup and assessment tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, sessions, _, lib, err := loadStores(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "intakeflow MCP server started on stdio (data=%s)\n", cfg.DataDir)

		srv := mcpserver.NewServer(sessions, lib)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
