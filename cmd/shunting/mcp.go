package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-shunting/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the puzzle as MCP tools over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so that agents can
play. The process holds a single puzzle session; logs go to stderr.

Tools:
  list_levels, start_level, position_locomotive, select_car,
  move_selected, restart_level, next_level, game_state

Examples:
  shunting mcp --player agent`,
	Args: cobra.NoArgs,
	Run:  runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) {
	env, err := loadEnv(cmd, "shunting-mcp", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	store, storeErr := env.openStore()
	if storeErr != nil {
		env.logger.Warn("could not open records database, records will not be saved", "error", storeErr)
	}

	player := env.cfg.Player.Name
	if player == "" {
		player = "agent"
	}

	server := mcp.NewServer(env.catalog, store, player, env.logger)
	if err := server.ServeStdio(); err != nil {
		env.Close()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
