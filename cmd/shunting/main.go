// shunting is a railway shunting puzzle for the terminal.
//
// Usage:
//
//	shunting play [level]    - Play interactively (level menu when no level is given)
//	shunting levels          - List levels with best records
//	shunting scores          - Show all stored records
//	shunting serve           - Start SSH server for remote play
//	shunting web             - Start WebSocket server
//	shunting mcp             - Serve the puzzle as MCP tools over stdio
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default from config: 60)
//	--db <path>       - Set database path (default: ~/.shunting/records.db)
//	--config <path>   - Use a custom config YAML
//	--levels <dir>    - Load levels from a directory instead of the built-in pack
//	--player <name>   - Name stored with new records
//	--log             - Write a log file for interactive commands
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS       int
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagPlayer    string
	flagLog       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shunting",
	Short: "Shunting Yard - Rearrange railway cars in your terminal",
	Long: `Shunting Yard is a railway puzzle: move cars between tracks with a
locomotive until one track holds the target sequence, in as few moves
as possible.

Available commands:
  play     - Play interactively
  levels   - List levels with best records
  scores   - Show all stored records
  serve    - Start SSH server for remote play
  web      - Start WebSocket server
  mcp      - Serve the puzzle as MCP tools over stdio

Examples:
  shunting play
  shunting play 3 --player ada
  shunting levels --levels ./my-levels
  shunting serve --ssh :2222
  shunting web --addr :8080`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.shunting/records.db", "Path to records database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory with level files (built-in pack if empty)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name stored with new records")
	rootCmd.PersistentFlags().BoolVar(&flagLog, "log", false, "Write a log file under ~/.shunting for interactive commands")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
}
