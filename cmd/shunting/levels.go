package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all levels",
	Long: `Shows every level with its target sequence and the best record.

Examples:
  shunting levels
  shunting levels --levels ./my-levels`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(cmd *cobra.Command, _ []string) {
	env, err := loadEnv(cmd, "shunting", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	store, storeErr := env.openStore()
	if storeErr != nil {
		env.logger.Warn("could not open records database", "error", storeErr)
	}

	all := env.catalog.Levels()
	if len(all) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-3s  %-16s  %-6s  %-20s  %s\n", "ID", "Name", "Tracks", "Target", "Best")
	fmt.Printf("  %-3s  %-16s  %-6s  %-20s  %s\n", "--", "----", "------", "------", "----")

	for _, l := range all {
		best := "-"
		if rec, ok, err := store.GetRecord(l.ID); err == nil && ok {
			best = fmt.Sprintf("%d moves", rec.BestMoveCount)
			if rec.PlayerName != "" {
				best += " (" + rec.PlayerName + ")"
			}
		}
		fmt.Printf("  %-3d  %-16s  %-6d  %-20s  %s\n",
			l.ID, l.Name, len(l.Tracks), strings.Join(l.TargetSequence, " "), best)
	}

	fmt.Println()
	fmt.Println("Run 'shunting play <id>' to play a level.")
}
