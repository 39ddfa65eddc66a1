package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
	"github.com/vovakirdan/tui-shunting/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best records",
	Long: `Display the best record of every solved level.

Examples:
  shunting scores
  shunting scores --db ./records.db
  shunting scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all stored records")
}

func runScores(cmd *cobra.Command, _ []string) {
	env, err := loadEnv(cmd, "shunting", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	// Open record storage
	store, err := storage.Open(env.cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening records database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearRecords(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing records: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All records deleted.")
		return
	}

	records, err := store.AllRecords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving records: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Best Records - Shunting Yard")
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No records yet.")
		fmt.Println()
		fmt.Println("Play 'shunting play' to set the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-5s  %-16s  %-5s  %-5s  %-16s  %s\n", "Level", "Name", "Moves", "Time", "Player", "Date")
	fmt.Printf("  %-5s  %-16s  %-5s  %-5s  %-16s  %s\n", "-----", "----", "-----", "----", "------", "----")

	for _, r := range records {
		name := ""
		if l, ok := env.catalog.Get(r.LevelID); ok {
			name = l.Name
		}
		fmt.Printf("  %-5d  %-16s  %-5d  %-5s  %-16s  %s\n",
			r.LevelID, name, r.BestMoveCount, core.FormatSeconds(r.BestElapsedSeconds),
			r.PlayerName, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
