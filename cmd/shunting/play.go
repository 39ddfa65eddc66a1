package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-shunting/internal/core"
	"github.com/vovakirdan/tui-shunting/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the puzzle",
	Long: `Start the puzzle in your terminal. Without a level, a level menu is
shown; with a level id, that level starts right away.

Controls:
  Up/Down      - Choose track
  Left/Right   - Choose car
  L/Space      - Put the locomotive on the track under the cursor
  Enter        - Select cars up to the cursor (locomotive track)
                 or move the selection here (any other track)
  R            - Restart level
  N            - Next level (after solving)
  Esc/B        - Back to menu
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Examples:
  shunting play
  shunting play 4
  shunting play --player ada --levels ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	env, err := loadEnv(cmd, "shunting", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	startLevel := 0
	if len(args) == 1 {
		startLevel, err = strconv.Atoi(args[0])
		if err != nil || !env.catalog.Has(startLevel) {
			env.Close()
			fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'shunting levels' to see available levels.")
			os.Exit(1)
		}
	}

	store, storeErr := env.openStore()
	if storeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open records database: %v\n", storeErr)
		env.logger.Warn("records kept in memory", "error", storeErr)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runErr := tui.RunSession(tui.SessionConfig{
		Catalog: env.catalog,
		Store:   store,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: env.cfg.Gameplay.TickRate,
		},
		Player:       env.cfg.Player.Name,
		AskName:      true,
		StartLevel:   startLevel,
		MessageTicks: env.cfg.Gameplay.MessageTicks,
		Logger:       env.logger,
	})

	// Close store before potential exit
	env.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
