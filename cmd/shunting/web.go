package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-shunting/internal/transport/websocket"
)

var flagWSAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the WebSocket server",
	Long: `Start an HTTP server with a WebSocket endpoint for browser clients.

Endpoints:
  GET /ws?player=NAME   - One puzzle session per connection
  GET /levels           - Level list with best records (JSON)

Clients send JSON commands such as
  {"op": "start", "level": 1}
  {"op": "position", "track": 0}
  {"op": "select", "track": 0, "slot": 1}
  {"op": "move", "track": 2}
and receive {"event": "reply", "accepted": true, "state": {...}} after each.

Examples:
  shunting web
  shunting web --addr :9000`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWSAddr, "addr", "", "HTTP listen address (host:port, default from config)")
}

func runWeb(cmd *cobra.Command, _ []string) {
	env, err := loadEnv(cmd, "shunting-web", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	addr := env.cfg.Server.WSAddr
	if flagWSAddr != "" {
		addr = flagWSAddr
	}

	store, storeErr := env.openStore()
	if storeErr != nil {
		env.logger.Warn("could not open records database, records will not be saved", "error", storeErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := websocket.NewServer(websocket.Config{
		Catalog: env.catalog,
		Store:   store,
		Logger:  env.logger,
	})

	fmt.Printf("Starting shunting WebSocket server on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, addr); err != nil {
		stop()
		env.Close()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
