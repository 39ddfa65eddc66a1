package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-shunting/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a level menu. The SSH user
name is stored with new records; all users share the same records.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key under ~/.shunting/.ssh

Examples:
  shunting serve                           # Listen on localhost:23234
  shunting serve --ssh :2222               # Listen on port 2222
  shunting serve --host-key ./my_host_key  # Use specific host key
  shunting serve --db ./records.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) {
	env, err := loadEnv(cmd, "shunting-ssh", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	if flagSSHAddr != "" {
		env.cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		env.cfg.Server.HostKeyPath = flagHostKey
	}
	idle := env.cfg.Server.IdleTimeout()
	if flagIdleTimeout > 0 {
		idle = time.Duration(flagIdleTimeout) * time.Minute
	}

	store, storeErr := env.openStore()
	if storeErr != nil {
		env.logger.Warn("could not open records database, records will not be saved", "error", storeErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:      env.cfg.Server.SSHAddr,
		HostKeyPath:  env.cfg.Server.HostKeyPath,
		IdleTimeout:  idle,
		TickRate:     env.cfg.Gameplay.TickRate,
		MessageTicks: env.cfg.Gameplay.MessageTicks,
		Catalog:      env.catalog,
		Store:        store,
		Logger:       env.logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting shunting SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Serve(ctx); err != nil {
		stop()
		env.Close()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
