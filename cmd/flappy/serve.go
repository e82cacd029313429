package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var (
	flagSSHAddr       string
	flagHostKey       string
	flagIdleTimeout   int
	flagServeSpectate string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the flappy SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game. Scores are stored per-server, so all
users share the same best score. Point --db at PostgreSQL to share the
leaderboard between several servers.

With --spectate, every session's frames are broadcast as JSON over
WebSocket at ws://<addr>/watch; /health reports the viewer count.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flappy/host_key

Examples:
  flappy serve                           # Listen on :23234 with auto-generated key
  flappy serve --ssh :2222               # Listen on port 2222
  flappy serve --spectate :8080          # Also serve the spectator feed
  flappy serve --db postgres://flappy@db/flappy

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting, 0 disables")
	serveCmd.Flags().StringVar(&flagServeSpectate, "spectate", "", "Serve the WebSocket spectator feed on this address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	game, err := loadGameConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "flappy")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	backend := openScoreBackendOrMemory(ctx, flagDB, logger)
	defer backend.Close()

	cfg := tui.DefaultSSHServerConfig()
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagIdleTimeout >= 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	cfg.HostKeyPath = flagHostKey
	cfg.Game = game
	cfg.Store = backend.Store
	if flagServeSpectate != "" {
		hub, stop := startSpectator(ctx, flagServeSpectate, logger)
		defer stop()
		cfg.Hub = hub
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting flappy SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
