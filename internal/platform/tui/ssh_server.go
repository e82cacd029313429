package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/driver"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/score"
	"github.com/vovakirdan/tui-flappy/internal/spectate"
)

type driverKey struct{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.flappy/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game holds the simulation tunables every session plays with.
	Game config.FlappyConfig

	// Store is shared by all sessions. Nil keeps scores in memory.
	Store score.Store

	// Hub, if set, receives every session's frames.
	Hub *spectate.Hub
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultFlappyConfig(),
	}
}

// SSHServer serves one flappy game per SSH session.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	logger   *log.Logger
	sessions atomic.Int64
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy-ssh",
	})

	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}
	if cfg.Store == nil {
		logger.Warn("no score store configured, best scores are kept in memory")
		cfg.Store = score.NewMemory(0)
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".flappy", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: logging wraps the Bubble Tea session.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// newDriver builds a fresh engine and driver for one session.
func (s *SSHServer) newDriver(sessionID string) (*driver.Driver, error) {
	logger := s.logger.With("session", sessionID)
	game := s.config.Game

	engine, err := flappy.New(game.Playfield.Width, game.Playfield.Height, game, flappy.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	opts := []driver.Option{driver.WithLogger(logger)}
	if s.config.Hub != nil {
		opts = append(opts, driver.WithListener(s.config.Hub.Listener(sessionID)))
	}
	return driver.New(engine, s.config.Store, opts...), nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	sessionID := fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano())
	d, err := s.newDriver(sessionID)
	if err != nil {
		s.logger.Error("cannot start game", "session", sessionID, "err", err)
		return nil, nil
	}
	sshSession.Context().SetValue(driverKey{}, d)

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.Game.Loop.TickRate,
	}
	model := NewModel(d, cfg, Options{Logger: s.logger.With("session", sessionID)})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// sessionMiddleware logs SSH session events and waits for the session's
// pending score saves once the game ends.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		active := s.sessions.Add(1)
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", active,
		)

		next(sshSession)

		if d, ok := sshSession.Context().Value(driverKey{}).(*driver.Driver); ok {
			if err := d.Wait(); err != nil {
				s.logger.Warn("score not saved", "user", sshSession.User(), "err", err)
			}
		}
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.sessions.Add(-1),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done or the
// process receives SIGINT/SIGTERM.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
	case err := <-errc:
		s.logger.Error("server error", "err", err)
		return err
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
