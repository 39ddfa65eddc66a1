package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-shunting/internal/config"
	"github.com/vovakirdan/tui-shunting/internal/core"
	gamecore "github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

const (
	defaultHostKey = ".ssh/shunting_ed25519"
	drainTimeout   = 10 * time.Second
)

// SSHServerConfig configures the yard's SSH front end.
type SSHServerConfig struct {
	Address string // host:port, e.g. ":23234"

	// HostKeyPath is resolved under the data directory unless absolute.
	// wish generates the key when the file does not exist yet.
	HostKeyPath string

	IdleTimeout  time.Duration // zero keeps idle drivers connected
	TickRate     int
	MessageTicks int

	Catalog *gamecore.Catalog
	Store   gamecore.ScoreStore
	Logger  *log.Logger
}

// SSHServer runs a SessionModel for every SSH connection. All connections
// share the catalog and the records store.
type SSHServer struct {
	cfg    SSHServerConfig
	ssh    *ssh.Server
	logger *log.Logger
}

// NewSSHServer prepares the host key directory and the wish server.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "shunting-ssh",
		})
	}
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = filepath.FromSlash(defaultHostKey)
	}
	if !filepath.IsAbs(cfg.HostKeyPath) {
		cfg.HostKeyPath = filepath.Join(config.DataDir(), cfg.HostKeyPath)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.HostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: host key directory: %w", err)
	}

	s := &SSHServer{cfg: cfg, logger: cfg.Logger}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		// Middlewares run last to first: the session log wraps the program.
		wish.WithMiddleware(bubbletea.Middleware(s.program), s.logSessions),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("ssh: %w", err)
	}
	s.ssh = srv
	return s, nil
}

// program builds the model for one connection. The SSH user is offered
// as the driver name.
func (s *SSHServer) program(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("connection without a terminal", "user", sess.User())
		return nil, nil
	}

	m := NewSessionModel(SessionConfig{
		Catalog:      s.cfg.Catalog,
		Store:        s.cfg.Store,
		Runtime:      core.RuntimeConfig{ScreenW: pty.Window.Width, ScreenH: pty.Window.Height, TickRate: s.cfg.TickRate},
		Player:       sess.User(),
		AskName:      true,
		MessageTicks: s.cfg.MessageTicks,
		Logger:       s.logger.With("user", sess.User()),
	})
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("driver connected")
		next(sess)
		logger.Info("driver left", "after", time.Since(start).Round(time.Second))
	}
}

// Serve accepts connections until ctx is done, then drains open sessions.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("listening", "address", s.cfg.Address, "host_key", s.cfg.HostKeyPath)

	failed := make(chan error, 1)
	go func() {
		err := s.ssh.ListenAndServe()
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err, ok := <-failed:
		if ok {
			return fmt.Errorf("ssh: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("draining sessions")
	return s.Shutdown()
}

// Shutdown stops accepting connections and waits for open ones to finish.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	return s.ssh.Shutdown(ctx)
}

// Addr is the configured listen address.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}
