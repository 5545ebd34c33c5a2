package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/lang"
	"github.com/vovakirdan/quadball/internal/playback"
)

// ErrNoScripts is returned when the server has nothing to show.
var ErrNoScripts = errors.New("tui: spectator server needs at least one script")

// SSHServerConfig holds configuration for the spectator server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.quadball/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Scripts are the matches spectators can pick from. The first one is
	// shown when the client names none.
	Scripts []*playback.Script

	// Playback configures each spectator's replay.
	Playback playback.Options

	Catalog *lang.Catalog
	Logger  *log.Logger
}

// SSHServerConfigFrom fills the server settings from the loaded configuration.
func SSHServerConfigFrom(cfg config.Config) SSHServerConfig {
	return SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: cfg.Server.HostKey,
		IdleTimeout: cfg.Server.IdleTimeout,
		Playback: playback.Options{
			Rules:    cfg.Referee,
			TickRate: cfg.Playback.TickRate,
		},
	}
}

// SSHServer wraps a Wish SSH server that streams match replays. Every
// connection gets its own replay and referee.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	logger  *log.Logger
	scripts map[string]*playback.Script
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if len(cfg.Scripts) == 0 {
		return nil, ErrNoScripts
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "quadball-ssh",
		})
	}
	if cfg.Catalog == nil {
		cfg.Catalog = lang.English()
	}

	srv := &SSHServer{
		config:  cfg,
		logger:  logger,
		scripts: make(map[string]*playback.Script, len(cfg.Scripts)),
	}
	for _, s := range cfg.Scripts {
		srv.scripts[s.Name] = s
	}

	// Resolve host key path
	hostKeyPath, err := config.ExpandHome(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".quadball", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// pickScript resolves the script a client asked for with
// `ssh host <script name>`.
func (s *SSHServer) pickScript(args []string) (*playback.Script, bool) {
	if len(args) == 0 {
		return s.config.Scripts[0], true
	}
	sc, ok := s.scripts[args[0]]
	return sc, ok
}

// teaHandler creates a watch model for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	script, ok := s.pickScript(sshSession.Command())
	if !ok {
		s.logger.Warn("unknown script requested", "user", sshSession.User(), "args", sshSession.Command())
		wish.Fatalln(sshSession, "unknown match; available:", s.scriptNames())
		return nil, nil
	}

	opts := s.config.Playback
	opts.Logger = s.logger.With("user", sshSession.User())

	model, err := NewWatchModel(script, opts, s.config.Catalog, pty.Window.Width, pty.Window.Height)
	if err != nil {
		s.logger.Error("cannot start replay", "script", script.Name, "err", err)
		wish.Fatalln(sshSession, "cannot start replay:", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

func (s *SSHServer) scriptNames() []string {
	names := make([]string, 0, len(s.config.Scripts))
	for _, sc := range s.config.Scripts {
		names = append(names, sc.Name)
	}
	return names
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "scripts", len(s.config.Scripts))

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
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
