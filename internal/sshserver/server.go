// SPDX-License-Identifier: EPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"

	"modsmith-cli/internal/catalog"
	"modsmith-cli/internal/tui"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated ServerState = iota
	// StateStarting indicates the server is in the process of starting.
	StateStarting
	// StateRunning indicates the server is running and accepting connections.
	StateRunning
	// StateStopping indicates the server is shutting down.
	StateStopping
	// StateStopped indicates the server has stopped (terminal state).
	StateStopped
	// StateFailed indicates the server failed to start or encountered a fatal error (terminal state).
	StateFailed
)

type (
	// ServerState represents the lifecycle state of the server.
	ServerState int32

	// Config holds immutable configuration for the picker server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host HostAddress
		// Port is the port to listen on (0 = auto-select).
		Port int
		// HostKeyPath is where the server host key is stored, generated on
		// first start when missing (default: .ssh/modsmith_ed25519).
		HostKeyPath string
		// CatalogPath is the catalog file served to every session.
		CatalogPath CatalogSource
		// StartupTimeout is the max time to wait for the server to be ready (default: 5s).
		StartupTimeout time.Duration
		// ShutdownTimeout is the timeout for graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
	}

	// Server serves the interactive picker over SSH.
	// A Server instance is single-use: once stopped or failed, create a new instance.
	Server struct {
		// Immutable configuration (set at creation, never modified)
		cfg Config

		// State management (atomic for lock-free reads)
		state atomic.Int32

		// Initialized during Start() - protected by srvMu for writes
		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string // Actual bound address (including resolved port)

		// Lifecycle management
		ctx       context.Context
		cancel    context.CancelFunc
		wg        sync.WaitGroup
		startedCh chan struct{} // Closed when server is ready to accept connections
		errCh     chan error    // Receives fatal errors from background goroutines
		lastErr   error         // Stores the last error for State() == StateFailed

		logger *log.Logger
	}
)

// String returns a human-readable representation of the server state.
func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            0,
		HostKeyPath:     ".ssh/modsmith_ed25519",
		StartupTimeout:  5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate checks the config for invalid fields.
func (c Config) Validate() error {
	var errs []error
	if err := c.Host.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.CatalogPath.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidServerConfigError{FieldErrors: errs}
	}
	return nil
}

// New creates a picker server from the given config. Zero-value timeouts
// fall back to defaults.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = defaults.HostKeyPath
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}

	return &Server{
		cfg:       cfg,
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "picker-server",
		}),
	}, nil
}

// Start starts the picker server and blocks until either:
//   - The server is ready to accept connections (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
func (s *Server) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start picker server: %w", err)
	}
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("picker server already started (state: %s)", s.State())
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	// Fail fast if the catalog does not parse; sessions reload it fresh.
	if _, err := catalog.Load(s.cfg.CatalogPath.String()); err != nil {
		s.transitionToFailed(fmt.Errorf("catalog check failed: %w", err))
		return s.lastErr
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.transitionToFailed(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.lastErr
	}

	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(s.cfg.HostKeyPath),
		wish.WithMiddleware(
			bm.Middleware(s.sessionHandler),
			activeterm.Middleware(),
		),
	)
	if err != nil {
		_ = listener.Close() // Best-effort cleanup on error
		s.transitionToFailed(fmt.Errorf("failed to create SSH server: %w", err))
		return s.lastErr
	}

	s.srvMu.Lock()
	s.srv = srv
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	s.wg.Add(1)
	go s.serve()

	select {
	case <-s.startedCh:
		s.logger.Info("picker server started", "address", s.addr)
		return nil

	case err := <-s.errCh:
		s.transitionToFailed(err)
		return err

	case <-startupCtx.Done():
		s.cancel()
		s.transitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.lastErr
	}
}

// sessionHandler builds a fresh picker for each SSH session. Every session
// loads its own catalog copy, so selections never leak between users.
func (s *Server) sessionHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	cat, err := catalog.Load(s.cfg.CatalogPath.String())
	if err != nil {
		s.logger.Error("catalog load failed for session", "user", sess.User(), "error", err)
		return failModel{err: err}, []tea.ProgramOption{tea.WithAltScreen()}
	}

	picker, err := tui.NewPicker(tui.PickerOptions{Catalog: cat})
	if err != nil {
		s.logger.Error("picker init failed for session", "user", sess.User(), "error", err)
		return failModel{err: err}, []tea.ProgramOption{tea.WithAltScreen()}
	}

	s.logger.Info("session opened", "user", sess.User(), "remote", sess.RemoteAddr())
	return picker, []tea.ProgramOption{tea.WithAltScreen()}
}

// serve runs the SSH server and reports unexpected failures.
func (s *Server) serve() {
	defer s.wg.Done()

	// Starting -> Running (signals readiness)
	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}

	s.srvMu.Lock()
	srv := s.srv
	listener := s.listener
	s.srvMu.Unlock()

	if srv == nil || listener == nil {
		return
	}

	err := srv.Serve(listener)
	if err != nil {
		// Ignore expected shutdown errors
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}
		select {
		case s.errCh <- fmt.Errorf("serve error: %w", err):
		default:
		}
	}
}

// Stop gracefully stops the picker server.
// It blocks until all connections are closed or the shutdown timeout is reached.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	for {
		currentState := ServerState(s.state.Load())
		switch currentState {
		case StateStopped, StateFailed:
			return nil // Already stopped
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return nil // Never started
			}
			continue // State changed, retry
		case StateStopping:
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			if !s.state.CompareAndSwap(int32(currentState), int32(StateStopping)) {
				continue // State changed, retry
			}
			return s.doStop()
		default:
			return fmt.Errorf("unknown server state: %d", currentState)
		}
	}
}

// doStop performs the actual shutdown logic.
func (s *Server) doStop() error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, net.ErrClosed) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close() //nolint:errcheck // Best-effort cleanup during shutdown
	}
	s.srvMu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	s.state.Store(int32(StateStopped))
	close(s.errCh)
	s.logger.Info("picker server stopped")

	return shutdownErr
}

// transitionToFailed records a fatal error and moves to the terminal state.
func (s *Server) transitionToFailed(err error) {
	s.lastErr = err
	s.state.Store(int32(StateFailed))
}

// Err returns a channel that receives fatal server errors.
// Use this to monitor for unexpected failures after Start() returns.
// The channel is closed when the server stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// State returns the current server state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// IsRunning returns whether the server is currently running and accepting connections.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// Address returns the server's bound address (host:port).
// Returns empty string if the server has not started.
func (s *Server) Address() string {
	s.srvMu.Lock()
	defer s.srvMu.Unlock()
	return s.addr
}

// Port returns the server's listening port, or 0 if the server has not started.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return 0
	}
	return port
}

// Wait blocks until the server stops (either gracefully or due to error).
// Returns the error if the server failed, nil otherwise.
func (s *Server) Wait() error {
	s.wg.Wait()

	if s.State() == StateFailed {
		return s.lastErr
	}
	return nil
}

// failModel renders a session-fatal error and exits immediately.
type failModel struct {
	err error
}

func (m failModel) Init() tea.Cmd {
	return tea.Quit
}

func (m failModel) Update(tea.Msg) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

func (m failModel) View() string {
	return fmt.Sprintf("modsmith: %v\n", m.err)
}
