package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/lookout/pkg/config"
)

// Server runs the proxy listener and the optional admin listener.
type Server struct {
	config       *config.ProxyConfig
	handler      http.Handler
	adminAddress string
	adminHandler http.Handler
	logger       *slog.Logger

	mu           sync.RWMutex
	httpServer   *http.Server
	adminServer  *http.Server
	addr         net.Addr
	adminAddr    net.Addr
	isRunning    bool
	started      chan struct{}
	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithAdmin serves h on a second listener at addr. An empty addr disables
// the admin listener.
func WithAdmin(addr string, h http.Handler) Option {
	return func(s *Server) {
		s.adminAddress = addr
		s.adminHandler = h
	}
}

// WithLogger sets the lifecycle logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server that serves handler on cfg.Addr().
func NewServer(cfg *config.ProxyConfig, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		config:  cfg,
		handler: handler,
		logger:  slog.Default(),
		started: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the listeners and serves until ctx is cancelled or a listener
// fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning || s.httpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}

	ln, err := listen(ctx, s.config.Addr(), s.logger)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var adminLn net.Listener
	if s.adminAddress != "" && s.adminHandler != nil {
		adminLn, err = listen(ctx, s.adminAddress, s.logger)
		if err != nil {
			ln.Close()
			s.mu.Unlock()
			return fmt.Errorf("admin listener: %w", err)
		}
	}

	errorLog := slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn)
	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       errorLog,
	}
	s.addr = ln.Addr()
	if adminLn != nil {
		s.adminServer = &http.Server{
			Handler:           s.adminHandler,
			ReadHeaderTimeout: s.config.ReadTimeout,
			ErrorLog:          errorLog,
		}
		s.adminAddr = adminLn.Addr()
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 2)
	go s.serve(s.httpServer, ln, "proxy", errChan)
	if adminLn != nil {
		go s.serve(s.adminServer, adminLn, "admin", errChan)
	}
	close(s.started)

	s.logger.Info("proxy server started",
		"address", s.addr.String(),
		"admin_address", addrString(s.adminAddr),
	)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	}
}

func (s *Server) serve(srv *http.Server, ln net.Listener, name string, errChan chan<- error) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChan <- fmt.Errorf("%s server error: %w", name, err)
	}
}

// Shutdown gracefully shuts down both listeners, waiting at most
// proxy.shutdown_timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
		if s.adminServer != nil {
			if err := s.adminServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during admin server shutdown", "error", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("proxy server stopped")
	})

	return shutdownErr
}

// Started is closed once the listeners are open.
func (s *Server) Started() <-chan struct{} {
	return s.started
}

// Addr returns the proxy listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// AdminAddr returns the admin listener address, or nil when disabled.
func (s *Server) AdminAddr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminAddr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
