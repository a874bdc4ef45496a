// Package server implements the TCP and WebSocket front ends for the game server
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"monopoly/internal/config"
)

// ErrServerClosed is returned by Listen after Stop
var ErrServerClosed = errors.New("server closed")

// Server accepts clients and hands them to the registry
type Server struct {
	cfg      *config.Config
	registry *Registry
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	listener net.Listener
	httpSrv  *http.Server
	wsAddr   net.Addr
	closed   bool
	conns    sync.WaitGroup
}

// NewServer creates a server that is not yet listening
func NewServer(cfg *config.Config, registry *Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start listens on the configured addresses and blocks accepting TCP clients until Stop
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Listen binds the TCP listener and, when enabled, starts the WebSocket listener
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}

	ln, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = ln
	s.logger.Info("server listening", zap.String("address", ln.Addr().String()))

	if s.cfg.Server.WebSocket.Enabled {
		if err := s.listenWebSocket(); err != nil {
			ln.Close()
			return err
		}
	}
	return nil
}

// Serve accepts TCP clients until the listener is closed
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("failed to accept connection", zap.Error(err))
			time.Sleep(50 * time.Millisecond)
			continue
		}

		if !s.track() {
			conn.Close()
			return nil
		}
		s.logger.Debug("client connected", zap.String("remote_addr", conn.RemoteAddr().String()))
		go func() {
			defer s.conns.Done()
			s.serveConn(s.ctx, newTCPConn(conn, s.cfg.Server.MaxLineBytes))
		}()
	}
}

// track registers a new connection unless the server is shutting down
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns.Add(1)
	return true
}

// Addr is the bound TCP address, nil before Listen
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// WebSocketAddr is the bound WebSocket address, nil when disabled
func (s *Server) WebSocketAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wsAddr
}

// Stop closes the listeners, disconnects every client and waits for them to clean up
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln, hs := s.listener, s.httpSrv
	s.mu.Unlock()

	s.cancel()
	var errs []error
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if hs != nil {
		if err := hs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("websocket shutdown: %w", err))
		}
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		s.registry.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("waiting for connections: %w", ctx.Err()))
	}

	waiting, matches := s.registry.Counts()
	s.logger.Info("server stopped", zap.Int("waiting", waiting), zap.Int("matches", matches))
	return errors.Join(errs...)
}
