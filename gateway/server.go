// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server serves the command surface over HTTP. Commands arrive as
// POST bodies in wire format and the encoded result is the response
// body. The server manages listener lifecycle and graceful shutdown;
// Serve(ctx) blocks until the context is cancelled and active
// requests drain.
type Server struct {
	address    string
	dispatcher *Dispatcher
	logger     *slog.Logger

	// shutdownTimeout is the maximum time to wait for active
	// requests to complete after the context is cancelled.
	shutdownTimeout time.Duration

	// maxBodyBytes bounds a single command's wire text.
	maxBodyBytes int64

	// ready is closed after the listener is bound and the server
	// is accepting connections.
	ready chan struct{}

	// addr is the resolved listen address, available after ready
	// is closed.
	addr net.Addr
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address is the TCP listen address (e.g., ":8080"). Required.
	Address string

	// Dispatcher executes the commands. Required.
	Dispatcher *Dispatcher

	// ShutdownTimeout is the maximum time to wait for in-flight
	// requests to complete during graceful shutdown. Defaults to
	// 10 seconds if zero.
	ShutdownTimeout time.Duration

	// MaxBodyBytes bounds the request body. Defaults to 64 KiB.
	MaxBodyBytes int64

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// NewServer creates a server that will listen on the configured TCP
// address. Call Serve to start accepting connections.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		panic("gateway.Server: Address is required")
	}
	if config.Dispatcher == nil {
		panic("gateway.Server: Dispatcher is required")
	}
	if config.Logger == nil {
		panic("gateway.Server: Logger is required")
	}

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxBody := config.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 64 << 10
	}

	return &Server{
		address:         config.Address,
		dispatcher:      config.Dispatcher,
		logger:          config.Logger,
		shutdownTimeout: timeout,
		maxBodyBytes:    maxBody,
		ready:           make(chan struct{}),
	}
}

// Ready returns a channel that is closed once the server is bound
// and accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the resolved listen address. Only valid after Ready()
// is closed. Useful when the configured address uses port 0.
func (s *Server) Addr() net.Addr {
	return s.addr
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /command", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodyBytes))
		if err != nil {
			http.Error(w, "reading request body", http.StatusBadRequest)
			return
		}
		result := s.dispatcher.Dispatch(r.Context(), string(body))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, result)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// Serve starts accepting connections. Blocks until ctx is cancelled,
// then performs graceful shutdown: stops accepting new connections
// and waits up to ShutdownTimeout for active requests to complete.
func (s *Server) Serve(ctx context.Context) error {
	// Bind the listener early so we can extract the resolved
	// address and signal readiness before entering the serve loop.
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.address, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	server := &http.Server{
		Handler: s.handler(),

		// Command bodies are small; the generous write timeout
		// covers handlers that wait out the full grid timeout.
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("command server listening", "address", s.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("command server shutting down")
	case err := <-serveDone:
		if err != nil {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("command server shutdown error", "error", err)
		return fmt.Errorf("command server shutdown: %w", err)
	}

	s.logger.Info("command server stopped")
	return nil
}
