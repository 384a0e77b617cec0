package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/voipbin/voipbin-mcp/internal/app"
	"github.com/voipbin/voipbin-mcp/internal/common"
)

// Server manages the HTTP server and routes.
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
	logger *common.Logger

	// cancelStreams ends every request context, closing open event streams.
	cancelStreams context.CancelFunc
}

// New creates a new HTTP server with the given app.
func New(application *app.App) *Server {
	baseCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:           application,
		logger:        application.Logger,
		cancelStreams: cancel,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:        application.Config.Address(),
		Handler:     s.withMiddleware(s.router),
		ReadTimeout: 30 * time.Second,
		// No write timeout: /sse and the MCP SSE transport hold responses open.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s", s.server.Addr)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info().Str("address", l.Addr().String()).Msg("HTTP server starting")

	if err := s.server.Serve(l); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown closes open streams and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	s.cancelStreams()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
