// Package server provides the HTTP server implementation
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"costservice/internal/api/middleware"
	"costservice/internal/api/routes"
	"costservice/internal/config"
	"costservice/internal/logger"
	"costservice/internal/metrics"
	"costservice/internal/models"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	log     logger.Logger
	limiter *middleware.RateLimiter
	router  *gin.Engine
	http    *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New creates a new server instance with its router and middleware
func New(cfg *config.Config, info models.ServiceInfo, log logger.Logger) *Server {
	gin.SetMode(cfg.API.GinMode)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, routes.RateLimitExemptPaths()...)
	router := routes.SetupRoutes(routes.Dependencies{
		Config:  cfg,
		Info:    info,
		Logger:  log,
		Metrics: metrics.New(),
		Limiter: limiter,
	})

	return &Server{
		cfg:     cfg,
		log:     log,
		limiter: limiter,
		router:  router,
		http: &http.Server{
			Addr:    cfg.API.Addr(),
			Handler: router,
		},
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the configured address. Bind failures are returned as is.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Debug("Listener bound", logger.String("address", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections on the bound listener until Shutdown
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// up to the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.API.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	// Serve may never have taken ownership of the listener
	s.mu.Lock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.mu.Unlock()
	return nil
}

// Run binds, serves, and shuts down gracefully once ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		s.limiter.Stop()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve()
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server", logger.Duration("timeout", s.cfg.API.ShutdownTimeout))
	if err := s.Shutdown(context.Background()); err != nil {
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}
	s.log.Info("Server exiting")
	return nil
}
