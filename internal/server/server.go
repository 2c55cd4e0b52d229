// Package server provides the HTTP implementation of the luga dashboard:
// the upload page and the JSON API behind it.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/luga/cmd/application"
	"github.com/agentstation/luga/internal/server/cache"
	"github.com/agentstation/luga/internal/server/middleware"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app         application.Application
	results     *cache.Cache
	rateLimiter *middleware.RateLimiter
	logger      *zerolog.Logger
	config      Config
	startTime   time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	defaults := DefaultConfig()
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = defaults.ResultTTL
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = defaults.PathPrefix
	}

	s := &Server{
		app:       app,
		results:   cache.New(cfg.ResultTTL, cfg.ResultTTL*2),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	logger.Debug().
		Dur("result_ttl", cfg.ResultTTL).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Msg("Server instance created")
	return s, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown releases the server's background resources.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().
		Int("results", s.results.ItemCount()).
		Msg("Discarding cached results")
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.results.Clear()
	return nil
}

// Results returns the cache of computed results.
func (s *Server) Results() *cache.Cache {
	return s.results
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
