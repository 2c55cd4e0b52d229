package server

import (
	"net/http"
	"strings"

	"github.com/agentstation/luga/internal/server/handlers"
	"github.com/agentstation/luga/internal/server/middleware"
	"github.com/agentstation/luga/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(handlers.Options{
		Results:        s.results,
		Logger:         s.logger,
		Version:        s.app.Version(),
		PathPrefix:     s.config.PathPrefix,
		MaxUploadBytes: s.config.MaxUploadBytes,
		StartTime:      s.startTime,
	})

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleIndex(w, r)
	})

	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	reconcile := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleReconcile(w, r)
	}))
	if s.rateLimiter != nil {
		reconcile = middleware.RateLimit(s.rateLimiter)(reconcile)
	}
	mux.Handle(prefix+"/reconcile", middleware.MaxBytes(s.config.MaxUploadBytes)(reconcile))

	mux.HandleFunc(prefix+"/results/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/results/"))

		switch {
		case len(parts) == 1:
			h.HandleGetResult(w, r, parts[0])
		case len(parts) == 2 && parts[1] == "export":
			h.HandleExport(w, r, parts[0])
		default:
			response.NotFound(w, "Not found", r.URL.Path)
		}
	})
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// CORS (if enabled)
	if cfg.CORSEnabled {
		handler = middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins...))(handler)
	}

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	)(handler)
}

// splitPath splits a URL path into parts, removing empty strings.
func splitPath(path string) []string {
	parts := []string{}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
