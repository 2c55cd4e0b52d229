// Package handlers provides HTTP request handlers for the luga dashboard.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/luga/internal/server/cache"
)

// Options configures Handlers.
type Options struct {
	Results        *cache.Cache
	Logger         *zerolog.Logger
	Version        string
	PathPrefix     string
	MaxUploadBytes int64
	StartTime      time.Time
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	results        *cache.Cache
	logger         *zerolog.Logger
	version        string
	prefix         string
	maxUploadBytes int64
	startTime      time.Time
}

// New creates a new Handlers instance.
func New(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handlers{
		results:        opts.Results,
		logger:         logger,
		version:        opts.Version,
		prefix:         opts.PathPrefix,
		maxUploadBytes: opts.MaxUploadBytes,
		startTime:      opts.StartTime,
	}
}
