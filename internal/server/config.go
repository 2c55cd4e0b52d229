package server

import (
	"time"

	"github.com/agentstation/luga/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Performance settings
	RateLimit      int // Requests per minute per IP (0 to disable)
	ResultTTL      time.Duration
	MaxUploadBytes int64

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           constants.DefaultDashboardHost,
		Port:           constants.DefaultDashboardPort,
		PathPrefix:     "/api/v1",
		CORSEnabled:    false,
		CORSOrigins:    []string{},
		RateLimit:      0,
		ResultTTL:      constants.DefaultResultTTL,
		MaxUploadBytes: constants.DefaultMaxUploadMB << 20,
		ReadTimeout:    constants.ReadTimeout,
		WriteTimeout:   constants.WriteTimeout,
		IdleTimeout:    constants.IdleTimeout,
	}
}
