// Package application provides the application interface for luga commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with Mock:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := reconcile.NewCommand(mock)
package application

import (
	"time"

	"github.com/rs/zerolog"
)

// Settings holds the configured dashboard and upload settings.
type Settings struct {
	DashboardHost string
	DashboardPort int
	Headless      bool
	ResultTTL     time.Duration
	MaxUploadMB   int64
}

// Application provides the application interface that commands need.
// The App struct from cmd/luga/app implements it.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Settings returns the dashboard and upload settings.
	Settings() Settings

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
