// Package app provides the application context and dependency management
// for the luga CLI. It centralizes configuration, logging and lifecycle
// management for the commands.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/luga/cmd/application"
	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
)

// App represents the luga application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	mu     sync.RWMutex
	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "load config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.Config().Format
}

// Settings returns the dashboard and upload settings.
func (a *App) Settings() application.Settings {
	c := a.Config()
	s := application.Settings{
		DashboardHost: c.DashboardHost,
		DashboardPort: c.DashboardPort,
		Headless:      c.DashboardHeadless,
		ResultTTL:     c.ResultTTL,
		MaxUploadMB:   c.MaxUploadMB,
	}
	if s.DashboardHost == "" {
		s.DashboardHost = constants.DefaultDashboardHost
	}
	return s
}

// Shutdown performs graceful shutdown of the application.
// Long-running commands stop their own servers when the context ends,
// so there is nothing left to release here.
func (a *App) Shutdown(_ context.Context) error {
	a.Logger().Debug().Msg("Application shutdown")
	return nil
}

func (a *App) setConfig(config *Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = config
	logger := NewLogger(config)
	a.logger = &logger
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigError("app", "nil config", nil)
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
