// Package dashboard provides the dashboard command for the luga CLI.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/luga/cmd/application"
	"github.com/agentstation/luga/internal/cmd/emoji"
	"github.com/agentstation/luga/internal/server"
	"github.com/agentstation/luga/pkg/constants"
)

// NewCommand creates the dashboard command using app context.
func NewCommand(app application.Application) *cobra.Command {
	settings := app.Settings()

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"serve"},
		GroupID: "core",
		Short:   "Start the web dashboard",
		Long: `Start the reconciliation dashboard: an upload page for the total and
robot stock files and the JSON API behind it.

Endpoints:
  GET  /                                upload page
  POST /api/v1/reconcile                multipart fields "total" and "robot"
  GET  /api/v1/results/{id}             a computed result
  GET  /api/v1/results/{id}/export      download as result_differences.csv
  GET  /health, /api/v1/health          liveness probe

Results are kept in memory for --result-ttl so the download link works;
nothing is written to disk. HTTP_HOST and HTTP_PORT override the bind
address.`,
		Example: `  luga dashboard
  luga dashboard --port 9000 --headless
  HTTP_PORT=8080 luga dashboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, app)
		},
	}

	cmd.Flags().String("host", settings.DashboardHost, "Bind address")
	cmd.Flags().Int("port", settings.DashboardPort, "Server port")
	cmd.Flags().Bool("headless", settings.Headless, "Do not print the dashboard URL banner")
	cmd.Flags().Duration("result-ttl", settings.ResultTTL, "How long results stay downloadable")
	cmd.Flags().Int64("max-upload-mb", settings.MaxUploadMB, "Maximum size of one reconcile request in MB")
	cmd.Flags().Int("rate-limit", 0, "Reconcile requests per minute per IP (0 to disable)")
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	return cmd
}

// runDashboard starts the dashboard server.
func runDashboard(cmd *cobra.Command, app application.Application) error {
	cfg, err := parseConfig(cmd)
	if err != nil {
		return err
	}
	headless, _ := cmd.Flags().GetBool("headless")
	logger := app.Logger()

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Dur("result_ttl", cfg.ResultTTL).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Bool("cors", cfg.CORSEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Starting dashboard")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	banner := cmd.OutOrStdout()
	if headless {
		banner = io.Discard
	}
	return startWithGracefulShutdown(cmd.Context(), httpServer, srv, logger, banner)
}

// parseConfig parses command flags into server configuration.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.DefaultConfig()

	cfg.Host, _ = cmd.Flags().GetString("host")
	cfg.Port, _ = cmd.Flags().GetInt("port")
	cfg.ResultTTL, _ = cmd.Flags().GetDuration("result-ttl")
	cfg.RateLimit, _ = cmd.Flags().GetInt("rate-limit")
	cfg.CORSEnabled, _ = cmd.Flags().GetBool("cors")
	cfg.CORSOrigins, _ = cmd.Flags().GetStringSlice("cors-origins")
	maxUploadMB, _ := cmd.Flags().GetInt64("max-upload-mb")
	cfg.MaxUploadBytes = maxUploadMB << 20

	if len(cfg.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
	}

	// Override with environment variables
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		p, err := parsePort(envPort)
		if err != nil {
			return cfg, fmt.Errorf("HTTP_PORT: %w", err)
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		cfg.Host = envHost
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("port out of range: %d", cfg.Port)
	}
	if cfg.MaxUploadBytes <= 0 {
		return cfg, fmt.Errorf("max-upload-mb must be positive")
	}
	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// connections and releases the server's resources.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger, banner io.Writer) error {
	listener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", httpServer.Addr, err)
	}
	return serve(ctx, listener, httpServer, srv, logger, banner)
}

func serve(ctx context.Context, listener net.Listener, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger, banner io.Writer) error {
	serverErr := make(chan error, 1)

	logger.Info().
		Str("addr", listener.Addr().String()).
		Msg("HTTP server listening")
	fmt.Fprintf(banner, "%s Dashboard available at http://%s/\n", emoji.Success, listener.Addr())
	fmt.Fprintln(banner, "   Press Ctrl+C to stop")

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Fprintf(banner, "\n%s Shutting down dashboard...\n", emoji.Stop)

		// The parent context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Server resources shutdown had issues")
		}

		logger.Info().Msg("Dashboard stopped gracefully")
		return nil
	}
}
