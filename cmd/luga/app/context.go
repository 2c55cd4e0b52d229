package app

import (
	"context"
	"os/signal"
	"syscall"
)

// ContextWithSignals derives a context that is cancelled on SIGINT or
// SIGTERM, which starts the dashboard's graceful shutdown.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
