package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/luga/pkg/constants"
)

// Config selects the level, format and destination of a logger.
type Config struct {
	Level     string // trace, debug, info, warn, error or disabled
	Format    string // json, console or auto
	Output    string // stderr, stdout, discard or a file path
	NoColor   bool
	AddCaller bool
}

// NewLoggerFromConfig builds a logger from cfg and sets the zerolog global
// level to match. A nil cfg logs info and above to stderr.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(newWriter(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// newWriter resolves cfg.Output. Console output is used when asked for, or
// in auto format when stderr is a terminal. An output file that cannot be
// opened falls back to stderr.
func newWriter(cfg *Config) io.Writer {
	var out io.Writer = os.Stderr
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		out = io.Discard
	default:
		if f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions); err == nil {
			out = f
		}
	}

	console := false
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		console = true
	case "", "auto":
		console = out == os.Stderr && isTerminal(os.Stderr)
	}
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
}

// parseLevel reads a level name, falling back to info.
func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
