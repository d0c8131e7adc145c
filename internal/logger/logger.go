// Package logger builds zerolog loggers and carries request-scoped
// loggers through context
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level   string
	Format  string // json (default) or console
	Service string
	Writer  io.Writer
}

// New builds a logger; there is no process-wide root, callers pass it on
func New(opt Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.EqualFold(opt.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	return ctx.Logger()
}

// parseLevel supports string-only levels, unknown ones fall back to info
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithRequest attaches a child of l tagged with request_id to ctx
func WithRequest(ctx context.Context, l zerolog.Logger, requestID string) context.Context {
	if requestID != "" {
		l = l.With().Str("request_id", requestID).Logger()
	}
	return l.WithContext(ctx)
}

// From returns the request logger stored in ctx, or a disabled logger
func From(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
