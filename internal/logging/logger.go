// Package logging defines the structured-logging interface used across
// Memorylane. Implementations wrap log/slog or zap.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "memory created", "id", id, "user_id", userID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New builds a Logger for the configured format. Unknown formats fall back
// to slog's JSON handler.
func New(format string, w io.Writer) (Logger, error) {
	if format == FormatZap {
		return NewZapProduction()
	}
	return NewJSONSlogLogger(w, slog.LevelInfo), nil
}

type nopLogger struct{}

// Nop discards everything. Handy in tests.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }
