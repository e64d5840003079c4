package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the process logger. Production gets JSON output, everything else text.
func New(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger tags every record with the operation that produced it.
type Logger struct {
	base *slog.Logger
}

// For returns an operation logger bound to the request carried by ctx.
func For(ctx context.Context) *Logger {
	return &Logger{base: FromContext(ctx)}
}

func (l *Logger) LogError(operation string, err error, args ...any) {
	l.base.Error(operation+" failed", append([]any{slog.String("operation", operation), slog.Any("error", err)}, args...)...)
}

func (l *Logger) LogWarn(operation, message string, args ...any) {
	l.base.Warn(message, append([]any{slog.String("operation", operation)}, args...)...)
}

func (l *Logger) LogInfo(operation, message string, args ...any) {
	l.base.Info(message, append([]any{slog.String("operation", operation)}, args...)...)
}

func (l *Logger) LogDebug(operation, message string, args ...any) {
	l.base.Debug(message, append([]any{slog.String("operation", operation)}, args...)...)
}
