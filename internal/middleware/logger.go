package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logger returns chi's request logger backed by logger. Each request yields
// one record with its status, size and duration; server errors and panics are
// logged at error level.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return chimw.RequestLogger(&SlogFormatter{Logger: logger})
}

// SlogFormatter is a chi LogFormatter writing structured records.
type SlogFormatter struct {
	Logger *slog.Logger
}

// NewLogEntry implements chimw.LogFormatter.
func (f *SlogFormatter) NewLogEntry(r *http.Request) chimw.LogEntry {
	return &slogEntry{
		ctx: r.Context(),
		logger: f.Logger.With(
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
		),
	}
}

type slogEntry struct {
	ctx    context.Context
	logger *slog.Logger
}

func (e *slogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	e.logger.Log(e.ctx, level, "request",
		"status", status,
		"bytes", bytes,
		"duration", elapsed,
	)
}

func (e *slogEntry) Panic(v any, stack []byte) {
	e.logger.ErrorContext(e.ctx, "panic", "panic", v, "stack", string(stack))
}
