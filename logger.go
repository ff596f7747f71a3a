package anonymizer

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aequitas/anonymizer/privacy"
)

// Logger wraps slog.Logger with anonymizer-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithK adds the k-anonymity threshold field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithClusters adds a cluster count field to the logger.
func (l *Logger) WithClusters(clusters int) *Logger {
	return &Logger{
		Logger: l.Logger.With("clusters", clusters),
	}
}

// LogFit logs one fit cycle.
func (l *Logger) LogFit(ctx context.Context, records, clusters int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		l.InfoContext(ctx, "fit completed",
			"records", records,
			"clusters", clusters,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// LogQuery logs a counting query and its gate outcome. The true count is
// logged on purpose: logs are an operator surface, not a caller surface.
func (l *Logger) LogQuery(ctx context.Context, kind string, decision privacy.Decision) {
	l.DebugContext(ctx, "query gated",
		"kind", kind,
		"outcome", decision.Outcome.String(),
		"count", decision.Count,
	)
}

// LogClusterRead logs a cluster listing or detail read.
func (l *Logger) LogClusterRead(ctx context.Context, kind string, err error) {
	if err != nil {
		l.DebugContext(ctx, "cluster read refused",
			"kind", kind,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "cluster read completed",
			"kind", kind,
		)
	}
}
