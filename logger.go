package searchgraph

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with searchgraph-specific helpers so that
// operations log with consistent field names.
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
// level sets the minimum log level.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogAddRoot logs a root registration.
func (l *Logger) LogAddRoot(id string, novel bool, err error) {
	if err != nil {
		l.Error("add root failed",
			"error", err,
		)
	} else {
		l.Debug("add root completed",
			"vertex", id,
			"novel", novel,
		)
	}
}

// LogExpand logs an edge expansion.
func (l *Logger) LogExpand(edge, target string, transposition bool, err error) {
	if err != nil {
		l.Error("expand failed",
			"edge", edge,
			"error", err,
		)
	} else {
		l.Debug("expand completed",
			"edge", edge,
			"target", target,
			"transposition", transposition,
		)
	}
}

// LogCollect logs a collection pass.
func (l *Logger) LogCollect(stats CollectStats, duration time.Duration, err error) {
	if err != nil {
		l.Error("collect failed",
			"error", err,
		)
	} else {
		l.Info("collect completed",
			"live_vertices", stats.LiveVertices,
			"live_edges", stats.LiveEdges,
			"freed_vertices", stats.FreedVertices,
			"freed_edges", stats.FreedEdges,
			"duration", duration,
		)
	}
}
