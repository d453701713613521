package searchgraph

import "log/slog"

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	vertexCapacity   int
	edgeCapacity     int
}

// Option configures graph construction.
//
// Options primarily exist to avoid exploding the constructor surface
// (logging, metrics and pre-allocation are orthogonal to graph semantics).
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithInitialCapacity pre-allocates slot tables for the expected number of
// vertices and edges. Purely a performance hint; the graph grows past it
// on demand.
func WithInitialCapacity(vertices, edges int) Option {
	return func(o *options) {
		o.vertexCapacity = vertices
		o.edgeCapacity = edges
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
