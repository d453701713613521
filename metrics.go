package searchgraph

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordAddRoot is called after each AddRoot operation. novel is true
	// if a new vertex was created rather than an existing one returned.
	RecordAddRoot(novel bool, duration time.Duration, err error)

	// RecordExpand is called after each edge expansion. transposition is
	// true if the expansion deduplicated into an existing vertex.
	RecordExpand(transposition bool, duration time.Duration, err error)

	// RecordCollect is called after each collection pass.
	RecordCollect(stats CollectStats, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAddRoot(bool, time.Duration, error)         {}
func (NoopMetricsCollector) RecordExpand(bool, time.Duration, error)          {}
func (NoopMetricsCollector) RecordCollect(CollectStats, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddRootCount      atomic.Int64
	AddRootErrors     atomic.Int64
	AddRootNovelCount atomic.Int64
	AddRootTotalNanos atomic.Int64
	ExpandCount       atomic.Int64
	ExpandErrors      atomic.Int64
	ExpandDedupCount  atomic.Int64
	ExpandTotalNanos  atomic.Int64
	CollectCount      atomic.Int64
	CollectErrors     atomic.Int64
	CollectTotalNanos atomic.Int64
	FreedVertices     atomic.Int64
	FreedEdges        atomic.Int64
}

// RecordAddRoot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAddRoot(novel bool, duration time.Duration, err error) {
	b.AddRootCount.Add(1)
	b.AddRootTotalNanos.Add(duration.Nanoseconds())
	if novel {
		b.AddRootNovelCount.Add(1)
	}
	if err != nil {
		b.AddRootErrors.Add(1)
	}
}

// RecordExpand implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExpand(transposition bool, duration time.Duration, err error) {
	b.ExpandCount.Add(1)
	b.ExpandTotalNanos.Add(duration.Nanoseconds())
	if transposition {
		b.ExpandDedupCount.Add(1)
	}
	if err != nil {
		b.ExpandErrors.Add(1)
	}
}

// RecordCollect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCollect(stats CollectStats, duration time.Duration, err error) {
	b.CollectCount.Add(1)
	b.CollectTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CollectErrors.Add(1)
		return
	}
	b.FreedVertices.Add(int64(stats.FreedVertices))
	b.FreedEdges.Add(int64(stats.FreedEdges))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddRootCount:      b.AddRootCount.Load(),
		AddRootErrors:     b.AddRootErrors.Load(),
		AddRootNovelCount: b.AddRootNovelCount.Load(),
		AddRootAvgNanos:   b.getAvgAddRootNanos(),
		ExpandCount:       b.ExpandCount.Load(),
		ExpandErrors:      b.ExpandErrors.Load(),
		ExpandDedupCount:  b.ExpandDedupCount.Load(),
		ExpandAvgNanos:    b.getAvgExpandNanos(),
		CollectCount:      b.CollectCount.Load(),
		CollectErrors:     b.CollectErrors.Load(),
		FreedVertices:     b.FreedVertices.Load(),
		FreedEdges:        b.FreedEdges.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAddRootNanos() int64 {
	count := b.AddRootCount.Load()
	if count == 0 {
		return 0
	}
	return b.AddRootTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgExpandNanos() int64 {
	count := b.ExpandCount.Load()
	if count == 0 {
		return 0
	}
	return b.ExpandTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddRootCount      int64
	AddRootErrors     int64
	AddRootNovelCount int64
	AddRootAvgNanos   int64
	ExpandCount       int64
	ExpandErrors      int64
	ExpandDedupCount  int64
	ExpandAvgNanos    int64
	CollectCount      int64
	CollectErrors     int64
	FreedVertices     int64
	FreedEdges        int64
}
