package searchgraph

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/searchgraph/arena"
)

// CollectStats summarizes a collection pass.
type CollectStats struct {
	// LiveVertices and LiveEdges count what survived the pass.
	LiveVertices int
	LiveEdges    int

	// FreedVertices and FreedEdges count what the pass reclaimed.
	FreedVertices int
	FreedEdges    int
}

// Collect reclaims every vertex and edge not reachable from the given
// roots and returns what it freed. Reachability follows expanded outgoing
// edges; unexpanded edges of reachable vertices are kept. Incoming edges
// from reclaimed vertices are pruned from the parent lists of survivors,
// and reclaimed states are dropped from the transposition index.
//
// Slot generations advance on reclamation, so ids saved across a Collect
// fail with ErrStaleHandle if their vertex or edge was freed. Ids of
// survivors stay valid.
//
// Collect fails with ErrUnknownRoot if any root is not a live vertex and
// with ErrBorrowConflict while any handle is outstanding; either way the
// graph is left untouched.
func (g *Graph[T, V, E]) Collect(roots ...arena.VertexID) (CollectStats, error) {
	start := time.Now()

	if err := g.borrow.AcquireExclusive(); err != nil {
		err = translateError(err)
		g.opts.metricsCollector.RecordCollect(CollectStats{}, time.Since(start), err)
		g.opts.logger.LogCollect(CollectStats{}, time.Since(start), err)
		return CollectStats{}, err
	}
	defer g.borrow.ReleaseExclusive()

	for _, r := range roots {
		if !g.arena.AliveVertex(r) {
			err := error(&UnknownRootError{ID: r})
			g.opts.metricsCollector.RecordCollect(CollectStats{}, time.Since(start), err)
			g.opts.logger.LogCollect(CollectStats{}, time.Since(start), err)
			return CollectStats{}, err
		}
	}

	// Mark: breadth-first from the roots over expanded edges. Every
	// outgoing edge of a marked vertex is marked, expanded or not.
	markedVertices := roaring.New()
	markedEdges := roaring.New()
	var frontier []arena.VertexID
	for _, r := range roots {
		if markedVertices.CheckedAdd(r.Slot) {
			frontier = append(frontier, r)
		}
	}
	for len(frontier) > 0 {
		v := frontier[0]
		frontier = frontier[1:]
		children, err := g.arena.Children(v)
		if err != nil {
			return CollectStats{}, translateError(err)
		}
		for _, eid := range children {
			markedEdges.Add(eid.Slot)
			t, err := g.arena.Target(eid)
			if err != nil {
				return CollectStats{}, translateError(err)
			}
			if t.Expanded && markedVertices.CheckedAdd(t.Vertex.Slot) {
				frontier = append(frontier, t.Vertex)
			}
		}
	}

	// Sweep: gather first, then free, so the live iterators never observe
	// a mutation.
	var deadVertices []arena.VertexID
	var deadStates []T
	for id := range g.arena.LiveVertices() {
		if markedVertices.Contains(id.Slot) {
			continue
		}
		p, err := g.arena.VertexData(id)
		if err != nil {
			return CollectStats{}, translateError(err)
		}
		deadVertices = append(deadVertices, id)
		deadStates = append(deadStates, p.state)
	}
	var deadEdges []arena.EdgeID
	for id := range g.arena.LiveEdges() {
		if !markedEdges.Contains(id.Slot) {
			deadEdges = append(deadEdges, id)
		}
	}

	for i, id := range deadVertices {
		g.states.Remove(deadStates[i])
		if err := g.arena.FreeVertex(id); err != nil {
			return CollectStats{}, translateError(err)
		}
	}
	for _, id := range deadEdges {
		if err := g.arena.FreeEdge(id); err != nil {
			return CollectStats{}, translateError(err)
		}
	}

	// Survivors may still list freed edges as parents; drop those entries.
	for id := range g.arena.LiveVertices() {
		if err := g.arena.RetainParents(id, g.arena.AliveEdge); err != nil {
			return CollectStats{}, translateError(err)
		}
	}

	stats := CollectStats{
		LiveVertices:  g.arena.VertexCount(),
		LiveEdges:     g.arena.EdgeCount(),
		FreedVertices: len(deadVertices),
		FreedEdges:    len(deadEdges),
	}
	g.opts.metricsCollector.RecordCollect(stats, time.Since(start), nil)
	g.opts.logger.LogCollect(stats, time.Since(start), nil)
	return stats, nil
}
