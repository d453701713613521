package searchgraph

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/searchgraph/arena"
	"github.com/hupe1980/searchgraph/internal/borrow"
	"github.com/hupe1980/searchgraph/transpose"
)

// vertexPayload is what the arena stores per vertex: the dedup state value
// plus the caller's data.
type vertexPayload[T comparable, V any] struct {
	state T
	data  V
}

// Graph is a mutable, bidirectional search graph.
//
//   - T is the game-state type, used as the transposition key. It must
//     have deterministic equality (Go map semantics supply the hash).
//   - V is the per-vertex payload (search statistics, payouts).
//   - E is the per-edge payload (the move the edge represents).
//
// Vertices are addressed by content: use Lookup to find the vertex for a
// known state, AddRoot to register a starting state, and Node/NodeMut to
// obtain handles by id. The graph is a single-threaded structure; the only
// sharing it arbitrates is handle aliasing, via the borrow discipline
// described in the package documentation.
type Graph[T comparable, V, E any] struct {
	arena  *arena.Arena[vertexPayload[T, V], E]
	states *transpose.Index[T]
	borrow borrow.Flag
	opts   options
}

// New creates an empty graph.
func New[T comparable, V, E any](optFns ...Option) *Graph[T, V, E] {
	opts := applyOptions(optFns)
	return &Graph[T, V, E]{
		arena:  arena.New[vertexPayload[T, V], E](opts.vertexCapacity, opts.edgeCapacity),
		states: transpose.New[T](opts.vertexCapacity),
		opts:   opts,
	}
}

// AddRoot registers a vertex for the given state and returns its id.
//
// If the state is already known, the existing vertex id is returned and
// data is ignored; the returned id is therefore only guaranteed to be a
// parentless root vertex when the state was novel.
//
// AddRoot mutates the graph and fails with ErrBorrowConflict while any
// handle is outstanding.
func (g *Graph[T, V, E]) AddRoot(state T, data V) (arena.VertexID, error) {
	start := time.Now()

	if err := g.borrow.AcquireExclusive(); err != nil {
		err = translateError(err)
		g.opts.metricsCollector.RecordAddRoot(false, time.Since(start), err)
		g.opts.logger.LogAddRoot("", false, err)
		return arena.VertexID{}, err
	}
	defer g.borrow.ReleaseExclusive()

	if id, ok := g.states.Lookup(state); ok {
		g.opts.metricsCollector.RecordAddRoot(false, time.Since(start), nil)
		g.opts.logger.LogAddRoot(id.String(), false, nil)
		return id, nil
	}

	id := g.arena.NewVertex(vertexPayload[T, V]{state: state, data: data})
	if err := g.states.Insert(state, id); err != nil {
		// Unreachable: the lookup above missed under the same exclusive
		// borrow.
		return arena.VertexID{}, err
	}

	g.opts.metricsCollector.RecordAddRoot(true, time.Since(start), nil)
	g.opts.logger.LogAddRoot(id.String(), true, nil)
	return id, nil
}

// Lookup returns the id of the vertex holding the given state, if any.
// Ids are not handles; holding one grants no access and requires no
// borrow.
func (g *Graph[T, V, E]) Lookup(state T) (arena.VertexID, bool) {
	return g.states.Lookup(state)
}

// Node acquires a read-only handle for the given vertex id. Any number of
// read-only handles may be live at once; acquisition fails with
// ErrBorrowConflict while a mutable handle is outstanding and with
// ErrStaleHandle if the id's slot has been collected.
//
// Release the handle when done with it.
func (g *Graph[T, V, E]) Node(id arena.VertexID) (*Node[T, V, E], error) {
	if err := g.borrow.AcquireShared(); err != nil {
		return nil, translateError(err)
	}
	if _, err := g.arena.VertexData(id); err != nil {
		g.borrow.ReleaseShared()
		return nil, translateError(err)
	}
	return &Node[T, V, E]{g: g, id: id, owned: true}, nil
}

// NodeMut acquires the exclusive mutable handle for the given vertex id.
// Acquisition fails with ErrBorrowConflict while any other handle is
// outstanding and with ErrStaleHandle if the id's slot has been collected.
//
// Release the handle when done with it.
func (g *Graph[T, V, E]) NodeMut(id arena.VertexID) (*MutNode[T, V, E], error) {
	if err := g.borrow.AcquireExclusive(); err != nil {
		return nil, translateError(err)
	}
	if _, err := g.arena.VertexData(id); err != nil {
		g.borrow.ReleaseExclusive()
		return nil, translateError(err)
	}
	return &MutNode[T, V, E]{g: g, id: id, owned: true}, nil
}

// VertexCount returns the number of live vertices.
func (g *Graph[T, V, E]) VertexCount() int {
	return g.arena.VertexCount()
}

// EdgeCount returns the number of live edges.
func (g *Graph[T, V, E]) EdgeCount() int {
	return g.arena.EdgeCount()
}

// Stats returns a snapshot of slot-table occupancy.
func (g *Graph[T, V, E]) Stats() arena.Stats {
	return g.arena.Stats()
}

// PathExists reports whether a path of expanded edges leads from one
// vertex to another. A vertex always reaches itself.
func (g *Graph[T, V, E]) PathExists(from, to arena.VertexID) (bool, error) {
	if err := g.borrow.AcquireShared(); err != nil {
		return false, translateError(err)
	}
	defer g.borrow.ReleaseShared()

	if _, err := g.arena.VertexData(from); err != nil {
		return false, translateError(err)
	}
	if _, err := g.arena.VertexData(to); err != nil {
		return false, translateError(err)
	}

	visited := roaring.New()
	frontier := []arena.VertexID{from}
	visited.Add(from.Slot)
	for len(frontier) > 0 {
		v := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if v == to {
			return true, nil
		}
		children, err := g.arena.Children(v)
		if err != nil {
			return false, translateError(err)
		}
		for _, eid := range children {
			t, err := g.arena.Target(eid)
			if err != nil {
				return false, translateError(err)
			}
			if t.Expanded && visited.CheckedAdd(t.Vertex.Slot) {
				frontier = append(frontier, t.Vertex)
			}
		}
	}
	return false, nil
}

// mustExclusive guards structural mutation through mutable handles. A
// MutNode or MutEdge retained past its origin's Release no longer stands
// behind the exclusive borrow, so letting it write would bypass the
// discipline entirely.
func (g *Graph[T, V, E]) mustExclusive() {
	if !g.borrow.ExclusiveHeld() {
		panic("searchgraph: mutation through a handle whose exclusive borrow was released")
	}
}

// must dereferences storage for a handle that was validated at acquisition
// time. Failure means the handle was used after Release or across a
// collection, which the borrow discipline makes a programming error.
func (g *Graph[T, V, E]) mustVertex(id arena.VertexID) *vertexPayload[T, V] {
	p, err := g.arena.VertexData(id)
	if err != nil {
		panic("searchgraph: use of invalidated node handle: " + err.Error())
	}
	return p
}

func (g *Graph[T, V, E]) mustChildren(id arena.VertexID) []arena.EdgeID {
	c, err := g.arena.Children(id)
	if err != nil {
		panic("searchgraph: use of invalidated node handle: " + err.Error())
	}
	return c
}

func (g *Graph[T, V, E]) mustParents(id arena.VertexID) []arena.EdgeID {
	p, err := g.arena.Parents(id)
	if err != nil {
		panic("searchgraph: use of invalidated node handle: " + err.Error())
	}
	return p
}

func (g *Graph[T, V, E]) mustEdgeData(id arena.EdgeID) *E {
	d, err := g.arena.EdgeData(id)
	if err != nil {
		panic("searchgraph: use of invalidated edge handle: " + err.Error())
	}
	return d
}

func (g *Graph[T, V, E]) mustSource(id arena.EdgeID) arena.VertexID {
	s, err := g.arena.Source(id)
	if err != nil {
		panic("searchgraph: use of invalidated edge handle: " + err.Error())
	}
	return s
}

func (g *Graph[T, V, E]) mustTarget(id arena.EdgeID) arena.Target {
	t, err := g.arena.Target(id)
	if err != nil {
		panic("searchgraph: use of invalidated edge handle: " + err.Error())
	}
	return t
}
