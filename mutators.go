package searchgraph

import (
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/searchgraph/arena"
)

// MutNode is a mutable view of a vertex. A MutNode acquired from
// Graph.NodeMut owns the exclusive borrow and must be released; MutNodes
// derived from other mutable handles share their originator's borrow and
// their Release is a no-op.
type MutNode[T comparable, V, E any] struct {
	g     *Graph[T, V, E]
	id    arena.VertexID
	owned bool
}

// ID returns the vertex id this handle refers to.
func (n *MutNode[T, V, E]) ID() arena.VertexID { return n.id }

// State returns the game state stored at this vertex. States are the
// transposition keys and cannot be modified through a handle.
func (n *MutNode[T, V, E]) State() T { return n.g.mustVertex(n.id).state }

// Data returns a pointer to the vertex payload, valid until the next
// graph mutation. It panics if the exclusive borrow behind this handle
// has been released.
func (n *MutNode[T, V, E]) Data() *V {
	n.g.mustExclusive()
	return &n.g.mustVertex(n.id).data
}

// SetData replaces the vertex payload. It panics if the exclusive borrow
// behind this handle has been released.
func (n *MutNode[T, V, E]) SetData(data V) {
	n.g.mustExclusive()
	n.g.mustVertex(n.id).data = data
}

// IsLeaf reports whether the vertex has no outgoing edges.
func (n *MutNode[T, V, E]) IsLeaf() bool { return len(n.g.mustChildren(n.id)) == 0 }

// IsRoot reports whether the vertex has no incoming edges.
func (n *MutNode[T, V, E]) IsRoot() bool { return len(n.g.mustParents(n.id)) == 0 }

// AddChild appends a new unexpanded outgoing edge carrying the given
// payload and returns a handle to it. It panics if the exclusive borrow
// behind this handle has been released.
func (n *MutNode[T, V, E]) AddChild(data E) *MutEdge[T, V, E] {
	n.g.mustExclusive()
	eid, err := n.g.arena.NewEdge(n.id, data)
	if err != nil {
		panic("searchgraph: use of invalidated node handle: " + err.Error())
	}
	return &MutEdge[T, V, E]{g: n.g, id: eid}
}

// Children returns a mutable view of the vertex's outgoing edges.
func (n *MutNode[T, V, E]) Children() MutChildList[T, V, E] {
	return MutChildList[T, V, E]{g: n.g, id: n.id}
}

// Parents returns a mutable view of the vertex's incoming edges.
func (n *MutNode[T, V, E]) Parents() MutParentList[T, V, E] {
	return MutParentList[T, V, E]{g: n.g, id: n.id}
}

// Node returns a read-only view of the same vertex, sharing this handle's
// exclusive borrow.
func (n *MutNode[T, V, E]) Node() *Node[T, V, E] {
	return &Node[T, V, E]{g: n.g, id: n.id}
}

// Release gives up the exclusive borrow held by this handle. Releasing a
// derived handle, or releasing twice, does nothing.
func (n *MutNode[T, V, E]) Release() {
	if n.owned {
		n.owned = false
		n.g.borrow.ReleaseExclusive()
	}
}

// MutChildList is a mutable view of a vertex's outgoing edges, ordered by
// creation.
type MutChildList[T comparable, V, E any] struct {
	g  *Graph[T, V, E]
	id arena.VertexID
}

// Len returns the number of outgoing edges.
func (cl MutChildList[T, V, E]) Len() int { return len(cl.g.mustChildren(cl.id)) }

// Source returns the vertex the edges leave from.
func (cl MutChildList[T, V, E]) Source() *MutNode[T, V, E] {
	return &MutNode[T, V, E]{g: cl.g, id: cl.id}
}

// Edge returns the i-th outgoing edge. It fails with an OutOfRangeError
// when i is negative or past the end of the list.
func (cl MutChildList[T, V, E]) Edge(i int) (*MutEdge[T, V, E], error) {
	children := cl.g.mustChildren(cl.id)
	if i < 0 || i >= len(children) {
		return nil, &OutOfRangeError{Index: i, Len: len(children)}
	}
	return &MutEdge[T, V, E]{g: cl.g, id: children[i]}, nil
}

// All iterates over the outgoing edges in creation order. Adding children
// during iteration is undefined.
func (cl MutChildList[T, V, E]) All() iter.Seq[*MutEdge[T, V, E]] {
	return func(yield func(*MutEdge[T, V, E]) bool) {
		for _, eid := range cl.g.mustChildren(cl.id) {
			if !yield(&MutEdge[T, V, E]{g: cl.g, id: eid}) {
				return
			}
		}
	}
}

// MutParentList is a mutable view of a vertex's incoming edges.
type MutParentList[T comparable, V, E any] struct {
	g  *Graph[T, V, E]
	id arena.VertexID
}

// Len returns the number of incoming edges.
func (pl MutParentList[T, V, E]) Len() int { return len(pl.g.mustParents(pl.id)) }

// Target returns the vertex the edges point into.
func (pl MutParentList[T, V, E]) Target() *MutNode[T, V, E] {
	return &MutNode[T, V, E]{g: pl.g, id: pl.id}
}

// Edge returns the i-th incoming edge. It fails with an OutOfRangeError
// when i is negative or past the end of the list.
func (pl MutParentList[T, V, E]) Edge(i int) (*MutEdge[T, V, E], error) {
	parents := pl.g.mustParents(pl.id)
	if i < 0 || i >= len(parents) {
		return nil, &OutOfRangeError{Index: i, Len: len(parents)}
	}
	return &MutEdge[T, V, E]{g: pl.g, id: parents[i]}, nil
}

// AddParent links a new incoming edge from the vertex holding the given
// state, creating that vertex if the state is unknown (dataFn supplies
// its payload; nil yields the zero value, and it is not called when the
// state already exists). The new edge is created expanded, pointing at
// this list's vertex, and a handle to it is returned.
//
// It panics if the exclusive borrow behind this handle has been
// released.
func (pl MutParentList[T, V, E]) AddParent(state T, dataFn func() V, edgeData E) *MutEdge[T, V, E] {
	pl.g.mustExclusive()

	source, ok := pl.g.states.Lookup(state)
	if !ok {
		var data V
		if dataFn != nil {
			data = dataFn()
		}
		source = pl.g.arena.NewVertex(vertexPayload[T, V]{state: state, data: data})
		if err := pl.g.states.Insert(state, source); err != nil {
			// Unreachable: the lookup above missed.
			panic("searchgraph: transposition index out of sync: " + err.Error())
		}
	}

	eid, err := pl.g.arena.NewEdge(source, edgeData)
	if err != nil {
		panic("searchgraph: use of invalidated node handle: " + err.Error())
	}
	if err := pl.g.arena.Connect(eid, pl.id); err != nil {
		panic("searchgraph: use of invalidated node handle: " + err.Error())
	}
	return &MutEdge[T, V, E]{g: pl.g, id: eid}
}

// All iterates over the incoming edges. Expanding edges during iteration
// is undefined.
func (pl MutParentList[T, V, E]) All() iter.Seq[*MutEdge[T, V, E]] {
	return func(yield func(*MutEdge[T, V, E]) bool) {
		for _, eid := range pl.g.mustParents(pl.id) {
			if !yield(&MutEdge[T, V, E]{g: pl.g, id: eid}) {
				return
			}
		}
	}
}

// MutEdge is a mutable view of an edge, derived from a mutable node
// handle and sharing its borrow.
type MutEdge[T comparable, V, E any] struct {
	g  *Graph[T, V, E]
	id arena.EdgeID
}

// ID returns the edge id this handle refers to.
func (e *MutEdge[T, V, E]) ID() arena.EdgeID { return e.id }

// Data returns a pointer to the edge payload, valid until the next graph
// mutation. It panics if the exclusive borrow behind this handle has
// been released.
func (e *MutEdge[T, V, E]) Data() *E {
	e.g.mustExclusive()
	return e.g.mustEdgeData(e.id)
}

// SetData replaces the edge payload. It panics if the exclusive borrow
// behind this handle has been released.
func (e *MutEdge[T, V, E]) SetData(data E) {
	e.g.mustExclusive()
	*e.g.mustEdgeData(e.id) = data
}

// Source returns the vertex the edge leaves from.
func (e *MutEdge[T, V, E]) Source() *MutNode[T, V, E] {
	return &MutNode[T, V, E]{g: e.g, id: e.g.mustSource(e.id)}
}

// Target returns the edge's endpoint descriptor. An unexpanded edge has
// Target.Expanded == false and no target vertex.
func (e *MutEdge[T, V, E]) Target() arena.Target { return e.g.mustTarget(e.id) }

// TargetNode returns the vertex the edge points into, or false if the
// edge is unexpanded.
func (e *MutEdge[T, V, E]) TargetNode() (*MutNode[T, V, E], bool) {
	t := e.g.mustTarget(e.id)
	if !t.Expanded {
		return nil, false
	}
	return &MutNode[T, V, E]{g: e.g, id: t.Vertex}, true
}

// Expander prepares this edge for expansion. It fails with
// ErrAlreadyExpanded if the edge's target is already set.
func (e *MutEdge[T, V, E]) Expander() (*EdgeExpander[T, V, E], error) {
	t := e.g.mustTarget(e.id)
	if t.Expanded {
		return nil, translateError(&arena.AlreadyExpandedError{ID: e.id, Target: t.Vertex})
	}
	return &EdgeExpander[T, V, E]{g: e.g, id: e.id}, nil
}

// EdgeExpander settles the target of a single unexpanded edge. It is a
// one-shot object: a successful Expand consumes it.
type EdgeExpander[T comparable, V, E any] struct {
	g    *Graph[T, V, E]
	id   arena.EdgeID
	done bool
}

// Edge returns a handle to the edge being expanded.
func (x *EdgeExpander[T, V, E]) Edge() *MutEdge[T, V, E] {
	return &MutEdge[T, V, E]{g: x.g, id: x.id}
}

// Expand settles the edge's target to the vertex holding the given state.
//
// If the state is already present in the graph the edge is connected to
// the existing vertex (a transposition) and dataFn is not called.
// Otherwise a fresh vertex is created with the payload dataFn produces; a
// nil dataFn yields the zero value. Either way the edge becomes expanded
// and a handle to the target vertex is returned.
//
// Expand fails with ErrAlreadyExpanded if the edge was expanded in the
// meantime or this expander was already used, and with ErrBorrowConflict
// if the exclusive borrow behind it has been released; either way the
// graph is left unchanged.
func (x *EdgeExpander[T, V, E]) Expand(state T, dataFn func() V) (*MutNode[T, V, E], error) {
	start := time.Now()

	if !x.g.borrow.ExclusiveHeld() {
		err := fmt.Errorf("%w: exclusive borrow released before expanding edge %s", ErrBorrowConflict, x.id)
		x.g.opts.metricsCollector.RecordExpand(false, time.Since(start), err)
		x.g.opts.logger.LogExpand(x.id.String(), "", false, err)
		return nil, err
	}

	if x.done {
		err := fmt.Errorf("%w: expander already used for edge %s", ErrAlreadyExpanded, x.id)
		x.g.opts.metricsCollector.RecordExpand(false, time.Since(start), err)
		x.g.opts.logger.LogExpand(x.id.String(), "", false, err)
		return nil, err
	}

	// Validate before allocating anything so a failed expand leaves no
	// orphan vertex or index entry behind.
	t, err := x.g.arena.Target(x.id)
	if err != nil {
		err = translateError(err)
		x.g.opts.metricsCollector.RecordExpand(false, time.Since(start), err)
		x.g.opts.logger.LogExpand(x.id.String(), "", false, err)
		return nil, err
	}
	if t.Expanded {
		err = translateError(&arena.AlreadyExpandedError{ID: x.id, Target: t.Vertex})
		x.g.opts.metricsCollector.RecordExpand(false, time.Since(start), err)
		x.g.opts.logger.LogExpand(x.id.String(), "", false, err)
		return nil, err
	}

	target, transposition := x.g.states.Lookup(state)
	if !transposition {
		var data V
		if dataFn != nil {
			data = dataFn()
		}
		target = x.g.arena.NewVertex(vertexPayload[T, V]{state: state, data: data})
		if err := x.g.states.Insert(state, target); err != nil {
			// Unreachable: the lookup above missed.
			return nil, err
		}
	}

	if err := x.g.arena.Connect(x.id, target); err != nil {
		err = translateError(err)
		x.g.opts.metricsCollector.RecordExpand(transposition, time.Since(start), err)
		x.g.opts.logger.LogExpand(x.id.String(), "", transposition, err)
		return nil, err
	}
	x.done = true

	x.g.opts.metricsCollector.RecordExpand(transposition, time.Since(start), nil)
	x.g.opts.logger.LogExpand(x.id.String(), target.String(), transposition, nil)
	return &MutNode[T, V, E]{g: x.g, id: target}, nil
}
