package searchgraph

import (
	"iter"

	"github.com/hupe1980/searchgraph/arena"
)

// Node is a read-only view of a vertex. Nodes acquired from Graph.Node own
// a shared borrow and must be released; nodes derived from other handles
// (edge targets, list sources) share their originator's borrow and their
// Release is a no-op.
type Node[T comparable, V, E any] struct {
	g     *Graph[T, V, E]
	id    arena.VertexID
	owned bool
}

// ID returns the vertex id this handle refers to.
func (n *Node[T, V, E]) ID() arena.VertexID { return n.id }

// State returns the game state stored at this vertex.
func (n *Node[T, V, E]) State() T { return n.g.mustVertex(n.id).state }

// Data returns the vertex payload.
func (n *Node[T, V, E]) Data() V { return n.g.mustVertex(n.id).data }

// IsLeaf reports whether the vertex has no outgoing edges.
func (n *Node[T, V, E]) IsLeaf() bool { return len(n.g.mustChildren(n.id)) == 0 }

// IsRoot reports whether the vertex has no incoming edges.
func (n *Node[T, V, E]) IsRoot() bool { return len(n.g.mustParents(n.id)) == 0 }

// Children returns a view of the vertex's outgoing edges.
func (n *Node[T, V, E]) Children() ChildList[T, V, E] {
	return ChildList[T, V, E]{g: n.g, id: n.id}
}

// Parents returns a view of the vertex's incoming edges.
func (n *Node[T, V, E]) Parents() ParentList[T, V, E] {
	return ParentList[T, V, E]{g: n.g, id: n.id}
}

// Release gives up the shared borrow held by this handle. Releasing a
// derived handle, or releasing twice, does nothing.
func (n *Node[T, V, E]) Release() {
	if n.owned {
		n.owned = false
		n.g.borrow.ReleaseShared()
	}
}

// ChildList is a read-only view of a vertex's outgoing edges, ordered by
// creation.
type ChildList[T comparable, V, E any] struct {
	g  *Graph[T, V, E]
	id arena.VertexID
}

// Len returns the number of outgoing edges.
func (cl ChildList[T, V, E]) Len() int { return len(cl.g.mustChildren(cl.id)) }

// Source returns the vertex the edges leave from.
func (cl ChildList[T, V, E]) Source() *Node[T, V, E] {
	return &Node[T, V, E]{g: cl.g, id: cl.id}
}

// Edge returns the i-th outgoing edge. It fails with an OutOfRangeError
// when i is negative or past the end of the list.
func (cl ChildList[T, V, E]) Edge(i int) (*Edge[T, V, E], error) {
	children := cl.g.mustChildren(cl.id)
	if i < 0 || i >= len(children) {
		return nil, &OutOfRangeError{Index: i, Len: len(children)}
	}
	return &Edge[T, V, E]{g: cl.g, id: children[i]}, nil
}

// All iterates over the outgoing edges in creation order. The list must
// not be mutated during iteration.
func (cl ChildList[T, V, E]) All() iter.Seq[*Edge[T, V, E]] {
	return func(yield func(*Edge[T, V, E]) bool) {
		for _, eid := range cl.g.mustChildren(cl.id) {
			if !yield(&Edge[T, V, E]{g: cl.g, id: eid}) {
				return
			}
		}
	}
}

// ParentList is a read-only view of a vertex's incoming edges. Order
// reflects creation and collection history and carries no meaning.
type ParentList[T comparable, V, E any] struct {
	g  *Graph[T, V, E]
	id arena.VertexID
}

// Len returns the number of incoming edges.
func (pl ParentList[T, V, E]) Len() int { return len(pl.g.mustParents(pl.id)) }

// Target returns the vertex the edges point into.
func (pl ParentList[T, V, E]) Target() *Node[T, V, E] {
	return &Node[T, V, E]{g: pl.g, id: pl.id}
}

// Edge returns the i-th incoming edge. It fails with an OutOfRangeError
// when i is negative or past the end of the list.
func (pl ParentList[T, V, E]) Edge(i int) (*Edge[T, V, E], error) {
	parents := pl.g.mustParents(pl.id)
	if i < 0 || i >= len(parents) {
		return nil, &OutOfRangeError{Index: i, Len: len(parents)}
	}
	return &Edge[T, V, E]{g: pl.g, id: parents[i]}, nil
}

// All iterates over the incoming edges. The list must not be mutated
// during iteration.
func (pl ParentList[T, V, E]) All() iter.Seq[*Edge[T, V, E]] {
	return func(yield func(*Edge[T, V, E]) bool) {
		for _, eid := range pl.g.mustParents(pl.id) {
			if !yield(&Edge[T, V, E]{g: pl.g, id: eid}) {
				return
			}
		}
	}
}

// Edge is a read-only view of an edge. Edges are always derived from a
// node handle and share its borrow.
type Edge[T comparable, V, E any] struct {
	g  *Graph[T, V, E]
	id arena.EdgeID
}

// ID returns the edge id this handle refers to.
func (e *Edge[T, V, E]) ID() arena.EdgeID { return e.id }

// Data returns the edge payload.
func (e *Edge[T, V, E]) Data() E { return *e.g.mustEdgeData(e.id) }

// Source returns the vertex the edge leaves from.
func (e *Edge[T, V, E]) Source() *Node[T, V, E] {
	return &Node[T, V, E]{g: e.g, id: e.g.mustSource(e.id)}
}

// Target returns the edge's endpoint descriptor. An unexpanded edge has
// Target.Expanded == false and no target vertex.
func (e *Edge[T, V, E]) Target() arena.Target { return e.g.mustTarget(e.id) }

// TargetNode returns the vertex the edge points into, or false if the
// edge is unexpanded.
func (e *Edge[T, V, E]) TargetNode() (*Node[T, V, E], bool) {
	t := e.g.mustTarget(e.id)
	if !t.Expanded {
		return nil, false
	}
	return &Node[T, V, E]{g: e.g, id: t.Vertex}, true
}
