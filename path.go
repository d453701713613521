package searchgraph

import (
	"fmt"
	"iter"

	"github.com/hupe1980/searchgraph/arena"
)

// SearchPath records a walk from a head vertex down a sequence of edges,
// as built during the selection phase of a search. It stores ids, not
// handles, so it holds no borrow and can outlive any handle; resolve it
// against the graph with ResolvePath when the vertices are needed again.
type SearchPath struct {
	head  arena.VertexID
	steps []arena.EdgeID
}

// NewSearchPath starts a path at the given head vertex.
func NewSearchPath(head arena.VertexID) *SearchPath {
	return &SearchPath{head: head}
}

// Head returns the vertex the path starts from.
func (p *SearchPath) Head() arena.VertexID { return p.head }

// Push appends an edge taken from the path's current tip.
func (p *SearchPath) Push(edge arena.EdgeID) {
	p.steps = append(p.steps, edge)
}

// Pop removes and returns the most recently pushed edge. It returns false
// when only the head remains.
func (p *SearchPath) Pop() (arena.EdgeID, bool) {
	if len(p.steps) == 0 {
		return arena.EdgeID{}, false
	}
	edge := p.steps[len(p.steps)-1]
	p.steps = p.steps[:len(p.steps)-1]
	return edge, true
}

// Len returns the number of items on the path: the head plus one per
// pushed edge.
func (p *SearchPath) Len() int { return 1 + len(p.steps) }

// Steps returns a copy of the pushed edges in order.
func (p *SearchPath) Steps() []arena.EdgeID {
	out := make([]arena.EdgeID, len(p.steps))
	copy(out, p.steps)
	return out
}

// All iterates over the pushed edges from the head outward. For
// backpropagation, collect the resolved vertices with
// Graph.ResolvePath and walk them in reverse.
func (p *SearchPath) All() iter.Seq2[int, arena.EdgeID] {
	return func(yield func(int, arena.EdgeID) bool) {
		for i, edge := range p.steps {
			if !yield(i, edge) {
				return
			}
		}
	}
}

// ResolvePath checks a path against the current graph and returns the
// vertex ids it visits, head first. Every pushed edge must leave the
// vertex the previous step arrived at; an edge that does not fails with
// ErrPathMismatch. An unexpanded edge is allowed only as the final step,
// in which case it contributes no vertex.
//
// A path recorded before a collection may refer to freed slots; resolving
// such a path fails with ErrStaleHandle.
func (g *Graph[T, V, E]) ResolvePath(p *SearchPath) ([]arena.VertexID, error) {
	if err := g.borrow.AcquireShared(); err != nil {
		return nil, translateError(err)
	}
	defer g.borrow.ReleaseShared()

	if _, err := g.arena.VertexData(p.head); err != nil {
		return nil, translateError(err)
	}

	vertices := make([]arena.VertexID, 1, p.Len())
	vertices[0] = p.head

	cur := p.head
	for i, edge := range p.steps {
		source, err := g.arena.Source(edge)
		if err != nil {
			return nil, translateError(err)
		}
		if source != cur {
			return nil, fmt.Errorf("%w: step %d edge %s leaves %s, expected %s",
				ErrPathMismatch, i, edge, source, cur)
		}
		t, err := g.arena.Target(edge)
		if err != nil {
			return nil, translateError(err)
		}
		if !t.Expanded {
			if i != len(p.steps)-1 {
				return nil, fmt.Errorf("%w: step %d edge %s is unexpanded before the end of the path",
					ErrPathMismatch, i, edge)
			}
			break
		}
		cur = t.Vertex
		vertices = append(vertices, cur)
	}
	return vertices, nil
}
