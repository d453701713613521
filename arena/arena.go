package arena

import (
	"fmt"
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// StaleVertexError reports an access through a vertex id whose slot was
// freed (and possibly recycled) after the id was minted.
type StaleVertexError struct {
	ID VertexID
}

func (e *StaleVertexError) Error() string {
	return fmt.Sprintf("stale vertex id %s", e.ID)
}

// StaleEdgeError reports an access through an edge id whose slot was freed
// (and possibly recycled) after the id was minted.
type StaleEdgeError struct {
	ID EdgeID
}

func (e *StaleEdgeError) Error() string {
	return fmt.Sprintf("stale edge id %s", e.ID)
}

// AlreadyExpandedError reports an attempt to set the target of an edge
// whose target is already set. Target is the existing destination.
type AlreadyExpandedError struct {
	ID     EdgeID
	Target VertexID
}

func (e *AlreadyExpandedError) Error() string {
	return fmt.Sprintf("edge %s already expanded to %s", e.ID, e.Target)
}

type vertexSlot[V any] struct {
	gen      uint32
	data     V
	children []EdgeID
	parents  []EdgeID
}

type edgeSlot[E any] struct {
	gen    uint32
	data   E
	source VertexID
	target Target
}

// Stats is a snapshot of arena occupancy.
type Stats struct {
	VertexSlots     int // total vertex slots ever allocated
	EdgeSlots       int // total edge slots ever allocated
	LiveVertices    int
	LiveEdges       int
	FreeVertexSlots int
	FreeEdgeSlots   int
}

// Arena owns the vertex and edge slot tables of one graph. V is the
// per-vertex payload, E the per-edge payload; topology (child, parent,
// source and target links) is managed by the arena itself.
type Arena[V, E any] struct {
	vertices []vertexSlot[V]
	edges    []edgeSlot[E]

	freeVertices []uint32
	freeEdges    []uint32

	liveVertices *bitset.BitSet
	liveEdges    *bitset.BitSet
}

// New creates an empty arena. The capacities are pre-allocation hints and
// may be zero.
func New[V, E any](vertexCap, edgeCap int) *Arena[V, E] {
	if vertexCap < 0 {
		vertexCap = 0
	}
	if edgeCap < 0 {
		edgeCap = 0
	}
	return &Arena[V, E]{
		vertices:     make([]vertexSlot[V], 0, vertexCap),
		edges:        make([]edgeSlot[E], 0, edgeCap),
		liveVertices: bitset.New(uint(vertexCap)),
		liveEdges:    bitset.New(uint(edgeCap)),
	}
}

func (a *Arena[V, E]) vslot(id VertexID) (*vertexSlot[V], error) {
	if int(id.Slot) >= len(a.vertices) {
		return nil, &StaleVertexError{ID: id}
	}
	s := &a.vertices[id.Slot]
	if s.gen != id.Gen || !a.liveVertices.Test(uint(id.Slot)) {
		return nil, &StaleVertexError{ID: id}
	}
	return s, nil
}

func (a *Arena[V, E]) eslot(id EdgeID) (*edgeSlot[E], error) {
	if int(id.Slot) >= len(a.edges) {
		return nil, &StaleEdgeError{ID: id}
	}
	s := &a.edges[id.Slot]
	if s.gen != id.Gen || !a.liveEdges.Test(uint(id.Slot)) {
		return nil, &StaleEdgeError{ID: id}
	}
	return s, nil
}

// NewVertex allocates a vertex slot for the given payload and returns its
// id. The vertex starts with no incident edges.
//
// The arena does not deduplicate payloads; callers that need the
// one-vertex-per-state invariant must consult their transposition index
// before allocating.
func (a *Arena[V, E]) NewVertex(data V) VertexID {
	if n := len(a.freeVertices); n > 0 {
		slot := a.freeVertices[n-1]
		a.freeVertices = a.freeVertices[:n-1]
		s := &a.vertices[slot]
		s.data = data
		a.liveVertices.Set(uint(slot))
		return VertexID{Slot: slot, Gen: s.gen}
	}
	slot := uint32(len(a.vertices))
	a.vertices = append(a.vertices, vertexSlot[V]{gen: 1, data: data})
	a.liveVertices.Set(uint(slot))
	return VertexID{Slot: slot, Gen: 1}
}

// NewEdge allocates an unexpanded edge slot owned by source and appends it
// to source's outgoing list.
func (a *Arena[V, E]) NewEdge(source VertexID, data E) (EdgeID, error) {
	src, err := a.vslot(source)
	if err != nil {
		return EdgeID{}, err
	}

	var id EdgeID
	if n := len(a.freeEdges); n > 0 {
		slot := a.freeEdges[n-1]
		a.freeEdges = a.freeEdges[:n-1]
		s := &a.edges[slot]
		s.data = data
		s.source = source
		a.liveEdges.Set(uint(slot))
		id = EdgeID{Slot: slot, Gen: s.gen}
	} else {
		slot := uint32(len(a.edges))
		a.edges = append(a.edges, edgeSlot[E]{gen: 1, data: data, source: source})
		a.liveEdges.Set(uint(slot))
		id = EdgeID{Slot: slot, Gen: 1}
	}

	src.children = append(src.children, id)
	return id, nil
}

// Connect resolves an unexpanded edge to target and appends the edge to
// target's incoming list. The target of an edge is write-once: connecting
// an already expanded edge fails with AlreadyExpandedError.
func (a *Arena[V, E]) Connect(id EdgeID, target VertexID) error {
	e, err := a.eslot(id)
	if err != nil {
		return err
	}
	if e.target.Expanded {
		return &AlreadyExpandedError{ID: id, Target: e.target.Vertex}
	}
	t, err := a.vslot(target)
	if err != nil {
		return err
	}
	e.target = Target{Vertex: target, Expanded: true}
	t.parents = append(t.parents, id)
	return nil
}

// VertexData returns a pointer to the payload of the given vertex.
func (a *Arena[V, E]) VertexData(id VertexID) (*V, error) {
	s, err := a.vslot(id)
	if err != nil {
		return nil, err
	}
	return &s.data, nil
}

// EdgeData returns a pointer to the payload of the given edge.
func (a *Arena[V, E]) EdgeData(id EdgeID) (*E, error) {
	s, err := a.eslot(id)
	if err != nil {
		return nil, err
	}
	return &s.data, nil
}

// Children returns the outgoing edge ids of a vertex in insertion order.
// The returned slice aliases arena storage and must not be modified or
// retained across mutations.
func (a *Arena[V, E]) Children(id VertexID) ([]EdgeID, error) {
	s, err := a.vslot(id)
	if err != nil {
		return nil, err
	}
	return s.children, nil
}

// Parents returns the incoming edge ids of a vertex in insertion order.
// The same aliasing rules as for Children apply.
func (a *Arena[V, E]) Parents(id VertexID) ([]EdgeID, error) {
	s, err := a.vslot(id)
	if err != nil {
		return nil, err
	}
	return s.parents, nil
}

// Source returns the source vertex of an edge.
func (a *Arena[V, E]) Source(id EdgeID) (VertexID, error) {
	s, err := a.eslot(id)
	if err != nil {
		return VertexID{}, err
	}
	return s.source, nil
}

// Target returns the target of an edge.
func (a *Arena[V, E]) Target(id EdgeID) (Target, error) {
	s, err := a.eslot(id)
	if err != nil {
		return Target{}, err
	}
	return s.target, nil
}

// AliveVertex reports whether id refers to a live vertex slot.
func (a *Arena[V, E]) AliveVertex(id VertexID) bool {
	_, err := a.vslot(id)
	return err == nil
}

// AliveEdge reports whether id refers to a live edge slot.
func (a *Arena[V, E]) AliveEdge(id EdgeID) bool {
	_, err := a.eslot(id)
	return err == nil
}

// FreeVertex recycles a vertex slot. The slot generation is bumped so that
// every outstanding id for it becomes stale. Incident edge bookkeeping is
// the caller's responsibility (the collector frees edges separately).
func (a *Arena[V, E]) FreeVertex(id VertexID) error {
	s, err := a.vslot(id)
	if err != nil {
		return err
	}
	var zero V
	s.gen++
	s.data = zero
	s.children = nil
	s.parents = nil
	a.liveVertices.Clear(uint(id.Slot))
	a.freeVertices = append(a.freeVertices, id.Slot)
	return nil
}

// FreeEdge recycles an edge slot, bumping its generation.
func (a *Arena[V, E]) FreeEdge(id EdgeID) error {
	s, err := a.eslot(id)
	if err != nil {
		return err
	}
	var zero E
	s.gen++
	s.data = zero
	s.source = VertexID{}
	s.target = Target{}
	a.liveEdges.Clear(uint(id.Slot))
	a.freeEdges = append(a.freeEdges, id.Slot)
	return nil
}

// RetainParents filters the incoming list of a vertex in place, keeping
// only edges for which keep returns true.
func (a *Arena[V, E]) RetainParents(id VertexID, keep func(EdgeID) bool) error {
	s, err := a.vslot(id)
	if err != nil {
		return err
	}
	kept := s.parents[:0]
	for _, eid := range s.parents {
		if keep(eid) {
			kept = append(kept, eid)
		}
	}
	s.parents = kept
	return nil
}

// VertexCount returns the number of live vertices.
func (a *Arena[V, E]) VertexCount() int {
	return int(a.liveVertices.Count())
}

// EdgeCount returns the number of live edges.
func (a *Arena[V, E]) EdgeCount() int {
	return int(a.liveEdges.Count())
}

// LiveVertices iterates over the ids of all live vertices in slot order.
// The arena must not be mutated during iteration.
func (a *Arena[V, E]) LiveVertices() iter.Seq[VertexID] {
	return func(yield func(VertexID) bool) {
		for slot, ok := a.liveVertices.NextSet(0); ok; slot, ok = a.liveVertices.NextSet(slot + 1) {
			id := VertexID{Slot: uint32(slot), Gen: a.vertices[slot].gen}
			if !yield(id) {
				return
			}
		}
	}
}

// LiveEdges iterates over the ids of all live edges in slot order. The
// arena must not be mutated during iteration.
func (a *Arena[V, E]) LiveEdges() iter.Seq[EdgeID] {
	return func(yield func(EdgeID) bool) {
		for slot, ok := a.liveEdges.NextSet(0); ok; slot, ok = a.liveEdges.NextSet(slot + 1) {
			id := EdgeID{Slot: uint32(slot), Gen: a.edges[slot].gen}
			if !yield(id) {
				return
			}
		}
	}
}

// Stats returns a snapshot of slot occupancy.
func (a *Arena[V, E]) Stats() Stats {
	return Stats{
		VertexSlots:     len(a.vertices),
		EdgeSlots:       len(a.edges),
		LiveVertices:    a.VertexCount(),
		LiveEdges:       a.EdgeCount(),
		FreeVertexSlots: len(a.freeVertices),
		FreeEdgeSlots:   len(a.freeEdges),
	}
}
