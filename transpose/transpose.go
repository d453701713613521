// Package transpose maps game-state values to vertex ids.
//
// The index is the deduplication side of the graph's transposition
// invariant: at any time it holds exactly one entry per live vertex, keyed
// by that vertex's state value. It is a plain map with no locking; the
// graph's borrow discipline already serializes access.
package transpose

import (
	"fmt"

	"github.com/hupe1980/searchgraph/arena"
)

// DuplicateStateError reports an attempt to register a state value that is
// already bound to a live vertex.
type DuplicateStateError struct {
	Existing arena.VertexID
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("state already bound to vertex %s", e.Existing)
}

// Index maps state values to vertex ids. T must have deterministic
// equality; Go map semantics supply the matching hash.
type Index[T comparable] struct {
	m map[T]arena.VertexID
}

// New creates an empty index. capacity is a pre-allocation hint.
func New[T comparable](capacity int) *Index[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Index[T]{m: make(map[T]arena.VertexID, capacity)}
}

// Lookup returns the vertex id bound to state, if any.
func (idx *Index[T]) Lookup(state T) (arena.VertexID, bool) {
	id, ok := idx.m[state]
	return id, ok
}

// Insert binds state to id. It fails with DuplicateStateError if the state
// is already bound, preserving the one-vertex-per-state invariant.
func (idx *Index[T]) Insert(state T, id arena.VertexID) error {
	if existing, ok := idx.m[state]; ok {
		return &DuplicateStateError{Existing: existing}
	}
	idx.m[state] = id
	return nil
}

// Remove unbinds state. Removing an unknown state is a no-op.
func (idx *Index[T]) Remove(state T) {
	delete(idx.m, state)
}

// Len returns the number of bound states.
func (idx *Index[T]) Len() int {
	return len(idx.m)
}
