package arena

import "fmt"

// VertexID is a stable identifier for a vertex slot. Slot indexes the vertex
// table; Gen is the generation of the slot at the time the id was minted.
// A VertexID stays valid until its slot is freed by a collection.
//
// The zero value is never a valid id (generations start at 1).
type VertexID struct {
	Slot uint32
	Gen  uint32
}

// IsZero returns true if the id is the zero value.
func (id VertexID) IsZero() bool { return id.Gen == 0 }

func (id VertexID) String() string { return fmt.Sprintf("v%d@%d", id.Slot, id.Gen) }

// EdgeID is a stable identifier for an edge slot, with the same
// (slot, generation) semantics as VertexID.
type EdgeID struct {
	Slot uint32
	Gen  uint32
}

// IsZero returns true if the id is the zero value.
func (id EdgeID) IsZero() bool { return id.Gen == 0 }

func (id EdgeID) String() string { return fmt.Sprintf("e%d@%d", id.Slot, id.Gen) }

// Target is the destination of an edge. An edge starts out unexpanded
// (Expanded is false and Vertex is the zero VertexID) and is resolved at
// most once; after that its target never changes.
type Target struct {
	Vertex   VertexID
	Expanded bool
}
