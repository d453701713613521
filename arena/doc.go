// Package arena owns the slot tables that back a search graph.
//
// Vertices and edges live in growable slot tables addressed by stable
// (slot, generation) identifiers. Freeing a slot bumps its generation, so
// identifiers minted before the free are detected as stale on every access
// instead of silently aliasing a recycled slot. Freed slots are kept on a
// free list and reused by later allocations.
//
// The arena is a single-writer structure: it performs no locking and relies
// on the caller (the graph's handle layer) to serialize mutation.
package arena
