// Package searchgraph provides an embeddable, mutable search graph for Go.
//
// Searchgraph is the substrate a game-tree or rollout-based search
// algorithm runs on: it grows a graph of game states one move at a time,
// deduplicates states that were already seen (transposition detection),
// and reclaims everything that is no longer reachable from the states the
// caller still cares about.
//
// # Quick Start
//
//	g := searchgraph.New[string, Stats, Move]()
//	root, _ := g.AddRoot("start", Stats{})
//
//	// Declare a move and expand it lazily.
//	n, _ := g.NodeMut(root)
//	edge := n.AddChild(Move{Dir: "N"})
//	x, _ := edge.Expander()
//	child, _ := x.Expand("start/N", func() Stats { return Stats{} })
//	childID := child.ID()
//	n.Release()
//
//	// Later, drop everything unreachable from the committed position.
//	g.Collect(childID)
//
// # Handles and Borrowing
//
// The graph hands out two kinds of views. Node and Edge are read-only
// handles; any number may be live at once. MutNode and MutEdge are
// exclusive handles that permit structural mutation; while one is
// outstanding no other handle may be acquired. The discipline is checked
// at acquisition time and violations fail with ErrBorrowConflict. Release
// every handle obtained from Graph.Node or Graph.NodeMut when done with it.
// Mutating through a handle whose exclusive borrow has already been
// released is also rejected: expansion fails with ErrBorrowConflict and
// the error-less mutators panic.
//
// # Identifiers
//
// Vertices and edges are addressed by (slot, generation) ids. Ids stay
// valid until a collection frees their slot; after that every access
// through them fails with ErrStaleHandle. Re-navigate from a root that
// survived the collection instead of caching handles across it.
//
// # Key Features
//
//   - Lazy edge expansion with transposition deduplication (fan-in safe)
//   - Bidirectionally consistent child/parent traversal
//   - Search-path tracking for rollout backpropagation
//   - Mark-and-sweep reclamation with stable survivor ids
//   - Structured logging (log/slog) and pluggable metrics
//   - Graphviz DOT/SVG export for debugging
package searchgraph
