package searchgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/searchgraph/arena"
)

// stats and move stand in for the payloads a searcher would attach.
type stats struct {
	Visits int
	Wins   float64
}

type move struct {
	Label string
}

func newTestGraph(t *testing.T, optFns ...Option) *Graph[string, stats, move] {
	t.Helper()
	return New[string, stats, move](optFns...)
}

// expandChild adds an edge to a mutable node and expands it to state,
// returning the target's id.
func expandChild(t *testing.T, n *MutNode[string, stats, move], label, state string) arena.VertexID {
	t.Helper()
	x, err := n.AddChild(move{Label: label}).Expander()
	require.NoError(t, err)
	child, err := x.Expand(state, nil)
	require.NoError(t, err)
	return child.ID()
}

func TestAddRoot(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("start", stats{Visits: 1})
	require.NoError(t, err)
	assert.False(t, root.IsZero())
	assert.Equal(t, 1, g.VertexCount())

	// Re-adding the same state returns the existing vertex untouched.
	again, err := g.AddRoot("start", stats{Visits: 99})
	require.NoError(t, err)
	assert.Equal(t, root, again)
	assert.Equal(t, 1, g.VertexCount())

	n, err := g.Node(root)
	require.NoError(t, err)
	defer n.Release()
	assert.Equal(t, "start", n.State())
	assert.Equal(t, stats{Visits: 1}, n.Data())
	assert.True(t, n.IsRoot())
	assert.True(t, n.IsLeaf())
}

func TestLookup(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("start", stats{})
	require.NoError(t, err)

	id, ok := g.Lookup("start")
	assert.True(t, ok)
	assert.Equal(t, root, id)

	_, ok = g.Lookup("unknown")
	assert.False(t, ok)
}

func TestNodeStaleID(t *testing.T) {
	g := newTestGraph(t)

	_, err := g.Node(arena.VertexID{Slot: 0, Gen: 1})
	assert.ErrorIs(t, err, ErrStaleHandle)

	_, err = g.NodeMut(arena.VertexID{Slot: 7, Gen: 3})
	assert.ErrorIs(t, err, ErrStaleHandle)
}

func TestBorrowDiscipline(t *testing.T) {
	g := newTestGraph(t)
	root, err := g.AddRoot("start", stats{})
	require.NoError(t, err)

	t.Run("readers coexist", func(t *testing.T) {
		n1, err := g.Node(root)
		require.NoError(t, err)
		n2, err := g.Node(root)
		require.NoError(t, err)
		n1.Release()
		n2.Release()
	})

	t.Run("reader blocks writer", func(t *testing.T) {
		n, err := g.Node(root)
		require.NoError(t, err)
		defer n.Release()

		_, err = g.NodeMut(root)
		assert.ErrorIs(t, err, ErrBorrowConflict)

		_, err = g.AddRoot("other", stats{})
		assert.ErrorIs(t, err, ErrBorrowConflict)

		_, err = g.Collect(root)
		assert.ErrorIs(t, err, ErrBorrowConflict)
	})

	t.Run("writer blocks everything", func(t *testing.T) {
		m, err := g.NodeMut(root)
		require.NoError(t, err)
		defer m.Release()

		_, err = g.Node(root)
		assert.ErrorIs(t, err, ErrBorrowConflict)

		_, err = g.NodeMut(root)
		assert.ErrorIs(t, err, ErrBorrowConflict)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		n, err := g.Node(root)
		require.NoError(t, err)
		n.Release()
		n.Release()

		m, err := g.NodeMut(root)
		require.NoError(t, err)
		m.Release()
		m.Release()

		n, err = g.Node(root)
		require.NoError(t, err)
		n.Release()
	})

	t.Run("derived handles hold no borrow", func(t *testing.T) {
		m, err := g.NodeMut(root)
		require.NoError(t, err)

		edge := m.AddChild(move{Label: "x"})
		derived := edge.Source()
		derived.Release() // no-op
		m.Release()

		// The exclusive borrow really is gone.
		n, err := g.Node(root)
		require.NoError(t, err)
		n.Release()
	})
}

func TestAddRootMetrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	g := newTestGraph(t, WithMetricsCollector(mc))

	_, err := g.AddRoot("r", stats{})
	require.NoError(t, err)
	_, err = g.AddRoot("r", stats{})
	require.NoError(t, err)
	_, err = g.AddRoot("other", stats{})
	require.NoError(t, err)

	st := mc.GetStats()
	assert.Equal(t, int64(3), st.AddRootCount)
	assert.Equal(t, int64(2), st.AddRootNovelCount)
	assert.Equal(t, int64(0), st.AddRootErrors)
	assert.GreaterOrEqual(t, st.AddRootAvgNanos, int64(0))
}

func TestPathExists(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	a := expandChild(t, m, "to-a", "a")
	b := expandChild(t, m, "to-b", "b")
	m.Release()

	ma, err := g.NodeMut(a)
	require.NoError(t, err)
	c := expandChild(t, ma, "to-c", "c")
	ma.Release()

	ok, err := g.PathExists(root, c)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.PathExists(b, c)
	require.NoError(t, err)
	assert.False(t, ok)

	// Reflexive.
	ok, err = g.PathExists(b, b)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = g.PathExists(root, arena.VertexID{Slot: 99, Gen: 1})
	assert.ErrorIs(t, err, ErrStaleHandle)
}

func TestCounts(t *testing.T) {
	g := newTestGraph(t, WithInitialCapacity(16, 32))

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	expandChild(t, m, "x", "a")
	m.AddChild(move{Label: "y"}) // left unexpanded
	m.Release()

	assert.Equal(t, 2, g.VertexCount())
	assert.Equal(t, 2, g.EdgeCount())

	st := g.Stats()
	assert.Equal(t, 2, st.LiveVertices)
	assert.Equal(t, 2, st.LiveEdges)
	assert.Equal(t, 0, st.FreeVertexSlots)
}
