package searchgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChild(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	e1 := m.AddChild(move{Label: "a"})
	e2 := m.AddChild(move{Label: "b"})

	assert.False(t, m.IsLeaf())
	assert.Equal(t, 2, m.Children().Len())

	// New edges are unexpanded.
	assert.False(t, e1.Target().Expanded)
	_, ok := e1.TargetNode()
	assert.False(t, ok)

	// Children keep creation order.
	first, err := m.Children().Edge(0)
	require.NoError(t, err)
	assert.Equal(t, e1.ID(), first.ID())
	assert.Equal(t, move{Label: "a"}, *first.Data())

	second, err := m.Children().Edge(1)
	require.NoError(t, err)
	assert.Equal(t, e2.ID(), second.ID())

	assert.Equal(t, root, e1.Source().ID())

	// Out-of-range indexes fail, they don't panic.
	_, err = m.Children().Edge(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Children().Edge(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var oor *OutOfRangeError
	_, err = m.Children().Edge(5)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 5, oor.Index)
	assert.Equal(t, 2, oor.Len)
}

func TestExpandCreatesVertex(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	edge := m.AddChild(move{Label: "a"})
	x, err := edge.Expander()
	require.NoError(t, err)

	called := false
	child, err := x.Expand("child", func() stats {
		called = true
		return stats{Visits: 7}
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "child", child.State())
	assert.Equal(t, stats{Visits: 7}, *child.Data())
	assert.Equal(t, 2, g.VertexCount())

	// The edge is now expanded and linked both ways.
	tgt := edge.Target()
	assert.True(t, tgt.Expanded)
	assert.Equal(t, child.ID(), tgt.Vertex)
	assert.Equal(t, 1, child.Parents().Len())

	parentEdge, err := child.Parents().Edge(0)
	require.NoError(t, err)
	assert.Equal(t, edge.ID(), parentEdge.ID())
}

func TestExpandTransposition(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	// Two different moves leading to the same state share one vertex.
	x1, err := m.AddChild(move{Label: "a"}).Expander()
	require.NoError(t, err)
	c1, err := x1.Expand("shared", func() stats { return stats{Visits: 1} })
	require.NoError(t, err)

	x2, err := m.AddChild(move{Label: "b"}).Expander()
	require.NoError(t, err)
	c2, err := x2.Expand("shared", func() stats {
		t.Fatal("dataFn must not run on a transposition")
		return stats{}
	})
	require.NoError(t, err)

	assert.Equal(t, c1.ID(), c2.ID())
	assert.Equal(t, 2, g.VertexCount())
	assert.Equal(t, stats{Visits: 1}, *c2.Data(), "existing payload untouched")

	// Fan-in: both edges appear in the shared vertex's parent list.
	assert.Equal(t, 2, c1.Parents().Len())
}

func TestExpandSelfLoop(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	// An edge whose successor state equals its source state loops back.
	x, err := m.AddChild(move{Label: "pass"}).Expander()
	require.NoError(t, err)
	child, err := x.Expand("r", nil)
	require.NoError(t, err)

	assert.Equal(t, root, child.ID())
	assert.Equal(t, 1, g.VertexCount())
	assert.Equal(t, 1, m.Parents().Len())
}

func TestExpandAlreadyExpanded(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	edge := m.AddChild(move{Label: "a"})
	x, err := edge.Expander()
	require.NoError(t, err)
	_, err = x.Expand("child", nil)
	require.NoError(t, err)

	// The expander is one-shot.
	_, err = x.Expand("other", nil)
	assert.ErrorIs(t, err, ErrAlreadyExpanded)

	// A fresh expander for an expanded edge is refused too.
	_, err = edge.Expander()
	assert.ErrorIs(t, err, ErrAlreadyExpanded)

	// The failed second expand left nothing behind.
	assert.Equal(t, 2, g.VertexCount())
	_, ok := g.Lookup("other")
	assert.False(t, ok)
}

func TestExpanderRace(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	// Two expanders for the same edge: the second loses and the graph is
	// unchanged by the losing attempt.
	edge := m.AddChild(move{Label: "a"})
	x1, err := edge.Expander()
	require.NoError(t, err)
	x2, err := edge.Expander()
	require.NoError(t, err)

	_, err = x1.Expand("first", nil)
	require.NoError(t, err)

	_, err = x2.Expand("second", nil)
	assert.ErrorIs(t, err, ErrAlreadyExpanded)
	_, ok := g.Lookup("second")
	assert.False(t, ok)

	tgt := edge.Target()
	winner, ok := g.Lookup("first")
	require.True(t, ok)
	assert.Equal(t, winner, tgt.Vertex)
}

func TestExpandAfterRelease(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	x, err := m.AddChild(move{Label: "a"}).Expander()
	require.NoError(t, err)
	m.Release()

	// A reader is active now; the retained expander must refuse to
	// mutate instead of growing the graph under the shared borrow.
	n, err := g.Node(root)
	require.NoError(t, err)
	defer n.Release()

	_, err = x.Expand("child", nil)
	assert.ErrorIs(t, err, ErrBorrowConflict)
	assert.Equal(t, 1, g.VertexCount())
	assert.Equal(t, 1, g.EdgeCount())
	_, ok := g.Lookup("child")
	assert.False(t, ok)

	// The edge is still unexpanded and can be settled under a fresh
	// exclusive borrow.
	n.Release()
	m, err = g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()
	e, err := m.Children().Edge(0)
	require.NoError(t, err)
	x2, err := e.Expander()
	require.NoError(t, err)
	_, err = x2.Expand("child", nil)
	require.NoError(t, err)
}

func TestMutationAfterReleasePanics(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	edge := m.AddChild(move{Label: "a"})
	parents := m.Parents()
	m.Release()

	assert.Panics(t, func() { m.AddChild(move{Label: "b"}) })
	assert.Panics(t, func() { m.SetData(stats{Visits: 1}) })
	assert.Panics(t, func() { _ = m.Data() })
	assert.Panics(t, func() { edge.SetData(move{Label: "c"}) })
	assert.Panics(t, func() { _ = edge.Data() })
	assert.Panics(t, func() { parents.AddParent("p", nil, move{}) })

	// Nothing leaked through.
	assert.Equal(t, 1, g.VertexCount())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestAddParent(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	// Unknown state: the parent vertex is created with dataFn's payload.
	called := false
	e1 := m.Parents().AddParent("p1", func() stats {
		called = true
		return stats{Visits: 3}
	}, move{Label: "into-r"})
	assert.True(t, called)
	assert.Equal(t, 2, g.VertexCount())

	tgt := e1.Target()
	assert.True(t, tgt.Expanded)
	assert.Equal(t, root, tgt.Vertex)
	assert.Equal(t, stats{Visits: 3}, *e1.Source().Data())
	assert.Equal(t, "p1", e1.Source().State())
	assert.Equal(t, 1, e1.Source().Children().Len())
	assert.Equal(t, 1, m.Parents().Len())
	assert.False(t, m.IsRoot())

	// Known state: dedups onto the existing vertex, dataFn not called.
	e2 := m.Parents().AddParent("p1", func() stats {
		t.Fatal("dataFn must not run for a known state")
		return stats{}
	}, move{Label: "again"})
	assert.Equal(t, e1.Source().ID(), e2.Source().ID())
	assert.Equal(t, 2, g.VertexCount())
	assert.Equal(t, 2, m.Parents().Len())
	assert.Equal(t, 2, e1.Source().Children().Len())
}

func TestExpandNilDataFn(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	x, err := m.AddChild(move{Label: "a"}).Expander()
	require.NoError(t, err)
	child, err := x.Expand("child", nil)
	require.NoError(t, err)
	assert.Equal(t, stats{}, *child.Data())
}

func TestMutNodeData(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{Visits: 1})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	m.Data().Visits++
	m.SetData(stats{Visits: m.Data().Visits, Wins: 0.5})
	m.Release()

	n, err := g.Node(root)
	require.NoError(t, err)
	defer n.Release()
	assert.Equal(t, stats{Visits: 2, Wins: 0.5}, n.Data())
}

func TestMutEdgeData(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	defer m.Release()

	edge := m.AddChild(move{Label: "a"})
	edge.SetData(move{Label: "b"})
	assert.Equal(t, move{Label: "b"}, *edge.Data())
}

func TestListIteration(t *testing.T) {
	g := newTestGraph(t)

	root, err := g.AddRoot("r", stats{})
	require.NoError(t, err)

	m, err := g.NodeMut(root)
	require.NoError(t, err)
	expandChild(t, m, "a", "ca")
	expandChild(t, m, "b", "cb")
	m.AddChild(move{Label: "c"})
	m.Release()

	n, err := g.Node(root)
	require.NoError(t, err)
	defer n.Release()

	var labels []string
	var expanded int
	for e := range n.Children().All() {
		labels = append(labels, e.Data().Label)
		if tn, ok := e.TargetNode(); ok {
			expanded++
			pe, err := tn.Parents().Edge(0)
			require.NoError(t, err)
			assert.Equal(t, root, pe.Source().ID())
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, labels)
	assert.Equal(t, 2, expanded)
}
