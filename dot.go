package searchgraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the current graph.
//
// Vertices are boxes labeled with their state's %v formatting; expanded
// edges are solid arrows labeled with the edge payload. An unexpanded
// edge is drawn as a dashed arrow into a small point placeholder, so
// unexplored frontier is visible in the rendering.
//
// ToDOT takes a shared borrow for the duration of the walk and fails
// with ErrBorrowConflict while a mutable handle is outstanding.
func (g *Graph[T, V, E]) ToDOT() (string, error) {
	if err := g.borrow.AcquireShared(); err != nil {
		return "", translateError(err)
	}
	defer g.borrow.ReleaseShared()

	var buf bytes.Buffer
	buf.WriteString("digraph searchgraph {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n\n")

	for id := range g.arena.LiveVertices() {
		p, err := g.arena.VertexData(id)
		if err != nil {
			return "", translateError(err)
		}
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box];\n", id.String(), fmt.Sprintf("%v", p.state))
	}

	for id := range g.arena.LiveEdges() {
		source, err := g.arena.Source(id)
		if err != nil {
			return "", translateError(err)
		}
		t, err := g.arena.Target(id)
		if err != nil {
			return "", translateError(err)
		}
		data, err := g.arena.EdgeData(id)
		if err != nil {
			return "", translateError(err)
		}
		label := fmt.Sprintf("%v", *data)
		if t.Expanded {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", source.String(), t.Vertex.String(), label)
		} else {
			placeholder := id.String()
			fmt.Fprintf(&buf, "  %q [shape=point];\n", placeholder)
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed];\n", source.String(), placeholder, label)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders the current graph as an SVG image via Graphviz.
//
// RenderSVG requires the Graphviz library (github.com/goccy/go-graphviz)
// to initialize; errors from initialization, DOT parsing and rendering
// are wrapped with %w.
func (g *Graph[T, V, E]) RenderSVG(ctx context.Context) ([]byte, error) {
	dot, err := g.ToDOT()
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
