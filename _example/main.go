package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hupe1980/searchgraph"
	"github.com/hupe1980/searchgraph/arena"
)

// The demo searches the "21 game": players alternately add 1, 2 or 3 to a
// running total; whoever says 21 wins. Different move orders reach the
// same total, so the game tree folds into a compact graph of at most 22
// states per player-to-move.

type State struct {
	Total  int
	Player int
}

type Stats struct {
	Visits int
	Wins   int
}

type Move struct {
	Add int
}

const target = 21

func main() {
	rng := rand.New(rand.NewSource(4711))

	g := searchgraph.New[State, Stats, Move](
		searchgraph.WithInitialCapacity(64, 256),
	)

	root, err := g.AddRoot(State{Total: 0, Player: 0}, Stats{})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Playouts ---")

	start := time.Now()
	for i := 0; i < 10000; i++ {
		if err := playout(g, root, rng); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Printf("Seconds: %.2f\n\n", time.Since(start).Seconds())

	fmt.Println("--- Graph ---")
	fmt.Println("Vertices:", g.VertexCount())
	fmt.Println("Edges:", g.EdgeCount())

	n, err := g.Node(root)
	if err != nil {
		log.Fatal(err)
	}
	for e := range n.Children().All() {
		child, ok := e.TargetNode()
		if !ok {
			continue
		}
		d := child.Data()
		fmt.Printf("add %d: visits=%d wins=%d\n", e.Data().Add, d.Visits, d.Wins)
	}
	n.Release()

	fmt.Println()
	fmt.Println("--- Collect ---")

	// Pretend the first move was made: descend to that child and reclaim
	// the rest of the graph.
	n, err = g.Node(root)
	if err != nil {
		log.Fatal(err)
	}
	e, err := n.Children().Edge(0)
	if err != nil {
		log.Fatal(err)
	}
	child, _ := e.TargetNode()
	childID := child.ID()
	n.Release()

	stats, err := g.Collect(childID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Freed: %d vertices, %d edges\n", stats.FreedVertices, stats.FreedEdges)
	fmt.Println("Vertices:", g.VertexCount())
	fmt.Println("Edges:", g.EdgeCount())
}

// playout runs one selection/expansion/backpropagation pass from root.
func playout(g *searchgraph.Graph[State, Stats, Move], root arena.VertexID, rng *rand.Rand) error {
	path := searchgraph.NewSearchPath(root)

	m, err := g.NodeMut(root)
	if err != nil {
		return err
	}

	cur := m
	for {
		state := cur.State()
		if state.Total >= target {
			break
		}
		if cur.IsLeaf() {
			for add := 1; add <= 3 && state.Total+add <= target; add++ {
				cur.AddChild(Move{Add: add})
			}
		}
		children := cur.Children()
		edge, err := children.Edge(rng.Intn(children.Len()))
		if err != nil {
			return err
		}
		path.Push(edge.ID())

		next, ok := edge.TargetNode()
		if !ok {
			x, err := edge.Expander()
			if err != nil {
				return err
			}
			next, err = x.Expand(State{Total: state.Total + edge.Data().Add, Player: 1 - state.Player}, nil)
			if err != nil {
				return err
			}
		}
		cur = next
	}
	winner := 1 - cur.State().Player
	m.Release()

	// Backpropagate along the recorded path.
	vertices, err := g.ResolvePath(path)
	if err != nil {
		return err
	}
	for _, id := range vertices {
		mn, err := g.NodeMut(id)
		if err != nil {
			return err
		}
		d := mn.Data()
		d.Visits++
		if mn.State().Player == winner {
			d.Wins++
		}
		mn.Release()
	}
	return nil
}
