package dag

import (
	"github.com/slowlang/sched/compiler/ir"
	"github.com/slowlang/sched/compiler/set"
)

type (
	// Node wraps a non-nop instruction.
	// Dependents must not execute before the node,
	// Dependencies must not execute after it.
	// Both hold node indexes in the owning Graph.
	Node struct {
		Instr ir.Instruction

		// Weight is the latency weighted distance to a sink.
		// Zero means it was not computed yet.
		Weight int

		Dependents   set.Bits[int]
		Dependencies set.Bits[int]
	}

	// Graph is an arena of nodes in program order.
	// Node i has label i and edges only go from lower to higher indexes.
	Graph struct {
		Nodes []Node
	}

	Edge struct {
		From int
		To   int
	}
)

func New(code []ir.Instruction) *Graph {
	g := &Graph{
		Nodes: make([]Node, len(code)),
	}

	for i, x := range code {
		g.Nodes[i].Instr = x
	}

	return g
}

func (g *Graph) Len() int { return len(g.Nodes) }

// AddEdge records that later must not execute before earlier.
func (g *Graph) AddEdge(earlier, later int) {
	if earlier >= later {
		panic("backward edge")
	}

	g.Nodes[later].Dependencies.Set(earlier)
	g.Nodes[earlier].Dependents.Set(later)
}

func (g *Graph) HasEdge(earlier, later int) bool {
	return g.Nodes[earlier].Dependents.IsSet(later)
}

// Edges lists all edges ordered by From, then To.
func (g *Graph) Edges() (l []Edge) {
	for i := range g.Nodes {
		g.Nodes[i].Dependents.Range(func(j int) bool {
			l = append(l, Edge{From: i, To: j})

			return true
		})
	}

	return l
}

func (n *Node) Sink() bool   { return n.Dependents.Empty() }
func (n *Node) Source() bool { return n.Dependencies.Empty() }
