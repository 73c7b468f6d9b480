package dag

import (
	"nikand.dev/go/heap"
)

// Ranked returns node indexes by priority: heavier first,
// program order among equal weights.
func Ranked(g *Graph) []int {
	h := heap.Heap[int]{
		Less: func(d []int, i, j int) bool {
			a, b := &g.Nodes[d[i]], &g.Nodes[d[j]]
			if a.Weight != b.Weight {
				return a.Weight > b.Weight
			}

			return d[i] < d[j]
		},
	}

	for i := range g.Nodes {
		h.Push(i)
	}

	r := make([]int, 0, h.Len())

	for h.Len() != 0 {
		r = append(r, h.Pop())
	}

	return r
}

// CriticalPath returns the longest latency weighted chain of nodes.
// It starts from the heaviest node and follows the heaviest dependent.
// Ties are broken by program order.
func CriticalPath(g *Graph) (path []int) {
	cur := -1

	for i := range g.Nodes {
		if cur == -1 || g.Nodes[i].Weight > g.Nodes[cur].Weight {
			cur = i
		}
	}

	for cur != -1 {
		path = append(path, cur)

		next := -1

		g.Nodes[cur].Dependents.Range(func(d int) bool {
			if next == -1 || g.Nodes[d].Weight > g.Nodes[next].Weight {
				next = d
			}

			return true
		})

		cur = next
	}

	return path
}
