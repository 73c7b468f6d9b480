package dag

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/sched/compiler/ir"
)

type worklist struct {
	q    []int
	head int

	tr tlog.Span
}

// Weigh sets each node weight to its latency plus the largest
// weight among its dependents. Sinks weigh their own latency.
//
// Nodes are visited from the sinks up through a FIFO worklist.
// A node whose dependents are not all weighted yet is put back
// to the end of the queue.
func Weigh(ctx context.Context, g *Graph, lat *ir.Latency) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "dag: weigh", "nodes", g.Len())
	defer tr.Finish("err", &err)

	if err = lat.Check(); err != nil {
		return errors.Wrap(err, "latency")
	}

	for i := range g.Nodes {
		g.Nodes[i].Weight = 0
	}

	w := worklist{tr: tr}

	for i := range g.Nodes {
		if g.Nodes[i].Sink() {
			w.push(i)
		}
	}

	visits, deferred := 0, 0

	for w.len() != 0 {
		i := w.pop()
		n := &g.Nodes[i]

		visits++

		if n.Weight != 0 {
			continue
		}

		heavy, ready := 0, true

		n.Dependents.Range(func(d int) bool {
			dw := g.Nodes[d].Weight
			if dw == 0 {
				ready = false
				return false
			}

			heavy = max(heavy, dw)

			return true
		})

		if !ready {
			deferred++
			w.push(i)

			continue
		}

		n.Weight = heavy + lat.Of(n.Instr.Op)

		tr.V("weights").Printw("weighted", "node", i, "op", n.Instr.Op, "weight", n.Weight, "dependents", n.Dependents)

		n.Dependencies.Range(func(d int) bool {
			w.push(d)

			return true
		})
	}

	tr.Printw("weights computed", "visits", visits, "deferred", deferred)

	return nil
}

func (w *worklist) push(i int) {
	if w.tr.If("worklist") {
		w.tr.Printw("push", "node", i, "from", loc.Caller(1))
	}

	w.q = append(w.q, i)
}

func (w *worklist) pop() int {
	i := w.q[w.head]
	w.head++

	if w.head == len(w.q) {
		w.q = w.q[:0]
		w.head = 0
	}

	return i
}

func (w *worklist) len() int {
	return len(w.q) - w.head
}
