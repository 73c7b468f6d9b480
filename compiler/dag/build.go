package dag

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/sched/compiler/ir"
)

// Build adds every edge a scheduler must preserve between
// the already renamed nodes of g.
//
// Memory and I/O operations are serialized by opcode. Only the
// nearest following store (or output) gets a direct edge, farther
// ones are ordered through it. Register edges connect a definition
// with the uses of its virtual register.
func Build(ctx context.Context, g *Graph) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "dag: build", "nodes", g.Len())
	defer tr.Finish("err", &err)

	edges := 0

	for i := range g.Nodes {
		earlier := &g.Nodes[i].Instr

		var sawStore, sawOutput bool

		for j := i + 1; j < len(g.Nodes); j++ {
			later := &g.Nodes[j].Instr

			edge := serial(earlier.Op, later.Op, sawStore, sawOutput)

			switch later.Op {
			case ir.Store:
				sawStore = true
			case ir.Output:
				sawOutput = true
			}

			if !edge && earlier.Dst.IsReg && earlier.Dst.VR != ir.None {
				edge = reads(later, earlier.Dst.VR)
			}

			if !edge {
				continue
			}

			tr.V("edges").Printw("edge", "from", i, "to", j, "from_op", earlier.Op, "to_op", later.Op)

			g.AddEdge(i, j)
			edges++
		}
	}

	tr.Printw("graph built", "nodes", g.Len(), "edges", edges)

	return nil
}

// serial reports whether later must stay after earlier
// because of memory or output ordering.
func serial(earlier, later ir.Op, sawStore, sawOutput bool) bool {
	switch earlier {
	case ir.Load:
		return later == ir.Store
	case ir.Store:
		return !sawStore && (later == ir.Load || later == ir.Store || later == ir.Output)
	case ir.Output:
		return !sawOutput && (later == ir.Output || later == ir.Store)
	}

	return false
}

func reads(x *ir.Instruction, vr int) bool {
	return x.Src1.IsReg && x.Src1.VR == vr ||
		x.Src2.IsReg && x.Src2.VR == vr
}
