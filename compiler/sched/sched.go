package sched

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sched/compiler/dag"
	"github.com/slowlang/sched/compiler/ir"
	"github.com/slowlang/sched/compiler/rename"
)

// Analyze runs the first half of instruction scheduling over a basic
// block. It labels non-nop instructions, renames registers of code in
// place, builds the dependency graph and weighs its nodes.
//
// Graph nodes hold copies of the labeled and renamed instructions.
func Analyze(ctx context.Context, code []ir.Instruction, lat *ir.Latency) (g *dag.Graph, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "sched: analyze", "instructions", len(code))
	defer tr.Finish("err", &err)

	if lat == nil {
		lat = &ir.DefaultLatency
	}

	labels := 0

	for i := range code {
		if code[i].Op == ir.Nop {
			continue
		}

		code[i].Label = labels
		labels++
	}

	maxReg := ir.MaxReg(code)

	vrs, err := rename.Rename(code, maxReg)
	if err != nil {
		return nil, errors.Wrap(err, "rename")
	}

	tr.Printw("renamed", "max_reg", maxReg, "virtual_regs", vrs)

	body := make([]ir.Instruction, 0, labels)

	for _, x := range code {
		if x.Op != ir.Nop {
			body = append(body, x)
		}
	}

	g = dag.New(body)

	err = dag.Build(ctx, g)
	if err != nil {
		return nil, errors.Wrap(err, "build graph")
	}

	err = dag.Weigh(ctx, g, lat)
	if err != nil {
		return nil, errors.Wrap(err, "weigh")
	}

	if tr.If("dump_graph") {
		for i, n := range g.Nodes {
			tr.Printw("node", "label", i, "instr", n.Instr.String(), "weight", n.Weight, "dependents", n.Dependents, "dependencies", n.Dependencies)
		}
	}

	return g, nil
}
