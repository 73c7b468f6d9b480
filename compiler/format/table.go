package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nikandfor/hacked/hfmt"

	"github.com/slowlang/sched/compiler/dag"
)

// AppendTable renders g as a table followed by the priority order
// and the critical path.
func AppendTable(b []byte, g *dag.Graph) []byte {
	t := table.NewWriter()

	t.SetTitle("Dependency graph")
	t.AppendHeader(table.Row{"Node", "Instruction", "Weight", "Dependents", "Dependencies"})

	for i, n := range g.Nodes {
		t.AppendRow(table.Row{
			string(hfmt.Appendf(nil, "n%d", i)),
			n.Instr.String(),
			n.Weight,
			nodes(n.Dependents.AppendKeys(nil)),
			nodes(n.Dependencies.AppendKeys(nil)),
		})
	}

	b = append(b, t.Render()...)
	b = append(b, '\n')

	b = append(b, "priority:"...)
	b = appendList(b, dag.Ranked(g))
	b = append(b, '\n')

	b = append(b, "critical path:"...)
	b = appendList(b, dag.CriticalPath(g))
	b = append(b, '\n')

	return b
}

func nodes(l []int) string {
	b := appendList(nil, l)
	if len(b) != 0 {
		b = b[1:]
	}

	return string(b)
}
