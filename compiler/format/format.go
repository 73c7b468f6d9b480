package format

import (
	"github.com/nikandfor/hacked/hfmt"

	"github.com/slowlang/sched/compiler/dag"
	"github.com/slowlang/sched/compiler/ir"
)

const pad = "       "

// Append prints nodes, edges and weights of g in three sections.
// Dependents are listed in ascending label order.
func Append(b []byte, g *dag.Graph) []byte {
	b = append(b, "nodes:\n"...)

	for i, n := range g.Nodes {
		b = app(b, "n%d : ", i)
		b = n.Instr.Append(b)
		b = append(b, '\n')
	}

	b = append(b, "\nedges:\n"...)

	for i, n := range g.Nodes {
		b = app(b, "n%d : {", i)
		b = appendList(b, n.Dependents.AppendKeys(nil))
		b = append(b, " }\n"...)
	}

	b = append(b, "\nweights:\n"...)

	for i, n := range g.Nodes {
		b = app(b, "n%d : %d\n", i, n.Weight)
	}

	b = append(b, '\n')

	return b
}

// AppendCode prints instructions with their source lines.
func AppendCode(b []byte, code []ir.Instruction) []byte {
	for _, x := range code {
		b = hfmt.Appendf(b, "%4d  ", x.Line)
		b = x.Append(b)
		b = append(b, '\n')
	}

	return b
}

func appendList(b []byte, l []int) []byte {
	for i, n := range l {
		if i != 0 {
			b = append(b, ',')
		}

		b = hfmt.Appendf(b, " n%d", n)
	}

	return b
}

func app(b []byte, f string, args ...any) []byte {
	b = append(b, pad...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
