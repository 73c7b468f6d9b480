package dag

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/tlog"

	"github.com/slowlang/sched/compiler/ir"
	"github.com/slowlang/sched/compiler/rename"
)

func reg(r int) ir.Operand { return ir.RegOperand(r) }
func imm(c int) ir.Operand { return ir.ConstOperand(c) }
func no() ir.Operand       { return ir.NoOperand() }

func load(a, d int) ir.Instruction  { return ir.New(ir.Load, reg(a), no(), reg(d)) }
func loadI(c, d int) ir.Instruction { return ir.New(ir.LoadI, imm(c), no(), reg(d)) }
func store(v, a int) ir.Instruction { return ir.New(ir.Store, reg(v), reg(a), no()) }
func output(c int) ir.Instruction   { return ir.New(ir.Output, imm(c), no(), no()) }

func arith(op ir.Op, a, b, d int) ir.Instruction {
	return ir.New(op, reg(a), reg(b), reg(d))
}

func graph(t testing.TB, code ...ir.Instruction) *Graph {
	t.Helper()

	_, err := rename.Rename(code, ir.MaxReg(code))
	require.NoError(t, err)

	g := New(code)

	err = Build(context.Background(), g)
	require.NoError(t, err)

	return g
}

func weigh(t testing.TB, g *Graph) {
	t.Helper()

	err := Weigh(context.Background(), g, &ir.DefaultLatency)
	require.NoError(t, err)
}

func weights(g *Graph) (w []int) {
	for _, n := range g.Nodes {
		w = append(w, n.Weight)
	}

	return w
}

func TestExampleBlock(t *testing.T) {
	g := graph(t,
		loadI(5, 1),
		load(1, 2),
		arith(ir.Add, 2, 2, 3),
		store(3, 1),
		output(5),
	)

	assert.Equal(t, []Edge{
		{0, 1}, // r1
		{0, 3}, // r1 as address
		{1, 2}, // r2
		{1, 3}, // load before store
		{2, 3}, // r3
		{3, 4}, // store before output
	}, g.Edges())

	weigh(t, g)

	assert.Equal(t, []int{9, 8, 5, 4, 1}, weights(g))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, Ranked(g))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, CriticalPath(g))

	assert.Equal(t, []int{1, 3}, g.Nodes[0].Dependents.AppendKeys(nil))
	assert.Equal(t, []int{0, 1, 2}, g.Nodes[3].Dependencies.AppendKeys(nil))
}

func TestSerialization(t *testing.T) {
	for _, tc := range []struct {
		name  string
		code  []ir.Instruction
		edges []Edge
	}{
		{"store_store_load", []ir.Instruction{store(0, 1), store(2, 3), load(4, 5)},
			[]Edge{{0, 1}, {1, 2}}},
		{"load_store_store", []ir.Instruction{load(0, 1), store(2, 3), store(4, 5)},
			[]Edge{{0, 1}, {0, 2}, {1, 2}}},
		{"load_load", []ir.Instruction{load(0, 1), load(2, 3)},
			nil},
		{"output_output_output", []ir.Instruction{output(1), output(2), output(3)},
			[]Edge{{0, 1}, {1, 2}}},
		{"output_output_store", []ir.Instruction{output(1), output(2), store(0, 1)},
			[]Edge{{0, 1}, {1, 2}}},
		{"output_load", []ir.Instruction{output(1), load(0, 1)},
			nil},
		{"store_output_output", []ir.Instruction{store(0, 1), output(1), output(2)},
			[]Edge{{0, 1}, {0, 2}, {1, 2}}},
		{"store_load_load_store", []ir.Instruction{store(0, 1), load(2, 3), load(4, 5), store(6, 7)},
			[]Edge{{0, 1}, {0, 2}, {0, 3}, {1, 3}, {2, 3}}},
		{"store_arith_store", []ir.Instruction{store(0, 1), arith(ir.Add, 2, 3, 4), store(5, 6)},
			[]Edge{{0, 2}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := graph(t, tc.code...)

			assert.Equal(t, tc.edges, g.Edges())
		})
	}
}

func TestRegisterEdges(t *testing.T) {
	g := graph(t,
		loadI(1, 0),             // 0
		loadI(2, 1),             // 1
		arith(ir.Mult, 0, 1, 0), // 2: redefines r0
		arith(ir.Sub, 0, 1, 2),  // 3: reads the new r0
		arith(ir.RShift, 2, 2, 3),
	)

	assert.Equal(t, []Edge{
		{0, 2}, {1, 2}, {1, 3},
		{2, 3},
		{3, 4},
	}, g.Edges())

	weigh(t, g)

	// mult=2 sub=1 rshift=1
	assert.Equal(t, []int{5, 5, 4, 2, 1}, weights(g))
}

func TestBuildIdempotent(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))

	for iter := 0; iter < 50; iter++ {
		code := randomCode(rnd, 1+rnd.Intn(30), rnd.Intn(5))
		g := graph(t, code...)

		g2 := New(code)
		err := Build(context.Background(), g2)
		require.NoError(t, err)

		assert.Equal(t, g.Edges(), g2.Edges())
	}
}

func TestWeighRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	lat := &ir.DefaultLatency

	for iter := 0; iter < 200; iter++ {
		g := graph(t, randomCode(rnd, rnd.Intn(40), rnd.Intn(6))...)
		weigh(t, g)

		for _, e := range g.Edges() {
			require.Less(t, e.From, e.To, "iter %d", iter)
			require.True(t, g.Nodes[e.To].Dependencies.IsSet(e.From))
		}

		for i := range g.Nodes {
			n := &g.Nodes[i]
			own := lat.Of(n.Instr.Op)

			heavy := 0
			n.Dependents.Range(func(d int) bool {
				assert.GreaterOrEqual(t, n.Weight, g.Nodes[d].Weight+own)

				heavy = max(heavy, g.Nodes[d].Weight)

				return true
			})

			assert.Equal(t, heavy+own, n.Weight, "iter %d node %d", iter, i)

			if n.Sink() {
				assert.Equal(t, own, n.Weight)
			}
		}

		r := Ranked(g)
		require.Len(t, r, g.Len())

		for k := 1; k < len(r); k++ {
			a, b := g.Nodes[r[k-1]].Weight, g.Nodes[r[k]].Weight
			assert.True(t, a > b || a == b && r[k-1] < r[k])
		}

		if p := CriticalPath(g); g.Len() != 0 {
			sum := 0
			for _, i := range p {
				sum += lat.Of(g.Nodes[i].Instr.Op)
			}

			assert.Equal(t, g.Nodes[r[0]].Weight, sum)
			assert.True(t, g.Nodes[p[len(p)-1]].Sink())
		}
	}
}

func TestWeighLatency(t *testing.T) {
	g := graph(t, load(0, 1), arith(ir.Mult, 1, 1, 2))

	lat := ir.DefaultLatency
	lat[ir.Load] = 10

	err := Weigh(context.Background(), g, &lat)
	require.NoError(t, err)
	assert.Equal(t, []int{12, 2}, weights(g))

	lat[ir.Mult] = 0

	err = Weigh(context.Background(), g, &lat)
	assert.Error(t, err)
}

func TestWeighTrace(t *testing.T) {
	var buf bytes.Buffer

	l := tlog.New(&buf)
	ctx := tlog.ContextWithSpan(context.Background(), tlog.Span{Logger: l})

	g := graph(t, load(0, 1), arith(ir.Mult, 1, 1, 2))

	err := Weigh(ctx, g, &ir.DefaultLatency)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "push")

	buf.Reset()
	l.SetVerbosity("worklist")

	err = Weigh(ctx, g, &ir.DefaultLatency)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "push")
	assert.Equal(t, []int{5, 2}, weights(g))
}

func TestEmpty(t *testing.T) {
	g := graph(t)
	weigh(t, g)

	assert.Empty(t, g.Edges())
	assert.Empty(t, Ranked(g))
	assert.Empty(t, CriticalPath(g))
}

func TestAddEdgeBackward(t *testing.T) {
	g := New([]ir.Instruction{output(1), output(2)})

	assert.Panics(t, func() { g.AddEdge(1, 0) })

	g.AddEdge(0, 1)
	g.AddEdge(0, 1)

	assert.True(t, g.HasEdge(0, 1))
	assert.Equal(t, []Edge{{0, 1}}, g.Edges())
}

func randomCode(rnd *rand.Rand, n, maxReg int) []ir.Instruction {
	code := make([]ir.Instruction, n)

	r := func() int { return rnd.Intn(maxReg + 1) }

	for i := range code {
		switch op := ir.Op(rnd.Intn(ir.NumOps - 1)); op {
		case ir.Load:
			code[i] = load(r(), r())
		case ir.LoadI:
			code[i] = loadI(rnd.Intn(100), r())
		case ir.Store:
			code[i] = store(r(), r())
		case ir.Output:
			code[i] = output(rnd.Intn(100))
		default:
			code[i] = arith(op, r(), r(), r())
		}
	}

	return code
}
