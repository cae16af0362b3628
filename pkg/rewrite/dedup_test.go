package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/number"
)

func TestDedup_CollapsesIndependentTraces(t *testing.T) {
	build := func() number.Traced {
		x := number.TracedVariable("x", 0)
		return x.Mul(x.Add(number.TracedConstant(1)))
	}
	first, second := build(), build()
	require.NotSame(t, first.Node(), second.Node())

	out, mapping := Dedup([]number.Traced{first, second})
	require.Len(t, out, 2)
	assert.Same(t, out[0].Node(), out[1].Node())
	assert.Same(t, out[0].Node().Input(0), out[0].Node().Input(1).Input(0))
	assert.Equal(t, 4, Merged(mapping), "x, 1, x+1 and the product each appear twice")
}

func TestDedup_Idempotent(t *testing.T) {
	x := graph.Variable("x", 0)
	y := graph.Variable("x", 0)
	k := graph.Constant(2)
	sum := graph.MustNew(graph.OpAdd, graph.MustNew(graph.OpMultiply, x, k), graph.MustNew(graph.OpMultiply, y, graph.Constant(2)))

	once, _ := Dedup(sum)
	twice, mapping := Dedup(once)
	assert.Same(t, once, twice)
	assert.Zero(t, Merged(mapping))
	for n, c := range mapping {
		assert.Same(t, n, c)
	}
	assert.Same(t, once.Input(0), once.Input(1))
}

func TestDedup_KeepsDistinctPayloads(t *testing.T) {
	a := graph.MustNew(graph.OpExp, graph.Constant(1))
	b := graph.MustNew(graph.OpExp, graph.Constant(2))
	c := graph.MustNew(graph.OpLog, graph.Constant(1))
	v := graph.Variable("v", 1)
	w := graph.Variable("v", 2)

	out, _ := Dedup([]*graph.Node{a, b, c, v, w})
	assert.NotSame(t, out[0], out[1])
	assert.NotSame(t, out[0], out[2])
	assert.NotSame(t, out[3], out[4])
}

func TestDedup_SamplesStayDistinct(t *testing.T) {
	dist := func() *graph.Node {
		return graph.MustNew(graph.OpNormal, graph.Constant(0), graph.Constant(1))
	}
	s1 := graph.MustNew(graph.OpSample, dist())
	s2 := graph.MustNew(graph.OpSample, dist())

	out, _ := Dedup([2]*graph.Node{s1, s2})
	assert.NotSame(t, out[0], out[1])
	assert.Same(t, out[0].Input(0), out[1].Input(0), "their distributions merge")
}

func TestDedup_Graph(t *testing.T) {
	f := graph.NewFactory()
	x := f.Variable("x", 0)
	left := f.Add(x, f.Constant(1))
	right := f.Add(x, f.Constant(1))
	s := f.Sample(f.Normal(f.Multiply(left, right), f.Constant(2)))
	require.NoError(t, f.Observe(s, 3))
	_, err := f.Query(left)
	require.NoError(t, err)
	_, err = f.Query(right)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	out, mapping := Dedup(g)
	assert.Equal(t, g.Len()-2, out.Len())
	assert.Equal(t, 2, Merged(mapping))
	q := out.Queries()
	require.Len(t, q, 2)
	assert.Same(t, q[0], q[1])
	obs := out.Observations()
	require.Len(t, obs, 1)
	assert.Equal(t, 3.0, obs[0].Value)
	for i, n := range out.All() {
		for j := range n.NumInputs() {
			idx, ok := out.Index(n.Input(j))
			require.True(t, ok)
			assert.Less(t, idx, i)
		}
	}

	again, _ := Dedup(out)
	assert.Equal(t, out.Nodes(), again.Nodes())
}
