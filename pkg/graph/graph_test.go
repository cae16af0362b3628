package graph_test

import (
	"testing"

	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_OrdersFromRoots(t *testing.T) {
	x := graph.Variable("x", 1)
	k := graph.Constant(2)
	sum := graph.MustNew(graph.OpAdd, x, k)
	dist := graph.MustNew(graph.OpNormal, sum, k)
	s := graph.MustNew(graph.OpSample, dist)

	g, err := graph.Create([]*graph.Node{sum}, []graph.Observation{{Node: s, Value: 1.5}})
	require.NoError(t, err)

	assert.Equal(t, []*graph.Node{x, k, sum, dist, s}, g.Nodes())
	v, ok := g.Observed(s)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	_, ok = g.Observed(sum)
	assert.False(t, ok)
}

func TestCreate_KeepsStructuralTwinsDistinct(t *testing.T) {
	a := graph.Constant(1)
	b := graph.Constant(1)
	g, err := graph.Create([]*graph.Node{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestCreate_Errors(t *testing.T) {
	k := graph.Constant(1)
	s := graph.MustNew(graph.OpSample, graph.MustNew(graph.OpExponential, k))

	tests := []struct {
		name    string
		queries []*graph.Node
		obs     []graph.Observation
	}{
		{name: "nil query", queries: []*graph.Node{nil}},
		{name: "observe scalar", obs: []graph.Observation{{Node: k, Value: 1}}},
		{name: "observe twice", obs: []graph.Observation{{Node: s, Value: 1}, {Node: s, Value: 2}}},
		{name: "observation without node", obs: []graph.Observation{{Value: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := graph.Create(tt.queries, tt.obs)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, graph.ErrInvalidArgument)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	k := graph.Constant(1)
	dist := graph.MustNew(graph.OpBernoulli, k)

	_, err := graph.New(graph.OpAdd, k)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
	_, err = graph.New(graph.OpConstant)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
	_, err = graph.New(graph.OpSample, k)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
	_, err = graph.New(graph.OpNegate, dist)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
	_, err = graph.New(graph.Operator(99), k)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

func TestWithInputs(t *testing.T) {
	x := graph.Variable("x", 0)
	y := graph.Variable("y", 1)
	sum := graph.MustNew(graph.OpAdd, x, x)

	same, err := graph.WithInputs(sum, []*graph.Node{x, x})
	require.NoError(t, err)
	assert.Same(t, sum, same)

	rebuilt, err := graph.WithInputs(sum, []*graph.Node{x, y})
	require.NoError(t, err)
	assert.NotSame(t, sum, rebuilt)
	assert.Equal(t, graph.OpAdd, rebuilt.Op())
	assert.Same(t, y, rebuilt.Input(1))
}

func TestReachable_DeepChain(t *testing.T) {
	n := graph.Variable("x", 0)
	for i := 0; i < 100000; i++ {
		n = graph.MustNew(graph.OpNegate, n)
	}
	order := graph.Reachable(n)
	assert.Len(t, order, 100001)
	assert.Equal(t, graph.OpVariable, order[0].Op())
	assert.Same(t, n, order[len(order)-1])
}

func TestOperator_Names(t *testing.T) {
	for _, op := range graph.Operators() {
		parsed, ok := graph.ParseOperator(op.String())
		require.True(t, ok, op.String())
		assert.Equal(t, op, parsed)
		assert.True(t, op.IsScalar() != op.IsDistribution(), op.String())
	}
	_, ok := graph.ParseOperator("MATRIX_MULTIPLY")
	assert.False(t, ok)
	assert.Equal(t, 4, graph.OpIfLess.Arity())
	assert.Equal(t, "DISTRIBUTION_HALF_NORMAL", graph.OpHalfNormal.String())
}
