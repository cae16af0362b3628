package graph_test

import (
	"errors"
	"testing"

	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireInvalidArgumentPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.ErrorIs(t, err, graph.ErrInvalidArgument)
	}()
	fn()
}

func TestFactory_BasicBuilding(t *testing.T) {
	f := graph.NewFactory()
	k12 := f.Constant(1.2)
	assert.EqualValues(t, 0, k12.ID().Value())
	k34 := f.Constant(3.4)
	assert.EqualValues(t, 1, k34.ID().Value())
	plus := f.Add(k12, k34)
	assert.EqualValues(t, 2, plus.ID().Value())
	k56 := f.Constant(5.6)
	assert.EqualValues(t, 3, k56.ID().Value())
	beta := f.Beta(plus, k56)
	assert.EqualValues(t, 4, beta.ID().Value())
	sample := f.Sample(beta)
	assert.EqualValues(t, 5, sample.ID().Value())

	require.NoError(t, f.Observe(sample, 7.8))
	q, err := f.Query(sample)
	require.NoError(t, err)
	assert.Equal(t, 0, q)

	g, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, 6, g.Len())
}

func TestFactory_DeadCodeDropped(t *testing.T) {
	f := graph.NewFactory()
	k12 := f.Constant(1.2)
	k34 := f.Constant(3.4)
	plus := f.Add(k12, k34)
	k56 := f.Constant(5.6)
	beta := f.Beta(k34, k56)
	sample := f.Sample(beta)
	require.NoError(t, f.Observe(sample, 7.8))
	_, err := f.Query(sample)
	require.NoError(t, err)

	g, err := f.Build()
	require.NoError(t, err)

	// k12 and plus are dead code.
	assert.Equal(t, 4, g.Len())
	assert.False(t, g.Contains(k12))
	assert.False(t, g.Contains(plus))

	// Survivors are renumbered densely in construction order.
	for i, want := range []*graph.Node{k34, k56, beta, sample} {
		idx, ok := g.Index(want)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestFactory_DuplicateBuild(t *testing.T) {
	f := graph.NewFactory()
	_, err := f.Build()
	require.NoError(t, err)

	requireInvalidArgumentPanic(t, func() { f.Constant(1.2) })

	_, err = f.Build()
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

func TestFactory_MutationAfterBuild(t *testing.T) {
	f := graph.NewFactory()
	k := f.Constant(1)
	s := f.Sample(f.Normal(k, k))
	_, err := f.Query(s)
	require.NoError(t, err)
	_, err = f.Build()
	require.NoError(t, err)

	requireInvalidArgumentPanic(t, func() { f.Add(k, k) })
	requireInvalidArgumentPanic(t, func() { f.Variable("x", 1) })

	assert.ErrorIs(t, f.Observe(s, 1), graph.ErrInvalidArgument)
	_, err = f.Query(k)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

func TestFactory_ObserveAndQueryErrors(t *testing.T) {
	f := graph.NewFactory()
	k := f.Constant(2)
	s := f.Sample(f.Exponential(k))

	err := f.Observe(k, 1)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	other := graph.NewFactory().Constant(3)
	_, err = f.Query(other)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	_, err = f.Query(graph.Constant(3))
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	require.NoError(t, f.Observe(s, 0.5))
	assert.ErrorIs(t, f.Observe(s, 0.7), graph.ErrInvalidArgument)

	var gerr *graph.Error
	require.True(t, errors.As(f.Observe(k, 1), &gerr))
	assert.Equal(t, "factory.observe", gerr.Op)
}

func TestFactory_InputFamilies(t *testing.T) {
	f := graph.NewFactory()
	k := f.Constant(1)
	dist := f.Normal(k, k)

	requireInvalidArgumentPanic(t, func() { f.Sample(k) })
	requireInvalidArgumentPanic(t, func() { f.Add(k, dist) })
	requireInvalidArgumentPanic(t, func() { f.Beta(dist, k) })
	requireInvalidArgumentPanic(t, func() { f.Add(k, graph.NewFactory().Constant(2)) })
}

func TestFactory_QueriesKeepOrderAndRepeats(t *testing.T) {
	f := graph.NewFactory()
	a := f.Constant(1)
	b := f.Constant(2)
	for i, n := range []*graph.Node{b, a, b} {
		q, err := f.Query(n)
		require.NoError(t, err)
		assert.Equal(t, i, q)
	}
	g, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, []*graph.Node{b, a, b}, g.Queries())
	assert.Equal(t, 2, g.Len())
}

func TestGraph_TopologicalAndReachable(t *testing.T) {
	f := graph.NewFactory()
	x := f.Variable("x", 0)
	one := f.Constant(1)
	unused := f.Exp(x)
	sum := f.Add(x, one)
	prod := f.Multiply(sum, sum)
	s := f.Sample(f.Normal(prod, one))
	require.NoError(t, f.Observe(s, 2))
	_, err := f.Query(f.Log(sum))
	require.NoError(t, err)

	g, err := f.Build()
	require.NoError(t, err)
	assert.False(t, g.Contains(unused))

	reachable := make(map[*graph.Node]bool)
	for _, n := range graph.Reachable(g.Roots()...) {
		reachable[n] = true
	}
	for i, n := range g.All() {
		assert.True(t, reachable[n], "node %d unreachable", i)
		for _, in := range n.Inputs() {
			j, ok := g.Index(in)
			require.True(t, ok)
			assert.Less(t, j, i)
		}
	}
}

func TestNodeID_ReferenceIdentity(t *testing.T) {
	a := graph.NewNodeID(2)
	b := graph.NewNodeID(2)

	set := map[graph.NodeID]bool{}
	assert.False(t, set[a])
	assert.False(t, set[b])
	set[a] = true
	assert.True(t, set[a])
	assert.False(t, set[b])
	assert.False(t, a == b)
	assert.Equal(t, a.Value(), b.Value())
}
