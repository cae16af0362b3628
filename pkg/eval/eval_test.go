package eval

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minibmg/pkg/distribution"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/number"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(42, 1)) }

func noVariables(name string, _ int) number.Real {
	panic("unexpected variable " + name)
}

func requirePanicKind(t *testing.T, kind error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, kind), "got %v", err)
	}()
	fn()
}

func betaGraph(t *testing.T, observed float64) *graph.Graph {
	t.Helper()
	f := graph.NewFactory()
	plus := f.Add(f.Constant(1.2), f.Constant(3.4))
	sample := f.Sample(f.Beta(plus, f.Constant(5.6)))
	require.NoError(t, f.Observe(sample, observed))
	_, err := f.Query(sample)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)
	return g
}

func TestEvalGraph_ObservedBeta(t *testing.T) {
	a, b := number.Real(1.2), number.Real(3.4)
	params := distribution.NewBeta(a+b, 5.6)

	t.Run("outside support", func(t *testing.T) {
		data := map[*graph.Node]number.Real{}
		res := EvalGraph(betaGraph(t, 7.8), newRand(), noVariables, data, WithLogProb(), WithQueries())
		assert.Equal(t, params.LogProb(7.8), res.LogProb)
		assert.True(t, math.IsInf(float64(res.LogProb), -1))
		assert.Equal(t, []number.Real{7.8}, res.Queries)
	})

	t.Run("inside support", func(t *testing.T) {
		data := map[*graph.Node]number.Real{}
		res := EvalGraph(betaGraph(t, 0.3), newRand(), noVariables, data, WithLogProb())
		assert.InDelta(t, float64(params.LogProb(0.3)), float64(res.LogProb), 1e-12)
		assert.Nil(t, res.Queries)
		assert.Len(t, data, 5, "constants, sum and sample are recorded")
	})

	t.Run("log prob disabled", func(t *testing.T) {
		res := EvalGraph(betaGraph(t, 0.3), newRand(), noVariables, map[*graph.Node]number.Real{})
		assert.Equal(t, number.Real(0), res.LogProb)
	})
}

func TestEvalGraph_Arithmetic(t *testing.T) {
	f := graph.NewFactory()
	x := f.Variable("x", 3)
	two := f.Constant(2)
	sq := f.Pow(x, two)
	cond := f.IfLess(x, two, f.Negate(x), f.Exp(f.Constant(0)))
	sum := f.Add(f.Divide(sq, two), cond)
	pg := f.Polygamma(f.Constant(1), f.Constant(1))
	for _, n := range []*graph.Node{sum, pg, f.Log1p(f.Constant(0)), f.Atan(f.Constant(1))} {
		_, err := f.Query(n)
		require.NoError(t, err)
	}
	g, err := f.Build()
	require.NoError(t, err)

	read := func(name string, id int) number.Real {
		assert.Equal(t, "x", name)
		assert.Equal(t, 3, id)
		return 4
	}
	res := EvalGraph(g, newRand(), read, map[*graph.Node]number.Real{}, WithQueries())
	require.Len(t, res.Queries, 4)
	assert.Equal(t, number.Real(9), res.Queries[0])
	assert.InDelta(t, math.Pi*math.Pi/6, float64(res.Queries[1]), 1e-9)
	assert.Equal(t, number.Real(0), res.Queries[2])
	assert.InDelta(t, math.Pi/4, float64(res.Queries[3]), 1e-15)
}

func TestEvalGraph_QueryWithoutValueIsZero(t *testing.T) {
	f := graph.NewFactory()
	dist := f.Normal(f.Constant(1), f.Constant(2))
	_, err := f.Query(dist)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	res := EvalGraph(g, newRand(), noVariables, map[*graph.Node]number.Real{}, WithQueries())
	assert.Equal(t, []number.Real{0}, res.Queries)
}

func TestEvalGraph_CustomSampler(t *testing.T) {
	f := graph.NewFactory()
	s := f.Sample(f.HalfNormal(f.Constant(1)))
	_, err := f.Query(s)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	calls := 0
	sampler := func(d distribution.Distribution[number.Real], _ *rand.Rand) SampledValue[number.Real] {
		calls++
		return SampledValue[number.Real]{Constrained: 2, Unconstrained: number.Real(math.Log(2)), LogProb: -1.5}
	}
	res := EvalGraph(g, newRand(), noVariables, map[*graph.Node]number.Real{},
		WithQueries(), WithLogProb(), WithSampler(Sampler[number.Real](sampler)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []number.Real{2}, res.Queries)
	assert.Equal(t, number.Real(-1.5), res.LogProb)

	t.Run("domain mismatch", func(t *testing.T) {
		traced := Sampler[number.Traced](SampleFromDistribution[number.Traced])
		requirePanicKind(t, graph.ErrInvalidArgument, func() {
			EvalGraph(g, newRand(), noVariables, map[*graph.Node]number.Real{}, WithSampler(traced))
		})
	})
}

func TestEvalGraph_Deterministic(t *testing.T) {
	f := graph.NewFactory()
	s := f.Sample(f.Normal(f.Constant(0), f.Constant(1)))
	_, err := f.Query(s)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	first := EvalGraph(g, newRand(), noVariables, map[*graph.Node]number.Real{}, WithQueries(), WithLogProb())
	second := EvalGraph(g, newRand(), noVariables, map[*graph.Node]number.Real{}, WithQueries(), WithLogProb())
	assert.Equal(t, first, second)
}

func TestEvalGraph_Traced(t *testing.T) {
	f := graph.NewFactory()
	x := f.Variable("x", 0)
	_, err := f.Query(f.Multiply(x, f.Add(x, f.Constant(1))))
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	res := EvalGraph(g, newRand(), number.TracedVariable, map[*graph.Node]number.Traced{}, WithQueries())
	require.Len(t, res.Queries, 1)
	out := res.Queries[0].Node()
	assert.Equal(t, graph.OpMultiply, out.Op())
	assert.Same(t, out.Input(0), out.Input(1).Input(0), "the variable is traced once and shared")

	value := NewRecursive(func(string, int) float64 { return 3 }).Evaluate(out)
	assert.Equal(t, 12.0, value)
}

func TestSampleFromDistribution(t *testing.T) {
	d := distribution.NewExponential[number.Real](2)
	v := SampleFromDistribution[number.Real](d, newRand())
	assert.InDelta(t, math.Log(float64(v.Constrained)), float64(v.Unconstrained), 1e-12)
	// The log probability stays in the constrained space.
	assert.Equal(t, d.LogProb(v.Constrained), v.LogProb)

	n := distribution.NewNormal[number.Real](0, 1)
	w := SampleFromDistribution[number.Real](n, newRand())
	assert.Equal(t, w.Constrained, w.Unconstrained)
}

func TestStepEvaluator_MissingInputPanics(t *testing.T) {
	f := graph.NewFactory()
	k := f.Constant(1)
	neg := f.Negate(k)
	_, err := f.Query(neg)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	e := NewStepEvaluator[number.Real](g, newRand(), noVariables, map[*graph.Node]number.Real{}, nil, false, nil)
	requirePanicKind(t, graph.ErrInternal, func() { e.Step(neg) })
}

func TestStepEvaluator_SharesDistributions(t *testing.T) {
	f := graph.NewFactory()
	mean := f.Add(f.Constant(1), f.Constant(2))
	normal := f.Normal(mean, f.Constant(0.5))
	sample := f.Sample(normal)
	_, err := f.Query(sample)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	t.Run("filled by step", func(t *testing.T) {
		data := map[*graph.Node]number.Real{}
		dists := map[*graph.Node]distribution.Distribution[number.Real]{}
		e := NewStepEvaluator[number.Real](g, newRand(), noVariables, data, dists, false, nil)
		for _, n := range g.All() {
			e.Step(n)
		}

		require.Contains(t, dists, normal)
		got, ok := dists[normal].(*distribution.Normal[number.Real])
		require.True(t, ok, "got %T", dists[normal])
		assert.Equal(t, number.Real(3), got.Mean)
		assert.Equal(t, number.Real(0.5), got.Stddev)
		assert.Same(t, dists[normal], e.Distribution(normal))
		assert.Contains(t, data, sample)
	})

	t.Run("seeded by caller", func(t *testing.T) {
		data := map[*graph.Node]number.Real{}
		seeded := distribution.NewNormal[number.Real](-10, 1e-9)
		dists := map[*graph.Node]distribution.Distribution[number.Real]{normal: seeded}
		e := NewStepEvaluator[number.Real](g, newRand(), noVariables, data, dists, false, nil)

		e.Step(sample)
		assert.InDelta(t, -10, float64(data[sample]), 1e-6)
	})
}

func TestRecursive(t *testing.T) {
	x := graph.Variable("x", 0)
	expr := graph.MustNew(graph.OpSubtract,
		graph.MustNew(graph.OpMultiply, x, x),
		graph.MustNew(graph.OpLgamma, graph.Constant(4)))
	r := NewRecursive(func(string, int) float64 { return 5 })
	assert.InDelta(t, 25-math.Log(6), r.Evaluate(expr), 1e-12)

	sample := graph.MustNew(graph.OpSample, graph.MustNew(graph.OpBernoulli, graph.Constant(0.5)))
	requirePanicKind(t, graph.ErrInternal, func() { r.Evaluate(sample) })
}
