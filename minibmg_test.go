package minibmg_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minibmg"
	"github.com/aretw0/minibmg/pkg/distribution"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/jsongraph"
	"github.com/aretw0/minibmg/pkg/number"
	"github.com/aretw0/minibmg/pkg/rewrite"
)

func betaGraph(t *testing.T) *graph.Graph {
	t.Helper()
	f := graph.NewFactory()
	plus := f.Add(f.Constant(1.2), f.Constant(3.4))
	s := f.Sample(f.Beta(plus, f.Constant(5.6)))
	require.NoError(t, f.Observe(s, 0.3))
	_, err := f.Query(s)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)
	return g
}

func TestEngine_Eval(t *testing.T) {
	eng := minibmg.New("beta")

	res, err := eng.Eval(context.Background(), betaGraph(t), minibmg.EvalRequest{LogProb: true})
	require.NoError(t, err)

	want := distribution.NewBeta(number.Real(4.6), number.Real(5.6)).LogProb(0.3)
	assert.InDelta(t, float64(want), res.LogProb, 1e-12)
	assert.Equal(t, []float64{0.3}, res.Queries)
	assert.Equal(t, uint64(1), res.Seed)
}

func TestEngine_EvalVariables(t *testing.T) {
	f := graph.NewFactory()
	x := f.Variable("x", 0)
	_, err := f.Query(f.Multiply(x, f.Add(f.Variable("y", 1), f.Constant(1))))
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, minibmg.Variables(g))

	eng := minibmg.New("")
	res, err := eng.Eval(context.Background(), g, minibmg.EvalRequest{
		Variables: map[string]float64{"x": 3, "y": 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{15}, res.Queries)
	assert.Zero(t, res.LogProb)

	_, err = eng.Eval(context.Background(), g, minibmg.EvalRequest{
		Variables: map[string]float64{"x": 3},
	})
	assert.ErrorIs(t, err, minibmg.ErrMissingVariable)
	assert.ErrorContains(t, err, "y")
}

func TestEngine_EvalSeeds(t *testing.T) {
	f := graph.NewFactory()
	_, err := f.Query(f.Sample(f.Normal(f.Constant(0), f.Constant(1))))
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	eng := minibmg.New("seeds", minibmg.WithSeed(42))
	ctx := context.Background()

	a, err := eng.Eval(ctx, g, minibmg.EvalRequest{})
	require.NoError(t, err)
	b, err := eng.Eval(ctx, g, minibmg.EvalRequest{})
	require.NoError(t, err)
	assert.Equal(t, a.Queries, b.Queries)
	assert.Equal(t, uint64(42), a.Seed)

	seed := uint64(7)
	c, err := eng.Eval(ctx, g, minibmg.EvalRequest{Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, seed, c.Seed)
	assert.NotEqual(t, a.Queries, c.Queries)
}

func TestEngine_EvalCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := minibmg.New("").Eval(ctx, betaGraph(t), minibmg.EvalRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

type countingRecorder struct {
	evals, merged, temporaries int
}

func (r *countingRecorder) ObserveEval(int, time.Duration) { r.evals++ }
func (r *countingRecorder) ObserveDedup(merged int)        { r.merged += merged }
func (r *countingRecorder) ObserveDedag(temporaries int)   { r.temporaries += temporaries }

func TestEngine_DedupAndDedag(t *testing.T) {
	m := &countingRecorder{}
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := minibmg.New("rewrite", minibmg.WithRecorder(m), minibmg.WithLogger(logger))

	// Two structurally equal subtrees built independently.
	f := graph.NewFactory()
	x := f.Variable("x", 0)
	left := f.Exp(f.Add(x, f.Constant(1)))
	right := f.Exp(f.Add(x, f.Constant(1)))
	_, err := f.Query(f.Multiply(left, right))
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	out, merged := eng.Dedup(g)
	assert.Equal(t, 3, merged)
	assert.Equal(t, g.Len()-3, out.Len())
	assert.Equal(t, 3, m.merged)

	d, err := eng.Dedag(g, 2)
	require.NoError(t, err)
	require.Len(t, d.Result, 1)
	assert.NotEmpty(t, d.Prelude)
	for _, b := range d.Prelude {
		assert.LessOrEqual(t, rewrite.Depth(b.Expr), 2)
	}
	assert.Equal(t, len(d.Prelude), m.temporaries)
	assert.Zero(t, m.evals)

	_, err = eng.Dedag(g, 1)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	assert.Contains(t, logs.String(), `"graph":"rewrite"`)
	assert.Contains(t, logs.String(), "deduplicated graph")
}

func TestEngine_DecodeEncode(t *testing.T) {
	eng := minibmg.New("codec")
	g := betaGraph(t)

	data, err := eng.Encode(g, jsongraph.FormatYAML)
	require.NoError(t, err)

	back, err := eng.Decode(data, jsongraph.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, g.Len(), back.Len())
	assert.Len(t, back.Observations(), 1)

	_, err = eng.Decode([]byte(`{"nodes": 3}`), jsongraph.FormatJSON)
	assert.ErrorIs(t, err, jsongraph.ErrMalformed)
}
