package eval

import (
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/distribution"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/number"
)

// Result is the outcome of evaluating a whole graph.
type Result[N number.Number[N]] struct {
	// LogProb is the accumulated log probability, or zero when it was not
	// requested.
	LogProb N
	// Queries holds the query values in query order, when requested.
	Queries []N
}

// EvalGraph evaluates g in order. Every scalar node's value is stored in
// data, keyed by node. A query whose node produced no value reports zero.
func EvalGraph[N number.Number[N]](
	g *graph.Graph,
	rng *rand.Rand,
	readVariable func(name string, identifier int) N,
	data map[*graph.Node]N,
	opts ...Option,
) Result[N] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	distributions := make(map[*graph.Node]distribution.Distribution[N])
	e := NewStepEvaluator[N](g, rng, readVariable, data, distributions, o.logProb, samplerFor[N](&o))
	for _, n := range g.All() {
		e.Step(n)
	}

	res := Result[N]{LogProb: e.LogProb()}
	if o.queries {
		res.Queries = make([]N, 0, len(g.Queries()))
		for _, q := range g.Queries() {
			v, ok := data[q]
			if !ok {
				v = number.Of[N](0)
			}
			res.Queries = append(res.Queries, v)
		}
	}
	return res
}
