package eval

import (
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/distribution"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/number"
)

// StepEvaluator evaluates one node at a time, reading inputs from maps the
// driver fills in graph order. A missing input is a defect in that order
// and panics with an ErrInternal error.
type StepEvaluator[N number.Number[N]] struct {
	graph         *graph.Graph
	readVariable  func(name string, identifier int) N
	data          map[*graph.Node]N
	distributions map[*graph.Node]distribution.Distribution[N]
	logProb       N
	evalLogProb   bool
	rng           *rand.Rand
	sampler       Sampler[N]
}

// NewStepEvaluator returns an evaluator over g. Values are read from and
// written by the caller into data, and distributions into distributions.
// A nil distributions map is allocated internally.
func NewStepEvaluator[N number.Number[N]](
	g *graph.Graph,
	rng *rand.Rand,
	readVariable func(name string, identifier int) N,
	data map[*graph.Node]N,
	distributions map[*graph.Node]distribution.Distribution[N],
	evalLogProb bool,
	sampler Sampler[N],
) *StepEvaluator[N] {
	if sampler == nil {
		sampler = SampleFromDistribution[N]
	}
	if distributions == nil {
		distributions = make(map[*graph.Node]distribution.Distribution[N])
	}
	return &StepEvaluator[N]{
		graph:         g,
		readVariable:  readVariable,
		data:          data,
		distributions: distributions,
		logProb:       number.Of[N](0),
		evalLogProb:   evalLogProb,
		rng:           rng,
		sampler:       sampler,
	}
}

func (e *StepEvaluator[N]) Variable(n *graph.Node) N {
	return e.readVariable(n.Name(), n.Identifier())
}

func (e *StepEvaluator[N]) Sample(n *graph.Node) N {
	dist := e.Distribution(n.Input(0))
	if obs, ok := e.graph.Observed(n); ok {
		value := number.Of[N](obs)
		if e.evalLogProb {
			e.logProb = e.logProb.Add(dist.LogProb(value))
		}
		return value
	}
	sampled := e.sampler(dist, e.rng)
	if e.evalLogProb {
		e.logProb = e.logProb.Add(sampled.LogProb)
	}
	return sampled.Constrained
}

func (e *StepEvaluator[N]) Input(n *graph.Node) N {
	v, ok := e.data[n]
	if !ok {
		panic(graph.Internal("eval.input", "%s has not been evaluated", n))
	}
	return v
}

func (e *StepEvaluator[N]) Distribution(n *graph.Node) distribution.Distribution[N] {
	d, ok := e.distributions[n]
	if !ok {
		panic(graph.Internal("eval.input", "distribution %s has not been evaluated", n))
	}
	return d
}

// Step evaluates n and records its result.
func (e *StepEvaluator[N]) Step(n *graph.Node) {
	switch {
	case n.IsDistribution():
		e.distributions[n] = EvaluateDistribution[N](e, n)
	case n.IsScalar():
		e.data[n] = EvaluateScalar[N](e, n)
	default:
		panic(graph.Internal("eval.step", "unexpected node %s", n))
	}
}

// LogProb returns the log probability accumulated so far.
func (e *StepEvaluator[N]) LogProb() N { return e.logProb }
