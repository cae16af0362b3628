package eval

import (
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/number"
)

type options struct {
	queries bool
	logProb bool
	sampler any // Sampler[N] for the domain EvalGraph runs over
}

// Option configures EvalGraph.
type Option func(*options)

// WithQueries makes EvalGraph report the value of every query.
func WithQueries() Option {
	return func(o *options) { o.queries = true }
}

// WithLogProb enables log probability accumulation.
func WithLogProb() Option {
	return func(o *options) { o.logProb = true }
}

// WithSampler replaces SampleFromDistribution for unobserved samples. The
// sampler's numeric domain must match the one EvalGraph runs over.
func WithSampler[N number.Number[N]](s Sampler[N]) Option {
	return func(o *options) { o.sampler = s }
}

func samplerFor[N number.Number[N]](o *options) Sampler[N] {
	if o.sampler == nil {
		return nil
	}
	s, ok := o.sampler.(Sampler[N])
	if !ok {
		panic(&graph.Error{
			Kind: graph.ErrInvalidArgument,
			Op:   "eval.graph",
			Msg:  "sampler does not match the evaluation domain",
		})
	}
	return s
}
