package eval

import (
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/distribution"
	"github.com/aretw0/minibmg/pkg/number"
)

// SampledValue is a draw expressed in both the distribution's native
// (constrained) space and the unconstrained space of its transformation.
type SampledValue[N number.Number[N]] struct {
	Constrained   N
	Unconstrained N
	LogProb       N
}

// Sampler proposes a value for an unobserved SAMPLE node.
type Sampler[N number.Number[N]] func(d distribution.Distribution[N], rng *rand.Rand) SampledValue[N]

// SampleFromDistribution draws directly from d. When d declares a
// transformation the unconstrained value is its image under it.
//
// The returned LogProb is always the density in the constrained space. It is
// not adjusted by the Jacobian of the transformation, so callers working in
// the unconstrained space must account for that themselves.
func SampleFromDistribution[N number.Number[N]](d distribution.Distribution[N], rng *rand.Rand) SampledValue[N] {
	constrained := d.Sample(rng)
	unconstrained := constrained
	if t := d.Transformation(); t != nil {
		unconstrained = t.Call(constrained)
	}
	return SampledValue[N]{
		Constrained:   constrained,
		Unconstrained: unconstrained,
		LogProb:       d.LogProb(constrained),
	}
}
