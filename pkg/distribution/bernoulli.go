package distribution

import (
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/number"
)

// Bernoulli takes the value 1 with probability Prob and 0 otherwise.
type Bernoulli[N number.Number[N]] struct {
	Prob N
}

func NewBernoulli[N number.Number[N]](prob N) *Bernoulli[N] {
	return &Bernoulli[N]{Prob: prob}
}

func (d *Bernoulli[N]) Sample(rng *rand.Rand) N {
	if rng.Float64() < d.Prob.AsDouble() {
		return lit[N](1)
	}
	return lit[N](0)
}

func (d *Bernoulli[N]) LogProb(value N) N {
	zero, one := lit[N](0), lit[N](1)
	return value.IfEqual(one, d.Prob.Log(),
		value.IfEqual(zero, d.Prob.Neg().Log1p(), negInf[N]()))
}

func (d *Bernoulli[N]) Transformation() Transformation[N] { return nil }
