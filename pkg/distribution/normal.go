package distribution

import (
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/number"
)

// Normal is the Gaussian distribution.
type Normal[N number.Number[N]] struct {
	Mean   N
	Stddev N
}

func NewNormal[N number.Number[N]](mean, stddev N) *Normal[N] {
	return &Normal[N]{Mean: mean, Stddev: stddev}
}

func (d *Normal[N]) Sample(rng *rand.Rand) N {
	return lit[N](rng.NormFloat64()*d.Stddev.AsDouble() + d.Mean.AsDouble())
}

func (d *Normal[N]) LogProb(value N) N {
	z := value.Sub(d.Mean).Div(d.Stddev)
	return lit[N](-0.5).Mul(z).Mul(z).Sub(d.Stddev.Log()).Sub(lit[N](halfLog2Pi))
}

func (d *Normal[N]) Transformation() Transformation[N] { return nil }
