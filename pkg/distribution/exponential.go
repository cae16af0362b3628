package distribution

import (
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/number"
)

// Exponential has density rate * exp(-rate * x) on x >= 0.
type Exponential[N number.Number[N]] struct {
	Rate N
}

func NewExponential[N number.Number[N]](rate N) *Exponential[N] {
	return &Exponential[N]{Rate: rate}
}

func (d *Exponential[N]) Sample(rng *rand.Rand) N {
	return lit[N](rng.ExpFloat64() / d.Rate.AsDouble())
}

func (d *Exponential[N]) LogProb(value N) N {
	density := d.Rate.Log().Sub(d.Rate.Mul(value))
	return value.IfLess(lit[N](0), negInf[N](), density)
}

func (d *Exponential[N]) Transformation() Transformation[N] { return LogTransformation[N]{} }
