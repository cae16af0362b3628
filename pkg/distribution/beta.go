package distribution

import (
	"math"
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/number"
)

// Beta is the Beta distribution on (0, 1) with shape parameters A and B.
type Beta[N number.Number[N]] struct {
	A N
	B N
}

func NewBeta[N number.Number[N]](a, b N) *Beta[N] {
	return &Beta[N]{A: a, B: b}
}

func (d *Beta[N]) Sample(rng *rand.Rand) N {
	x := gammaVariate(rng, d.A.AsDouble())
	y := gammaVariate(rng, d.B.AsDouble())
	return lit[N](x / (x + y))
}

func (d *Beta[N]) LogProb(value N) N {
	one := lit[N](1)
	logBeta := d.A.Lgamma().Add(d.B.Lgamma()).Sub(d.A.Add(d.B).Lgamma())
	density := d.A.Sub(one).Mul(value.Log()).
		Add(d.B.Sub(one).Mul(value.Neg().Log1p())).
		Sub(logBeta)
	outside := negInf[N]()
	return value.IfLess(lit[N](0), outside, value.IfLess(one, density, outside))
}

func (d *Beta[N]) Transformation() Transformation[N] { return LogitTransformation[N]{} }

// gammaVariate draws from Gamma(shape, 1) with the Marsaglia-Tsang method.
func gammaVariate(rng *rand.Rand, shape float64) float64 {
	if shape <= 0 || math.IsNaN(shape) {
		return math.NaN()
	}
	if shape < 1 {
		u := rng.Float64()
		return gammaVariate(rng, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3
	c := 1 / math.Sqrt(9*d)
	for {
		var x, v float64
		for v <= 0 {
			x = rng.NormFloat64()
			v = 1 + c*x
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
