package distribution

import (
	"math"
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/number"
)

// HalfNormal is the absolute value of a zero-mean Normal.
type HalfNormal[N number.Number[N]] struct {
	Stddev N
}

func NewHalfNormal[N number.Number[N]](stddev N) *HalfNormal[N] {
	return &HalfNormal[N]{Stddev: stddev}
}

func (d *HalfNormal[N]) Sample(rng *rand.Rand) N {
	return lit[N](math.Abs(rng.NormFloat64() * d.Stddev.AsDouble()))
}

func (d *HalfNormal[N]) LogProb(value N) N {
	z := value.Div(d.Stddev)
	density := lit[N](-0.5).Mul(z).Mul(z).Sub(d.Stddev.Log()).Add(lit[N](math.Ln2 - halfLog2Pi))
	return value.IfLess(lit[N](0), negInf[N](), density)
}

func (d *HalfNormal[N]) Transformation() Transformation[N] { return LogTransformation[N]{} }
