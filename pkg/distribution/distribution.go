// Package distribution provides the probability distributions a model graph
// can sample from. Densities are written in terms of number.Number so they
// can be evaluated over plain values or traced into new graphs; sampling
// always happens on the double value of the parameters.
package distribution

import (
	"math"
	"math/rand/v2"

	"github.com/aretw0/minibmg/pkg/number"
)

// Distribution is a parameterized distribution over scalars in N.
type Distribution[N number.Number[N]] interface {
	// Sample draws a value using the caller's generator.
	Sample(rng *rand.Rand) N
	// LogProb returns the log density (or mass) at value.
	LogProb(value N) N
	// Transformation returns the bijection to an unconstrained space, or
	// nil if the support is already the real line.
	Transformation() Transformation[N]
}

// Transformation maps a constrained value to the real line and back.
type Transformation[N number.Number[N]] interface {
	Call(constrained N) N
	Inverse(unconstrained N) N
}

func lit[N number.Number[N]](v float64) N {
	return number.Of[N](v)
}

func negInf[N number.Number[N]]() N {
	return lit[N](math.Inf(-1))
}

// halfLog2Pi is log(2*pi)/2.
var halfLog2Pi = 0.5 * math.Log(2*math.Pi)
