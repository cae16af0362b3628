package number

import "math"

// Real is the plain double instantiation of Number.
type Real float64

var _ Number[Real] = Real(0)

func (x Real) Add(y Real) Real { return x + y }
func (x Real) Sub(y Real) Real { return x - y }
func (x Real) Mul(y Real) Real { return x * y }
func (x Real) Div(y Real) Real { return x / y }
func (x Real) Neg() Real       { return -x }
func (x Real) Pow(y Real) Real { return Real(math.Pow(float64(x), float64(y))) }
func (x Real) Exp() Real       { return Real(math.Exp(float64(x))) }
func (x Real) Log() Real       { return Real(math.Log(float64(x))) }
func (x Real) Atan() Real      { return Real(math.Atan(float64(x))) }
func (x Real) Log1p() Real     { return Real(math.Log1p(float64(x))) }

func (x Real) Lgamma() Real {
	v, _ := math.Lgamma(float64(x))
	return Real(v)
}

func (x Real) Polygamma(n int) Real { return Real(Polygamma(n, float64(x))) }

func (x Real) IfEqual(b, c, d Real) Real {
	if x == b {
		return c
	}
	return d
}

func (x Real) IfLess(b, c, d Real) Real {
	if x < b {
		return c
	}
	return d
}

func (x Real) AsDouble() float64 { return float64(x) }

func (Real) Const(v float64) Real { return Real(v) }
