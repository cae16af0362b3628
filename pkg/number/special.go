package number

import "math"

// Even-index Bernoulli numbers B2..B14 for the asymptotic expansions below.
var bernoulli2k = [...]float64{
	1.0 / 6,
	-1.0 / 30,
	1.0 / 42,
	-1.0 / 30,
	5.0 / 66,
	-691.0 / 2730,
	7.0 / 6,
}

// Digamma returns the logarithmic derivative of the gamma function.
func Digamma(x float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsInf(x, -1):
		return math.NaN()
	case x <= 0 && x == math.Floor(x):
		return math.NaN()
	case x < 0:
		// Reflection: psi(1-x) - psi(x) = pi / tan(pi x).
		return Digamma(1-x) - math.Pi/math.Tan(math.Pi*x)
	}
	var acc float64
	for x < 6 {
		acc -= 1 / x
		x++
	}
	inv2 := 1 / (x * x)
	series := 0.0
	pow := inv2
	for k, b := range bernoulli2k {
		series += b / float64(2*(k+1)) * pow
		pow *= inv2
	}
	return acc + math.Log(x) - 0.5/x - series
}

// Polygamma returns the n-th derivative of Digamma at x. Orders below zero
// and poles yield NaN.
func Polygamma(n int, x float64) float64 {
	switch {
	case n < 0 || math.IsNaN(x):
		return math.NaN()
	case n == 0:
		return Digamma(x)
	case x <= 0 && x == math.Floor(x):
		return math.NaN()
	}

	// (-1)^(n+1)
	sign := -1.0
	if n%2 == 1 {
		sign = 1.0
	}
	nf := factorial(n)

	// Shift x upward with psi_n(x) = psi_n(x+1) + (-1)^(n+1) n! / x^(n+1)
	// until the asymptotic series converges.
	var acc float64
	limit := math.Max(20, float64(2*n+10))
	for x < limit {
		acc += sign * nf / math.Pow(x, float64(n+1))
		x++
	}

	series := factorial(n-1)/math.Pow(x, float64(n)) + nf/(2*math.Pow(x, float64(n+1)))
	for i, b := range bernoulli2k {
		k := i + 1
		coef := 1.0
		for j := 2*k + 1; j <= 2*k+n-1; j++ {
			coef *= float64(j)
		}
		series += b * coef / math.Pow(x, float64(2*k+n))
	}
	return acc + sign*series
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
