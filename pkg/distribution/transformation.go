package distribution

import "github.com/aretw0/minibmg/pkg/number"

// LogTransformation maps (0, inf) to the real line.
type LogTransformation[N number.Number[N]] struct{}

func (LogTransformation[N]) Call(x N) N    { return x.Log() }
func (LogTransformation[N]) Inverse(y N) N { return y.Exp() }

// LogitTransformation maps (0, 1) to the real line.
type LogitTransformation[N number.Number[N]] struct{}

func (LogitTransformation[N]) Call(x N) N {
	return x.Div(lit[N](1).Sub(x)).Log()
}

func (LogitTransformation[N]) Inverse(y N) N {
	one := lit[N](1)
	return one.Div(one.Add(y.Neg().Exp()))
}
