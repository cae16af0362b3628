package eval

import (
	"github.com/aretw0/minibmg/pkg/distribution"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/number"
)

// Policy decides how the dispatcher obtains values it cannot compute from
// the operator alone.
type Policy[N number.Number[N]] interface {
	// Variable returns the value of a VARIABLE node.
	Variable(n *graph.Node) N
	// Sample returns the value of a SAMPLE node.
	Sample(n *graph.Node) N
	// Input returns the value of a scalar input.
	Input(n *graph.Node) N
	// Distribution returns the evaluated distribution of a distribution input.
	Distribution(n *graph.Node) distribution.Distribution[N]
}

// EvaluateScalar computes the value of a scalar node under p.
func EvaluateScalar[N number.Number[N]](p Policy[N], n *graph.Node) N {
	in := func(i int) N { return p.Input(n.Input(i)) }
	switch n.Op() {
	case graph.OpConstant:
		return number.Of[N](n.Value())
	case graph.OpVariable:
		return p.Variable(n)
	case graph.OpSample:
		return p.Sample(n)
	case graph.OpAdd:
		return in(0).Add(in(1))
	case graph.OpSubtract:
		return in(0).Sub(in(1))
	case graph.OpNegate:
		return in(0).Neg()
	case graph.OpMultiply:
		return in(0).Mul(in(1))
	case graph.OpDivide:
		return in(0).Div(in(1))
	case graph.OpPow:
		return in(0).Pow(in(1))
	case graph.OpExp:
		return in(0).Exp()
	case graph.OpLog:
		return in(0).Log()
	case graph.OpAtan:
		return in(0).Atan()
	case graph.OpLgamma:
		return in(0).Lgamma()
	case graph.OpPolygamma:
		order := int(in(0).AsDouble())
		return in(1).Polygamma(order)
	case graph.OpLog1p:
		return in(0).Log1p()
	case graph.OpIfEqual:
		return in(0).IfEqual(in(1), in(2), in(3))
	case graph.OpIfLess:
		return in(0).IfLess(in(1), in(2), in(3))
	case graph.OpNormal, graph.OpHalfNormal, graph.OpBeta, graph.OpBernoulli, graph.OpExponential:
		panic(graph.Internal("eval.scalar", "%s is a distribution", n.Op()))
	default:
		panic(graph.Internal("eval.scalar", "unexpected operator %s", n.Op()))
	}
}

// EvaluateDistribution builds the distribution described by a distribution
// node, with parameters evaluated under p.
func EvaluateDistribution[N number.Number[N]](p Policy[N], n *graph.Node) distribution.Distribution[N] {
	in := func(i int) N { return p.Input(n.Input(i)) }
	switch n.Op() {
	case graph.OpNormal:
		return distribution.NewNormal(in(0), in(1))
	case graph.OpHalfNormal:
		return distribution.NewHalfNormal(in(0))
	case graph.OpBeta:
		return distribution.NewBeta(in(0), in(1))
	case graph.OpBernoulli:
		return distribution.NewBernoulli(in(0))
	case graph.OpExponential:
		return distribution.NewExponential(in(0))
	default:
		panic(graph.Internal("eval.distribution", "%s is not a distribution", n.Op()))
	}
}
