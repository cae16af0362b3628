package eval

import (
	"github.com/aretw0/minibmg/pkg/distribution"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/number"
)

// Recursive evaluates a scalar expression by descending into its inputs.
// Shared subexpressions are recomputed for every parent, so it is meant for
// trees such as dedag output. It cannot draw samples.
type Recursive struct {
	readVariable func(name string, identifier int) float64
}

func NewRecursive(readVariable func(name string, identifier int) float64) *Recursive {
	return &Recursive{readVariable: readVariable}
}

// Evaluate returns the value of n.
func (r *Recursive) Evaluate(n *graph.Node) float64 {
	return float64(EvaluateScalar[number.Real](r, n))
}

func (r *Recursive) Variable(n *graph.Node) number.Real {
	return number.Real(r.readVariable(n.Name(), n.Identifier()))
}

func (r *Recursive) Sample(n *graph.Node) number.Real {
	panic(graph.Internal("eval.recursive", "cannot sample %s recursively", n))
}

func (r *Recursive) Input(n *graph.Node) number.Real {
	return EvaluateScalar[number.Real](r, n)
}

func (r *Recursive) Distribution(n *graph.Node) distribution.Distribution[number.Real] {
	return EvaluateDistribution[number.Real](r, n)
}
