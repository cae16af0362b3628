package number

import (
	"fmt"

	"github.com/aretw0/minibmg/pkg/graph"
)

// Traced is a symbolic number: every operation records a new node instead
// of computing a value, so evaluating a model under Traced yields a graph
// shaped like the computation. Traced values hold node references and can
// therefore be passed to rewrite.Dedup and rewrite.Dedag directly.
type Traced struct {
	node *graph.Node
}

var _ Number[Traced] = Traced{}

// Trace wraps an existing scalar node.
func Trace(n *graph.Node) Traced { return Traced{node: n} }

// TracedVariable returns a traced VARIABLE node.
func TracedVariable(name string, identifier int) Traced {
	return Traced{node: graph.Variable(name, identifier)}
}

// TracedConstant returns a traced CONSTANT node.
func TracedConstant(v float64) Traced {
	return Traced{node: graph.Constant(v)}
}

// Node returns the node recorded for this value.
func (t Traced) Node() *graph.Node { return t.node }

func (t Traced) String() string {
	if t.node == nil {
		return "<nil>"
	}
	return t.node.String()
}

func op(o graph.Operator, inputs ...Traced) Traced {
	nodes := make([]*graph.Node, len(inputs))
	for i, in := range inputs {
		nodes[i] = in.node
	}
	return Traced{node: graph.MustNew(o, nodes...)}
}

func (t Traced) Add(y Traced) Traced { return op(graph.OpAdd, t, y) }
func (t Traced) Sub(y Traced) Traced { return op(graph.OpSubtract, t, y) }
func (t Traced) Mul(y Traced) Traced { return op(graph.OpMultiply, t, y) }
func (t Traced) Div(y Traced) Traced { return op(graph.OpDivide, t, y) }
func (t Traced) Neg() Traced         { return op(graph.OpNegate, t) }
func (t Traced) Pow(y Traced) Traced { return op(graph.OpPow, t, y) }
func (t Traced) Exp() Traced         { return op(graph.OpExp, t) }
func (t Traced) Log() Traced         { return op(graph.OpLog, t) }
func (t Traced) Atan() Traced        { return op(graph.OpAtan, t) }
func (t Traced) Lgamma() Traced      { return op(graph.OpLgamma, t) }
func (t Traced) Log1p() Traced       { return op(graph.OpLog1p, t) }

func (t Traced) Polygamma(n int) Traced {
	return op(graph.OpPolygamma, TracedConstant(float64(n)), t)
}

func (t Traced) IfEqual(b, c, d Traced) Traced { return op(graph.OpIfEqual, t, b, c, d) }
func (t Traced) IfLess(b, c, d Traced) Traced  { return op(graph.OpIfLess, t, b, c, d) }

// AsDouble returns the literal of a traced constant. Any other trace has no
// value yet, which is a misuse of the control-parameter conversion.
func (t Traced) AsDouble() float64 {
	if t.node == nil || t.node.Op() != graph.OpConstant {
		panic(graph.Internal("traced.as_double", "%v is not a constant", t))
	}
	return t.node.Value()
}

func (Traced) Const(v float64) Traced { return TracedConstant(v) }

// Roots reports the node this value refers to.
func (t Traced) Roots() []*graph.Node {
	if t.node == nil {
		return nil
	}
	return []*graph.Node{t.node}
}

// ReplaceNodes returns the trace with its node swapped by replace.
func (t Traced) ReplaceNodes(replace func(*graph.Node) *graph.Node) any {
	if t.node == nil {
		return t
	}
	return Traced{node: replace(t.node)}
}

// GoString keeps %#v output short in test failures.
func (t Traced) GoString() string {
	return fmt.Sprintf("number.Traced{%v}", t.node)
}
