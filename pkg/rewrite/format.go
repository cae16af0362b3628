package rewrite

import (
	"strconv"
	"strings"

	"github.com/aretw0/minibmg/pkg/graph"
)

var infix = map[graph.Operator]string{
	graph.OpAdd:      " + ",
	graph.OpSubtract: " - ",
	graph.OpMultiply: " * ",
	graph.OpDivide:   " / ",
}

// Format renders n as an infix expression, e.g. "(x + 2)". Shared
// subexpressions are printed at every use, so it is meant for the
// bounded-depth output of Dedag.
func Format(n *graph.Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n *graph.Node) {
	switch op := n.Op(); {
	case op == graph.OpConstant:
		b.WriteString(strconv.FormatFloat(n.Value(), 'g', -1, 64))
	case op == graph.OpVariable:
		b.WriteString(n.Name())
	case op == graph.OpNegate:
		b.WriteString("-")
		format(b, n.Input(0))
	case infix[op] != "":
		b.WriteString("(")
		format(b, n.Input(0))
		b.WriteString(infix[op])
		format(b, n.Input(1))
		b.WriteString(")")
	default:
		b.WriteString(FunctionName(op))
		b.WriteString("(")
		for i := range n.NumInputs() {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, n.Input(i))
		}
		b.WriteString(")")
	}
}

// FunctionName is the lower-case name used for op in printed expressions,
// e.g. "half_normal" for DISTRIBUTION_HALF_NORMAL.
func FunctionName(op graph.Operator) string {
	return strings.ToLower(strings.TrimPrefix(op.String(), "DISTRIBUTION_"))
}
