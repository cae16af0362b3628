package rewrite

import (
	"fmt"

	"github.com/aretw0/minibmg/pkg/graph"
)

// TempPrefix starts the name of every temporary introduced by Dedag.
const TempPrefix = "__temp_"

// Binding assigns an expression to a temporary variable.
type Binding struct {
	Name string
	// Var is the VARIABLE node standing for the temporary in later
	// expressions. Its identifier is the binding's position in the prelude.
	Var  *graph.Node
	Expr *graph.Node
}

// Dedagged is the result of Dedag: bindings to evaluate in order, then the
// rewritten value.
type Dedagged[T any] struct {
	Prelude []Binding
	Result  T
}

// Dedag rewrites the nodes in value into a prelude of temporaries and a
// result, all of depth at most maxDepth as measured by Depth. A node is moved
// into a temporary when its depth reaches maxDepth or when more than one
// parent (or root reference) uses it, so shared work is bound once.
// Distributions stay inline with the SAMPLE that draws from them.
//
// The substitution is exact: evaluating the prelude in order and then the
// result yields the original values. maxDepth must be at least 2. Values
// holding a *graph.Graph are rejected, since a graph has no place for the
// prelude.
func Dedag[T any](value T, maxDepth int) (Dedagged[T], error) {
	if maxDepth < 2 {
		return Dedagged[T]{}, fmt.Errorf("dedag: max depth %d is below 2: %w", maxDepth, graph.ErrInvalidArgument)
	}
	if containsGraph(value) {
		return Dedagged[T]{}, fmt.Errorf("dedag: cannot linearize a graph: %w", graph.ErrInvalidArgument)
	}

	roots := Roots(value)
	order := graph.Reachable(roots...)
	refs := make(map[*graph.Node]int, len(order))
	for _, r := range roots {
		refs[r]++
	}
	for _, n := range order {
		for i := range n.NumInputs() {
			refs[n.Input(i)]++
		}
	}

	var prelude []Binding
	out := make(map[*graph.Node]*graph.Node, len(order))
	depth := make(map[*graph.Node]int, len(order))
	inputs := make([]*graph.Node, 0, graph.MaxArity)
	for _, n := range order {
		if n.Op().IsLeaf() {
			out[n], depth[n] = n, 1
			continue
		}
		inputs = inputs[:0]
		deepest := 0
		for i := range n.NumInputs() {
			in := n.Input(i)
			inputs = append(inputs, out[in])
			deepest = max(deepest, depth[in])
		}
		rebuilt, err := graph.WithInputs(n, inputs)
		if err != nil {
			return Dedagged[T]{}, err
		}
		if n.IsDistribution() {
			out[n], depth[n] = rebuilt, deepest
			continue
		}
		d := deepest + 1
		if d < maxDepth && refs[n] <= 1 {
			out[n], depth[n] = rebuilt, d
			continue
		}
		k := len(prelude)
		name := fmt.Sprintf("%s%d", TempPrefix, k)
		temp := graph.Variable(name, k)
		prelude = append(prelude, Binding{Name: name, Var: temp, Expr: rebuilt})
		out[n], depth[n] = temp, 1
	}

	result := Replace(value, func(n *graph.Node) *graph.Node { return out[n] })
	return Dedagged[T]{Prelude: prelude, Result: result}, nil
}

// Depth returns the expression depth of n as Dedag measures it: leaves
// count 1, each scalar operator adds 1, and a distribution contributes the
// depth of its deepest parameter so that a SAMPLE and its distribution
// count as a single level.
func Depth(n *graph.Node) int {
	depth := make(map[*graph.Node]int)
	for _, m := range graph.Reachable(n) {
		deepest := 0
		for i := range m.NumInputs() {
			deepest = max(deepest, depth[m.Input(i)])
		}
		switch {
		case m.Op().IsLeaf():
			depth[m] = 1
		case m.IsDistribution():
			depth[m] = deepest
		default:
			depth[m] = deepest + 1
		}
	}
	return depth[n]
}
