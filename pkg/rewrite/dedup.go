package rewrite

import (
	"math"

	"github.com/aretw0/minibmg/pkg/graph"
)

// key is the structural identity of a node once its inputs are canonical.
type key struct {
	op         graph.Operator
	value      uint64
	name       string
	identifier int
	sample     *graph.Node
	in         [graph.MaxArity]*graph.Node
}

func keyOf(n *graph.Node, inputs []*graph.Node) key {
	k := key{
		op:         n.Op(),
		value:      math.Float64bits(n.Value()),
		name:       n.Name(),
		identifier: n.Identifier(),
	}
	// Each SAMPLE is its own random variable; two draws from equal
	// distributions are not the same value.
	if n.Op() == graph.OpSample {
		k.sample = n
	}
	copy(k.in[:], inputs)
	return k
}

// DedupNodes computes a canonical replacement for every node reachable
// from roots. Nodes with the same operator, payload and canonical inputs
// map to one representative. A node whose inputs are already canonical is
// its own representative, so applying DedupNodes to its own output changes
// nothing.
func DedupNodes(roots []*graph.Node) map[*graph.Node]*graph.Node {
	order := graph.Reachable(roots...)
	canonical := make(map[key]*graph.Node, len(order))
	out := make(map[*graph.Node]*graph.Node, len(order))
	inputs := make([]*graph.Node, 0, graph.MaxArity)
	for _, n := range order {
		inputs = inputs[:0]
		for i := range n.NumInputs() {
			inputs = append(inputs, out[n.Input(i)])
		}
		k := keyOf(n, inputs)
		if c, ok := canonical[k]; ok {
			out[n] = c
			continue
		}
		rebuilt, err := graph.WithInputs(n, inputs)
		if err != nil {
			panic(err)
		}
		canonical[k] = rebuilt
		out[n] = rebuilt
	}
	return out
}

// Dedup returns value with every node replaced by its canonical
// representative, together with the mapping that was applied.
func Dedup[T any](value T) (T, map[*graph.Node]*graph.Node) {
	mapping := DedupNodes(Roots(value))
	return Replace(value, func(n *graph.Node) *graph.Node {
		if c, ok := mapping[n]; ok {
			return c
		}
		return n
	}), mapping
}

// Merged counts the nodes a dedup mapping folded into another node.
func Merged(mapping map[*graph.Node]*graph.Node) int {
	distinct := make(map[*graph.Node]struct{}, len(mapping))
	for _, c := range mapping {
		distinct[c] = struct{}{}
	}
	return len(mapping) - len(distinct)
}
