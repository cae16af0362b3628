package graph

import "iter"

// Observation clamps a SAMPLE node to a fixed value.
type Observation struct {
	Node  *Node
	Value float64
}

// Graph is an immutable, topologically ordered sequence of nodes together
// with the observations and queries that keep them alive. Every node's
// inputs precede it, and every node is reachable from a query or an
// observed node.
type Graph struct {
	nodes        []*Node
	index        map[*Node]int
	queries      []*Node
	observations []Observation
	observed     map[*Node]float64
}

// Create builds a Graph from its roots. Nodes are ordered by a depth-first
// post-order walk over the queries (in order) and then the observed nodes,
// visiting inputs left to right, so the result is deterministic.
func Create(queries []*Node, observations []Observation) (*Graph, error) {
	const op = "graph.create"
	roots := make([]*Node, 0, len(queries)+len(observations))
	for i, q := range queries {
		if q == nil {
			return nil, invalidArgument(op, "query %d is nil", i)
		}
		roots = append(roots, q)
	}
	seen := make(map[*Node]bool, len(observations))
	for i, o := range observations {
		if o.Node == nil {
			return nil, invalidArgument(op, "observation %d has no node", i)
		}
		if o.Node.op != OpSample {
			return nil, invalidArgument(op, "observation %d targets %s, want SAMPLE", i, o.Node.op)
		}
		if seen[o.Node] {
			return nil, invalidArgument(op, "node %s observed twice", o.Node.id)
		}
		seen[o.Node] = true
		roots = append(roots, o.Node)
	}
	return newGraph(Reachable(roots...), queries, observations), nil
}

func newGraph(nodes []*Node, queries []*Node, observations []Observation) *Graph {
	g := &Graph{
		nodes:        nodes,
		index:        make(map[*Node]int, len(nodes)),
		queries:      append([]*Node(nil), queries...),
		observations: append([]Observation(nil), observations...),
		observed:     make(map[*Node]float64, len(observations)),
	}
	for i, n := range nodes {
		g.index[n] = i
	}
	for _, o := range observations {
		g.observed[o.Node] = o.Value
	}
	return g
}

// Reachable returns every node reachable from roots in depth-first
// post-order: inputs always come before the nodes that use them. Each node
// appears once. The walk is iterative, so arbitrarily deep chains are safe.
func Reachable(roots ...*Node) []*Node {
	type frame struct {
		n    *Node
		next int
	}
	visited := make(map[*Node]bool)
	var order []*Node
	var stack []frame
	for _, root := range roots {
		if root == nil || visited[root] {
			continue
		}
		visited[root] = true
		stack = append(stack[:0], frame{n: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.n.inputs) {
				in := top.n.inputs[top.next]
				top.next++
				if !visited[in] {
					visited[in] = true
					stack = append(stack, frame{n: in})
				}
				continue
			}
			order = append(order, top.n)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// At returns the node at index i.
func (g *Graph) At(i int) *Node { return g.nodes[i] }

// Nodes returns a copy of the node sequence.
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// All iterates the nodes in evaluation order.
func (g *Graph) All() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		for i, n := range g.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Index returns the dense position of n in the graph.
func (g *Graph) Index(n *Node) (int, bool) {
	i, ok := g.index[n]
	return i, ok
}

// Contains reports whether n belongs to the graph.
func (g *Graph) Contains(n *Node) bool {
	_, ok := g.index[n]
	return ok
}

// Queries returns the query nodes in the order they were requested.
func (g *Graph) Queries() []*Node {
	return append([]*Node(nil), g.queries...)
}

// Observations returns the observations in the order they were made.
func (g *Graph) Observations() []Observation {
	return append([]Observation(nil), g.observations...)
}

// Observed returns the value a SAMPLE node is clamped to, if any.
func (g *Graph) Observed(n *Node) (float64, bool) {
	v, ok := g.observed[n]
	return v, ok
}

// Roots returns the queries followed by the observed nodes.
func (g *Graph) Roots() []*Node {
	roots := make([]*Node, 0, len(g.queries)+len(g.observations))
	roots = append(roots, g.queries...)
	for _, o := range g.observations {
		roots = append(roots, o.Node)
	}
	return roots
}
