package graph

// Factory builds a Graph incrementally. Each constructor returns a node whose
// ID value is its provisional sequence number; Build drops nodes that no
// query or observation reaches and renumbers the rest densely from zero.
//
// A Factory is single use. Constructors called after Build, or with inputs
// of the wrong family or from another factory, panic with an *Error of kind
// ErrInvalidArgument: those are programming defects. Observe, Query and
// Build report the same conditions as returned errors.
type Factory struct {
	nodes        []*Node
	owned        map[*Node]bool
	queries      []*Node
	observations []Observation
	observed     map[*Node]bool
	built        bool
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{
		owned:    make(map[*Node]bool),
		observed: make(map[*Node]bool),
	}
}

func (f *Factory) add(where string, op Operator, inputs ...*Node) *Node {
	f.checkLive(where)
	if err := checkInputs(where, op, inputs); err != nil {
		panic(err)
	}
	for _, in := range inputs {
		if !f.owned[in] {
			panic(invalidArgument(where, "input %s was not created by this factory", in.id))
		}
	}
	return f.register(newNode(NewNodeID(int64(len(f.nodes))), op, inputs))
}

func (f *Factory) register(n *Node) *Node {
	f.nodes = append(f.nodes, n)
	f.owned[n] = true
	return n
}

func (f *Factory) checkLive(where string) {
	if f.built {
		panic(invalidArgument(where, "factory already built"))
	}
}

// Constant adds a CONSTANT node.
func (f *Factory) Constant(value float64) *Node {
	f.checkLive("factory.constant")
	return f.register(&Node{id: NewNodeID(int64(len(f.nodes))), op: OpConstant, value: value})
}

// Variable adds a VARIABLE node.
func (f *Factory) Variable(name string, identifier int) *Node {
	f.checkLive("factory.variable")
	return f.register(&Node{
		id:         NewNodeID(int64(len(f.nodes))),
		op:         OpVariable,
		name:       name,
		identifier: identifier,
	})
}

func (f *Factory) Add(left, right *Node) *Node      { return f.add("factory.add", OpAdd, left, right) }
func (f *Factory) Subtract(left, right *Node) *Node { return f.add("factory.subtract", OpSubtract, left, right) }
func (f *Factory) Multiply(left, right *Node) *Node { return f.add("factory.multiply", OpMultiply, left, right) }
func (f *Factory) Divide(left, right *Node) *Node   { return f.add("factory.divide", OpDivide, left, right) }
func (f *Factory) Pow(left, right *Node) *Node      { return f.add("factory.pow", OpPow, left, right) }
func (f *Factory) Negate(x *Node) *Node             { return f.add("factory.negate", OpNegate, x) }
func (f *Factory) Exp(x *Node) *Node                { return f.add("factory.exp", OpExp, x) }
func (f *Factory) Log(x *Node) *Node                { return f.add("factory.log", OpLog, x) }
func (f *Factory) Atan(x *Node) *Node               { return f.add("factory.atan", OpAtan, x) }
func (f *Factory) Lgamma(x *Node) *Node             { return f.add("factory.lgamma", OpLgamma, x) }
func (f *Factory) Log1p(x *Node) *Node              { return f.add("factory.log1p", OpLog1p, x) }

// Polygamma adds polygamma(n, x); n is truncated to an integer at
// evaluation time.
func (f *Factory) Polygamma(n, x *Node) *Node { return f.add("factory.polygamma", OpPolygamma, n, x) }

// IfEqual adds a node evaluating to c if a == b and to d otherwise.
func (f *Factory) IfEqual(a, b, c, d *Node) *Node {
	return f.add("factory.if_equal", OpIfEqual, a, b, c, d)
}

// IfLess adds a node evaluating to c if a < b and to d otherwise.
func (f *Factory) IfLess(a, b, c, d *Node) *Node {
	return f.add("factory.if_less", OpIfLess, a, b, c, d)
}

func (f *Factory) Normal(mean, stddev *Node) *Node {
	return f.add("factory.normal", OpNormal, mean, stddev)
}

func (f *Factory) HalfNormal(stddev *Node) *Node {
	return f.add("factory.half_normal", OpHalfNormal, stddev)
}

func (f *Factory) Beta(a, b *Node) *Node {
	return f.add("factory.beta", OpBeta, a, b)
}

func (f *Factory) Bernoulli(prob *Node) *Node {
	return f.add("factory.bernoulli", OpBernoulli, prob)
}

func (f *Factory) Exponential(rate *Node) *Node {
	return f.add("factory.exponential", OpExponential, rate)
}

// Sample adds a SAMPLE node drawing from the distribution node dist.
func (f *Factory) Sample(dist *Node) *Node {
	return f.add("factory.sample", OpSample, dist)
}

// Observe clamps a SAMPLE node created by this factory to value.
func (f *Factory) Observe(sample *Node, value float64) error {
	const op = "factory.observe"
	if f.built {
		return invalidArgument(op, "factory already built")
	}
	if sample == nil || !f.owned[sample] {
		return invalidArgument(op, "node was not created by this factory")
	}
	if sample.op != OpSample {
		return invalidArgument(op, "can only observe SAMPLE nodes, got %s", sample.op)
	}
	if f.observed[sample] {
		return invalidArgument(op, "node %s already observed", sample.id)
	}
	f.observed[sample] = true
	f.observations = append(f.observations, Observation{Node: sample, Value: value})
	return nil
}

// Query marks n as program output and returns its position among the
// queries. The same node may be queried more than once.
func (f *Factory) Query(n *Node) (int, error) {
	const op = "factory.query"
	if f.built {
		return 0, invalidArgument(op, "factory already built")
	}
	if n == nil || !f.owned[n] {
		return 0, invalidArgument(op, "node was not created by this factory")
	}
	f.queries = append(f.queries, n)
	return len(f.queries) - 1, nil
}

// Build finalizes the factory. Unreachable nodes are dropped and the
// survivors keep their construction order, which is already topological.
func (f *Factory) Build() (*Graph, error) {
	if f.built {
		return nil, invalidArgument("factory.build", "factory already built")
	}
	f.built = true

	roots := append([]*Node(nil), f.queries...)
	for _, o := range f.observations {
		roots = append(roots, o.Node)
	}
	live := make(map[*Node]bool)
	for _, n := range Reachable(roots...) {
		live[n] = true
	}
	nodes := make([]*Node, 0, len(live))
	for _, n := range f.nodes {
		if live[n] {
			nodes = append(nodes, n)
		}
	}
	g := newGraph(nodes, f.queries, f.observations)

	f.nodes, f.owned, f.observed = nil, nil, nil
	return g, nil
}
