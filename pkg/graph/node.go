package graph

import (
	"fmt"
	"sync/atomic"
)

// NodeID is an opaque identity token. Two NodeIDs are equal only when they
// are the same token, even if they carry the same value: NewNodeID(2) !=
// NewNodeID(2). It is safe to use as a map key.
type NodeID struct {
	p *nodeIdentifier
}

type nodeIdentifier struct {
	value int64
}

// NewNodeID returns a fresh identity token tagged with value.
func NewNodeID(value int64) NodeID {
	return NodeID{p: &nodeIdentifier{value: value}}
}

// Value returns the integer tag the token was created with.
func (id NodeID) Value() int64 {
	if id.p == nil {
		return -1
	}
	return id.p.value
}

// Valid reports whether id was produced by NewNodeID.
func (id NodeID) Valid() bool { return id.p != nil }

func (id NodeID) String() string {
	return fmt.Sprintf("#%d", id.Value())
}

// detachedIDs numbers nodes created outside a Factory (traces, decoders,
// rewriters). The offset keeps them visually distinct from factory ids.
var detachedIDs atomic.Int64

const detachedIDBase = 1 << 32

func nextDetachedID() NodeID {
	return NewNodeID(detachedIDBase + detachedIDs.Add(1))
}

// Node is an immutable vertex of the model DAG. Nodes are shared by
// reference: the same *Node may be the input of many parents and may appear
// in several graphs at once.
type Node struct {
	id     NodeID
	op     Operator
	inputs []*Node

	value      float64 // OpConstant
	name       string  // OpVariable
	identifier int     // OpVariable
}

// ID returns the node's identity token.
func (n *Node) ID() NodeID { return n.id }

// Op returns the node kind.
func (n *Node) Op() Operator { return n.op }

// NumInputs returns the number of inputs.
func (n *Node) NumInputs() int { return len(n.inputs) }

// Input returns the i-th input.
func (n *Node) Input(i int) *Node { return n.inputs[i] }

// Inputs returns a copy of the node's inputs.
func (n *Node) Inputs() []*Node {
	out := make([]*Node, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// Value returns the literal of a CONSTANT node, and 0 for any other node.
func (n *Node) Value() float64 { return n.value }

// Name returns the name of a VARIABLE node.
func (n *Node) Name() string { return n.name }

// Identifier returns the identifier of a VARIABLE node.
func (n *Node) Identifier() int { return n.identifier }

// IsScalar reports whether the node produces a scalar.
func (n *Node) IsScalar() bool { return n.op.IsScalar() }

// IsDistribution reports whether the node produces a distribution.
func (n *Node) IsDistribution() bool { return n.op.IsDistribution() }

func (n *Node) String() string {
	switch n.op {
	case OpConstant:
		return fmt.Sprintf("%g", n.value)
	case OpVariable:
		return n.name
	default:
		return fmt.Sprintf("%s%s", n.op, n.id)
	}
}

// Constant creates a detached CONSTANT node.
func Constant(value float64) *Node {
	return &Node{id: nextDetachedID(), op: OpConstant, value: value}
}

// Variable creates a detached VARIABLE node.
func Variable(name string, identifier int) *Node {
	return &Node{id: nextDetachedID(), op: OpVariable, name: name, identifier: identifier}
}

// New creates a detached operator node after checking arity and that the
// inputs belong to the right family: a SAMPLE takes one distribution, every
// other operator takes scalars. Leaves are built with Constant and Variable.
func New(op Operator, inputs ...*Node) (*Node, error) {
	if err := checkInputs("graph.new", op, inputs); err != nil {
		return nil, err
	}
	return newNode(nextDetachedID(), op, inputs), nil
}

// MustNew is like New but panics on error.
func MustNew(op Operator, inputs ...*Node) *Node {
	n, err := New(op, inputs...)
	if err != nil {
		panic(err)
	}
	return n
}

// WithInputs returns a node of the same kind and payload as n over new
// inputs. If the inputs are identical to n's, n itself is returned.
func WithInputs(n *Node, inputs []*Node) (*Node, error) {
	if len(inputs) == len(n.inputs) {
		same := true
		for i := range inputs {
			if inputs[i] != n.inputs[i] {
				same = false
				break
			}
		}
		if same {
			return n, nil
		}
	}
	if n.op.IsLeaf() {
		return nil, invalidArgument("graph.with_inputs", "%s takes no inputs", n.op)
	}
	return New(n.op, inputs...)
}

func newNode(id NodeID, op Operator, inputs []*Node) *Node {
	in := make([]*Node, len(inputs))
	copy(in, inputs)
	return &Node{id: id, op: op, inputs: in}
}

func checkInputs(where string, op Operator, inputs []*Node) error {
	if !op.Valid() {
		return invalidArgument(where, "unknown operator %d", int(op))
	}
	if op.IsLeaf() {
		return invalidArgument(where, "%s must be created with its literal constructor", op)
	}
	if len(inputs) != op.Arity() {
		return invalidArgument(where, "%s takes %d inputs, got %d", op, op.Arity(), len(inputs))
	}
	for i, in := range inputs {
		if in == nil {
			return invalidArgument(where, "%s input %d is nil", op, i)
		}
		if op == OpSample {
			if !in.IsDistribution() {
				return invalidArgument(where, "SAMPLE input must be a distribution, got %s", in.op)
			}
			continue
		}
		if !in.IsScalar() {
			return invalidArgument(where, "%s input %d must be a scalar, got %s", op, i, in.op)
		}
	}
	return nil
}
