package jsongraph

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/minibmg/pkg/graph"
)

// Comment is written into every encoded document.
const Comment = "created by minibmg"

// Document is the encoded form of a graph.
type Document struct {
	Comment      string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	Nodes        []Node        `json:"nodes" yaml:"nodes"`
	Observations []Observation `json:"observations" yaml:"observations"`
	Queries      []int         `json:"queries" yaml:"queries"`
}

type Node struct {
	Sequence   int      `json:"sequence" yaml:"sequence"`
	Operator   string   `json:"operator" yaml:"operator"`
	InNodes    []int    `json:"in_nodes,omitempty" yaml:"in_nodes,omitempty,flow"`
	Value      *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Name       *string  `json:"name,omitempty" yaml:"name,omitempty"`
	Identifier *int     `json:"identifier,omitempty" yaml:"identifier,omitempty"`
}

type Observation struct {
	Node  int     `json:"node" yaml:"node"`
	Value float64 `json:"value" yaml:"value"`
}

// Encode describes g as a Document with sequence numbers equal to graph
// indices.
func Encode(g *graph.Graph) Document {
	doc := Document{
		Comment:      Comment,
		Nodes:        make([]Node, 0, g.Len()),
		Observations: make([]Observation, 0, len(g.Observations())),
		Queries:      make([]int, 0, len(g.Queries())),
	}
	index := func(n *graph.Node) int {
		i, _ := g.Index(n)
		return i
	}
	for i, n := range g.All() {
		entry := Node{Sequence: i, Operator: n.Op().String()}
		switch n.Op() {
		case graph.OpConstant:
			v := n.Value()
			entry.Value = &v
		case graph.OpVariable:
			name, id := n.Name(), n.Identifier()
			entry.Name, entry.Identifier = &name, &id
		default:
			entry.InNodes = make([]int, n.NumInputs())
			for j := range n.NumInputs() {
				entry.InNodes[j] = index(n.Input(j))
			}
		}
		doc.Nodes = append(doc.Nodes, entry)
	}
	for _, o := range g.Observations() {
		doc.Observations = append(doc.Observations, Observation{Node: index(o.Node), Value: o.Value})
	}
	for _, q := range g.Queries() {
		doc.Queries = append(doc.Queries, index(q))
	}
	return doc
}

// Marshal encodes g in the given format.
func Marshal(g *graph.Graph, f Format) ([]byte, error) {
	doc := Encode(g)
	switch f {
	case FormatYAML:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph as yaml: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph as json: %w", err)
		}
		return append(out, '\n'), nil
	}
}
