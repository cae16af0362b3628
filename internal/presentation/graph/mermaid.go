package graph

import (
	"fmt"
	"strings"

	ir "github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/rewrite"
)

// GraphOverlay contains evaluation results to visualize on the graph.
type GraphOverlay struct {
	// Values annotates scalar nodes with the value they evaluated to.
	Values map[*ir.Node]float64
}

// GenerateMermaid produces a Mermaid flowchart of g, inputs flowing down to
// the nodes that use them. It applies semantic styling:
// - Variable: ((Circle))
// - Distribution: [[Subroutine]]
// - Sample: [/Parallelogram/]
// - Default: [Rectangle]
// Queried nodes and observed samples get their own classes.
func GenerateMermaid(g *ir.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, n := range g.All() {
		opener, closer := "[", "]"
		switch {
		case n.Op() == ir.OpVariable:
			opener, closer = "((", "))"
		case n.IsDistribution():
			opener, closer = "[[", "]]"
		case n.Op() == ir.OpSample:
			opener, closer = "[/", "/]"
		}

		label := nodeLabel(g, n)
		if overlay != nil {
			if v, ok := overlay.Values[n]; ok {
				label = fmt.Sprintf("%s <br/> = %g", label, v)
			}
		}
		fmt.Fprintf(&sb, "    n%d%s\"%s\"%s\n", i, opener, label, closer)

		for j := range n.NumInputs() {
			from, _ := g.Index(n.Input(j))
			arrow := "-->"
			if n.Op() == ir.OpSample {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    n%d %s n%d\n", from, arrow, i)
		}
	}

	sb.WriteString("\n    %% Roles\n")
	sb.WriteString("    classDef query fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef observed fill:#ffeb3b,stroke:#fbc02d,stroke-width:2px,color:#000;\n")
	styled := make(map[int]bool)
	for _, q := range g.Queries() {
		i, _ := g.Index(q)
		if !styled[i] {
			styled[i] = true
			fmt.Fprintf(&sb, "    class n%d query;\n", i)
		}
	}
	for _, o := range g.Observations() {
		i, _ := g.Index(o.Node)
		fmt.Fprintf(&sb, "    class n%d observed;\n", i)
	}

	return sb.String()
}

func nodeLabel(g *ir.Graph, n *ir.Node) string {
	var label string
	switch n.Op() {
	case ir.OpConstant:
		label = fmt.Sprintf("%g", n.Value())
	case ir.OpVariable:
		label = fmt.Sprintf("%s[%d]", n.Name(), n.Identifier())
	default:
		label = rewrite.FunctionName(n.Op())
	}
	if v, ok := g.Observed(n); ok {
		label = fmt.Sprintf("%s <br/> observed %g", label, v)
	}
	return strings.ReplaceAll(label, "\"", "'")
}
