package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/rewrite"
)

// DescribeGraph summarizes g as a markdown document: counts followed by
// one table row per node in evaluation order.
func DescribeGraph(title string, g *graph.Graph) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	var scalars, dists int
	for _, n := range g.All() {
		if n.IsDistribution() {
			dists++
		} else {
			scalars++
		}
	}
	fmt.Fprintf(&sb, "**%d** nodes (%d scalar, %d distribution), **%d** queries, **%d** observations.\n\n",
		g.Len(), scalars, dists, len(g.Queries()), len(g.Observations()))

	queried := make(map[*graph.Node][]string)
	for i, q := range g.Queries() {
		queried[q] = append(queried[q], "query "+strconv.Itoa(i))
	}

	sb.WriteString("| # | Operator | Inputs | Payload | Role |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for i, n := range g.All() {
		inputs := make([]string, 0, n.NumInputs())
		for j := range n.NumInputs() {
			k, _ := g.Index(n.Input(j))
			inputs = append(inputs, strconv.Itoa(k))
		}

		var payload string
		switch n.Op() {
		case graph.OpConstant:
			payload = strconv.FormatFloat(n.Value(), 'g', -1, 64)
		case graph.OpVariable:
			payload = fmt.Sprintf("`%s` (%d)", n.Name(), n.Identifier())
		}

		roles := queried[n]
		if v, ok := g.Observed(n); ok {
			roles = append(roles, "observed "+strconv.FormatFloat(v, 'g', -1, 64))
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
			i, rewrite.FunctionName(n.Op()), strings.Join(inputs, ", "), payload, strings.Join(roles, ", "))
	}
	return sb.String()
}
