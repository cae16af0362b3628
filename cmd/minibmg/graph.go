package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg/internal/presentation/graph"
)

func newGraphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <file>",
		Short: "Export the graph visualization",
		Long:  `Outputs a Mermaid diagram (graph TD) of the graph, inputs flowing into the nodes that use them.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, nil))
			return nil
		},
	}
}
