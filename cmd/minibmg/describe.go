package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg/internal/presentation/tui"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Summarize a graph as a table",
		Long:  `Prints node counts and a table of every node. On a terminal the markdown is rendered.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rendered, err := tui.RendererFor(out)(tui.DescribeGraph(filepath.Base(args[0]), g))
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}
