package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg/pkg/rewrite"
)

func newDedagCmd(a *app) *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "dedag <file>",
		Short: "Split the queries into depth-bounded temporaries",
		Long: `Prints a prelude of temporaries followed by the queries, each expression
at most --max-depth deep. Shared subexpressions are bound once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-depth") {
				maxDepth = a.cfg.MaxDepth
			}
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := a.engine(args[0]).Dedag(g, maxDepth)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, b := range d.Prelude {
				fmt.Fprintf(out, "%s = %s\n", b.Name, rewrite.Format(b.Expr))
			}
			for i, q := range d.Result {
				fmt.Fprintf(out, "query[%d] = %s\n", i, rewrite.Format(q))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum expression depth, at least 2 (default from config)")
	return cmd
}
