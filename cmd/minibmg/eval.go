package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		seed    uint64
		vars    []string
		logProb bool
	)
	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Evaluate a graph once",
		Long: `Evaluates every node of the graph with plain doubles and prints the query
values. Unobserved samples are drawn from a generator seeded with --seed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			values, err := parseVars(vars)
			if err != nil {
				return err
			}
			req := minibmg.EvalRequest{Variables: values, LogProb: logProb}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			res, err := a.engine(args[0]).Eval(cmd.Context(), g, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %d\n", "seed", res.Seed)
			if logProb {
				fmt.Fprintf(out, "%-10s %s\n", "log_prob", formatFloat(res.LogProb))
			}
			for i, q := range res.Queries {
				fmt.Fprintf(out, "%-10s %s\n", fmt.Sprintf("query[%d]", i), formatFloat(q))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Sampler seed (default from config)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Variable value as name=value (repeatable)")
	cmd.Flags().BoolVar(&logProb, "log-prob", false, "Accumulate and print the log probability")
	return cmd
}
