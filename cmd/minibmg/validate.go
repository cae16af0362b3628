package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg/internal/presentation/tui"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a graph document",
		Long:  `Decodes the document and reports the first malformed field, unknown operator or bad reference.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				tui.Failure(cmd.ErrOrStderr(), "validation failed")
				return err
			}
			tui.Success(cmd.OutOrStdout(), "graph is valid: %d nodes, %d queries, %d observations",
				g.Len(), len(g.Queries()), len(g.Observations()))
			return nil
		},
	}
}
