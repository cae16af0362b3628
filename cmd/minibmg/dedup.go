package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg/internal/presentation/tui"
	"github.com/aretw0/minibmg/pkg/jsongraph"
)

func newDedupCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "dedup <file>",
		Short: "Merge structurally equal subexpressions",
		Long: `Writes the canonical form of the graph, in which equal subexpressions are
shared. Samples are never merged: two draws stay two draws.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := jsongraph.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}

			eng := a.engine(args[0])
			out, merged := eng.Dedup(g)
			data, err := eng.Encode(out, f)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			tui.Success(cmd.ErrOrStderr(), "merged %d nodes, %d remain -> %s", merged, out.Len(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	return cmd
}
