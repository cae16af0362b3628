package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of minibmg",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minibmg version %s\n", minibmg.Version)
		},
	}
}
