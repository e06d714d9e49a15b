package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-rh-forms/framework/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Affiche la version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rhforms %s\n", app.Version)
		},
	}
}
