package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/engcalc/pkg/core/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version",
		// no configuration needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.Info())
			for _, c := range []string{"units", "validation", "calculation", "history"} {
				fmt.Fprintf(out, "  %-12s %s\n", c+":", version.ComponentVersion(c))
			}
		},
	}
}
