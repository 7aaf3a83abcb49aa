package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newUnitsCmd(a *app) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "units <expression>",
		Short: "Show the dimension and compatible units of a unit expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := a.units.Dimensionality(args[0])
			if err != nil {
				return err
			}
			base, err := a.units.BaseUnits(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %s\n", "Unit:", args[0])
			fmt.Fprintf(out, "%-12s %s\n", "Dimension:", dim)
			fmt.Fprintf(out, "%-12s %s\n", "Base units:", base)
			if compatible := a.units.CompatibleUnits(args[0]); len(compatible) > 0 {
				fmt.Fprintf(out, "%-12s %s\n", "Compatible:", strings.Join(compatible, ", "))
			}
			if stats {
				cs := a.units.CacheStats()
				fmt.Fprintf(out, "%-12s %d entries, %d hits, %d misses (%.1f%% hit rate)\n",
					"Parse cache:", cs.Entries, cs.Hits, cs.Misses, cs.HitRate)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "also print parse cache statistics")
	return cmd
}
