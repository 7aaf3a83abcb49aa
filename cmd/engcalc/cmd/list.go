package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/engcalc/pkg/core/calculation"
)

func newListCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available calculations",
		Long: `Lists the registered calculations, sorted by category and name.

Examples:
  engcalc list
  engcalc list --category Statics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var variants []*calculation.Variant
			if category != "" {
				variants = a.calcs.ListByCategory(category)
			} else {
				variants = a.calcs.ListAll()
			}

			out := cmd.OutOrStdout()
			if len(variants) == 0 {
				fmt.Fprintln(out, "No calculations found.")
				return nil
			}
			fmt.Fprintf(out, "%-12s %-24s %s\n", "CATEGORY", "NAME", "DESCRIPTION")
			for _, v := range variants {
				fmt.Fprintf(out, "%-12s %-24s %s\n", v.Category(), v.Name(), v.Descriptor().Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only list this category")
	return cmd
}
