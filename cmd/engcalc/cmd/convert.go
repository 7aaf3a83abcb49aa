package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between compatible units",
		Long: `Converts a value between units of the same dimension.

Examples:
  engcalc convert 50 ksi MPa
  engcalc convert 100 degC degF
  engcalc convert 1 "kip*ft" "kN*m"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return mdwerror.Wrap(err, "invalid number").WithCode(mdwerror.CodeInvalidInput)
			}
			q, err := a.units.Quantity(value, args[1], a.cfg.Units.DefaultPrecision)
			if err != nil {
				return err
			}
			converted, err := q.To(args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", q, converted)
			return nil
		},
	}
}
