package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msto63/engcalc/pkg/core/calculation"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <category> <name>",
		Short: "Show the inputs and outputs of a calculation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := a.calcs.Get(args[0], args[1])
			if !ok {
				_, err := a.calcs.Create(args[0], args[1])
				return err
			}
			d := v.Descriptor()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s\n%s\n", d.Key(), d.Description)
			for _, ref := range d.References {
				fmt.Fprintf(out, "  Ref: %s\n", ref)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Inputs:")
			writeParams(out, d.Inputs)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Outputs:")
			writeParams(out, d.Outputs)
			return nil
		},
	}
}

func writeParams(out io.Writer, params []calculation.Parameter) {
	for _, p := range params {
		unit := p.Unit
		if unit == "" {
			unit = "-"
		}
		def := ""
		if p.HasDefault() {
			def = "default " + strconv.FormatFloat(*p.Default, 'g', -1, 64)
		}
		fmt.Fprintf(out, "  %-16s %-10s %-14s %s\n", p.Name, unit, def, p.Description)
	}
}
