package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/history"
	"github.com/msto63/engcalc/pkg/core/report"
	"github.com/msto63/engcalc/pkg/core/units"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		raw       []string
		save      bool
		asJSON    bool
		precision int
		note      string
		project   string
	)

	cmd := &cobra.Command{
		Use:   "run <category> <name>",
		Short: "Run a calculation",
		Long: `Runs a calculation and prints every derivation step.

Inputs are given as name="value unit". A value without a unit takes the
unit declared by the calculation.

Examples:
  engcalc run Materials NormalStress --in force="10 kN" --in area="100 mm**2"
  engcalc run Statics SimpleBeam --in load="2 klf" --in span="24 ft" --save --project Footbridge
  engcalc run Fluids Reynolds --in velocity=1.5 --in diameter="2 in" --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !save && (note != "" || project != "") {
				return mdwerror.New("--note and --project need --save").WithCode(mdwerror.CodeInvalidInput)
			}
			v, ok := a.calcs.Get(args[0], args[1])
			if !ok {
				_, err := a.calcs.Create(args[0], args[1])
				return err
			}

			inputs, err := parseInputs(a.units, v.Descriptor(), raw, a.cfg.Units.DefaultPrecision)
			if err != nil {
				return err
			}

			result, err := a.calcs.Run(args[0], args[1], inputs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			} else {
				p := a.cfg.Units.DefaultPrecision
				if cmd.Flags().Changed("precision") {
					p = precision
				}
				if err := report.New(out, report.WithPrecision(p)).Write(result); err != nil {
					return err
				}
			}

			if save {
				ctx := context.Background()
				store, err := a.openHistory(ctx)
				if err != nil {
					return err
				}
				defer store.Close()

				id, err := store.Save(ctx, result, history.WithNotes(note), history.WithProject(project))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved as %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&raw, "in", "i", nil, `input as name="value unit" (repeatable)`)
	cmd.Flags().BoolVar(&save, "save", false, "store the result in the history")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().IntVarP(&precision, "precision", "p", 0, "decimals in the report (default from config)")
	cmd.Flags().StringVar(&note, "note", "", "notes stored with the saved result")
	cmd.Flags().StringVar(&project, "project", "", "project the saved result is filed under")
	return cmd
}

// parseInputs turns name="value unit" arguments into bound inputs.
func parseInputs(reg *units.Registry, d calculation.Descriptor, raw []string, precision int) (calculation.Inputs, error) {
	inputs := make(calculation.Inputs, len(raw))
	for _, arg := range raw {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, mdwerror.Newf("invalid input %q, want name=\"value unit\"", arg).
				WithCode(mdwerror.CodeInvalidInput)
		}
		if _, dup := inputs[name]; dup {
			return nil, mdwerror.Newf("input %q given twice", name).
				WithCode(mdwerror.CodeInvalidInput)
		}

		declared := ""
		if p, ok := d.Input(name); ok {
			declared = p.Unit
		}
		n, err := parseValue(reg, value, declared, precision)
		if err != nil {
			return nil, mdwerror.Wrap(err, "input "+name).WithDetail("input", name)
		}
		inputs[name] = n
	}
	return inputs, nil
}

// parseValue reads "value [unit]". Without a unit the declared unit is
// used; with neither the value stays a raw number.
func parseValue(reg *units.Registry, s, declared string, precision int) (units.Numeric, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return units.Numeric{}, mdwerror.New("missing value").WithCode(mdwerror.CodeInvalidInput)
	}
	magnitude, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return units.Numeric{}, mdwerror.Wrap(err, "invalid number").WithCode(mdwerror.CodeInvalidInput)
	}

	unit := strings.Join(fields[1:], " ")
	if unit == "" {
		unit = declared
	}
	if unit == "" {
		return units.Float(magnitude), nil
	}
	q, err := reg.Quantity(magnitude, unit, precision)
	if err != nil {
		return units.Numeric{}, err
	}
	return units.Dimensioned(q), nil
}
