package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/engcalc/foundation/core/log"
	"github.com/msto63/engcalc/internal/domains"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/config"
	"github.com/msto63/engcalc/pkg/core/history"
	"github.com/msto63/engcalc/pkg/core/logging"
	"github.com/msto63/engcalc/pkg/core/units"
)

// app holds what every subcommand needs once the configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *mdwlog.Logger
	units  *units.Registry
	calcs  *calculation.Registry

	logFile *os.File
}

func (a *app) setup(cfgFile string, verbose bool, logOut io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}

	a.cfg = cfg
	var extra []io.Writer
	if path := cfg.General.LogFile; path != "" {
		f, err := logging.OpenLogFile(path)
		if err != nil {
			return err
		}
		a.logFile = f
		extra = append(extra, f)
	}
	a.logger = logging.FromConfig(cfg, logOut, extra...)

	a.units = units.NewRegistry(
		units.WithCacheTTL(cfg.Units.CacheTTL.Duration),
		units.WithLogger(a.logger),
	)
	if err := units.RegisterEngineeringUnits(a.units); err != nil {
		return err
	}
	if path := cfg.Units.DefinitionsFile; path != "" {
		if err := units.LoadDefinitions(a.units, path); err != nil {
			return err
		}
	}

	a.calcs = calculation.NewRegistry(
		calculation.WithDuplicatePolicy(cfg.DuplicatePolicy()),
		calculation.WithLogger(a.logger),
	)
	return domains.RegisterAll(a.calcs)
}

func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func (a *app) openHistory(ctx context.Context) (*history.Store, error) {
	return history.Open(ctx, a.cfg.History.DatabasePath,
		history.WithUnits(a.units),
		history.WithLogger(a.logger),
	)
}

// NewRootCommand builds the engcalc command tree.
func NewRootCommand() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)
	a := &app{}

	root := &cobra.Command{
		Use:   "engcalc",
		Short: "engcalc - unit-aware engineering calculations",
		Long: `engcalc runs engineering calculations with dimensional checking
and records every derivation step.

Categories:
  Materials - normal stress, strain, Hooke's law
  Statics   - simply supported beams, cantilever deflection
  Fluids    - Reynolds number, Bernoulli equation`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cfgFile, verbose, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./engcalc.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newListCmd(a),
		newDescribeCmd(a),
		newRunCmd(a),
		newConvertCmd(a),
		newUnitsCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
