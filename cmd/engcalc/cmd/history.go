package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/history"
	"github.com/msto63/engcalc/pkg/core/report"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved calculation results",
		Long: `Lists, shows, deletes, exports and imports results saved with
"engcalc run --save".

Examples:
  engcalc history
  engcalc history list --category Statics --limit 10
  engcalc history list --project Footbridge --since 2026-10-01 --search beam
  engcalc history show <id>
  engcalc history delete <id>
  engcalc history export backup.json
  engcalc history import backup.json`,
	}

	list := newHistoryListCmd(a)
	cmd.RunE = list.RunE
	cmd.Flags().AddFlagSet(list.Flags())

	cmd.AddCommand(list,
		newHistoryShowCmd(a),
		newHistoryDeleteCmd(a),
		newHistoryExportCmd(a),
		newHistoryImportCmd(a),
	)
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var (
		opts         history.ListOptions
		since, until string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved results, newest first",
		Long: `Lists saved results, newest first.

--since and --until take a date (YYYY-MM-DD, local time) or an RFC 3339
timestamp. A date given to --until includes that whole day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.Since, err = parseTimeFlag("since", since, false); err != nil {
				return err
			}
			if opts.Until, err = parseTimeFlag("until", until, true); err != nil {
				return err
			}

			ctx := context.Background()
			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(ctx, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No saved results.")
				return nil
			}
			fmt.Fprintf(out, "%-36s %-20s %-32s %-16s %s\n", "ID", "SAVED", "CALCULATION", "PROJECT", "WARNINGS")
			for _, e := range entries {
				fmt.Fprintf(out, "%-36s %-20s %-32s %-16s %d\n",
					e.ID, e.SavedAt.Local().Format("2006-01-02 15:04:05"), e.Key, e.Project, e.Warnings)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "only list this category")
	cmd.Flags().StringVar(&opts.Project, "project", "", "only list this project")
	cmd.Flags().StringVar(&opts.Search, "search", "", "match name, category, project or notes")
	cmd.Flags().StringVar(&since, "since", "", "only results saved at or after this time")
	cmd.Flags().StringVar(&until, "until", "", "only results saved before this time")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", history.DefaultLimit, "maximum number of entries")
	return cmd
}

// parseTimeFlag reads an RFC 3339 timestamp or a local date. A date for an
// upper bound moves to the start of the following day.
func parseTimeFlag(flag, v string, upper bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, v, time.Local)
	if err != nil {
		return time.Time{}, mdwerror.Newf("invalid --%s %q, want YYYY-MM-DD or an RFC 3339 time", flag, v).
			WithCode(mdwerror.CodeInvalidInput)
	}
	if upper {
		day = day.AddDate(0, 0, 1)
	}
	return day, nil
}

func newHistoryShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := report.New(out, report.WithPrecision(a.cfg.Units.DefaultPrecision)).Write(entry.Result); err != nil {
				return err
			}
			if entry.Project != "" {
				fmt.Fprintf(out, "\nProject: %s\n", entry.Project)
			}
			if entry.Notes != "" {
				fmt.Fprintf(out, "Notes: %s\n", entry.Notes)
			}
			return nil
		},
	}
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newHistoryExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every saved result to a JSON archive",
		Long: `Writes every saved result, oldest first, to a JSON archive. Without a
file the archive goes to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 || args[0] == "-" {
				_, err := store.Export(ctx, cmd.OutOrStdout())
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return mdwerror.Wrap(err, "create archive").WithCode(mdwerror.CodeInvalidInput)
			}
			n, err := store.Export(ctx, f)
			if cerr := f.Close(); err == nil && cerr != nil {
				err = mdwerror.Wrap(cerr, "write archive").WithCode(mdwerror.CodeInternal)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d results to %s\n", n, args[0])
			return nil
		},
	}
}

func newHistoryImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the results of a JSON archive",
		Long: `Adds the results of an archive written by "engcalc history export".
Results already stored are skipped. Use - to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return mdwerror.Wrap(err, "open archive").WithCode(mdwerror.CodeInvalidInput)
				}
				defer f.Close()
				in = f
			}

			ctx := context.Background()
			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Import(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d results\n", n)
			return nil
		},
	}
}
