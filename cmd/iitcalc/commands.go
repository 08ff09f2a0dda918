package main

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rpgo/iit-withholding/internal/calculation"
	"github.com/rpgo/iit-withholding/internal/config"
	"github.com/rpgo/iit-withholding/internal/logging"
	"github.com/rpgo/iit-withholding/internal/output"
	"github.com/rpgo/iit-withholding/internal/storage"
	"github.com/spf13/cobra"
)

func newCalculateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute the withholding schedule and write the reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.calculate(cmd)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&a.opts.OutputDir, "output-dir", "o", a.opts.OutputDir, "directory for report files (env "+config.EnvOutputDir+")")
	f.StringVar(&a.opts.BaseName, "basename", a.opts.BaseName, "report file name without extension (env "+config.EnvBaseName+")")
	f.StringVar(&a.opts.Locale, "locale", a.opts.Locale, "column labels: en or zh (env "+config.EnvLocale+")")
	f.StringVar(&a.opts.DBPath, "db", a.opts.DBPath, "record the run in this SQLite database (env "+config.EnvDBPath+")")
	return cmd
}

// calculate resolves every format and opens the run history before computing anything. The console
// table is buffered and printed only after the report files and the history entry are written, so a
// failing step leaves no output behind.
func (a *app) calculate(cmd *cobra.Command) error {
	ctx := cmd.Context()

	settings, err := config.NewInputParser().LoadFromFile(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	a.log.Debug().Str(logging.FieldComponent, logging.ComponentConfig).Str(logging.FieldPath, a.opts.ConfigPath).Msg("settings loaded")

	formatters, err := output.ResolveFormatters(a.opts.Formats, a.opts.Locale)
	if err != nil {
		return err
	}

	var rec *storage.SQLiteRecorder
	if a.opts.DBPath != "" {
		if rec, err = a.openHistory(); err != nil {
			return err
		}
		defer rec.Close()
	}

	calc := calculation.NewWithholdingCalculator()
	calc.SetLogger(logging.NewCalculationLogger(a.log))

	schedule, err := calc.Run(ctx, settings)
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}

	var console bytes.Buffer
	var files []output.Formatter
	for _, f := range formatters {
		if f.Name() != "console" {
			files = append(files, f)
			continue
		}
		data, err := f.Format(schedule)
		if err != nil {
			return fmt.Errorf("format %s: %w", f.Name(), err)
		}
		console.Write(data)
	}

	opts := output.ReportOptions{Dir: a.opts.OutputDir, BaseName: a.opts.BaseName, Locale: a.opts.Locale}
	paths, err := output.WriteFormatters(ctx, schedule, files, opts)
	if err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	if rec != nil {
		if _, err := rec.SaveSchedule(ctx, schedule); err != nil {
			output.RemoveReports(paths)
			return err
		}
	}

	for _, p := range paths {
		a.log.Info().Str(logging.FieldComponent, logging.ComponentOutput).Str(logging.FieldPath, p).Msg("report written")
	}
	_, err = console.WriteTo(a.stdout)
	return err
}

func (a *app) openHistory() (*storage.SQLiteRecorder, error) {
	storeLog := a.log.With().Str(logging.FieldComponent, logging.ComponentStorage).Logger()
	return storage.NewSQLiteRecorder(a.opts.DBPath, storeLog)
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or print the schedule of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.DBPath == "" {
				return fmt.Errorf("history needs a database: pass --db or set %s", config.EnvDBPath)
			}
			rec, err := a.openHistory()
			if err != nil {
				return err
			}
			defer rec.Close()

			if len(args) == 1 {
				schedule, err := rec.LoadSchedule(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output.Render(a.stdout, schedule, "console", a.opts.Locale)
			}

			runs, err := rec.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.stdout, "no runs recorded")
				return nil
			}
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tPERIOD\tTOTAL TAX\tRECORDED")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s - %s\t%s\t%s\n", r.ID, r.Start, r.End,
					output.FormatCurrency(r.TotalTax), r.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.opts.DBPath, "db", a.opts.DBPath, "SQLite database holding the run history (env "+config.EnvDBPath+")")
	f.StringVar(&a.opts.Locale, "locale", a.opts.Locale, "column labels: en or zh (env "+config.EnvLocale+")")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a settings file without computing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.opts.ConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			settings, err := config.NewInputParser().LoadFromFile(path)
			if err != nil {
				return err
			}
			months, err := settings.Range()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s is valid: %s to %s, %d months, %d salary adjustments, %d leave overrides\n",
				path, settings.Start, settings.End, months.Len(), len(settings.Adjustments), len(settings.WorkedDays))
			return nil
		},
	}
}

func newExampleCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example settings file (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := a.stdout.Write(config.ExampleYAML())
				return err
			}
			if err := config.WriteExample(args[0], force); err != nil {
				return err
			}
			a.log.Info().Str(logging.FieldPath, args[0]).Msg("example settings written")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newBracketsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "brackets",
		Short: "Print the cumulative withholding rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Taxable income up to\tRate\tQuick deduction\t")
			for _, b := range calculation.CumulativeBrackets {
				limit := "unbounded"
				if b.Max != nil {
					limit = output.FormatAmount(*b.Max)
				}
				fmt.Fprintf(w, "%s\t%s%%\t%s\t\n", limit, b.Rate.Shift(2).String(), output.FormatAmount(b.QuickDeduction))
			}
			return w.Flush()
		},
	}
}
