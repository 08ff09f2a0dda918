package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/iit-withholding/internal/config"
	"github.com/rpgo/iit-withholding/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries the resolved run options and logger shared by every subcommand.
type app struct {
	opts   config.RunOptions
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	// .env is read before flag defaults are computed so it behaves like the real environment
	envErr := config.LoadEnvFile()

	a := &app{opts: config.DefaultRunOptions(), stdout: stdout, stderr: stderr}
	a.opts.ApplyEnv(nil)
	formats := strings.Join(a.opts.Formats, ",")

	root := &cobra.Command{
		Use:   "iitcalc",
		Short: "Monthly individual income tax withholding calculator",
		Long: `iitcalc computes the monthly individual income tax withheld from a salary under the
cumulative withholding method, including salary adjustments, unpaid leave, insurance and housing
fund deductions, and year boundaries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return fmt.Errorf("load .env: %w", envErr)
			}
			a.opts.Formats = config.SplitList(formats)
			cfg := logging.DefaultConfig()
			cfg.Level = a.opts.LogLevel
			cfg.Writer = a.stderr
			l, err := logging.New(cfg)
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.opts.ConfigPath, "config", "c", a.opts.ConfigPath, "settings file (env "+config.EnvConfigPath+")")
	pf.StringVar(&a.opts.LogLevel, "log-level", a.opts.LogLevel, "log level: debug, info, warn, error (env "+config.EnvLogLevel+")")

	calc := newCalculateCmd(a)
	calc.Flags().StringVarP(&formats, "format", "f", formats, "comma separated output formats (env "+config.EnvFormats+")")
	root.AddCommand(calc, newValidateCmd(a), newExampleCmd(a), newBracketsCmd(a), newHistoryCmd(a))

	// a bare invocation runs the calculation
	root.RunE = calc.RunE
	root.Flags().AddFlagSet(calc.Flags())
	return root
}
