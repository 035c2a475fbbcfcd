package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/matbench/internal/logx"
)

type rootOptions struct {
	logLevel string
	debug    bool
	verbose  bool
	quiet    bool
	log      *slog.Logger
}

// levelFlags are the persistent flags that choose the log level.
var levelFlags = []string{"log-level", "debug", "verbose", "quiet"}

// level resolves the log level: the --debug/--verbose/--quiet switches win
// over --log-level when any of them is set.
func (o *rootOptions) level() (slog.Level, error) {
	if o.debug || o.verbose || o.quiet {
		return logx.LevelFromFlags(o.debug, o.verbose, o.quiet), nil
	}

	return logx.ParseLevel(o.logLevel)
}

// levelChanged reports whether any level flag was given on the command line.
func levelChanged(cmd *cobra.Command) bool {
	for _, name := range levelFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}

	return false
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "matbench",
		Short:         "Benchmark partitioned integer matrix multiplication",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := o.level()
			if err != nil {
				return err
			}
			o.log = logx.New(cmd.ErrOrStderr(), level)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.BoolVar(&o.debug, "debug", false, "log at debug level")
	pf.BoolVar(&o.verbose, "verbose", false, "log at info level")
	pf.BoolVar(&o.quiet, "quiet", false, "log errors only")

	cmd.AddCommand(
		newGenCmd(o),
		newMultiplyCmd(o),
		newBenchCmd(o),
		newVerifyCmd(o),
	)

	return cmd
}
