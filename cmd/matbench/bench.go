package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/matbench/bench"
	"github.com/katalvlaran/matbench/internal/logx"
)

func newBenchCmd(root *rootOptions) *cobra.Command {
	var configPath string
	flagCfg := bench.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the timing sweep",
		Long: `bench loads --config (yaml or toml) over the defaults, then applies any
flag given on the command line. With --variant distributed --transport ws
the process joins the group described by MATBENCH_RANK, MATBENCH_SIZE and
MATBENCH_ADDR; rank 0 coordinates and writes all output files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := bench.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = bench.LoadConfig(configPath); err != nil {
					return err
				}
			}
			applyOverrides(cmd.Flags(), &flagCfg, &cfg)

			log := root.log
			if !levelChanged(cmd) {
				level, err := logx.ParseLevel(cfg.LogLevel)
				if err != nil {
					return err
				}
				log = logx.New(cmd.ErrOrStderr(), level)
			}

			r, err := bench.NewRunner(cfg, bench.WithLogger(log))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if d := timeoutOf(cmd.Flags()); d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}
			timings, err := r.Run(ctx)
			if err != nil {
				return err
			}
			if len(timings) > 0 && cfg.Report == bench.ReportMean {
				for _, t := range timings {
					fmt.Fprintf(cmd.OutOrStdout(), "Size: %d, Average Time: %g seconds\n", t.Size, t.Elapsed.Seconds())
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "yaml or toml configuration file")
	f.IntSliceVar(&flagCfg.Sizes, "sizes", flagCfg.Sizes, "square sizes to run")
	f.IntVar(&flagCfg.Trials, "trials", flagCfg.Trials, "timed trials per size")
	f.StringVar(&flagCfg.DataDir, "data-dir", flagCfg.DataDir, "operand, result and timing directory")
	f.StringVar(&flagCfg.Variant, "variant", flagCfg.Variant, "sequential, forkjoin or distributed")
	f.StringVar(&flagCfg.Transport, "transport", flagCfg.Transport, "local or ws (distributed only)")
	f.StringVar(&flagCfg.Strategy, "strategy", flagCfg.Strategy, "broadcast or scatter (distributed only)")
	f.StringVar(&flagCfg.Partition, "partition", flagCfg.Partition, "strict or remainder (distributed only)")
	f.IntVar(&flagCfg.Workers, "workers", flagCfg.Workers, "pool size or local group size")
	f.StringVar(&flagCfg.Source, "source", flagCfg.Source, "files, ones or random")
	f.StringVar(&flagCfg.Report, "report", flagCfg.Report, "trials or mean")
	f.Int64Var(&flagCfg.Seed, "seed", flagCfg.Seed, "seed of the random source")
	f.BoolVar(&flagCfg.WriteResults, "write-results", false, "write results for generated sources")
	f.BoolVar(&flagCfg.Verify, "verify", false, "check every product against the sequential kernel")
	f.Duration("timeout", 0, "abort the run after this long (0 disables)")

	return cmd
}

// applyOverrides copies every flag the user set from flagCfg into cfg.
func applyOverrides(fs *pflag.FlagSet, flagCfg, cfg *bench.Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "sizes":
			cfg.Sizes = append([]int(nil), flagCfg.Sizes...)
		case "trials":
			cfg.Trials = flagCfg.Trials
		case "data-dir":
			cfg.DataDir = flagCfg.DataDir
		case "variant":
			cfg.Variant = flagCfg.Variant
		case "transport":
			cfg.Transport = flagCfg.Transport
		case "strategy":
			cfg.Strategy = flagCfg.Strategy
		case "partition":
			cfg.Partition = flagCfg.Partition
		case "workers":
			cfg.Workers = flagCfg.Workers
		case "source":
			cfg.Source = flagCfg.Source
		case "report":
			cfg.Report = flagCfg.Report
		case "seed":
			cfg.Seed = flagCfg.Seed
		case "write-results":
			cfg.WriteResults = flagCfg.WriteResults
		case "verify":
			cfg.Verify = flagCfg.Verify
		}
	})
}

// timeoutOf reads --timeout; zero means none.
func timeoutOf(fs *pflag.FlagSet) time.Duration {
	d, err := fs.GetDuration("timeout")
	if err != nil {
		return 0
	}
	return d
}
