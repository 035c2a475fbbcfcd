package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/matbench/bench"
)

type genOptions struct {
	dir          string
	sizes        []int
	seed         int64
	min, max     int64
	rowsA, colsA int
	rowsB, colsB int
}

func newGenCmd(root *rootOptions) *cobra.Command {
	o := &genOptions{}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write random operand files",
		Long: `Without dimension flags, gen writes matrixA_<n>.txt and matrixB_<n>.txt
for every size. With --rows-a/--cols-a/--rows-b/--cols-b it writes a single
matrixA.txt, matrixB.txt pair and an empty resultMatrix.txt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("rows-a") || cmd.Flags().Changed("rows-b") {
				adjusted, err := bench.GeneratePair(o.dir, o.rowsA, o.colsA, o.rowsB, o.colsB, o.seed, o.min, o.max)
				if adjusted {
					root.log.Warn("operand shapes do not multiply, cols of A set to rows of B",
						"cols_a", o.colsA, "rows_b", o.rowsB)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "files generated in", o.dir)
				return nil
			}

			if err := bench.Generate(cmd.Context(), o.dir, o.sizes, o.seed, o.min, o.max); err != nil {
				return err
			}
			root.log.Info("operands generated", "dir", o.dir, "sizes", o.sizes)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.dir, "dir", "data", "output directory")
	f.IntSliceVar(&o.sizes, "sizes", bench.DefaultSizes(), "square sizes to generate")
	f.Int64Var(&o.seed, "seed", 1, "random seed")
	f.Int64Var(&o.min, "min", bench.RandomMin, "smallest value (inclusive)")
	f.Int64Var(&o.max, "max", bench.RandomMax, "largest value (exclusive)")
	f.IntVar(&o.rowsA, "rows-a", 3, "rows of A (pair mode)")
	f.IntVar(&o.colsA, "cols-a", 4, "cols of A (pair mode)")
	f.IntVar(&o.rowsB, "rows-b", 4, "rows of B (pair mode)")
	f.IntVar(&o.colsB, "cols-b", 3, "cols of B (pair mode)")

	return cmd
}
