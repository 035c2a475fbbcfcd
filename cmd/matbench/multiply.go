package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/matbench/bench"
)

func newMultiplyCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "multiply A B OUT",
		Short: "Multiply two headed matrix files sequentially",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			elapsed, err := bench.MultiplyFiles(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			root.log.Debug("product written", "path", args[2])
			fmt.Fprintf(cmd.OutOrStdout(), "Execution time: %d microseconds\n", elapsed.Microseconds())
			return nil
		},
	}
}
