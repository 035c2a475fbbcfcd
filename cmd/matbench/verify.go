package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/matbench/bench"
)

func newVerifyCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify A B RESULT",
		Short: "Check a result file against the sequential product",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bench.VerifyFiles(args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Result is correct.")
			return nil
		},
	}
}
