// Command matbench generates operand files, multiplies matrices and runs
// the timing sweeps of the sequential, fork-join and distributed engines.
//
//	matbench gen --dir data --sizes 2,4,8
//	matbench bench --variant distributed --workers 4 --strategy scatter
//	MATBENCH_RANK=1 MATBENCH_SIZE=4 matbench bench --variant distributed --transport ws
//	matbench multiply matrixA.txt matrixB.txt resultMatrix.txt
//	matbench verify matrixA.txt matrixB.txt resultMatrix.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "matbench:", err)
		stop()
		os.Exit(1)
	}
}
