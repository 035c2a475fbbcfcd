// Package matbench measures integer matrix multiplication three ways: one
// goroutine, a fork-join goroutine pool, and a group of ranks that split the
// rows of the result and exchange operands through collectives.
//
// The distributed engine keeps the shape of a message-passing program.
// Every rank runs the same code; rank 0 is the Coordinator and owns all
// I/O, the others are Participants that learn everything from the
// coordinator's control frames. Ranks never share memory: the in-process
// transport copies every message, and the websocket transport moves them
// between processes.
//
// Layout:
//
//	matrix/      Dense int64 matrices, the i-k-j kernel, shape validators
//	partition/   row partition plans (strict or remainder policy)
//	comm/        Transport interface and the Bcast/Scatterv/Gatherv/Barrier collectives
//	comm/local/  in-process group, one goroutine per rank
//	comm/wsnet/  websocket star group, one process per rank
//	distrib/     strategies, Coordinator and Participant roles, Multiply
//	forkjoin/    persistent worker pool and the shared-memory product
//	matio/       operand, result and timing text files
//	bench/       configuration, the timing sweep, generation and verification
//	cmd/matbench the command line
//
// Quick example, four ranks in one process:
//
//	err := local.Run(ctx, 4, func(ctx context.Context, c *comm.Comm) error {
//	    res, err := distrib.Multiply(ctx, c, a, b)
//	    if err == nil && c.IsRoot() {
//	        fmt.Print(res)
//	    }
//	    return err
//	})
package matbench
