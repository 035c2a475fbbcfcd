package distrib

import (
	"context"
	"fmt"

	"github.com/katalvlaran/matbench/comm"
	"github.com/katalvlaran/matbench/partition"
)

type opcode int64

const (
	opRun opcode = iota + 1
	opAbort
	opDone
)

// control is the fixed-size frame the coordinator broadcasts before each
// size and once at the end of the run.
type control struct {
	op       opcode
	size     int
	trials   int
	policy   partition.Policy
	strategy int
	code     abortCode
}

const controlLen = 6

func (f control) encode() []int64 {
	return []int64{int64(f.op), int64(f.size), int64(f.trials), int64(f.policy), int64(f.strategy), int64(f.code)}
}

func decodeControl(buf []int64) (control, error) {
	f := control{
		op:       opcode(buf[0]),
		size:     int(buf[1]),
		trials:   int(buf[2]),
		policy:   partition.Policy(buf[3]),
		strategy: int(buf[4]),
		code:     abortCode(buf[5]),
	}
	switch f.op {
	case opRun:
		if f.size <= 0 || f.trials <= 0 {
			return control{}, fmt.Errorf("run frame size=%d trials=%d: %w", f.size, f.trials, ErrProtocol)
		}
		if f.policy != partition.Strict && f.policy != partition.Remainder {
			return control{}, fmt.Errorf("run frame policy=%d: %w", f.policy, ErrProtocol)
		}
	case opAbort, opDone:
	default:
		return control{}, fmt.Errorf("opcode %d: %w", f.op, ErrProtocol)
	}

	return f, nil
}

func sendControl(ctx context.Context, c *comm.Comm, f control) error {
	return c.BcastControl(ctx, f.encode(), comm.Root)
}

func recvControl(ctx context.Context, c *comm.Comm) (control, error) {
	buf := make([]int64, controlLen)
	if err := c.BcastControl(ctx, buf, comm.Root); err != nil {
		return control{}, err
	}

	return decodeControl(buf)
}
