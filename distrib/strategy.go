// SPDX-License-Identifier: MIT

package distrib

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/matbench/comm"
	"github.com/katalvlaran/matbench/matrix"
	"github.com/katalvlaran/matbench/partition"
)

// Strategy is one way of moving operands to the ranks and partial results
// back to the root. Prepare sizes the per-rank buffers once per matrix size;
// Exchange runs a single trial: distribute operands, compute the local rows,
// gather them at the root.
type Strategy interface {
	// Name is the configuration name ("broadcast", "scatter").
	Name() string
	// ID identifies the strategy in control frames.
	ID() int
	// Prepare allocates the workspace of one rank. a and b are the operands
	// at the root and nil elsewhere.
	Prepare(rank int, plan partition.Plan, size int, a, b *matrix.Dense) (*Workspace, error)
	// Exchange runs one distribute → compute → gather round.
	Exchange(ctx context.Context, c *comm.Comm, ws *Workspace) error
}

// Strategy ids carried in control frames.
const (
	idBroadcastBoth = iota + 1
	idScatterBroadcast
)

// BroadcastBoth sends all of A and B to every rank each trial. Communication
// volume is O(size²) per trial whatever the group size; only compute shrinks.
type BroadcastBoth struct{}

// ScatterBroadcast sends each rank only its row block of A and all of B.
// A traffic shrinks as O(size²/ranks); B stays O(size²).
type ScatterBroadcast struct{}

var (
	_ Strategy = BroadcastBoth{}
	_ Strategy = ScatterBroadcast{}
)

// Strategies lists the built-in strategies in id order.
func Strategies() []Strategy { return []Strategy{BroadcastBoth{}, ScatterBroadcast{}} }

// StrategyByName resolves "broadcast" or "scatter" (case-insensitive).
func StrategyByName(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if strings.EqualFold(strings.TrimSpace(name), s.Name()) {
			return s, nil
		}
	}

	return nil, fmt.Errorf("strategy %q: %w", name, ErrUnknownStrategy)
}

// StrategyByID resolves the id found in a control frame.
func StrategyByID(id int) (Strategy, error) {
	for _, s := range Strategies() {
		if s.ID() == id {
			return s, nil
		}
	}

	return nil, fmt.Errorf("strategy id %d: %w", id, ErrUnknownStrategy)
}

// ---------- BroadcastBoth ----------

func (BroadcastBoth) Name() string { return "broadcast" }

func (BroadcastBoth) ID() int { return idBroadcastBoth }

// Prepare gives every rank full-size A and B buffers. The root's buffers
// alias its operands; its result rows are computed straight into the
// aggregate so the gather can run in place.
func (BroadcastBoth) Prepare(rank int, plan partition.Plan, size int, a, b *matrix.Dense) (*Workspace, error) {
	ws, err := newWorkspace(rank, plan, size)
	if err != nil {
		return nil, err
	}
	n2 := size * size
	if ws.root {
		ws.a, ws.b = a.Data(), b.Data()
		if ws.result, err = matrix.NewDense(size, size); err != nil {
			return nil, err
		}
		ws.c = ws.result.RowBlock(ws.own.Lo, ws.own.Hi)
		return ws, nil
	}
	ws.a = make([]int64, n2)
	ws.b = make([]int64, n2)
	ws.c = make([]int64, ws.own.Len()*size)

	return ws, nil
}

func (BroadcastBoth) Exchange(ctx context.Context, c *comm.Comm, ws *Workspace) error {
	if err := c.Bcast(ctx, ws.a, comm.Root); err != nil {
		return fmt.Errorf("broadcast A: %w", err)
	}
	if err := c.Bcast(ctx, ws.b, comm.Root); err != nil {
		return fmt.Errorf("broadcast B: %w", err)
	}

	n := ws.size
	matrix.MulFlat(ws.a[ws.own.Lo*n:ws.own.Hi*n], ws.own.Len(), n, ws.b, n, ws.c)

	var send, recv []int64
	if ws.root {
		recv = ws.result.Data() // own rows already in place
	} else {
		send = ws.c
	}
	if err := c.Gatherv(ctx, send, recv, ws.counts, ws.displs, comm.Root); err != nil {
		return fmt.Errorf("gather C: %w", err)
	}

	return nil
}

// ---------- ScatterBroadcast ----------

func (ScatterBroadcast) Name() string { return "scatter" }

func (ScatterBroadcast) ID() int { return idScatterBroadcast }

// Prepare gives every rank a local A row block, a full B and a local C row
// block. The root additionally keeps its full A as the scatter source and
// the aggregate result as the gather target.
func (ScatterBroadcast) Prepare(rank int, plan partition.Plan, size int, a, b *matrix.Dense) (*Workspace, error) {
	ws, err := newWorkspace(rank, plan, size)
	if err != nil {
		return nil, err
	}
	block := ws.own.Len() * size
	ws.a = make([]int64, block)
	ws.c = make([]int64, block)
	if ws.root {
		ws.aFull = a.Data()
		ws.b = b.Data()
		if ws.result, err = matrix.NewDense(size, size); err != nil {
			return nil, err
		}
		return ws, nil
	}
	ws.b = make([]int64, size*size)

	return ws, nil
}

func (ScatterBroadcast) Exchange(ctx context.Context, c *comm.Comm, ws *Workspace) error {
	if err := c.Scatterv(ctx, ws.aFull, ws.counts, ws.displs, ws.a, comm.Root); err != nil {
		return fmt.Errorf("scatter A: %w", err)
	}
	if err := c.Bcast(ctx, ws.b, comm.Root); err != nil {
		return fmt.Errorf("broadcast B: %w", err)
	}

	n := ws.size
	matrix.MulFlat(ws.a, ws.own.Len(), n, ws.b, n, ws.c)

	var recv []int64
	if ws.root {
		recv = ws.result.Data()
	}
	if err := c.Gatherv(ctx, ws.c, recv, ws.counts, ws.displs, comm.Root); err != nil {
		return fmt.Errorf("gather C: %w", err)
	}

	return nil
}
