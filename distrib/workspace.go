package distrib

import (
	"fmt"

	"github.com/katalvlaran/matbench/comm"
	"github.com/katalvlaran/matbench/matrix"
	"github.com/katalvlaran/matbench/partition"
)

// Workspace holds one rank's buffers for one matrix size. It is built once
// per size and reused by every trial; the result buffer is overwritten each
// trial.
type Workspace struct {
	rank   int
	root   bool
	size   int
	plan   partition.Plan
	own    partition.Range
	counts []int // elements per rank for row-block scatter/gather
	displs []int // offset of each rank's row block in a full matrix

	a, b   []int64 // operand data as seen by this rank
	aFull  []int64 // root only: scatter source
	c      []int64 // this rank's result rows
	result *matrix.Dense
}

func newWorkspace(rank int, plan partition.Plan, size int) (*Workspace, error) {
	if rank < 0 || rank >= len(plan) {
		return nil, fmt.Errorf("workspace rank %d, plan of %d: %w", rank, len(plan), comm.ErrRank)
	}
	if !plan.Covers(size) {
		return nil, fmt.Errorf("plan %v does not cover %d rows: %w", plan, size, ErrProtocol)
	}

	return &Workspace{
		rank:   rank,
		root:   rank == comm.Root,
		size:   size,
		plan:   plan,
		own:    plan[rank],
		counts: plan.Counts(size),
		displs: plan.Displs(size),
	}, nil
}

// Size returns the matrix dimension.
func (w *Workspace) Size() int { return w.size }

// Plan returns the row partition shared by all ranks.
func (w *Workspace) Plan() partition.Plan { return w.plan }

// Own returns the rows computed by this rank.
func (w *Workspace) Own() partition.Range { return w.own }

// Result returns the aggregate product at the root after a trial, nil elsewhere.
func (w *Workspace) Result() *matrix.Dense { return w.result }

// Local returns this rank's computed rows (row-major, Own().Len() rows).
func (w *Workspace) Local() []int64 { return w.c }
