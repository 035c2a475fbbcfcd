// SPDX-License-Identifier: MIT

package distrib

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/matbench/comm"
	"github.com/katalvlaran/matbench/matrix"
	"github.com/katalvlaran/matbench/partition"
)

// Source supplies the operands for one matrix size. Only the coordinator
// calls it.
type Source interface {
	Load(ctx context.Context, size int) (a, b *matrix.Dense, err error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, size int) (*matrix.Dense, *matrix.Dense, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context, size int) (*matrix.Dense, *matrix.Dense, error) {
	return f(ctx, size)
}

// Recorder receives the coordinator's observations: one elapsed duration per
// trial, and the final product once all trials of a size are done.
type Recorder interface {
	Record(size int, elapsed time.Duration)
	Result(size int, c *matrix.Dense) error
}

// Role is the behavior of one rank for the whole run. Both roles execute the
// same trial (strategy exchange, local kernel, gather, barrier); they differ
// only in I/O and in ownership of the aggregate buffers.
type Role interface {
	Name() string
	// CanPerformIO reports whether the role loads operands and emits results.
	CanPerformIO() bool
	// OwnsAggregate reports whether the role holds the full operands before
	// distribution and the full result after collection.
	OwnsAggregate() bool
	// RunTrial runs one distribute → compute → gather round and waits at the
	// closing barrier, so no rank starts the next trial early.
	RunTrial(ctx context.Context, c *comm.Comm, ws *Workspace) error
	// Serve runs the role until the run completes or fails.
	Serve(ctx context.Context, c *comm.Comm) error
}

// member is the part shared by both roles.
type member struct {
	opts options
}

func (m member) RunTrial(ctx context.Context, c *comm.Comm, ws *Workspace) error {
	if err := m.opts.strategy.Exchange(ctx, c, ws); err != nil {
		return err
	}
	if err := c.Barrier(ctx); err != nil {
		return fmt.Errorf("trial ack: %w", err)
	}

	return nil
}

// ---------- Coordinator ----------

// Coordinator is the rank-0 role.
type Coordinator struct {
	member
	source Source
	rec    Recorder
	sizes  []int
	trials int
}

var _ Role = (*Coordinator)(nil)

// NewCoordinator builds the root role for the given sizes and trial count.
func NewCoordinator(src Source, rec Recorder, sizes []int, trials int, opts ...Option) (*Coordinator, error) {
	if src == nil || rec == nil {
		return nil, fmt.Errorf("NewCoordinator: nil source or recorder: %w", ErrRole)
	}
	if trials < 1 {
		return nil, fmt.Errorf("NewCoordinator: trials=%d: %w", trials, ErrProtocol)
	}
	for _, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("NewCoordinator: size=%d: %w", s, partition.ErrInvalidSize)
		}
	}

	return &Coordinator{
		member: member{opts: gatherOptions(opts...)},
		source: src,
		rec:    rec,
		sizes:  append([]int(nil), sizes...),
		trials: trials,
	}, nil
}

func (*Coordinator) Name() string { return "coordinator" }

func (*Coordinator) CanPerformIO() bool { return true }

func (*Coordinator) OwnsAggregate() bool { return true }

// Serve runs every configured size. A fatal input condition is broadcast as
// an abort frame before it is returned, so participants never wait on a
// collective that will not come.
func (co *Coordinator) Serve(ctx context.Context, c *comm.Comm) error {
	if !c.IsRoot() {
		return fmt.Errorf("coordinator on rank %d: %w", c.Rank(), ErrRole)
	}
	log := co.opts.logger.With("role", co.Name(), "ranks", c.Size(), "strategy", co.opts.strategy.Name())

	for _, size := range co.sizes {
		ws, err := co.prepare(ctx, c, size)
		if err != nil {
			log.Error("aborting run", "size", size, "err", err)
			return co.abort(ctx, c, err)
		}
		run := control{
			op:       opRun,
			size:     size,
			trials:   co.trials,
			policy:   co.opts.policy,
			strategy: co.opts.strategy.ID(),
		}
		if err = sendControl(ctx, c, run); err != nil {
			return fmt.Errorf("size %d: %w", size, err)
		}
		log.Info("running size", "size", size, "trials", co.trials)

		for t := 0; t < co.trials; t++ {
			start := time.Now()
			if err = co.RunTrial(ctx, c, ws); err != nil {
				return fmt.Errorf("size %d trial %d: %w", size, t, err)
			}
			elapsed := time.Since(start)
			co.rec.Record(size, elapsed)
			log.Debug("trial done", "size", size, "trial", t, "elapsed", elapsed)
		}

		if err = co.rec.Result(size, ws.Result()); err != nil {
			log.Error("result sink failed", "size", size, "err", err)
			return co.abort(ctx, c, err)
		}
	}

	return sendControl(ctx, c, control{op: opDone})
}

// prepare loads and validates the operands of one size and plans its rows.
func (co *Coordinator) prepare(ctx context.Context, c *comm.Comm, size int) (*Workspace, error) {
	a, b, err := co.source.Load(ctx, size)
	if err != nil {
		return nil, fmt.Errorf("size %d: %w: %w", size, ErrInputUnavailable, err)
	}
	if err = validateOperands(a, b, size); err != nil {
		return nil, fmt.Errorf("size %d: %w", size, err)
	}
	plan, err := partition.New(size, c.Size(), partition.WithPolicy(co.opts.policy))
	if err != nil {
		return nil, fmt.Errorf("size %d: %w", size, err)
	}

	return co.opts.strategy.Prepare(c.Rank(), plan, size, a, b)
}

func (co *Coordinator) abort(ctx context.Context, c *comm.Comm, cause error) error {
	if err := sendControl(ctx, c, control{op: opAbort, code: classify(cause)}); err != nil {
		return errors.Join(cause, fmt.Errorf("broadcasting abort: %w", err))
	}

	return cause
}

// validateOperands enforces the distributed engine's shape contract:
// both operands size×size. Every failure matches ErrDimensionMismatch, the
// sentinel participants receive, and keeps the specific cause as well.
func validateOperands(a, b *matrix.Dense, size int) error {
	if err := matrix.ValidateSquare(a); err != nil {
		return fmt.Errorf("operand A: %w: %w", matrix.ErrDimensionMismatch, err)
	}
	if err := matrix.ValidateSquare(b); err != nil {
		return fmt.Errorf("operand B: %w: %w", matrix.ErrDimensionMismatch, err)
	}
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return err
	}
	if a.Rows() != size {
		return fmt.Errorf("operands are %dx%d, want %dx%d: %w", a.Rows(), a.Cols(), size, size, matrix.ErrDimensionMismatch)
	}

	return nil
}

// ---------- Participant ----------

// Participant is the role of every non-root rank.
type Participant struct {
	member
}

var _ Role = (*Participant)(nil)

// NewParticipant builds a non-root role. Only WithLogger is meaningful.
func NewParticipant(opts ...Option) *Participant {
	return &Participant{member: member{opts: gatherOptions(opts...)}}
}

func (*Participant) Name() string { return "participant" }

func (*Participant) CanPerformIO() bool { return false }

func (*Participant) OwnsAggregate() bool { return false }

// Serve follows the coordinator's control frames until done or abort.
func (p *Participant) Serve(ctx context.Context, c *comm.Comm) error {
	if c.IsRoot() {
		return fmt.Errorf("participant on root: %w", ErrRole)
	}
	log := p.opts.logger.With("role", p.Name(), "rank", c.Rank())

	for {
		f, err := recvControl(ctx, c)
		if err != nil {
			return err
		}
		switch f.op {
		case opDone:
			log.Debug("run complete")
			return nil
		case opAbort:
			err = abortError(f.code)
			log.Debug("run aborted", "err", err)
			return err
		}

		if err = p.runSize(ctx, c, f); err != nil {
			return fmt.Errorf("size %d: %w", f.size, err)
		}
		log.Debug("size done", "size", f.size, "trials", f.trials)
	}
}

func (p *Participant) runSize(ctx context.Context, c *comm.Comm, f control) error {
	strategy, err := StrategyByID(f.strategy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	plan, err := partition.New(f.size, c.Size(), partition.WithPolicy(f.policy))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	ws, err := strategy.Prepare(c.Rank(), plan, f.size, nil, nil)
	if err != nil {
		return err
	}
	p.opts.strategy = strategy
	for t := 0; t < f.trials; t++ {
		if err = p.RunTrial(ctx, c, ws); err != nil {
			return fmt.Errorf("trial %d: %w", t, err)
		}
	}

	return nil
}
