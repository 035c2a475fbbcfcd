// SPDX-License-Identifier: MIT

package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/matbench/comm"
	"github.com/katalvlaran/matbench/comm/local"
	"github.com/katalvlaran/matbench/comm/wsnet"
	"github.com/katalvlaran/matbench/distrib"
	"github.com/katalvlaran/matbench/forkjoin"
	"github.com/katalvlaran/matbench/internal/logx"
	"github.com/katalvlaran/matbench/matio"
	"github.com/katalvlaran/matbench/matrix"
	"github.com/katalvlaran/matbench/partition"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger (default discards everything).
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("bench: WithLogger: nil logger")
	}

	return func(r *Runner) { r.log = l }
}

// Runner executes one Config.
type Runner struct {
	cfg Config
	log *slog.Logger
}

// NewRunner validates cfg and returns a Runner for it.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	cfg.Sizes = append([]int(nil), cfg.Sizes...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg, log: logx.Discard()}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Config returns the validated configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run sweeps every size and returns the reported timings. For the
// websocket transport Run executes this process' rank only; participant
// ranks return no timings.
func (r *Runner) Run(ctx context.Context) ([]Timing, error) {
	r.log.Info("benchmark start", "variant", r.cfg.Variant, "sizes", r.cfg.Sizes,
		"trials", r.cfg.Trials, "source", r.cfg.Source, "host", Host())

	switch r.cfg.Variant {
	case VariantSequential:
		return r.runLocal(ctx, func(a, b, c *matrix.Dense) error { return matrix.MulInto(c, a, b) })
	case VariantForkJoin:
		pool := forkjoin.New(r.cfg.Workers)
		defer pool.Close()
		return r.runLocal(ctx, func(a, b, c *matrix.Dense) error { return forkjoin.Multiply(pool, a, b, c) })
	case VariantDistributed:
		if r.cfg.Transport == TransportWS {
			return r.runWebsocket(ctx)
		}
		return r.runGroup(ctx)
	default:
		return nil, fmt.Errorf("variant %q: %w", r.cfg.Variant, ErrConfig)
	}
}

func (r *Runner) newCollector() (*collector, error) {
	tw, err := matio.CreateTimingFile(matio.TimingPath(r.cfg.DataDir, r.cfg.Variant))
	if err != nil {
		return nil, fmt.Errorf("timing file: %w", err)
	}
	col := &collector{cfg: r.cfg, log: r.log, timings: tw}
	if r.cfg.Verify {
		col.verify = r.verifier()
	}

	return col, nil
}

// verifier recomputes each product sequentially from a fresh operand load.
func (r *Runner) verifier() func(int, *matrix.Dense) error {
	src, err := newSource(r.cfg)
	return func(size int, c *matrix.Dense) error {
		if err != nil {
			return err
		}
		a, b, lerr := src.Load(context.Background(), size)
		if lerr != nil {
			return lerr
		}
		if verr := Verify(a, b, c); verr != nil {
			return fmt.Errorf("size %d: %w", size, verr)
		}
		r.log.Debug("result verified", "size", size)
		return nil
	}
}

// runLocal times a single-process variant: mul writes a·b into c.
func (r *Runner) runLocal(ctx context.Context, mul func(a, b, c *matrix.Dense) error) (_ []Timing, err error) {
	src, err := newSource(r.cfg)
	if err != nil {
		return nil, err
	}
	col, err := r.newCollector()
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, col.timings.Close()) }()

	for _, size := range r.cfg.Sizes {
		a, b, err := src.Load(ctx, size)
		if err != nil {
			return nil, fmt.Errorf("size %d: %w: %w", size, distrib.ErrInputUnavailable, err)
		}
		c, err := matrix.NewDense(size, size)
		if err != nil {
			return nil, err
		}
		for t := 0; t < r.cfg.Trials; t++ {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
			start := time.Now()
			if err = mul(a, b, c); err != nil {
				return nil, fmt.Errorf("size %d: %w", size, err)
			}
			col.Record(size, time.Since(start))
		}
		if err = col.Result(size, c); err != nil {
			return nil, err
		}
	}

	return col.out, nil
}

func (r *Runner) distribOptions() []distrib.Option {
	s, _ := distrib.StrategyByName(r.cfg.Strategy) // checked by Validate
	p, _ := partition.ParsePolicy(r.cfg.Partition) // checked by Validate

	return []distrib.Option{distrib.WithStrategy(s), distrib.WithPolicy(p), distrib.WithLogger(r.log)}
}

// runGroup runs the distributed variant on an in-process group of Workers ranks.
func (r *Runner) runGroup(ctx context.Context) ([]Timing, error) {
	var (
		out     []Timing
		rootErr error
	)
	err := local.Run(ctx, r.cfg.Workers, func(ctx context.Context, c *comm.Comm) error {
		t, err := r.Serve(ctx, c)
		if c.IsRoot() {
			out, rootErr = t, err
		}
		return err
	})
	// The coordinator's error names the cause; participants only see the abort.
	if rootErr != nil {
		return nil, rootErr
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// runWebsocket joins the websocket group described by the environment and
// serves this rank.
func (r *Runner) runWebsocket(ctx context.Context) ([]Timing, error) {
	wcfg, err := wsnet.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	tr, err := wsnet.Open(ctx, wcfg)
	if err != nil {
		return nil, err
	}
	c := comm.New(tr)
	defer c.Close()
	r.log.Info("joined group", "rank", c.Rank(), "size", c.Size(), "addr", wcfg.Addr)

	return r.Serve(ctx, c)
}

// Serve runs this rank's role of the distributed variant on c: the
// coordinator at the root, a participant elsewhere.
func (r *Runner) Serve(ctx context.Context, c *comm.Comm) (_ []Timing, err error) {
	opts := r.distribOptions()
	if !c.IsRoot() {
		return nil, distrib.NewParticipant(opts...).Serve(ctx, c)
	}

	src, err := newSource(r.cfg)
	if err != nil {
		return nil, err
	}
	col, err := r.newCollector()
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, col.timings.Close()) }()

	co, err := distrib.NewCoordinator(src, col, r.cfg.Sizes, r.cfg.Trials, opts...)
	if err != nil {
		return nil, err
	}
	if err = co.Serve(ctx, c); err != nil {
		return nil, err
	}

	return col.out, nil
}
