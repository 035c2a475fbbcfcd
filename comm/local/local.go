// Package local runs a communication group inside one process: each rank is
// a goroutine and every ordered rank pair has its own FIFO mailbox.
//
// Messages are copied on Send, so ranks never observe each other's buffers;
// the group behaves like separate processes that only share the transport.
//
// Run is the usual entry point:
//
//	err := local.Run(ctx, 4, func(ctx context.Context, c *comm.Comm) error {
//	    // identical program on every rank; branch on c.Rank() for roles
//	})
//
// The first rank to fail cancels the shared context, which unblocks every
// pending Send/Recv in the group: no rank waits forever for a collective that
// will never be issued.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/katalvlaran/matbench/comm"
	"golang.org/x/sync/errgroup"
)

// mailboxDepth bounds the number of undelivered messages per rank pair.
const mailboxDepth = 4

type packet struct {
	tag  comm.Tag
	data []int64
}

// Group is an in-process communication group of fixed size.
type Group struct {
	size  int
	boxes [][]chan packet // boxes[src][dst]

	done      chan struct{}
	closeOnce sync.Once
	cause     error
}

// NewGroup creates a group with n ranks. n must be >= 1.
func NewGroup(n int) (*Group, error) {
	if n < 1 {
		return nil, fmt.Errorf("local.NewGroup(%d): %w", n, comm.ErrRank)
	}
	g := &Group{size: n, boxes: make([][]chan packet, n), done: make(chan struct{})}
	for src := range g.boxes {
		g.boxes[src] = make([]chan packet, n)
		for dst := range g.boxes[src] {
			g.boxes[src][dst] = make(chan packet, mailboxDepth)
		}
	}

	return g, nil
}

// Size returns the number of ranks.
func (g *Group) Size() int { return g.size }

// Transport returns the endpoint for rank r.
func (g *Group) Transport(r int) comm.Transport {
	return &endpoint{g: g, rank: r}
}

// Abort tears the group down: every blocked and future Send/Recv returns
// ErrClosed wrapping cause. Only the first call has an effect.
func (g *Group) Abort(cause error) {
	g.closeOnce.Do(func() {
		if cause == nil {
			cause = comm.ErrClosed
		}
		g.cause = cause
		close(g.done)
	})
}

func (g *Group) closedErr() error {
	if g.cause == comm.ErrClosed {
		return comm.ErrClosed
	}

	return fmt.Errorf("%w: %w", comm.ErrClosed, g.cause)
}

// Run creates a group of n ranks and runs fn once per rank, each in its own
// goroutine, returning the first error. On failure the remaining ranks are
// released through context cancellation and a group Abort.
func Run(ctx context.Context, n int, fn func(ctx context.Context, c *comm.Comm) error) error {
	g, err := NewGroup(n)
	if err != nil {
		return err
	}
	eg, gctx := errgroup.WithContext(ctx)
	for r := 0; r < n; r++ {
		eg.Go(func() error {
			c := comm.New(g.Transport(r))
			if err := fn(gctx, c); err != nil {
				g.Abort(err)
				return fmt.Errorf("rank %d: %w", r, err)
			}
			return nil
		})
	}
	err = eg.Wait()
	g.Abort(nil)

	return err
}

type endpoint struct {
	g    *Group
	rank int
}

func (e *endpoint) Rank() int { return e.rank }

func (e *endpoint) Size() int { return e.g.size }

func (e *endpoint) Send(ctx context.Context, dst int, tag comm.Tag, data []int64) error {
	if dst < 0 || dst >= e.g.size {
		return fmt.Errorf("send to %d: %w", dst, comm.ErrRank)
	}
	p := packet{tag: tag, data: append([]int64(nil), data...)}
	select {
	case e.g.boxes[e.rank][dst] <- p:
		return nil
	case <-e.g.done:
		return e.g.closedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *endpoint) Recv(ctx context.Context, src int) (comm.Tag, []int64, error) {
	if src < 0 || src >= e.g.size {
		return 0, nil, fmt.Errorf("recv from %d: %w", src, comm.ErrRank)
	}
	select {
	case p := <-e.g.boxes[src][e.rank]:
		return p.tag, p.data, nil
	case <-e.g.done:
		return 0, nil, e.g.closedErr()
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

// Close is a no-op for a single endpoint; the group is torn down by Abort.
func (e *endpoint) Close() error { return nil }
