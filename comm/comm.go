// SPDX-License-Identifier: MIT

package comm

import (
	"context"
	"fmt"
)

// Comm runs collectives for one rank on top of a Transport.
// A Comm is used by a single goroutine; collectives are not reentrant.
type Comm struct {
	t Transport
}

// New wraps a transport.
func New(t Transport) *Comm { return &Comm{t: t} }

// Rank returns this process' rank in [0, Size).
func (c *Comm) Rank() int { return c.t.Rank() }

// Size returns the number of ranks in the group.
func (c *Comm) Size() int { return c.t.Size() }

// IsRoot reports whether this rank is Root.
func (c *Comm) IsRoot() bool { return c.t.Rank() == Root }

// Close releases the underlying transport.
func (c *Comm) Close() error { return c.t.Close() }

// Send is a tagged point-to-point send to dst.
func (c *Comm) Send(ctx context.Context, dst int, tag Tag, data []int64) error {
	if err := c.checkRank(dst); err != nil {
		return err
	}

	return c.t.Send(ctx, dst, tag, data)
}

// RecvInto receives the next message from src, checks its tag, and copies
// it into buf, whose length must match the message exactly.
func (c *Comm) RecvInto(ctx context.Context, src int, tag Tag, buf []int64) error {
	if err := c.checkRank(src); err != nil {
		return err
	}
	got, data, err := c.t.Recv(ctx, src)
	if err != nil {
		return err
	}
	if got != tag {
		return fmt.Errorf("recv from %d: got %s, want %s: %w", src, got, tag, ErrTag)
	}
	if len(data) != len(buf) {
		return fmt.Errorf("recv %s from %d: %d values into buffer of %d: %w", tag, src, len(data), len(buf), ErrCount)
	}
	copy(buf, data)

	return nil
}

// Bcast copies buf from root to every rank. On non-root ranks buf must
// already have the root's length and is overwritten.
func (c *Comm) Bcast(ctx context.Context, buf []int64, root int) error {
	return c.bcast(ctx, TagBcast, buf, root)
}

// BcastControl is Bcast on the control tag, used for protocol frames so a
// desynchronized rank fails with ErrTag instead of misreading operand data.
func (c *Comm) BcastControl(ctx context.Context, frame []int64, root int) error {
	return c.bcast(ctx, TagControl, frame, root)
}

func (c *Comm) bcast(ctx context.Context, tag Tag, buf []int64, root int) error {
	if err := c.checkRank(root); err != nil {
		return err
	}
	if c.Rank() != root {
		if err := c.RecvInto(ctx, root, tag, buf); err != nil {
			return fmt.Errorf("Bcast: %w", err)
		}
		return nil
	}
	for r := 0; r < c.Size(); r++ {
		if r == root {
			continue
		}
		if err := c.t.Send(ctx, r, tag, buf); err != nil {
			return fmt.Errorf("Bcast to %d: %w", r, err)
		}
	}

	return nil
}

// Scatterv delivers send[displs[r] : displs[r]+counts[r]] into recv on
// rank r. send and displs are significant at root only; nil displs packs
// the pieces back to back in rank order (see Displacements).
// len(recv) must equal counts[Rank()] on every rank.
func (c *Comm) Scatterv(ctx context.Context, send []int64, counts, displs []int, recv []int64, root int) error {
	if err := c.checkCounts(counts, root); err != nil {
		return fmt.Errorf("Scatterv: %w", err)
	}
	if len(recv) != counts[c.Rank()] {
		return fmt.Errorf("Scatterv: len(recv)=%d, counts[%d]=%d: %w", len(recv), c.Rank(), counts[c.Rank()], ErrCount)
	}
	if c.Rank() != root {
		if err := c.RecvInto(ctx, root, TagScatter, recv); err != nil {
			return fmt.Errorf("Scatterv: %w", err)
		}
		return nil
	}

	displs, err := layout(counts, displs, len(send))
	if err != nil {
		return fmt.Errorf("Scatterv: send: %w", err)
	}
	for r := 0; r < c.Size(); r++ {
		piece := send[displs[r] : displs[r]+counts[r]]
		if r == root {
			copy(recv, piece)
			continue
		}
		if err := c.t.Send(ctx, r, TagScatter, piece); err != nil {
			return fmt.Errorf("Scatterv to %d: %w", r, err)
		}
	}

	return nil
}

// Gatherv collects counts[r] elements from every rank r into
// recv[displs[r] : displs[r]+counts[r]] at root. recv and displs are
// ignored elsewhere; nil displs packs the pieces in rank order.
//
// At root, a nil send selects the in-place form: root's own piece is
// assumed to be already in place inside recv.
func (c *Comm) Gatherv(ctx context.Context, send []int64, recv []int64, counts, displs []int, root int) error {
	if err := c.checkCounts(counts, root); err != nil {
		return fmt.Errorf("Gatherv: %w", err)
	}
	if c.Rank() != root {
		if len(send) != counts[c.Rank()] {
			return fmt.Errorf("Gatherv: len(send)=%d, counts[%d]=%d: %w", len(send), c.Rank(), counts[c.Rank()], ErrCount)
		}
		if err := c.t.Send(ctx, root, TagGather, send); err != nil {
			return fmt.Errorf("Gatherv to %d: %w", root, err)
		}
		return nil
	}

	displs, err := layout(counts, displs, len(recv))
	if err != nil {
		return fmt.Errorf("Gatherv: recv: %w", err)
	}
	for r := 0; r < c.Size(); r++ {
		piece := recv[displs[r] : displs[r]+counts[r]]
		if r == root {
			if send != nil {
				if len(send) != counts[r] {
					return fmt.Errorf("Gatherv: root len(send)=%d, counts=%d: %w", len(send), counts[r], ErrCount)
				}
				copy(piece, send)
			}
			continue
		}
		if err := c.RecvInto(ctx, r, TagGather, piece); err != nil {
			return fmt.Errorf("Gatherv: %w", err)
		}
	}

	return nil
}

// Barrier returns once every rank has entered it: non-roots check in with
// the root, and the root releases them after all have arrived.
func (c *Comm) Barrier(ctx context.Context) error {
	if c.Rank() != Root {
		if err := c.t.Send(ctx, Root, TagBarrier, nil); err != nil {
			return fmt.Errorf("Barrier: %w", err)
		}
		if err := c.RecvInto(ctx, Root, TagBarrier, nil); err != nil {
			return fmt.Errorf("Barrier: %w", err)
		}
		return nil
	}
	for r := 1; r < c.Size(); r++ {
		if err := c.RecvInto(ctx, r, TagBarrier, nil); err != nil {
			return fmt.Errorf("Barrier: %w", err)
		}
	}
	for r := 1; r < c.Size(); r++ {
		if err := c.t.Send(ctx, r, TagBarrier, nil); err != nil {
			return fmt.Errorf("Barrier release %d: %w", r, err)
		}
	}

	return nil
}

func (c *Comm) checkRank(r int) error {
	if r < 0 || r >= c.Size() {
		return fmt.Errorf("rank %d of %d: %w", r, c.Size(), ErrRank)
	}

	return nil
}

func (c *Comm) checkCounts(counts []int, root int) error {
	if err := c.checkRank(root); err != nil {
		return err
	}
	if len(counts) != c.Size() {
		return fmt.Errorf("len(counts)=%d, size=%d: %w", len(counts), c.Size(), ErrCount)
	}
	for r, n := range counts {
		if n < 0 {
			return fmt.Errorf("counts[%d]=%d: %w", r, n, ErrCount)
		}
	}

	return nil
}

// Displacements returns the exclusive prefix sums of counts: the offset of
// each rank's piece when pieces are packed back to back in rank order.
func Displacements(counts []int) []int {
	displs := make([]int, len(counts))
	off := 0
	for i, n := range counts {
		displs[i] = off
		off += n
	}

	return displs
}

// layout returns the displacements to use over a buffer of n elements,
// packing when displs is nil, and checks every piece fits.
func layout(counts, displs []int, n int) ([]int, error) {
	if displs == nil {
		displs = Displacements(counts)
	}
	if len(displs) != len(counts) {
		return nil, fmt.Errorf("len(displs)=%d, len(counts)=%d: %w", len(displs), len(counts), ErrCount)
	}
	for r, off := range displs {
		if off < 0 || off+counts[r] > n {
			return nil, fmt.Errorf("piece %d [%d, %d) outside len %d: %w", r, off, off+counts[r], n, ErrCount)
		}
	}

	return displs, nil
}
