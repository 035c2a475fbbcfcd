// SPDX-License-Identifier: MIT

package comm

import (
	"context"
	"fmt"
)

// Root is the rank of the coordinator in every group.
const Root = 0

// Tag labels the collective a point-to-point message belongs to.
type Tag int64

const (
	TagControl Tag = iota + 1
	TagBcast
	TagScatter
	TagGather
	TagBarrier
)

// String returns a short name for logs and errors.
func (t Tag) String() string {
	switch t {
	case TagControl:
		return "control"
	case TagBcast:
		return "bcast"
	case TagScatter:
		return "scatter"
	case TagGather:
		return "gather"
	case TagBarrier:
		return "barrier"
	default:
		return fmt.Sprintf("tag(%d)", int64(t))
	}
}

// Transport moves tagged int64 vectors between two ranks of a fixed group.
//
// Messages between one (src, dst) pair are delivered in send order. Send must
// not retain data after it returns. Recv returns the next message from src
// regardless of its tag; tag checking belongs to the caller.
// Both calls block until completion, ctx cancellation, or transport failure.
type Transport interface {
	Rank() int
	Size() int
	Send(ctx context.Context, dst int, tag Tag, data []int64) error
	Recv(ctx context.Context, src int) (Tag, []int64, error)
	Close() error
}
