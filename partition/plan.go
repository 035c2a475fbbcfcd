// SPDX-License-Identifier: MIT

package partition

import (
	"fmt"

	"github.com/samber/lo"
)

// Range is a half-open row interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of rows in the range.
func (r Range) Len() int { return r.Hi - r.Lo }

// Contains reports whether row lies in [Lo, Hi).
func (r Range) Contains(row int) bool { return row >= r.Lo && row < r.Hi }

// Plan holds one Range per worker rank, indexed by rank.
type Plan []Range

// New computes the row partition of a size×size product across workers.
//
// Rank r owns [r*q + min(r, rem), (r+1)*q + min(r+1, rem)) where
// q = size/workers and rem = size%workers; rem is 0 under Strict, which
// reduces to the even split [r*q, (r+1)*q).
//
// Errors: ErrInvalidSize, ErrInvalidWorkers, ErrUneven (Strict only).
// Complexity: O(workers).
func New(size, workers int, opts ...Option) (Plan, error) {
	if size <= 0 {
		return nil, fmt.Errorf("partition.New(size=%d): %w", size, ErrInvalidSize)
	}
	if workers < 1 {
		return nil, fmt.Errorf("partition.New(workers=%d): %w", workers, ErrInvalidWorkers)
	}
	o := gatherOptions(opts...)

	q, rem := size/workers, size%workers
	if rem != 0 && o.policy == Strict {
		return nil, fmt.Errorf("partition.New(size=%d, workers=%d): %w", size, workers, ErrUneven)
	}

	plan := make(Plan, workers)
	lo := 0
	for r := range plan {
		n := q
		if r < rem {
			n++
		}
		plan[r] = Range{Lo: lo, Hi: lo + n}
		lo += n
	}

	return plan, nil
}

// Counts returns, per rank, the number of elements in its row block when
// each row holds width elements.
func (p Plan) Counts(width int) []int {
	return lo.Map(p, func(r Range, _ int) int { return r.Len() * width })
}

// Displs returns, per rank, the element offset of its row block in a
// row-major buffer whose rows hold width elements.
func (p Plan) Displs(width int) []int {
	return lo.Map(p, func(r Range, _ int) int { return r.Lo * width })
}

// Rows returns the total number of rows covered by the plan.
func (p Plan) Rows() int {
	return lo.SumBy(p, func(r Range) int { return r.Len() })
}

// Owner returns the rank owning row, or -1 when no rank does.
func (p Plan) Owner(row int) int {
	_, idx, ok := lo.FindIndexOf(p, func(r Range) bool { return r.Contains(row) })
	if !ok {
		return -1
	}

	return idx
}

// Covers reports whether the ranges tile [0, size) in rank order with no
// gaps or overlaps.
func (p Plan) Covers(size int) bool {
	next := 0
	for _, r := range p {
		if r.Lo != next || r.Hi < r.Lo {
			return false
		}
		next = r.Hi
	}

	return next == size
}
