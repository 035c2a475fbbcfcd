package forkjoin

import (
	"fmt"

	"github.com/katalvlaran/matbench/matrix"
)

// Multiply writes a·b into dst, splitting the rows of dst across the pool.
// Operands may be rectangular; dst must be a.Rows × b.Cols and is fully
// overwritten.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch.
func Multiply(p *Pool, a, b, dst *matrix.Dense) error {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return fmt.Errorf("forkjoin.Multiply: %w", err)
	}
	if err := matrix.ValidateProductShape(dst, a, b); err != nil {
		return fmt.Errorf("forkjoin.Multiply: %w", err)
	}
	p.ParallelFor(a.Rows(), func(lo, hi int) {
		matrix.MulRowsInto(dst, a, b, lo, hi)
	})

	return nil
}

// Mul is Multiply into a freshly allocated result.
func Mul(p *Pool, a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("forkjoin.Mul: %w", err)
	}
	dst, err := matrix.NewDense(a.Rows(), b.Cols())
	if err != nil {
		return nil, fmt.Errorf("forkjoin.Mul: %w", err)
	}
	if err = Multiply(p, a, b, dst); err != nil {
		return nil, err
	}

	return dst, nil
}
