// SPDX-License-Identifier: MIT

package matrix

const (
	opMul         = "Mul"
	opMulRowsInto = "MulRowsInto"
)

// MulFlat computes c = a·b over flat row-major buffers.
//
//	a is m×n (len ≥ m*n), b is n×p (len ≥ n*p), c is m×p (len ≥ m*p).
//
// c is overwritten, so a reused result buffer needs no zeroing between trials.
// The loop order is i-k-j: the innermost loop walks one row of b and one row
// of c sequentially, which keeps both streams contiguous.
//
// MulFlat never fails and does not validate: the caller guarantees the shape
// contract. Integer overflow of the accumulation is not checked.
// Complexity: O(m·n·p).
func MulFlat(a []int64, m, n int, b []int64, p int, c []int64) {
	var (
		i, k, j    int
		av         int64
		rowA, rowC []int64
		rowB       []int64
	)
	for i = 0; i < m; i++ {
		rowA = a[i*n : (i+1)*n]
		rowC = c[i*p : (i+1)*p]
		clear(rowC)
		for k = 0; k < n; k++ {
			av = rowA[k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowB = b[k*p : (k+1)*p]
			for j = 0; j < p; j++ {
				rowC[j] += av * rowB[j]
			}
		}
	}
}

// MulRowsInto writes rows [lo, hi) of a·b into the same rows of dst.
// Rows of dst outside [lo, hi) are left untouched, so disjoint ranges can be
// computed concurrently into one shared dst without locking.
//
// Preconditions (not re-checked here, see ValidateMulCompatible and
// ValidateProductShape): a.Cols == b.Rows, dst is a.Rows × b.Cols,
// 0 ≤ lo ≤ hi ≤ a.Rows.
func MulRowsInto(dst, a, b *Dense, lo, hi int) {
	if lo >= hi {
		return
	}
	MulFlat(a.RowBlock(lo, hi), hi-lo, a.c, b.data, b.c, dst.RowBlock(lo, hi))
}

// Mul returns the product a·b as a new a.Rows × b.Cols matrix.
// Rectangular operands are supported; a.Cols must equal b.Rows.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (wrapped with "Mul").
// Complexity: O(m·n·p) time, O(m·p) space.
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	MulFlat(a.data, a.r, a.c, b.data, b.c, res.data)

	return res, nil
}

// MulInto computes a·b into an existing dst, overwriting it.
// It is the validated form of MulRowsInto over the full row range.
func MulInto(dst, a, b *Dense) error {
	if err := ValidateMulCompatible(a, b); err != nil {
		return matrixErrorf(opMulRowsInto, err)
	}
	if err := ValidateProductShape(dst, a, b); err != nil {
		return matrixErrorf(opMulRowsInto, err)
	}
	MulRowsInto(dst, a, b, 0, a.r)

	return nil
}
