package bench

import (
	"fmt"
	"time"

	"github.com/katalvlaran/matbench/matio"
	"github.com/katalvlaran/matbench/matrix"
)

// Verify recomputes a·b with the sequential kernel and compares it with
// result. A different shape or any differing cell yields ErrMismatch; the
// first differing cell is named in the error.
func Verify(a, b, result *matrix.Dense) error {
	want, err := matrix.Mul(a, b)
	if err != nil {
		return fmt.Errorf("bench.Verify: %w", err)
	}
	if result == nil || result.Rows() != want.Rows() || result.Cols() != want.Cols() {
		got := "nil"
		if result != nil {
			got = fmt.Sprintf("%dx%d", result.Rows(), result.Cols())
		}
		return fmt.Errorf("bench.Verify: result is %s, want %dx%d: %w", got, want.Rows(), want.Cols(), ErrMismatch)
	}
	w, g := want.Data(), result.Data()
	for i := range w {
		if w[i] != g[i] {
			r, c := i/want.Cols(), i%want.Cols()
			return fmt.Errorf("bench.Verify: cell (%d,%d) = %d, want %d: %w", r, c, g[i], w[i], ErrMismatch)
		}
	}

	return nil
}

// VerifyFiles checks a result file against two headed operand files.
func VerifyFiles(aPath, bPath, resultPath string) error {
	a, err := matio.ReadMatrixFile(aPath)
	if err != nil {
		return err
	}
	b, err := matio.ReadMatrixFile(bPath)
	if err != nil {
		return err
	}
	res, err := matio.ReadRowsFile(resultPath)
	if err != nil {
		return err
	}

	return Verify(a, b, res)
}

// MultiplyFiles reads two headed operand files, multiplies them with the
// sequential kernel and writes the product in the result layout. The
// returned duration covers the product only.
func MultiplyFiles(aPath, bPath, outPath string) (time.Duration, error) {
	a, err := matio.ReadMatrixFile(aPath)
	if err != nil {
		return 0, err
	}
	b, err := matio.ReadMatrixFile(bPath)
	if err != nil {
		return 0, err
	}
	if err = matrix.ValidateMulCompatible(a, b); err != nil {
		return 0, fmt.Errorf("bench.MultiplyFiles: %w", err)
	}
	start := time.Now()
	c, err := matrix.Mul(a, b)
	elapsed := time.Since(start)
	if err != nil {
		return 0, err
	}

	return elapsed, matio.WriteMatrixFile(outPath, c)
}
