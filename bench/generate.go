package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/matbench/matio"
	"github.com/katalvlaran/matbench/matrix"
)

// Generate writes a random operand pair for every size into dir, named the
// way the files source expects. Values are uniform in [lo, hi). Sizes are
// written concurrently; each size draws from its own seeded generator, so
// the output does not depend on scheduling.
func Generate(ctx context.Context, dir string, sizes []int, seed, lo, hi int64) error {
	if lo >= hi {
		return fmt.Errorf("bench.Generate: range [%d,%d): %w", lo, hi, ErrConfig)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, size := range sizes {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, b, err := randomOperands(seed, size, lo, hi)
			if err != nil {
				return fmt.Errorf("bench.Generate(%d): %w", size, err)
			}
			if err = matio.WriteHeadedFile(matio.OperandPath(dir, matio.OperandA, size), a); err != nil {
				return err
			}
			return matio.WriteHeadedFile(matio.OperandPath(dir, matio.OperandB, size), b)
		})
	}

	return eg.Wait()
}

// Pair file names used by GeneratePair and the multiply command.
const (
	PairA      = "matrixA.txt"
	PairB      = "matrixB.txt"
	PairResult = "resultMatrix.txt"
)

// GeneratePair writes a rowsA×colsA and a rowsB×colsB operand into dir plus
// an empty result file. When colsA != rowsB the product would be undefined,
// so colsA is set to rowsB and adjusted reports it.
func GeneratePair(dir string, rowsA, colsA, rowsB, colsB int, seed, lo, hi int64) (adjusted bool, err error) {
	if colsA != rowsB {
		colsA, adjusted = rowsB, true
	}
	rng := matrix.NewRand(seed)
	a, err := matrix.Random(rng, rowsA, colsA, lo, hi)
	if err != nil {
		return adjusted, fmt.Errorf("bench.GeneratePair A: %w", err)
	}
	b, err := matrix.Random(rng, rowsB, colsB, lo, hi)
	if err != nil {
		return adjusted, fmt.Errorf("bench.GeneratePair B: %w", err)
	}
	if err = matio.WriteHeadedFile(filepath.Join(dir, PairA), a); err != nil {
		return adjusted, err
	}
	if err = matio.WriteHeadedFile(filepath.Join(dir, PairB), b); err != nil {
		return adjusted, err
	}

	return adjusted, os.WriteFile(filepath.Join(dir, PairResult), nil, 0o644)
}
