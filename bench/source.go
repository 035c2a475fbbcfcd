package bench

import (
	"context"
	"fmt"

	"github.com/katalvlaran/matbench/distrib"
	"github.com/katalvlaran/matbench/matio"
	"github.com/katalvlaran/matbench/matrix"
)

// newSource returns the operand source named by cfg.Source.
func newSource(cfg Config) (distrib.Source, error) {
	switch cfg.Source {
	case SourceFiles:
		return distrib.SourceFunc(func(_ context.Context, size int) (*matrix.Dense, *matrix.Dense, error) {
			return loadOperands(cfg.DataDir, size)
		}), nil
	case SourceOnes:
		return distrib.SourceFunc(func(_ context.Context, size int) (*matrix.Dense, *matrix.Dense, error) {
			a, err := matrix.Filled(size, size, 1)
			if err != nil {
				return nil, nil, err
			}
			return a, a.Clone(), nil
		}), nil
	case SourceRandom:
		return distrib.SourceFunc(func(_ context.Context, size int) (*matrix.Dense, *matrix.Dense, error) {
			return randomOperands(cfg.Seed, size, RandomMin, RandomMax)
		}), nil
	default:
		return nil, fmt.Errorf("source %q: %w", cfg.Source, ErrConfig)
	}
}

func loadOperands(dir string, size int) (*matrix.Dense, *matrix.Dense, error) {
	a, err := matio.ReadSquareFile(matio.OperandPath(dir, matio.OperandA, size), size)
	if err != nil {
		return nil, nil, err
	}
	b, err := matio.ReadSquareFile(matio.OperandPath(dir, matio.OperandB, size), size)
	if err != nil {
		return nil, nil, err
	}

	return a, b, nil
}

// randomOperands derives one generator per size from seed, so a size's
// operands do not depend on which other sizes are generated.
func randomOperands(seed int64, size int, lo, hi int64) (*matrix.Dense, *matrix.Dense, error) {
	rng := matrix.NewRand(seed*1_000_003 + int64(size))
	a, err := matrix.Random(rng, size, size, lo, hi)
	if err != nil {
		return nil, nil, err
	}
	b, err := matrix.Random(rng, size, size, lo, hi)
	if err != nil {
		return nil, nil, err
	}

	return a, b, nil
}
