// SPDX-License-Identifier: MIT
// Package matrix_test contains small deterministic fixtures shared by the
// package tests and benchmarks.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/matbench/matrix"
	"gonum.org/v1/gonum/mat"
)

// mustDense allocates an r×c zero matrix or fails the test.
func mustDense(tb testing.TB, r, c int) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		tb.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// mustRows builds a Dense from literal rows or fails the test.
func mustRows(tb testing.TB, rows [][]int64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.FromRows(rows)
	if err != nil {
		tb.Fatalf("FromRows: %v", err)
	}

	return m
}

// mustRandom returns a seeded r×c matrix with values in [-9, 10).
func mustRandom(tb testing.TB, r, c int, seed int64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.Random(matrix.NewRand(seed), r, c, -9, 10)
	if err != nil {
		tb.Fatalf("Random: %v", err)
	}

	return m
}

// gonumProduct computes a·b with gonum as an independent reference.
// Values stay far below 2^53, so the float64 round trip is exact.
func gonumProduct(a, b *matrix.Dense) []int64 {
	toF := func(m *matrix.Dense) *mat.Dense {
		f := make([]float64, len(m.Data()))
		for i, v := range m.Data() {
			f[i] = float64(v)
		}
		return mat.NewDense(m.Rows(), m.Cols(), f)
	}
	var c mat.Dense
	c.Mul(toF(a), toF(b))
	r, cc := c.Dims()
	out := make([]int64, 0, r*cc)
	for i := 0; i < r; i++ {
		for j := 0; j < cc; j++ {
			out = append(out, int64(c.At(i, j)))
		}
	}

	return out
}
