package forkjoin_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/matbench/forkjoin"
	"github.com/katalvlaran/matbench/matrix"
	"github.com/katalvlaran/matbench/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRandom(t testing.TB, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	m, err := matrix.Random(matrix.NewRand(seed), r, c, -9, 10)
	require.NoError(t, err)
	return m
}

func TestNew_DefaultsToGOMAXPROCS(t *testing.T) {
	p := forkjoin.New(0)
	defer p.Close()
	assert.Positive(t, p.NumWorkers())

	q := forkjoin.New(3)
	defer q.Close()
	assert.Equal(t, 3, q.NumWorkers())
}

func TestParallelFor_CoversEveryIndexOnce(t *testing.T) {
	p := forkjoin.New(4)
	defer p.Close()

	for _, n := range []int{0, 1, 3, 4, 5, 17, 100} {
		hits := make([]int32, n)
		p.ParallelFor(n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			require.EqualValues(t, 1, h, "n=%d index %d", n, i)
		}
	}
}

func TestDispatch_SkipsEmptyRangesAndJoins(t *testing.T) {
	p := forkjoin.New(2)
	defer p.Close()

	var (
		mu   sync.Mutex
		seen []partition.Range
	)
	ranges := []partition.Range{{Lo: 0, Hi: 2}, {Lo: 2, Hi: 2}, {Lo: 2, Hi: 5}}
	p.Dispatch(ranges, func(lo, hi int) {
		mu.Lock()
		seen = append(seen, partition.Range{Lo: lo, Hi: hi})
		mu.Unlock()
	})
	assert.ElementsMatch(t, []partition.Range{{Lo: 0, Hi: 2}, {Lo: 2, Hi: 5}}, seen)
}

func TestClosedPool_RunsInline(t *testing.T) {
	p := forkjoin.New(2)
	p.Close()
	p.Close()

	var total int
	p.ParallelFor(10, func(lo, hi int) { total += hi - lo })
	assert.Equal(t, 10, total)
}

func TestMultiply_MatchesSequentialKernel(t *testing.T) {
	shapes := []struct{ m, n, k int }{{1, 1, 1}, {2, 2, 2}, {7, 7, 7}, {16, 16, 16}, {5, 3, 9}}
	for _, workers := range []int{1, 2, 3, 8} {
		p := forkjoin.New(workers)
		for i, s := range shapes {
			t.Run(fmt.Sprintf("w%d/%dx%dx%d", workers, s.m, s.n, s.k), func(t *testing.T) {
				a := mustRandom(t, s.m, s.n, int64(2*i+1))
				b := mustRandom(t, s.n, s.k, int64(2*i+2))
				want, err := matrix.Mul(a, b)
				require.NoError(t, err)

				got, err := forkjoin.Mul(p, a, b)
				require.NoError(t, err)
				assert.True(t, want.Equal(got))
			})
		}
		p.Close()
	}
}

func TestMultiply_OverwritesAcrossTrials(t *testing.T) {
	p := forkjoin.New(3)
	defer p.Close()

	a := mustRandom(t, 6, 6, 1)
	b := mustRandom(t, 6, 6, 2)
	dst, err := matrix.Filled(6, 6, 99)
	require.NoError(t, err)
	want, err := matrix.Mul(a, b)
	require.NoError(t, err)

	for trial := 0; trial < 3; trial++ {
		require.NoError(t, forkjoin.Multiply(p, a, b, dst))
		require.True(t, want.Equal(dst), "trial %d", trial)
	}
}

func TestMultiply_ShapeErrors(t *testing.T) {
	p := forkjoin.New(2)
	defer p.Close()

	a := mustRandom(t, 2, 3, 1)
	b := mustRandom(t, 2, 2, 2)
	_, err := forkjoin.Mul(p, a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = forkjoin.Mul(p, nil, b)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	dst, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	sq := mustRandom(t, 2, 2, 3)
	require.ErrorIs(t, forkjoin.Multiply(p, sq, sq, dst), matrix.ErrDimensionMismatch)
}

func BenchmarkMultiply(b *testing.B) {
	for _, n := range []int{64, 256} {
		a := mustRandom(b, n, n, 1)
		bb := mustRandom(b, n, n, 2)
		dst, err := matrix.NewDense(n, n)
		require.NoError(b, err)
		p := forkjoin.New(0)
		b.Run(fmt.Sprintf("%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = forkjoin.Multiply(p, a, bb, dst)
			}
		})
		p.Close()
	}
}
