package partition_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/matbench/partition"
	"github.com/stretchr/testify/require"
)

func TestNew_EvenSplit(t *testing.T) {
	p, err := partition.New(8, 4)
	require.NoError(t, err)
	want := partition.Plan{{0, 2}, {2, 4}, {4, 6}, {6, 8}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_CoverageProperty(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 4, 8} {
		for size := workers; size <= 64; size += workers {
			t.Run(fmt.Sprintf("size=%d/workers=%d", size, workers), func(t *testing.T) {
				p, err := partition.New(size, workers)
				require.NoError(t, err)
				require.Len(t, p, workers)
				require.True(t, p.Covers(size))
				require.Equal(t, size, p.Rows())
				for row := 0; row < size; row++ {
					owner := p.Owner(row)
					require.GreaterOrEqual(t, owner, 0)
					require.Equal(t, row/(size/workers), owner)
				}
			})
		}
	}
}

func TestNew_OneRowPerWorker(t *testing.T) {
	p, err := partition.New(4, 4)
	require.NoError(t, err)
	for r, rg := range p {
		require.Equal(t, partition.Range{Lo: r, Hi: r + 1}, rg)
	}
}

func TestNew_StrictRejectsUneven(t *testing.T) {
	_, err := partition.New(10, 4)
	require.ErrorIs(t, err, partition.ErrUneven)

	_, err = partition.New(2, 4, partition.WithPolicy(partition.Strict))
	require.ErrorIs(t, err, partition.ErrUneven)
}

func TestNew_RemainderCoversEveryRow(t *testing.T) {
	p, err := partition.New(10, 4, partition.WithPolicy(partition.Remainder))
	require.NoError(t, err)
	require.Equal(t, partition.Plan{{0, 3}, {3, 6}, {6, 8}, {8, 10}}, p)
	require.True(t, p.Covers(10))

	// more workers than rows: trailing ranks own empty ranges
	p, err = partition.New(2, 4, partition.WithPolicy(partition.Remainder))
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 0, 0}, lens(p))
	require.True(t, p.Covers(2))

	for size := 1; size <= 40; size++ {
		for workers := 1; workers <= 9; workers++ {
			p, err := partition.New(size, workers, partition.WithPolicy(partition.Remainder))
			require.NoError(t, err)
			require.True(t, p.Covers(size), "size=%d workers=%d plan=%v", size, workers, p)
		}
	}
}

func TestNew_InvalidInput(t *testing.T) {
	_, err := partition.New(0, 1)
	require.ErrorIs(t, err, partition.ErrInvalidSize)
	_, err = partition.New(4, 0)
	require.ErrorIs(t, err, partition.ErrInvalidWorkers)
}

func TestPlan_CountsDispls(t *testing.T) {
	p, err := partition.New(5, 2, partition.WithPolicy(partition.Remainder))
	require.NoError(t, err)
	require.Equal(t, []int{15, 10}, p.Counts(5))
	require.Equal(t, []int{0, 15}, p.Displs(5))
	require.Equal(t, -1, p.Owner(5))
}

func TestPlan_CoversDetectsGapsAndOverlaps(t *testing.T) {
	require.False(t, partition.Plan{{0, 2}, {3, 4}}.Covers(4))
	require.False(t, partition.Plan{{0, 2}, {1, 4}}.Covers(4))
	require.False(t, partition.Plan{{0, 2}, {2, 3}}.Covers(4))
}

func TestParsePolicy(t *testing.T) {
	p, err := partition.ParsePolicy("Remainder")
	require.NoError(t, err)
	require.Equal(t, partition.Remainder, p)
	require.Equal(t, "remainder", p.String())

	p, err = partition.ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, partition.Strict, p)

	_, err = partition.ParsePolicy("truncate")
	require.ErrorIs(t, err, partition.ErrUnknownPolicy)

	require.Panics(t, func() { partition.WithPolicy(partition.Policy(7)) })
}

func lens(p partition.Plan) []int {
	out := make([]int, len(p))
	for i, r := range p {
		out[i] = r.Len()
	}
	return out
}
