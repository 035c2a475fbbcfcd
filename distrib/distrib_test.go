package distrib_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/matbench/comm"
	"github.com/katalvlaran/matbench/comm/local"
	"github.com/katalvlaran/matbench/comm/wsnet"
	"github.com/katalvlaran/matbench/distrib"
	"github.com/katalvlaran/matbench/matrix"
	"github.com/katalvlaran/matbench/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func mustRows(t *testing.T, rows [][]int64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)
	return m
}

func mustRandom(t *testing.T, n int, seed int64) *matrix.Dense {
	t.Helper()
	m, err := matrix.Random(matrix.NewRand(seed), n, n, -9, 10)
	require.NoError(t, err)
	return m
}

// runRanks runs fn on every rank of a fresh local group and returns each
// rank's error. Unlike local.Run it never tears the group down early, so a
// participant always sees the coordinator's last frame.
func runRanks(t *testing.T, n int, fn func(ctx context.Context, c *comm.Comm) error) []error {
	t.Helper()
	g, err := local.NewGroup(n)
	require.NoError(t, err)
	ctx := testCtx(t)

	errs := make([]error, n)
	var wg sync.WaitGroup
	for r := 0; r < n; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[r] = fn(ctx, comm.New(g.Transport(r)))
		}()
	}
	wg.Wait()

	return errs
}

// multiply runs distrib.Multiply on n ranks and returns the root's product.
func multiply(t *testing.T, n int, a, b *matrix.Dense, opts ...distrib.Option) *matrix.Dense {
	t.Helper()
	var got *matrix.Dense
	err := local.Run(testCtx(t), n, func(ctx context.Context, c *comm.Comm) error {
		var ra, rb *matrix.Dense
		if c.IsRoot() {
			ra, rb = a, b
		}
		res, err := distrib.Multiply(ctx, c, ra, rb, opts...)
		if err != nil {
			return err
		}
		if c.IsRoot() {
			got = res
		} else if res != nil {
			return errors.New("non-root received a result")
		}
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	return got
}

func TestMultiply_Square2x2(t *testing.T) {
	a := mustRows(t, [][]int64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]int64{{5, 6}, {7, 8}})
	want := []int64{19, 22, 43, 50}

	for _, s := range distrib.Strategies() {
		for _, n := range []int{1, 2} {
			t.Run(fmt.Sprintf("%s/%d", s.Name(), n), func(t *testing.T) {
				got := multiply(t, n, a, b, distrib.WithStrategy(s))
				assert.Equal(t, want, got.Data())
			})
		}
	}
}

func TestMultiply_MatchesLocalKernel(t *testing.T) {
	const size = 12
	a, b := mustRandom(t, size, 3), mustRandom(t, size, 4)
	want, err := matrix.Mul(a, b)
	require.NoError(t, err)

	for _, s := range distrib.Strategies() {
		for _, n := range []int{1, 2, 3, 4, 6, 12} {
			t.Run(fmt.Sprintf("%s/%d", s.Name(), n), func(t *testing.T) {
				got := multiply(t, n, a, b, distrib.WithStrategy(s))
				assert.True(t, want.Equal(got), "got\n%v want\n%v", got, want)
			})
		}
	}
}

func TestMultiply_RemainderPolicy(t *testing.T) {
	a, b := mustRandom(t, 7, 5), mustRandom(t, 7, 6)
	want, err := matrix.Mul(a, b)
	require.NoError(t, err)

	for _, s := range distrib.Strategies() {
		// 9 ranks > 7 rows: the last two ranks own nothing.
		for _, n := range []int{2, 3, 4, 9} {
			t.Run(fmt.Sprintf("%s/%d", s.Name(), n), func(t *testing.T) {
				got := multiply(t, n, a, b, distrib.WithStrategy(s), distrib.WithPolicy(partition.Remainder))
				assert.True(t, want.Equal(got))
			})
		}
	}
}

func TestMultiply_StrictUnevenAbortsEveryRank(t *testing.T) {
	a, b := mustRandom(t, 5, 1), mustRandom(t, 5, 2)
	errs := runRanks(t, 2, func(ctx context.Context, c *comm.Comm) error {
		_, err := distrib.Multiply(ctx, c, a, b)
		return err
	})

	require.ErrorIs(t, errs[0], partition.ErrUneven)
	require.ErrorIs(t, errs[1], distrib.ErrAborted)
	require.ErrorIs(t, errs[1], partition.ErrUneven)
}

func TestMultiply_ShapeMismatchAbortsEveryRank(t *testing.T) {
	a := mustRows(t, [][]int64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	// Repeating the call must fail the same way each time.
	for i := 0; i < 2; i++ {
		errs := runRanks(t, 2, func(ctx context.Context, c *comm.Comm) error {
			_, err := distrib.Multiply(ctx, c, a, b)
			return err
		})
		require.ErrorIs(t, errs[0], matrix.ErrDimensionMismatch)
		require.ErrorIs(t, errs[1], distrib.ErrAborted)
		require.ErrorIs(t, errs[1], matrix.ErrDimensionMismatch)
	}
}

func TestMultiply_NonSquareOrNilReportsSameSentinelOnEveryRank(t *testing.T) {
	rect := mustRows(t, [][]int64{{1, 2, 3}, {4, 5, 6}})
	sq := mustRandom(t, 2, 3)
	cases := map[string]struct {
		a, b  *matrix.Dense
		cause error
	}{
		"non-square A": {a: rect, b: sq, cause: matrix.ErrNonSquare},
		"non-square B": {a: sq, b: rect, cause: matrix.ErrNonSquare},
		"nil A":        {a: nil, b: sq, cause: matrix.ErrNilMatrix},
		"nil B":        {a: sq, b: nil, cause: matrix.ErrNilMatrix},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			errs := runRanks(t, 3, func(ctx context.Context, c *comm.Comm) error {
				_, err := distrib.Multiply(ctx, c, tc.a, tc.b)
				return err
			})
			require.ErrorIs(t, errs[0], tc.cause)
			for r, err := range errs {
				require.ErrorIs(t, err, matrix.ErrDimensionMismatch, "rank %d", r)
			}
			for _, err := range errs[1:] {
				require.ErrorIs(t, err, distrib.ErrAborted)
			}
		})
	}
}

func TestCoordinator_SourceFailureAbortsEveryRank(t *testing.T) {
	boom := errors.New("disk on fire")
	src := distrib.SourceFunc(func(context.Context, int) (*matrix.Dense, *matrix.Dense, error) {
		return nil, nil, boom
	})

	errs := runRanks(t, 3, func(ctx context.Context, c *comm.Comm) error {
		if c.IsRoot() {
			co, err := distrib.NewCoordinator(src, &recorder{}, []int{4}, 2)
			if err != nil {
				return err
			}
			return co.Serve(ctx, c)
		}
		return distrib.NewParticipant().Serve(ctx, c)
	})

	require.ErrorIs(t, errs[0], distrib.ErrInputUnavailable)
	require.ErrorIs(t, errs[0], boom)
	for r := 1; r < 3; r++ {
		require.ErrorIs(t, errs[r], distrib.ErrAborted, "rank %d", r)
		require.ErrorIs(t, errs[r], distrib.ErrInputUnavailable, "rank %d", r)
	}
}

type recorder struct {
	mu      sync.Mutex
	timings map[int]int
	results map[int]*matrix.Dense
	failOn  int
}

func (r *recorder) Record(size int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timings == nil {
		r.timings = map[int]int{}
	}
	r.timings[size]++
}

func (r *recorder) Result(size int, c *matrix.Dense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if size == r.failOn {
		return errors.New("sink full")
	}
	if r.results == nil {
		r.results = map[int]*matrix.Dense{}
	}
	r.results[size] = c.Clone()
	return nil
}

func TestCoordinator_MultipleSizesAndTrials(t *testing.T) {
	sizes := []int{2, 4, 8}
	operands := map[int][2]*matrix.Dense{}
	for i, n := range sizes {
		operands[n] = [2]*matrix.Dense{mustRandom(t, n, int64(10+i)), mustRandom(t, n, int64(20+i))}
	}
	src := distrib.SourceFunc(func(_ context.Context, n int) (*matrix.Dense, *matrix.Dense, error) {
		ab := operands[n]
		return ab[0], ab[1], nil
	})

	for _, s := range distrib.Strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			rec := &recorder{}
			err := local.Run(testCtx(t), 2, func(ctx context.Context, c *comm.Comm) error {
				if c.IsRoot() {
					co, err := distrib.NewCoordinator(src, rec, sizes, 3, distrib.WithStrategy(s))
					if err != nil {
						return err
					}
					return co.Serve(ctx, c)
				}
				return distrib.NewParticipant().Serve(ctx, c)
			})
			require.NoError(t, err)

			for _, n := range sizes {
				assert.Equal(t, 3, rec.timings[n], "trials recorded for size %d", n)
				want, err := matrix.Mul(operands[n][0], operands[n][1])
				require.NoError(t, err)
				assert.True(t, want.Equal(rec.results[n]), "size %d", n)
			}
		})
	}
}

func TestCoordinator_ResultSinkFailureAbortsParticipants(t *testing.T) {
	src := distrib.SourceFunc(func(_ context.Context, n int) (*matrix.Dense, *matrix.Dense, error) {
		a, err := matrix.Filled(n, n, 1)
		return a, a, err
	})
	rec := &recorder{failOn: 4}

	errs := runRanks(t, 2, func(ctx context.Context, c *comm.Comm) error {
		if c.IsRoot() {
			co, err := distrib.NewCoordinator(src, rec, []int{2, 4, 8}, 1)
			if err != nil {
				return err
			}
			return co.Serve(ctx, c)
		}
		return distrib.NewParticipant().Serve(ctx, c)
	})

	require.Error(t, errs[0])
	require.ErrorIs(t, errs[1], distrib.ErrAborted)
	assert.Equal(t, 1, rec.timings[2])
	assert.Equal(t, 1, rec.timings[4])
	assert.Zero(t, rec.timings[8], "no size after the failing one runs")
}

func TestRoles_WrongRank(t *testing.T) {
	src := distrib.SourceFunc(func(context.Context, int) (*matrix.Dense, *matrix.Dense, error) { return nil, nil, nil })
	errs := runRanks(t, 2, func(ctx context.Context, c *comm.Comm) error {
		if c.IsRoot() {
			return distrib.NewParticipant().Serve(ctx, c)
		}
		co, err := distrib.NewCoordinator(src, &recorder{}, []int{2}, 1)
		if err != nil {
			return err
		}
		return co.Serve(ctx, c)
	})
	require.ErrorIs(t, errs[0], distrib.ErrRole)
	require.ErrorIs(t, errs[1], distrib.ErrRole)
}

func TestRoles_Capabilities(t *testing.T) {
	src := distrib.SourceFunc(func(context.Context, int) (*matrix.Dense, *matrix.Dense, error) { return nil, nil, nil })
	co, err := distrib.NewCoordinator(src, &recorder{}, []int{2}, 1)
	require.NoError(t, err)
	p := distrib.NewParticipant()

	assert.Equal(t, "coordinator", co.Name())
	assert.True(t, co.CanPerformIO())
	assert.True(t, co.OwnsAggregate())
	assert.Equal(t, "participant", p.Name())
	assert.False(t, p.CanPerformIO())
	assert.False(t, p.OwnsAggregate())
}

func TestNewCoordinator_Validation(t *testing.T) {
	src := distrib.SourceFunc(func(context.Context, int) (*matrix.Dense, *matrix.Dense, error) { return nil, nil, nil })

	_, err := distrib.NewCoordinator(nil, &recorder{}, []int{2}, 1)
	require.ErrorIs(t, err, distrib.ErrRole)
	_, err = distrib.NewCoordinator(src, &recorder{}, []int{2}, 0)
	require.ErrorIs(t, err, distrib.ErrProtocol)
	_, err = distrib.NewCoordinator(src, &recorder{}, []int{2, 0}, 1)
	require.ErrorIs(t, err, partition.ErrInvalidSize)
}

func TestStrategyLookup(t *testing.T) {
	s, err := distrib.StrategyByName(" Scatter ")
	require.NoError(t, err)
	assert.Equal(t, "scatter", s.Name())

	s, err = distrib.StrategyByID(s.ID())
	require.NoError(t, err)
	assert.Equal(t, distrib.ScatterBroadcast{}, s)

	_, err = distrib.StrategyByName("ring")
	require.ErrorIs(t, err, distrib.ErrUnknownStrategy)
	_, err = distrib.StrategyByID(99)
	require.ErrorIs(t, err, distrib.ErrUnknownStrategy)
}

func TestOptions_PanicOnProgrammerError(t *testing.T) {
	assert.Panics(t, func() { distrib.WithStrategy(nil) })
	assert.Panics(t, func() { distrib.WithLogger(nil) })
	assert.PanicsWithValue(t, "distrib: WithPolicy: unknown policy", func() { distrib.WithPolicy(partition.Policy(42)) })
	assert.NotPanics(t, func() { distrib.WithPolicy(partition.Remainder) })
}

func TestWorkspace_RowOwnership(t *testing.T) {
	plan, err := partition.New(6, 3)
	require.NoError(t, err)
	for _, s := range distrib.Strategies() {
		ws, err := s.Prepare(2, plan, 6, nil, nil)
		require.NoError(t, err, s.Name())
		assert.Equal(t, partition.Range{Lo: 4, Hi: 6}, ws.Own())
		assert.Len(t, ws.Local(), 2*6)
		assert.Nil(t, ws.Result(), "non-root has no aggregate")
		assert.Equal(t, 6, ws.Size())
	}

	_, err = distrib.BroadcastBoth{}.Prepare(3, plan, 6, nil, nil)
	require.ErrorIs(t, err, comm.ErrRank)
	_, err = distrib.ScatterBroadcast{}.Prepare(0, plan, 7, nil, nil)
	require.ErrorIs(t, err, distrib.ErrProtocol)
}

func TestMultiply_OverWebsocket(t *testing.T) {
	const ranks, size = 3, 6
	a, b := mustRandom(t, size, 8), mustRandom(t, size, 9)
	want, err := matrix.Mul(a, b)
	require.NoError(t, err)

	ctx := testCtx(t)
	srv, err := wsnet.Listen(wsnet.Config{Rank: comm.Root, Size: ranks, Addr: "127.0.0.1:0"})
	require.NoError(t, err)

	var got *matrix.Dense
	eg, ectx := errgroup.WithContext(ctx)
	for r := 0; r < ranks; r++ {
		eg.Go(func() error {
			var (
				tr  *wsnet.Transport
				err error
			)
			if r == comm.Root {
				tr, err = srv.Accept(ectx)
			} else {
				tr, err = wsnet.Dial(ectx, wsnet.Config{Rank: r, Size: ranks, Addr: srv.Addr()})
			}
			if err != nil {
				return err
			}
			c := comm.New(tr)
			defer c.Close()

			res, err := distrib.Multiply(ectx, c, a, b, distrib.WithStrategy(distrib.BroadcastBoth{}))
			if r == comm.Root {
				got = res
			}
			return err
		})
	}
	require.NoError(t, eg.Wait())
	assert.True(t, want.Equal(got))
}
