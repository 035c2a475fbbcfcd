package local_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/katalvlaran/matbench/comm"
	"github.com/katalvlaran/matbench/comm/local"
	"github.com/stretchr/testify/require"
)

func TestNewGroup_InvalidSize(t *testing.T) {
	_, err := local.NewGroup(0)
	require.ErrorIs(t, err, comm.ErrRank)
}

func TestSendCopiesData(t *testing.T) {
	g, err := local.NewGroup(2)
	require.NoError(t, err)
	ctx := context.Background()

	data := []int64{1, 2, 3}
	require.NoError(t, g.Transport(0).Send(ctx, 1, comm.TagBcast, data))
	data[0] = 99

	tag, got, err := g.Transport(1).Recv(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, comm.TagBcast, tag)
	require.Equal(t, []int64{1, 2, 3}, got)
}

func TestPairOrderingIsFIFO(t *testing.T) {
	g, err := local.NewGroup(2)
	require.NoError(t, err)
	ctx := context.Background()
	for i := int64(0); i < 3; i++ {
		require.NoError(t, g.Transport(1).Send(ctx, 0, comm.TagGather, []int64{i}))
	}
	for i := int64(0); i < 3; i++ {
		_, got, err := g.Transport(0).Recv(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, []int64{i}, got)
	}
}

func TestAbortUnblocksRecv(t *testing.T) {
	g, err := local.NewGroup(2)
	require.NoError(t, err)
	cause := errors.New("input unavailable")

	done := make(chan error, 1)
	go func() {
		_, _, err := g.Transport(1).Recv(context.Background(), 0)
		done <- err
	}()
	g.Abort(cause)

	select {
	case err := <-done:
		require.ErrorIs(t, err, comm.ErrClosed)
		require.ErrorIs(t, err, cause)
	case <-time.After(5 * time.Second):
		t.Fatal("Recv still blocked after Abort")
	}
}

func TestRecvHonorsContext(t *testing.T) {
	g, err := local.NewGroup(2)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = g.Transport(0).Recv(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_SingleRank(t *testing.T) {
	var size int
	err := local.Run(context.Background(), 1, func(ctx context.Context, c *comm.Comm) error {
		size = c.Size()
		return c.Barrier(ctx)
	})
	require.NoError(t, err)
	require.Equal(t, 1, size)
}
