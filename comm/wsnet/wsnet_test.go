package wsnet

import (
	"context"
	"testing"
	"time"

	"github.com/katalvlaran/matbench/comm"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestFrame_RejectsTruncated(t *testing.T) {
	buf := encodeFrame(1, comm.TagGather, []int64{5, -6})
	f, err := decodeFrame(buf)
	require.NoError(t, err)
	require.Equal(t, frame{src: 1, tag: comm.TagGather, data: []int64{5, -6}}, f)

	_, err = decodeFrame(buf[:len(buf)-8])
	require.ErrorIs(t, err, errFrame)
	_, err = decodeFrame(buf[:5])
	require.ErrorIs(t, err, errFrame)
}

func TestConfigFromLookup(t *testing.T) {
	env := map[string]string{EnvRank: "2", EnvSize: "4", EnvAddr: "10.0.0.1:9000"}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	cfg, err := configFromLookup(lookup)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Rank)
	require.Equal(t, 4, cfg.Size)
	require.Equal(t, "10.0.0.1:9000", cfg.Addr)
	require.Equal(t, DefaultPath, cfg.Path)

	env[EnvRank] = "4"
	_, err = configFromLookup(lookup)
	require.ErrorIs(t, err, ErrConfig)

	delete(env, EnvSize)
	_, err = configFromLookup(lookup)
	require.ErrorIs(t, err, ErrConfig)
}

func TestGroupOverLoopback(t *testing.T) {
	const size = 3
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv, err := Listen(Config{Rank: comm.Root, Size: size, Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	addr := srv.Addr()

	results := make([][]int64, size)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		tr, err := srv.Accept(ectx)
		if err != nil {
			return err
		}
		c := comm.New(tr)
		defer c.Close()
		buf := []int64{4, 5, 6}
		if err := c.Bcast(ectx, buf, comm.Root); err != nil {
			return err
		}
		out := make([]int64, size)
		out[0] = 40
		if err := c.Gatherv(ectx, nil, out, []int{1, 1, 1}, nil, comm.Root); err != nil {
			return err
		}
		results[0] = out
		return c.Barrier(ectx)
	})
	for r := 1; r < size; r++ {
		eg.Go(func() error {
			tr, err := Dial(ectx, Config{Rank: r, Size: size, Addr: addr})
			if err != nil {
				return err
			}
			c := comm.New(tr)
			defer c.Close()
			buf := make([]int64, 3)
			if err := c.Bcast(ectx, buf, comm.Root); err != nil {
				return err
			}
			if err := c.Gatherv(ectx, []int64{buf[r] * 10}, nil, []int{1, 1, 1}, nil, comm.Root); err != nil {
				return err
			}
			return c.Barrier(ectx)
		})
	}
	require.NoError(t, eg.Wait())
	require.Equal(t, []int64{40, 50, 60}, results[0])
}

func TestNoRouteBetweenParticipants(t *testing.T) {
	tr := &Transport{rank: 1, size: 3, peers: make([]*peer, 3)}
	err := tr.Send(context.Background(), 2, comm.TagBcast, nil)
	require.ErrorIs(t, err, comm.ErrNoRoute)
}
