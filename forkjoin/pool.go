// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0
//
// Pool, task, New, loop, NumWorkers and Close are adapted from go-highway's
// hwy/contrib/workerpool package. Dispatch and ParallelFor are matbench code.

package forkjoin

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/matbench/partition"
)

// Pool is a fixed set of worker goroutines fed through one channel.
// Dispatch and ParallelFor may be called from several goroutines; Close
// must not race with them.
type Pool struct {
	workers   int
	work      chan task
	closeOnce sync.Once
	closed    atomic.Bool
}

type task struct {
	fn   func()
	join *sync.WaitGroup
}

// New starts a pool of n workers. n <= 0 selects GOMAXPROCS.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{workers: n, work: make(chan task, n*2)}
	for range n {
		go p.loop()
	}

	return p
}

func (p *Pool) loop() {
	for t := range p.work {
		t.fn()
		t.join.Done()
	}
}

// NumWorkers returns the pool size.
func (p *Pool) NumWorkers() int { return p.workers }

// Close stops the workers after queued tasks finish. Safe to call twice.
// A closed pool still accepts calls and runs them on the caller's goroutine.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.work)
	})
}

// Dispatch runs fn once per non-empty range, one task per range, and blocks
// until every task has returned.
func (p *Pool) Dispatch(ranges []partition.Range, fn func(lo, hi int)) {
	if p.closed.Load() {
		for _, r := range ranges {
			if r.Len() > 0 {
				fn(r.Lo, r.Hi)
			}
		}
		return
	}

	var wg sync.WaitGroup
	for _, r := range ranges {
		if r.Len() <= 0 {
			continue
		}
		wg.Add(1)
		lo, hi := r.Lo, r.Hi
		p.work <- task{fn: func() { fn(lo, hi) }, join: &wg}
	}
	wg.Wait()
}

// ParallelFor splits [0, n) into at most NumWorkers contiguous chunks and
// runs fn on each through Dispatch.
func (p *Pool) ParallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := min(p.workers, n)
	if workers == 1 {
		fn(0, n)
		return
	}
	plan, err := partition.New(n, workers, partition.WithPolicy(partition.Remainder))
	if err != nil {
		// unreachable: n > 0 and workers >= 1
		fn(0, n)
		return
	}
	p.Dispatch(plan, fn)
}
