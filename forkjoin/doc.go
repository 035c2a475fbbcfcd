// SPDX-License-Identifier: MIT

// Package forkjoin is the shared-memory variant of the product: one process,
// a persistent pool of worker goroutines, and a join barrier per call.
//
// The pool is created once and reused across sizes and trials, so a trial
// costs one dispatch per worker instead of one goroutine spawn per row:
//
//	pool := forkjoin.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//	for trial := range trials {
//	    if err := forkjoin.Multiply(pool, a, b, c); err != nil { ... }
//	}
//
// Rows of the result are split with the partition planner under the
// Remainder policy, so any size runs on any worker count. Every worker
// writes a disjoint row block of the shared result; no locking is needed.
package forkjoin
