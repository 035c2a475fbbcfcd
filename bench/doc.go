// SPDX-License-Identifier: MIT

// Package bench is the harness around the multiply engines. It sweeps a
// list of matrix sizes, runs each size a number of timed trials with the
// selected variant, and writes timing lines and result matrices next to the
// operand files.
//
// Variants:
//
//	sequential   one goroutine, matrix.MulInto
//	forkjoin     a persistent goroutine pool, forkjoin.Multiply
//	distributed  a Coordinator and Workers-1 Participants (package distrib)
//	             over an in-process group or a websocket group
//
// Operand sources:
//
//	files   data/matrixA_<n>.txt and data/matrixB_<n>.txt
//	ones    all-ones operands, no files needed
//	random  seeded uniform operands, no files needed
//
// The harness also generates operand files (Generate, GeneratePair) and
// checks a stored result against the sequential kernel (Verify).
package bench
