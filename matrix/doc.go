// SPDX-License-Identifier: MIT

// Package matrix provides the dense integer matrix and the local multiply
// kernel shared by every execution variant of matbench.
//
// What & Why:
//
//	Dense stores rows×cols int64 values in one flat, row-major slice. The same
//	layout is used on the wire by the distributed engine, so a contiguous range
//	of rows is always a contiguous sub-slice of Data(). Scatter and gather can
//	therefore move row blocks without repacking.
//
// Kernel:
//
//	MulFlat is the single compute routine: C′ = A′·B′ over flat buffers. The
//	sequential product (Mul), the fork-join variant (MulRowsInto on disjoint row
//	ranges) and every distributed worker call it with different bounds; the
//	algorithm never changes.
//
// Errors:
//
//	Public constructors and indexers return sentinel errors (see errors.go).
//	The kernel itself never fails: callers validate shapes first with
//	ValidateMulCompatible. Integer overflow of the accumulation is not checked.
//
// Complexity:
//
//	Mul is O(m·n·p) time and O(m·p) space for the result.
package matrix
