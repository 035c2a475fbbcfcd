// Package partition plans how the rows of a square product are split across
// a fixed group of workers.
//
// A Plan assigns each worker rank r one contiguous, half-open row range
// [Lo, Hi). Ranges are ordered by rank, never overlap and, together, cover
// [0, size) exactly once.
//
// Uneven sizes:
//
//	When size is not divisible by the worker count, the behavior is an explicit
//	Policy instead of a silent truncation:
//
//	  - Strict (default): reject with ErrUneven.
//	  - Remainder: the first size%workers ranks receive one extra row.
//
// Counts and Displs translate a Plan into per-rank element counts and offsets
// for scatter/gather of row blocks of a given width.
package partition
