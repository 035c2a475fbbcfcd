// SPDX-License-Identifier: MIT

// Package matio reads and writes the whitespace-separated text files that
// carry operands, results and timings between the benchmark runs and the
// tools around them.
//
// Three matrix layouts exist on disk:
//
//   - headed: a "rows cols" line, then rows*cols integers (generator output).
//   - square: exactly size*size integers and no header (operands of the
//     size sweeps). A leading "size size" header is tolerated.
//   - result: one row per line, each value followed by a single space.
//
// Timing files hold one "<size> <seconds>" line per record.
package matio
