// Package distrib is the partitioned distributed multiply engine.
//
// A group of ranks (see package comm) cooperates on C = A·B for square
// operands. Rows of the result are split by a partition.Plan; each rank runs
// the matrix kernel on its own rows only.
//
// Roles:
//
//	Coordinator (rank 0) loads operands, validates them, drives the protocol
//	and owns the aggregate result. Participant ranks perform no I/O: every
//	parameter they need (size, trial count, partition policy, strategy)
//	arrives in a control frame broadcast by the coordinator. Roles are fixed
//	for the lifetime of the run.
//
// Protocol, per matrix size:
//
//	control{run, size, trials, policy, strategy}   root → all
//	trials × (exchange operands → compute → gather → barrier)
//	...
//	control{done}                                   root → all
//
// When the coordinator hits a fatal input condition (operands unavailable,
// shape mismatch, uneven partition under the strict policy) it broadcasts
// control{abort, code} before any data collective, so participants return
// an error that wraps ErrAborted and the matching sentinel instead of
// blocking in a collective that will never be issued.
//
// Strategies:
//
//	BroadcastBoth     every rank receives all of A and B, computes its rows,
//	                  root gathers in place.
//	ScatterBroadcast  A is scattered by row block, B is broadcast, result row
//	                  blocks are gathered in the same layout.
//
// Both strategies produce identical results for identical inputs.
package distrib
