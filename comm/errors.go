// SPDX-License-Identifier: MIT

package comm

import "errors"

var (
	// ErrRank is returned for a rank outside [0, Size).
	ErrRank = errors.New("comm: rank out of range")

	// ErrCount is returned when buffer lengths disagree with the declared counts,
	// or a received message does not fit the receive buffer.
	ErrCount = errors.New("comm: count mismatch")

	// ErrTag is returned when the next message from a peer carries a different
	// tag than the collective expects, i.e. ranks entered different collectives.
	ErrTag = errors.New("comm: unexpected message tag")

	// ErrClosed is returned by transports after Close or after the group aborted.
	ErrClosed = errors.New("comm: transport closed")

	// ErrNoRoute is returned by star transports for a pair of non-root ranks.
	ErrNoRoute = errors.New("comm: no route between ranks")
)
