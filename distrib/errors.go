// SPDX-License-Identifier: MIT

package distrib

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/matbench/matrix"
	"github.com/katalvlaran/matbench/partition"
)

var (
	// ErrInputUnavailable wraps any failure of the coordinator's Source.
	ErrInputUnavailable = errors.New("distrib: input unavailable")

	// ErrAborted is returned on participants when the coordinator aborted the run.
	ErrAborted = errors.New("distrib: run aborted by coordinator")

	// ErrProtocol is returned for a malformed or unexpected control frame.
	ErrProtocol = errors.New("distrib: protocol violation")

	// ErrUnknownStrategy is returned for an unrecognized strategy name or id.
	ErrUnknownStrategy = errors.New("distrib: unknown strategy")

	// ErrRole is returned when a role is served on the wrong rank.
	ErrRole = errors.New("distrib: role does not match rank")

	// errInternal is the participant-side cause for coordinator failures that
	// are not part of the input taxonomy (e.g. the result sink failed).
	errInternal = errors.New("distrib: coordinator failure")
)

// abortCode is carried in abort control frames.
type abortCode int64

const (
	codeNone abortCode = iota
	codeInput
	codeShape
	codePartition
	codeInternal
)

// classify maps a coordinator-side fatal error to its abort code.
func classify(err error) abortCode {
	switch {
	case errors.Is(err, ErrInputUnavailable):
		return codeInput
	case errors.Is(err, matrix.ErrDimensionMismatch),
		errors.Is(err, matrix.ErrNonSquare),
		errors.Is(err, matrix.ErrNilMatrix):
		return codeShape
	case errors.Is(err, partition.ErrUneven):
		return codePartition
	default:
		return codeInternal
	}
}

// abortError is what a participant returns after receiving an abort frame.
func abortError(code abortCode) error {
	var cause error
	switch code {
	case codeInput:
		cause = ErrInputUnavailable
	case codeShape:
		cause = matrix.ErrDimensionMismatch
	case codePartition:
		cause = partition.ErrUneven
	case codeInternal:
		cause = errInternal
	default:
		return fmt.Errorf("abort code %d: %w", code, ErrProtocol)
	}

	return fmt.Errorf("%w: %w", ErrAborted, cause)
}
