// SPDX-License-Identifier: MIT

package partition

import "errors"

var (
	// ErrInvalidSize is returned when the matrix dimension is not positive.
	ErrInvalidSize = errors.New("partition: size must be > 0")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("partition: worker count must be >= 1")

	// ErrUneven is returned under the Strict policy when size is not evenly
	// divisible by the worker count; computing the plan anyway would drop the
	// trailing size%workers rows.
	ErrUneven = errors.New("partition: size not divisible by worker count")

	// ErrUnknownPolicy is returned by ParsePolicy for an unrecognized name.
	ErrUnknownPolicy = errors.New("partition: unknown policy")
)
