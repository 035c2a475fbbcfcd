// SPDX-License-Identifier: MIT

package partition

import (
	"fmt"
	"strings"
)

// Policy decides what New does when size % workers != 0.
type Policy int

const (
	// Strict rejects uneven configurations with ErrUneven.
	Strict Policy = iota
	// Remainder hands one extra row to each of the first size%workers ranks.
	Remainder
)

// DefaultPolicy is used when no WithPolicy option is given.
const DefaultPolicy = Strict

const panicPolicyInvalid = "partition: WithPolicy: unknown policy"

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Remainder:
		return "remainder"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps "strict" or "remainder" (case-insensitive) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "remainder":
		return Remainder, nil
	default:
		return 0, fmt.Errorf("ParsePolicy(%q): %w", s, ErrUnknownPolicy)
	}
}

// Option configures New.
type Option func(*options)

type options struct {
	policy Policy
}

// WithPolicy selects the uneven-size policy.
// Panics on a value that is neither Strict nor Remainder (programmer error).
func WithPolicy(p Policy) Option {
	if p != Strict && p != Remainder {
		panic(panicPolicyInvalid)
	}

	return func(o *options) { o.policy = p }
}

func gatherOptions(opts ...Option) options {
	o := options{policy: DefaultPolicy}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
