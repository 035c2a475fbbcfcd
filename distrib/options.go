// SPDX-License-Identifier: MIT

package distrib

import (
	"log/slog"

	"github.com/katalvlaran/matbench/partition"
)

const (
	panicNilStrategy = "distrib: WithStrategy: nil strategy"
	panicNilLogger   = "distrib: WithLogger: nil logger"
	panicBadPolicy   = "distrib: WithPolicy: unknown policy"
)

// Option configures a Coordinator, a Participant or Multiply.
// Participants ignore strategy and policy: they take both from the
// coordinator's control frames.
type Option func(*options)

type options struct {
	strategy Strategy
	policy   partition.Policy
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		strategy: ScatterBroadcast{},
		policy:   partition.DefaultPolicy,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithStrategy selects the data distribution strategy (default ScatterBroadcast).
func WithStrategy(s Strategy) Option {
	if s == nil {
		panic(panicNilStrategy)
	}

	return func(o *options) { o.strategy = s }
}

// WithPolicy selects the uneven-size partition policy (default Strict).
func WithPolicy(p partition.Policy) Option {
	if p != partition.Strict && p != partition.Remainder {
		panic(panicBadPolicy)
	}

	return func(o *options) { o.policy = p }
}

// WithLogger sets the structured logger (default discards everything).
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *options) { o.logger = l }
}

func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
