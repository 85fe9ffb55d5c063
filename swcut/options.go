// SPDX-License-Identifier: MIT

package swcut

import (
	"math/rand"

	"go.uber.org/zap"
)

// Default sampler settings.
const (
	DefaultIterations = 1000
	DefaultKeepBest   = true
)

// Option configures a SW sampler. Constructors panic on meaningless values.
type Option func(*options)

type options struct {
	iterations int
	rng        *rand.Rand
	keepBest   bool
	logger     *zap.Logger
}

func defaultOptions() options {
	return options{
		iterations: DefaultIterations,
		keepBest:   DefaultKeepBest,
		logger:     zap.NewNop(),
	}
}

// WithIterations sets the number of SW-cut proposals per Sample call.
func WithIterations(n int) Option {
	if n < 1 {
		panic("swcut: WithIterations(n<1)")
	}
	return func(o *options) { o.iterations = n }
}

// WithSeed makes sampling reproducible; seed==0 selects the package default.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rngFromSeed(seed) }
}

// WithRand supplies the random source. The sampler takes ownership of r.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("swcut: WithRand(nil)")
	}
	return func(o *options) { o.rng = r }
}

// WithKeepBest selects whether Sample returns the most probable clustering
// visited (true) or the final state of the chain (false).
func WithKeepBest(keep bool) Option {
	return func(o *options) { o.keepBest = keep }
}

// WithLogger routes per-proposal diagnostics to l at debug level.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("swcut: WithLogger(nil)")
	}
	return func(o *options) { o.logger = l }
}
