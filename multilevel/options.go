// SPDX-License-Identifier: MIT

package multilevel

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/affinity"
	"github.com/katalvlaran/swclust/energy"
)

// Observation is what a Monitor sees after every sampler proposal.
type Observation struct {
	RunID       string
	Level       int
	Iteration   int
	Clusters    int
	Energy      float64 // NaN when the clustering could not be scored
	Temperature float64
}

// Monitor receives progress observations. Monitors never influence results.
type Monitor interface {
	Observe(o Observation)
}

// MonitorFunc adapts a function to Monitor.
type MonitorFunc func(o Observation)

// Observe calls f.
func (f MonitorFunc) Observe(o Observation) { f(o) }

// Checkpoint receives the msgpack-encoded hierarchy after each level.
type Checkpoint func(ctx context.Context, level int, snapshot []byte) error

// Option configures a Driver. Constructors panic on meaningless values.
type Option func(*options)

type options struct {
	stop       StopPolicy
	includeOCR bool
	affinity   []affinity.Option
	energy     []energy.Option
	monitor    Monitor
	checkpoint Checkpoint
	logger     *zap.Logger
}

func defaultOptions() options {
	return options{
		stop:       DefaultStopPolicy(),
		includeOCR: true,
		logger:     zap.NewNop(),
	}
}

// WithStopPolicy replaces DefaultStopPolicy. It panics on nil.
func WithStopPolicy(p StopPolicy) Option {
	if p == nil {
		panic("multilevel: WithStopPolicy(nil)")
	}
	return func(o *options) { o.stop = p }
}

// WithIncludeOCR selects whether OCR words count toward document histograms.
// The default is true.
func WithIncludeOCR(include bool) Option {
	return func(o *options) { o.includeOCR = include }
}

// WithAffinityOptions passes opts to the affinity model of every level.
func WithAffinityOptions(opts ...affinity.Option) Option {
	return func(o *options) { o.affinity = append(o.affinity, opts...) }
}

// WithEnergyOptions passes opts to the energy model of the run.
func WithEnergyOptions(opts ...energy.Option) Option {
	return func(o *options) { o.energy = append(o.energy, opts...) }
}

// WithMonitor installs m. It panics on nil.
func WithMonitor(m Monitor) Option {
	if m == nil {
		panic("multilevel: WithMonitor(nil)")
	}
	return func(o *options) { o.monitor = m }
}

// WithCheckpoint calls fn after every completed level. It panics on nil.
func WithCheckpoint(fn Checkpoint) Option {
	if fn == nil {
		panic("multilevel: WithCheckpoint(nil)")
	}
	return func(o *options) { o.checkpoint = fn }
}

// WithLogger sets the run logger. It panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("multilevel: WithLogger(nil)")
	}
	return func(o *options) { o.logger = l }
}
