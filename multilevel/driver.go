// SPDX-License-Identifier: MIT

// Package multilevel builds a topic hierarchy by running the SW-cut sampler
// level after level.
//
// Level 1 partitions documents. Every later level partitions the clusters of
// the level before, represented by their merged word distributions. Each level
// prunes a candidate graph by distributional distance, samples a clustering
// against the energy model, and appends it to the hierarchy.
//
// Every round starts from a single cluster. Identical vertices have retention
// probability 1, and the SW-cut chain cannot merge such a pair from
// singletons.
//
// Levels are only appended after they complete. Cancellation leaves the
// hierarchy at the last completed level.
//
//	d := multilevel.New(swcut.New(swcut.WithSeed(7)))
//	res, err := d.Run(ctx, corp)
package multilevel

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/affinity"
	"github.com/katalvlaran/swclust/corpus"
	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/energy"
	"github.com/katalvlaran/swclust/hierarchy"
	"github.com/katalvlaran/swclust/swcut"
)

// ErrSamplerResult indicates a sampler that returned something other than a
// partition of the level's vertices.
var ErrSamplerResult = errors.New("multilevel: sampler returned an invalid clustering")

// StopReason explains why a run ended.
type StopReason string

// Stop reasons.
const (
	StopPolicyFired StopReason = "policy"
	StopCollapsed   StopReason = "collapsed"
	StopNoProgress  StopReason = "no_progress"
	StopEmpty       StopReason = "empty"
)

// Result is the outcome of a run.
type Result struct {
	RunID string

	// Levels holds each completed level's clustering over that level's
	// vertices; use Topics.Tree().Level(k) for terminal (document) ids.
	Levels []swcut.Clustering

	// Topics is the hierarchy with per-branch distributions.
	Topics *hierarchy.TopicTree

	Reason StopReason
}

// Driver runs multi-level clustering with one sampler.
// A Driver may be reused across runs but not concurrently.
type Driver struct {
	sampler swcut.Sampler
	opts    options
}

// New returns a Driver using sampler for every level. It panics on nil.
func New(sampler swcut.Sampler, opts ...Option) *Driver {
	if sampler == nil {
		panic("multilevel: New(nil sampler)")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Driver{sampler: sampler, opts: o}
}

// run is the state of one Run call.
type run struct {
	d        *Driver
	id       string
	log      *zap.Logger
	corp     *corpus.Corpus
	energy   *energy.Model
	vertices []distribution.Vertex
	res      *Result
}

// Run clusters corp until the stop policy fires or no level can progress.
//
// On error the returned Result still holds every completed level.
//
// Errors:
//   - ctx.Err() on cancellation.
//   - ErrSamplerResult, and errors from the sampler, affinity, energy or
//     checkpoint, wrapped with the level number.
func (d *Driver) Run(ctx context.Context, corp *corpus.Corpus) (*Result, error) {
	r := &run{
		d:    d,
		id:   uuid.NewString(),
		corp: corp,
	}
	r.log = d.opts.logger.With(zap.String("run_id", r.id))
	r.res = &Result{RunID: r.id}

	if err := r.init(); err != nil {
		return r.res, err
	}
	if len(r.vertices) == 0 {
		r.res.Reason = StopEmpty
		return r.res, nil
	}
	r.log.Info("clustering started",
		zap.Int("documents", len(r.vertices)),
		zap.Bool("include_ocr", d.opts.includeOCR),
	)

	for level := 1; ; level++ {
		if err := ctx.Err(); err != nil {
			return r.res, err
		}
		if len(r.vertices) <= 1 {
			r.res.Reason = StopCollapsed
			break
		}
		stop, reason, err := r.level(ctx, level)
		if err != nil {
			return r.res, fmt.Errorf("multilevel: level %d: %w", level, err)
		}
		if stop {
			r.res.Reason = reason
			break
		}
	}
	r.log.Info("clustering finished",
		zap.Int("levels", len(r.res.Levels)),
		zap.Int("topics", r.res.Topics.Branches()),
		zap.String("reason", string(r.res.Reason)),
	)

	return r.res, nil
}

func (r *run) init() error {
	n := r.corp.Len()
	r.vertices = make([]distribution.Vertex, n)
	for i := 0; i < n; i++ {
		v, err := r.corp.Vertex(i, r.d.opts.includeOCR)
		if err != nil {
			return fmt.Errorf("multilevel: document %d: %w", i, err)
		}
		r.vertices[i] = v
	}

	var lex [distribution.NumWordTypes]hierarchy.Lexicon
	for _, wt := range distribution.WordTypes {
		lex[wt] = r.corp.Vocabulary(wt)
	}
	r.res.Topics = hierarchy.NewTopicTree(r.vertices, lex, hierarchy.WithLogger(r.log))

	eopts := append([]energy.Option{
		energy.WithOCR(r.d.opts.includeOCR),
		energy.WithLogger(r.log),
	}, r.d.opts.energy...)
	r.energy = energy.New(r.corp, eopts...)

	return nil
}

// level runs one round. It reports whether the run should stop and why.
func (r *run) level(ctx context.Context, level int) (bool, StopReason, error) {
	log := r.log.With(zap.Int("level", level))
	n := len(r.vertices)

	aopts := append([]affinity.Option{affinity.WithLogger(log)}, r.d.opts.affinity...)
	aff := affinity.New(r.vertices, aopts...)
	edges, err := aff.Edges(level)
	if err != nil {
		return false, "", err
	}
	if len(edges) == 0 {
		log.Info("no edges survive pruning", zap.Int("vertices", n))
		return true, StopNoProgress, nil
	}

	target := r.energy.Level(level, r.vertices)
	p := swcut.Problem{
		GraphSize: n,
		Edges:     edges,
		EdgeProb:  aff.EdgeProb,
		Target:    target,
		Initial:   swcut.Whole(n),
		Monitor: func(c swcut.Clustering) float64 {
			e, err := target.Energy(c)
			if err != nil {
				log.Debug("energy unavailable", zap.Error(err))
				return math.NaN()
			}
			return e
		},
	}
	if m := r.d.opts.monitor; m != nil {
		p.Callback = func(c swcut.Clustering, sc *swcut.Context) {
			e, err := target.Energy(c)
			if err != nil {
				log.Debug("energy unavailable", zap.Error(err))
				e = math.NaN()
			}
			m.Observe(Observation{
				RunID:       r.id,
				Level:       level,
				Iteration:   sc.Iteration,
				Clusters:    len(c),
				Energy:      e,
				Temperature: r.energy.Temperature(sc.Iteration),
			})
		}
	}

	c, err := r.d.sampler.Sample(ctx, p)
	if err != nil {
		return false, "", err
	}
	if err = c.Validate(n); err != nil {
		return false, "", fmt.Errorf("%w: %w", ErrSamplerResult, err)
	}
	c = c.Canonical()
	merged, err := target.Merge(c)
	if err != nil {
		return false, "", err
	}

	// Commit point: nothing below may fail before the level is recorded.
	if err = r.res.Topics.AddLevelOnTop(c); err != nil {
		return false, "", err
	}
	r.res.Levels = append(r.res.Levels, c)
	r.vertices = merged

	st, _ := target.SizeStats(c)
	log.Info("level completed",
		zap.Int("vertices", n),
		zap.Int("edges", len(edges)),
		zap.Int("clusters", len(c)),
		zap.Float64("mean_cluster_docs", st.MeanSize),
		zap.Int("max_cluster_docs", st.MaxSize),
	)

	if cp := r.d.opts.checkpoint; cp != nil {
		data, err := r.res.Topics.Tree().MarshalBinary()
		if err != nil {
			return false, "", err
		}
		if err = cp(ctx, level, data); err != nil {
			return false, "", fmt.Errorf("checkpoint: %w", err)
		}
	}

	switch {
	case len(c) <= 1:
		return true, StopCollapsed, nil
	case len(c) == n:
		log.Info("level produced no merge", zap.Int("vertices", n))
		return true, StopNoProgress, nil
	}
	if r.d.opts.stop.Stop(State{Level: level, Vertices: n, Clusters: len(c)}) {
		return true, StopPolicyFired, nil
	}

	return false, "", nil
}
