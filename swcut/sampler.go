// SPDX-License-Identifier: MIT

package swcut

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/graph"
)

// SW is the reference Swendsen–Wang-cut sampler.
//
// A SW value holds its own random source and is not safe for concurrent use;
// create one sampler per goroutine.
type SW struct {
	opts options
}

// New returns a sampler configured by opts.
func New(opts ...Option) *SW {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rngFromSeed(0)
	}

	return &SW{opts: o}
}

// chain is the mutable state of one Sample call.
type chain struct {
	p       Problem
	g       *graph.Graph
	edges   []graph.Edge // g.Edges(), copied once
	labels  []int
	fresh   int // next unused label
	cur     Clustering
	logCur  float64
	sc      *Context
	q       map[graph.Edge]float64 // edge probabilities of the current iteration
	sampler *SW
}

// Sample runs the configured number of SW-cut proposals on p.
//
// Implementation:
//   - Stage 1: Validate p, build the graph, resolve the initial labeling.
//   - Stage 2: Evaluate the initial target.
//   - Stage 3: Iterate proposals; ctx is checked before each one.
//   - Stage 4: Return the best (or final) clustering in canonical form.
//
// Errors:
//   - ErrBadProblem, ErrNotPartition and graph construction errors.
//   - Any error returned by p.Target, wrapped with the iteration number.
//   - ctx.Err() on cancellation.
//
// Complexity: O(iterations · (E + cost(Target))).
func (s *SW) Sample(ctx context.Context, p Problem) (Clustering, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	n := p.GraphSize
	if n == 0 {
		return Clustering{}, nil
	}

	g, err := graph.New(n, p.Edges)
	if err != nil {
		return nil, fmt.Errorf("swcut: %w", err)
	}
	initial := p.Initial
	if initial == nil {
		initial = Singletons(n)
	}
	labels, err := initial.Labels(n)
	if err != nil {
		return nil, err
	}

	c := &chain{
		p:       p,
		g:       g,
		edges:   g.Edges(),
		labels:  labels,
		fresh:   len(initial),
		cur:     FromLabels(labels),
		sc:      &Context{},
		sampler: s,
	}
	if c.logCur, err = p.Target.LogDensity(c.cur, c.sc); err != nil {
		return nil, fmt.Errorf("swcut: initial target: %w", err)
	}
	c.sc.LogDensity = c.logCur
	best, bestLog := c.cur, c.logCur

	for it := 0; it < s.opts.iterations; it++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		c.sc.Iteration = it
		if err = c.step(); err != nil {
			return nil, fmt.Errorf("swcut: iteration %d: %w", it, err)
		}
		if c.logCur > bestLog {
			best, bestLog = c.cur, c.logCur
		}
		c.report()
	}

	if s.opts.keepBest {
		return best.Canonical(), nil
	}

	return c.cur.Canonical(), nil
}

// prob returns the clamped retention probability of e for this iteration.
func (c *chain) prob(e graph.Edge) float64 {
	if v, ok := c.q[e]; ok {
		return v
	}
	v := c.p.EdgeProb(e.U, e.V, c.sc)
	switch {
	case math.IsNaN(v) || v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	c.q[e] = v

	return v
}

// step performs one SW-cut proposal and the Metropolis–Hastings decision.
func (c *chain) step() error {
	rng := c.sampler.opts.rng
	c.q = make(map[graph.Edge]float64)

	// Stage 1: bond percolation inside current clusters.
	on := make(map[graph.Edge]struct{})
	for _, e := range c.edges {
		if c.labels[e.U] == c.labels[e.V] && bernoulli(rng, c.prob(e)) {
			on[e] = struct{}{}
		}
	}

	// Stage 2: the component V0 of a uniformly chosen vertex.
	pick := rng.Intn(c.p.GraphSize)
	v0 := c.g.ComponentOf(pick, func(e graph.Edge) bool {
		_, ok := on[e]
		return ok
	})
	inV0 := make(map[int]struct{}, len(v0))
	for _, v := range v0 {
		inV0[v] = struct{}{}
	}
	old := c.labels[pick]

	// Stage 3: candidate labels are the neighboring clusters plus a fresh one
	// when V0 does not already span its whole cluster.
	seen := make(map[int]struct{})
	var candidates []int
	for _, u := range v0 {
		for _, w := range c.g.Neighbors(u) {
			if _, inside := inV0[w]; inside {
				continue
			}
			l := c.labels[w]
			if l == old {
				continue
			}
			if _, dup := seen[l]; !dup {
				seen[l] = struct{}{}
				candidates = append(candidates, l)
			}
		}
	}
	sort.Ints(candidates)
	if c.clusterSize(old) > len(v0) {
		candidates = append(candidates, c.fresh)
	}
	if len(candidates) == 0 {
		return nil
	}
	target := candidates[rng.Intn(len(candidates))]

	// Stage 4: acceptance ratio in log space.
	var logCutNew, logCutOld float64
	for _, u := range v0 {
		for _, w := range c.g.Neighbors(u) {
			if _, inside := inV0[w]; inside {
				continue
			}
			switch c.labels[w] {
			case target:
				logCutNew += math.Log1p(-c.prob(graph.NewEdge(u, w)))
			case old:
				logCutOld += math.Log1p(-c.prob(graph.NewEdge(u, w)))
			}
		}
	}

	proposal := append([]int(nil), c.labels...)
	for _, v := range v0 {
		proposal[v] = target
	}
	cand := FromLabels(proposal)
	logNew, err := c.p.Target.LogDensity(cand, c.sc)
	if err != nil {
		return err
	}

	logA := logCutNew - logCutOld + logNew - c.logCur
	if math.IsNaN(logA) {
		return nil
	}
	if logA >= 0 || math.Log(rng.Float64()) < logA {
		c.labels = proposal
		if target == c.fresh {
			c.fresh++
		}
		c.cur, c.logCur = cand, logNew
		c.sc.Accepted++
		c.sc.LogDensity = logNew
	}

	return nil
}

// clusterSize counts the vertices currently carrying label l.
func (c *chain) clusterSize(l int) int {
	n := 0
	for _, x := range c.labels {
		if x == l {
			n++
		}
	}

	return n
}

// report fires the optional callback and the debug log line.
func (c *chain) report() {
	if c.p.Callback != nil {
		c.p.Callback(c.cur, c.sc)
	}
	ce := c.sampler.opts.logger.Check(zap.DebugLevel, "swcut proposal")
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.Int("iteration", c.sc.Iteration),
		zap.Int("accepted", c.sc.Accepted),
		zap.Int("clusters", len(c.cur)),
		zap.Float64("log_density", c.logCur),
	}
	if c.p.Monitor != nil {
		fields = append(fields, zap.Float64("monitor", c.p.Monitor(c.cur)))
	}
	ce.Write(fields...)
}
