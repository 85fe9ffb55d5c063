// SPDX-License-Identifier: MIT

// Package affinity turns distributional similarity between vertices into
// graph edges and SW-cut retention probabilities.
//
// A Model is bound to the vertex set of one clustering level. Its probability
// cache is keyed by vertex index, so a new Model must be built whenever the
// driver renumbers vertices for the next level.
//
//	m := affinity.New(vertices, affinity.WithDecay(500))
//	edges, _ := m.Edges(level)
//	p := swcut.Problem{GraphSize: m.Len(), Edges: edges, EdgeProb: m.EdgeProb}
package affinity

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/graph"
	"github.com/katalvlaran/swclust/swcut"
)

// DefaultDecay is the K in exp(−avgKL/K).
const DefaultDecay = 1000.0

// ErrIndexOutOfRange indicates a vertex index outside the model's vertex set.
var ErrIndexOutOfRange = errors.New("affinity: vertex index out of range")

// Threshold maps a level number (1-based) to the maximum mean total-variation
// distance at which two vertices stay connected.
type Threshold func(level int) float64

// LinearThreshold returns 0.8·level, so coarser levels keep looser edges.
func LinearThreshold(level int) float64 { return 0.8 * float64(level) }

// Option configures a Model.
type Option func(*Model)

// WithDecay sets the decay constant K. It panics if k is not positive.
func WithDecay(k float64) Option {
	if !(k > 0) || math.IsInf(k, 0) {
		panic("affinity: WithDecay(k<=0)")
	}
	return func(m *Model) { m.decay = k }
}

// WithThreshold replaces LinearThreshold. It panics on nil.
func WithThreshold(t Threshold) Option {
	if t == nil {
		panic("affinity: WithThreshold(nil)")
	}
	return func(m *Model) { m.threshold = t }
}

// WithLogger routes pruning diagnostics to l. It panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("affinity: WithLogger(nil)")
	}
	return func(m *Model) { m.logger = l }
}

// Model scores vertex pairs of a single level.
type Model struct {
	vertices  []distribution.Vertex
	decay     float64
	threshold Threshold
	logger    *zap.Logger
	cache     map[graph.Edge]float64
}

// New binds a Model to vertices. The slice is not copied; callers must not
// modify it while the Model is in use.
func New(vertices []distribution.Vertex, opts ...Option) *Model {
	m := &Model{
		vertices:  vertices,
		decay:     DefaultDecay,
		threshold: LinearThreshold,
		logger:    zap.NewNop(),
		cache:     make(map[graph.Edge]float64),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Len returns the number of vertices.
func (m *Model) Len() int { return len(m.vertices) }

// CacheLen returns the number of memoized pair probabilities.
func (m *Model) CacheLen() int { return len(m.cache) }

// Probability returns exp(−avgKL/K) for vertices i and j, where avgKL is the
// symmetrized KL divergence averaged over word types. Results are memoized per
// unordered pair; Probability(i, i) is 1.
//
// Errors:
//   - ErrIndexOutOfRange for an unknown index.
//   - distribution.ErrLengthMismatch if the vertices span different vocabularies.
func (m *Model) Probability(i, j int) (float64, error) {
	if err := m.check(i, j); err != nil {
		return 0, err
	}
	if i == j {
		return 1, nil
	}
	key := graph.NewEdge(i, j)
	if p, ok := m.cache[key]; ok {
		return p, nil
	}

	kl, err := SymmetricKL(m.vertices[i], m.vertices[j])
	if err != nil {
		return 0, fmt.Errorf("affinity: pair (%d,%d): %w", i, j, err)
	}
	p := math.Exp(-kl / m.decay)
	m.cache[key] = p

	return p, nil
}

// EdgeProb adapts Probability to swcut.Problem.EdgeProb. Pairs that cannot be
// scored get probability 0 and a warning, which makes the edge always cut.
func (m *Model) EdgeProb(i, j int, _ *swcut.Context) float64 {
	p, err := m.Probability(i, j)
	if err != nil {
		m.logger.Warn("edge probability unavailable", zap.Int("i", i), zap.Int("j", j), zap.Error(err))
		return 0
	}

	return p
}

// Distance returns the mean total-variation distance over word types.
func (m *Model) Distance(i, j int) (float64, error) {
	if err := m.check(i, j); err != nil {
		return 0, err
	}

	return MeanTotalVariation(m.vertices[i], m.vertices[j])
}

// Edges enumerates every pair i<j whose Distance is at most threshold(level).
//
// Complexity: O(V²·W) for V vertices over a vocabulary of W words.
func (m *Model) Edges(level int) ([]graph.Edge, error) {
	limit := m.threshold(level)
	n := len(m.vertices)
	var edges []graph.Edge
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			d, err := MeanTotalVariation(m.vertices[i], m.vertices[j])
			if err != nil {
				return nil, fmt.Errorf("affinity: pair (%d,%d): %w", i, j, err)
			}
			if d <= limit {
				edges = append(edges, graph.Edge{U: i, V: j})
			}
		}
	}
	m.logger.Debug("edges built",
		zap.Int("level", level),
		zap.Float64("threshold", limit),
		zap.Int("vertices", n),
		zap.Int("edges", len(edges)),
		zap.Int("complete", n*(n-1)/2),
	)

	return edges, nil
}

func (m *Model) check(i, j int) error {
	n := len(m.vertices)
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("%w: (%d,%d) with %d vertices", ErrIndexOutOfRange, i, j, n)
	}

	return nil
}

// SymmetricKL returns Σ_types (KL(a,b)+KL(b,a)) / (2·NumWordTypes).
func SymmetricKL(a, b distribution.Vertex) (float64, error) {
	var sum float64
	for _, t := range distribution.WordTypes {
		da, _ := a.Distribution(t)
		db, _ := b.Distribution(t)
		fwd, err := distribution.KL(da, db)
		if err != nil {
			return 0, err
		}
		bwd, err := distribution.KL(db, da)
		if err != nil {
			return 0, err
		}
		sum += fwd + bwd
	}

	return sum / (2 * distribution.NumWordTypes), nil
}

// MeanTotalVariation returns the total-variation distance averaged over word
// types.
func MeanTotalVariation(a, b distribution.Vertex) (float64, error) {
	var sum float64
	for _, t := range distribution.WordTypes {
		da, _ := a.Distribution(t)
		db, _ := b.Distribution(t)
		tv, err := distribution.TotalVariation(da, db)
		if err != nil {
			return 0, err
		}
		sum += tv
	}

	return sum / distribution.NumWordTypes, nil
}
