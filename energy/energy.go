// SPDX-License-Identifier: MIT

// Package energy scores candidate clusterings of documents.
//
// The energy of a clustering is the weighted negative log-likelihood of every
// word occurrence under its cluster's merged distribution, plus, at the
// document level only, a temporal-coherence penalty that favours clusters of
// stories published close together. The SW-cut target density is the Gibbs
// form exp(−E/T) with T taken from an annealing schedule; it is exposed in
// log space because the density itself underflows float64 for any realistic
// corpus.
//
// A Model holds caches keyed by document sets. Those keys do not depend on
// level numbering, so one Model serves every level of a run, while a Level
// binds it to the vertex indexing of a single round.
package energy

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/swcut"
)

// Sentinel errors.
var (
	// ErrBadCooling indicates a schedule that could reach T <= 0.
	ErrBadCooling = errors.New("energy: invalid cooling schedule")

	// ErrVertexOutOfRange indicates a clustering member with no vertex.
	ErrVertexOutOfRange = errors.New("energy: clustering references unknown vertex")

	// ErrEmptyCluster indicates a clustering with an empty member set.
	ErrEmptyCluster = errors.New("energy: empty cluster")
)

// TemporalLevel is the only level whose clusterings pay the temporal penalty.
const TemporalLevel = 1

// gapPrior is the density of the mean publication gap (in days) inside a
// well-formed story cluster.
var gapPrior = distuv.Normal{Mu: 1, Sigma: 5}

// Documents is the corpus view the energy needs.
type Documents interface {
	Occurrences(doc int, t distribution.WordType, includeOCR bool) ([]int, error)
	Timestamp(doc int) (time.Time, error)
}

// Model owns the likelihood and merge caches of one clustering run.
// It is not safe for concurrent use.
type Model struct {
	docs       Documents
	weights    [distribution.NumWordTypes]float64
	cooling    Cooling
	includeOCR bool
	logger     *zap.Logger

	merges     *distribution.MergeCache
	likelihood map[string]float64 // doc-set key -> weighted NLL
}

// New returns a Model over docs with default weights (1,1,1) and
// DefaultCooling.
func New(docs Documents, opts ...Option) *Model {
	m := &Model{
		docs:       docs,
		weights:    [distribution.NumWordTypes]float64{1, 1, 1},
		cooling:    DefaultCooling(),
		logger:     zap.NewNop(),
		merges:     distribution.NewMergeCache(),
		likelihood: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Cooling returns the annealing schedule.
func (m *Model) Cooling() Cooling { return m.cooling }

// Temperature returns the schedule's temperature at iteration.
func (m *Model) Temperature(iteration int) float64 { return m.cooling.Temperature(iteration) }

// CacheStats reports cached likelihoods and merged vertices.
func (m *Model) CacheStats() (likelihoods, merges int) {
	return len(m.likelihood), m.merges.Len()
}

// Level binds the model to the vertices of one round. level is 1-based.
func (m *Model) Level(level int, vertices []distribution.Vertex) *Level {
	hits, misses := m.merges.Stats()
	m.logger.Debug("energy level bound",
		zap.Int("level", level),
		zap.Int("vertices", len(vertices)),
		zap.Int("cached_likelihoods", len(m.likelihood)),
		zap.Int("merge_hits", hits),
		zap.Int("merge_misses", misses),
	)

	return &Level{model: m, level: level, vertices: vertices}
}

// NegLogLikelihood returns the weighted NLL of v's documents under v's own
// distributions:
//
//	Σ_doc Σ_type Σ_word w_type · −log(P(word|v,type) + 1e-100) / Σw
//
// Results are memoized by v.Key().
//
// Errors:
//   - errors from Documents, and distribution.ErrWordOutOfRange when a
//     document uses a word beyond v's vocabulary.
func (m *Model) NegLogLikelihood(v distribution.Vertex) (float64, error) {
	key := v.Key()
	if nll, ok := m.likelihood[key]; ok {
		return nll, nil
	}

	var sumW, nll float64
	for _, t := range distribution.WordTypes {
		sumW += m.weights[t]
		w := m.weights[t]
		if w == 0 {
			continue
		}
		dist, _ := v.Distribution(t)
		for _, doc := range v.Documents() {
			ids, err := m.docs.Occurrences(doc, t, m.includeOCR)
			if err != nil {
				return 0, fmt.Errorf("energy: doc %d: %w", doc, err)
			}
			for _, id := range ids {
				p, err := dist.At(id)
				if err != nil {
					return 0, fmt.Errorf("energy: doc %d %s word %d: %w", doc, t, id, err)
				}
				nll -= w * math.Log(p+distribution.Epsilon)
			}
		}
	}
	nll /= sumW
	m.likelihood[key] = nll

	return nll, nil
}

// TemporalPenalty returns −log N(1,5).pdf(meanGap), where meanGap is the sum
// of whole-day gaps between consecutive sorted timestamps of docs divided by
// the number of documents.
func (m *Model) TemporalPenalty(docs []int) (float64, error) {
	if len(docs) == 0 {
		return 0, ErrEmptyCluster
	}
	stamps := make([]time.Time, len(docs))
	for i, d := range docs {
		ts, err := m.docs.Timestamp(d)
		if err != nil {
			return 0, fmt.Errorf("energy: doc %d: %w", d, err)
		}
		stamps[i] = ts
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	var days int64
	for i := 1; i < len(stamps); i++ {
		days += int64(stamps[i].Sub(stamps[i-1]) / (24 * time.Hour))
	}
	meanGap := float64(days) / float64(len(stamps))

	return -gapPrior.LogProb(meanGap), nil
}

// Level scores clusterings over the vertices of one round. It implements
// swcut.Target.
type Level struct {
	model    *Model
	level    int
	vertices []distribution.Vertex
}

var _ swcut.Target = (*Level)(nil)

// Number returns the 1-based level number.
func (l *Level) Number() int { return l.level }

// Merge returns the merged vertex of every cluster, in clustering order.
//
// Errors:
//   - ErrEmptyCluster, ErrVertexOutOfRange, or a merge error.
func (l *Level) Merge(c swcut.Clustering) ([]distribution.Vertex, error) {
	out := make([]distribution.Vertex, len(c))
	members := make([]distribution.Vertex, 0)
	for i, cluster := range c {
		if len(cluster) == 0 {
			return nil, fmt.Errorf("energy: cluster %d: %w", i, ErrEmptyCluster)
		}
		members = members[:0]
		for _, v := range cluster {
			if v < 0 || v >= len(l.vertices) {
				return nil, fmt.Errorf("%w: %d of %d", ErrVertexOutOfRange, v, len(l.vertices))
			}
			members = append(members, l.vertices[v])
		}
		merged, err := l.model.merges.Merge(members)
		if err != nil {
			return nil, fmt.Errorf("energy: cluster %d: %w", i, err)
		}
		out[i] = merged
	}

	return out, nil
}

// Energy returns the total energy of c: the summed cluster NLL plus, on the
// document level, the summed temporal penalty.
func (l *Level) Energy(c swcut.Clustering) (float64, error) {
	merged, err := l.Merge(c)
	if err != nil {
		return 0, err
	}

	var e float64
	for _, v := range merged {
		nll, err := l.model.NegLogLikelihood(v)
		if err != nil {
			return 0, err
		}
		e += nll
		if l.level == TemporalLevel {
			tp, err := l.model.TemporalPenalty(v.Documents())
			if err != nil {
				return 0, err
			}
			e += tp
		}
	}

	return e, nil
}

// LogTarget returns −Energy(c)/T(iteration).
func (l *Level) LogTarget(c swcut.Clustering, iteration int) (float64, error) {
	e, err := l.Energy(c)
	if err != nil {
		return 0, err
	}

	return -e / l.model.cooling.Temperature(iteration), nil
}

// Target returns exp(LogTarget). It underflows to 0 for large energies; the
// sampler uses LogDensity instead.
func (l *Level) Target(c swcut.Clustering, iteration int) (float64, error) {
	lt, err := l.LogTarget(c, iteration)
	if err != nil {
		return 0, err
	}

	return math.Exp(lt), nil
}

// LogDensity implements swcut.Target. A nil sc is iteration 0.
func (l *Level) LogDensity(c swcut.Clustering, sc *swcut.Context) (float64, error) {
	it := 0
	if sc != nil {
		it = sc.Iteration
	}

	return l.LogTarget(c, it)
}

// Stats summarizes cluster sizes of a clustering.
type Stats struct {
	Clusters int
	MeanSize float64
	StdSize  float64
	MaxSize  int
}

// SizeStats returns the size distribution of c counted in documents.
func (l *Level) SizeStats(c swcut.Clustering) (Stats, error) {
	merged, err := l.Merge(c)
	if err != nil {
		return Stats{}, err
	}
	if len(merged) == 0 {
		return Stats{}, nil
	}
	sizes := make([]float64, len(merged))
	s := Stats{Clusters: len(merged)}
	for i, v := range merged {
		n := len(v.Documents())
		sizes[i] = float64(n)
		if n > s.MaxSize {
			s.MaxSize = n
		}
	}
	s.MeanSize, s.StdSize = stat.MeanStdDev(sizes, nil)
	if len(sizes) == 1 {
		s.StdSize = 0
	}

	return s, nil
}
