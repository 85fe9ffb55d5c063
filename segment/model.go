// SPDX-License-Identifier: MIT

// Package segment splits an ordered sequence of nodes (e.g. the sentences of
// a transcript) into contiguous, category-labeled runs.
//
// A labeling assigns every node an arbitrary label; maximal runs of equal
// labels are the segments. A labeling is scored by
//
//	E = Σ_seg −log P(seg | best category)
//	  + Σ_seg>0 −log P(category_k | category_k−1)
//	  + Σ_seg −log P(len(seg))
//
// and the target density is exp(−E/T). Problem turns a Model into a chain
// graph that the SW-cut sampler partitions.
package segment

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/swclust/distribution"
)

// Sentinel errors.
var (
	// ErrBadModel indicates inconsistent table dimensions.
	ErrBadModel = errors.New("segment: inconsistent model tables")

	// ErrLabelingLength indicates a labeling whose length differs from the
	// node count.
	ErrLabelingLength = errors.New("segment: labeling length mismatch")

	// ErrSegmentTooLong indicates a segment longer than the length prior.
	ErrSegmentTooLong = errors.New("segment: segment longer than length prior")

	// ErrNodeOutOfRange indicates a segment member outside the sequence.
	ErrNodeOutOfRange = errors.New("segment: node out of range")

	// ErrNoWordTables indicates word-based scoring without word tables.
	ErrNoWordTables = errors.New("segment: word tables not configured")
)

// DefaultTemperature is the fixed temperature of the segmentation target.
const DefaultTemperature = 200000.0

// Node is one element of the sequence.
type Node struct {
	// Probs[t][k] is P(node's words of type t | category k).
	Probs [distribution.NumWordTypes][]float64

	// Forced marks a node that opens with a forcing element, such as a
	// pronoun. Its edge to the previous node is always kept.
	Forced bool

	// Words optionally holds the node's raw words for ClassifyByWords.
	Words [distribution.NumWordTypes][]string
}

// Lexicon maps a word to its row in a word table.
type Lexicon interface {
	Index(word string) (int, error)
}

// Model scores labelings of one node sequence. It is not safe for concurrent
// use.
type Model struct {
	nodes       []Node
	categories  int
	prior       *mat.VecDense
	transition  *mat.Dense // [current][previous]
	lengthPrior []float64
	temperature float64

	lexicons [distribution.NumWordTypes]Lexicon
	words    [distribution.NumWordTypes]*mat.Dense // vocab × category
	logger   *zap.Logger
}

// Option configures a Model. Constructors panic on meaningless values.
type Option func(*Model)

// WithTemperature replaces DefaultTemperature. It panics unless t > 0.
func WithTemperature(t float64) Option {
	if !(t > 0) || math.IsInf(t, 0) {
		panic("segment: WithTemperature(t<=0)")
	}
	return func(m *Model) { m.temperature = t }
}

// WithWordTables enables word-based scoring. tables[t] has one row per word
// of lexicons[t] and one column per category.
func WithWordTables(lexicons [distribution.NumWordTypes]Lexicon, tables [distribution.NumWordTypes]*mat.Dense) Option {
	return func(m *Model) {
		m.lexicons = lexicons
		m.words = tables
	}
}

// WithLogger routes lookup-miss warnings to l. It panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("segment: WithLogger(nil)")
	}
	return func(m *Model) { m.logger = l }
}

// New validates the tables and returns a Model.
//
//   - prior has one entry per category.
//   - transition is categories × categories, indexed [current][previous].
//   - lengthPrior[l-1] is the probability of a segment of l nodes.
//   - every node carries one probability per category for every word type.
//
// Errors:
//   - ErrBadModel describing the first inconsistency.
func New(nodes []Node, prior []float64, transition *mat.Dense, lengthPrior []float64, opts ...Option) (*Model, error) {
	k := len(prior)
	if k == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrBadModel)
	}
	if transition == nil {
		return nil, fmt.Errorf("%w: nil transition table", ErrBadModel)
	}
	if r, c := transition.Dims(); r != k || c != k {
		return nil, fmt.Errorf("%w: transition is %dx%d, want %dx%d", ErrBadModel, r, c, k, k)
	}
	for i, n := range nodes {
		for _, t := range distribution.WordTypes {
			if len(n.Probs[t]) != k {
				return nil, fmt.Errorf("%w: node %d %s has %d probabilities, want %d", ErrBadModel, i, t, len(n.Probs[t]), k)
			}
		}
	}

	m := &Model{
		nodes:       append([]Node(nil), nodes...),
		categories:  k,
		prior:       mat.NewVecDense(k, append([]float64(nil), prior...)),
		transition:  mat.DenseCopyOf(transition),
		lengthPrior: append([]float64(nil), lengthPrior...),
		temperature: DefaultTemperature,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, t := range distribution.WordTypes {
		if m.words[t] == nil {
			continue
		}
		if _, c := m.words[t].Dims(); c != k {
			return nil, fmt.Errorf("%w: %s word table has %d categories, want %d", ErrBadModel, t, c, k)
		}
	}

	return m, nil
}

// Len returns the number of nodes.
func (m *Model) Len() int { return len(m.nodes) }

// Categories returns the number of categories.
func (m *Model) Categories() int { return m.categories }

// Temperature returns the target temperature.
func (m *Model) Temperature() float64 { return m.temperature }

// LabelingToSegments splits labels into maximal runs of equal labels, e.g.
// [0 0 1 1 1 0] → [[0 1] [2 3 4] [5]].
func LabelingToSegments(labels []int) [][]int {
	if len(labels) == 0 {
		return nil
	}
	var segs [][]int
	cur := []int{0}
	for i := 1; i < len(labels); i++ {
		if labels[i] == labels[i-1] {
			cur = append(cur, i)
			continue
		}
		segs = append(segs, cur)
		cur = []int{i}
	}

	return append(segs, cur)
}

// Classify returns the most probable category of segment and its log score
//
//	log Π_t (Π_node P(node_t | k) · P(k)) − 2·log P(k)
//
// The division by P(k)² is skipped when the product is zero. Ties keep the
// lower category; if every category scores zero, category 0 wins with a log
// score of −Inf.
func (m *Model) Classify(segment []int) (int, float64, error) {
	if err := m.checkSegment(segment); err != nil {
		return 0, 0, err
	}
	best, bestLog := -1, math.Inf(-1)
	for k := 0; k < m.categories; k++ {
		logPrior := math.Log(m.prior.AtVec(k))
		var s float64
		for _, t := range distribution.WordTypes {
			for _, i := range segment {
				s += math.Log(m.nodes[i].Probs[t][k])
			}
			s += logPrior
		}
		if !math.IsInf(s, -1) {
			s -= 2 * logPrior
		}
		if best == -1 || s > bestLog {
			best, bestLog = k, s
		}
	}

	return best, bestLog, nil
}

// Energy scores a labeling of the whole sequence.
//
// A zero classification or length probability costs −log(1e-100).
//
// Errors:
//   - ErrLabelingLength, ErrSegmentTooLong.
func (m *Model) Energy(labels []int) (float64, error) {
	if len(labels) != len(m.nodes) {
		return 0, fmt.Errorf("%w: %d labels for %d nodes", ErrLabelingLength, len(labels), len(m.nodes))
	}

	var e float64
	prev := -1
	for _, seg := range LabelingToSegments(labels) {
		if len(seg) > len(m.lengthPrior) {
			return 0, fmt.Errorf("%w: %d > %d", ErrSegmentTooLong, len(seg), len(m.lengthPrior))
		}
		cat, logP, err := m.Classify(seg)
		if err != nil {
			return 0, err
		}
		if math.IsInf(logP, -1) {
			logP = math.Log(distribution.Epsilon)
		}
		e -= logP
		if prev != -1 {
			e -= math.Log(m.transition.At(cat, prev) + distribution.Epsilon)
		}
		prev = cat
		e -= math.Log(math.Max(m.lengthPrior[len(seg)-1], distribution.Epsilon))
	}

	return e, nil
}

// LogTarget returns −Energy(labels)/T.
func (m *Model) LogTarget(labels []int) (float64, error) {
	e, err := m.Energy(labels)
	if err != nil {
		return 0, err
	}

	return -e / m.temperature, nil
}

// Target returns exp(LogTarget).
func (m *Model) Target(labels []int) (float64, error) {
	lt, err := m.LogTarget(labels)
	if err != nil {
		return 0, err
	}

	return math.Exp(lt), nil
}

// EdgeOn is the retention probability of the edge between adjacent nodes
// left and right: 1 when right is forced, otherwise 0.2 rising by 0.1 every
// 100 iterations up to 0.9.
func (m *Model) EdgeOn(left, right, iteration int) float64 {
	if right >= 0 && right < len(m.nodes) && m.nodes[right].Forced {
		return 1
	}
	steps := iteration / 100
	if steps > 7 {
		steps = 7
	}
	if steps < 0 {
		steps = 0
	}

	return 0.2 + 0.1*float64(steps)
}

// GroundTruthLabeling labels n nodes 0 until the first boundary, then flips
// between 1 and 0 at every boundary index. boundaries must be ascending;
// boundaries at or beyond n are ignored.
func GroundTruthLabeling(n int, boundaries []int) []int {
	labels := make([]int, n)
	seg, b := 0, 0
	for i := 0; i < n; i++ {
		if b < len(boundaries) && i == boundaries[b] {
			seg = 1 - seg
			b++
		}
		labels[i] = seg
	}

	return labels
}

// GroundTruthLogTarget scores the labeling induced by boundaries.
func (m *Model) GroundTruthLogTarget(boundaries []int) (float64, error) {
	return m.LogTarget(GroundTruthLabeling(len(m.nodes), boundaries))
}

// CategoryGivenWords returns, per category k, P(k)·Π P(word|k) over words of
// type t. Words missing from the lexicon contribute 1 and are logged.
//
// Errors:
//   - ErrNoWordTables if WithWordTables did not cover t.
func (m *Model) CategoryGivenWords(words []string, t distribution.WordType) ([]float64, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("segment: %w", distribution.ErrWordType)
	}
	lex, table := m.lexicons[t], m.words[t]
	if lex == nil || table == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoWordTables, t)
	}
	rows, _ := table.Dims()

	out := make([]float64, m.categories)
	for k := range out {
		out[k] = 1
	}
	for _, w := range words {
		id, err := lex.Index(w)
		if err != nil || id >= rows {
			m.logger.Warn("word not in vocabulary", zap.String("word", w), zap.Stringer("type", t))
			continue
		}
		for k := range out {
			out[k] *= table.At(id, k)
		}
	}
	for k := range out {
		out[k] *= m.prior.AtVec(k)
	}

	return out, nil
}

// ClassifyByWords classifies segment from the raw words of its nodes instead
// of their precomputed probabilities, with the same P(k)² normalization as
// Classify. The returned score is a probability, not a logarithm.
func (m *Model) ClassifyByWords(segment []int) (int, float64, error) {
	if err := m.checkSegment(segment); err != nil {
		return 0, 0, err
	}
	score := make([]float64, m.categories)
	for k := range score {
		score[k] = 1
	}
	for _, t := range distribution.WordTypes {
		var pooled []string
		for _, i := range segment {
			pooled = append(pooled, m.nodes[i].Words[t]...)
		}
		probs, err := m.CategoryGivenWords(pooled, t)
		if err != nil {
			return 0, 0, err
		}
		for k := range score {
			score[k] *= probs[k]
		}
	}

	best, bestP := -1, -1.0
	for k, s := range score {
		if s != 0 {
			p := m.prior.AtVec(k)
			s /= p * p
		}
		if s > bestP {
			best, bestP = k, s
		}
	}

	return best, bestP, nil
}

func (m *Model) checkSegment(segment []int) error {
	for _, i := range segment {
		if i < 0 || i >= len(m.nodes) {
			return fmt.Errorf("%w: %d of %d", ErrNodeOutOfRange, i, len(m.nodes))
		}
	}

	return nil
}
