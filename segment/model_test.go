// SPDX-License-Identifier: MIT

package segment_test

import (
	"context"
	"math"
	"testing"

	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/graph"
	"github.com/katalvlaran/swclust/segment"
	"github.com/katalvlaran/swclust/swcut"
	"github.com/katalvlaran/swclust/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// node gives every word type the same per-category probabilities.
func node(forced bool, probs ...float64) segment.Node {
	var n segment.Node
	for _, t := range distribution.WordTypes {
		n.Probs[t] = probs
	}
	n.Forced = forced
	return n
}

func twoNodeModel(t *testing.T, lengthPrior ...float64) *segment.Model {
	t.Helper()
	m, err := segment.New(
		[]segment.Node{node(false, 0.5, 0.1), node(false, 0.1, 0.5)},
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, []float64{0.2, 0.8, 0.8, 0.2}),
		lengthPrior,
	)
	require.NoError(t, err)

	return m
}

func TestLabelingToSegments(t *testing.T) {
	assert.Equal(t, [][]int{{0, 1}, {2, 3, 4}, {5}}, segment.LabelingToSegments([]int{0, 0, 1, 1, 1, 0}))
	assert.Equal(t, [][]int{{0}}, segment.LabelingToSegments([]int{7}))
	assert.Nil(t, segment.LabelingToSegments(nil))
}

// Classify divides the per-type product by P(k)², leaving one net factor of
// the prior. Dropping that division would pick category 1 here.
func TestClassify_PriorSquaredNormalization(t *testing.T) {
	m, err := segment.New(
		[]segment.Node{node(false, 1, 0.6)},
		[]float64{0.3, 0.7},
		mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
		[]float64{1},
	)
	require.NoError(t, err)

	cat, logP, err := m.Classify([]int{0})
	require.NoError(t, err)
	assert.Equal(t, 0, cat)
	assert.InDelta(t, math.Log(0.3), logP, 1e-12)
}

func TestClassify_AllZero(t *testing.T) {
	m, err := segment.New(
		[]segment.Node{node(false, 0, 0)},
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, nil),
		[]float64{1},
	)
	require.NoError(t, err)

	cat, logP, err := m.Classify([]int{0})
	require.NoError(t, err)
	assert.Equal(t, 0, cat)
	assert.True(t, math.IsInf(logP, -1))

	e, err := m.Energy([]int{0})
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(distribution.Epsilon), e, 1e-9)

	_, _, err = m.Classify([]int{3})
	assert.ErrorIs(t, err, segment.ErrNodeOutOfRange)
}

func TestEnergy_HandComputed(t *testing.T) {
	m := twoNodeModel(t, 0.6, 0.4)

	split, err := m.Energy([]int{0, 1})
	require.NoError(t, err)
	want := 8*math.Ln2 - math.Log(0.8) - 2*math.Log(0.6)
	assert.InDelta(t, want, split, 1e-9)

	joined, err := m.Energy([]int{5, 5})
	require.NoError(t, err)
	want = -(3*math.Log(0.05) + math.Log(0.5)) - math.Log(0.4)
	assert.InDelta(t, want, joined, 1e-9)

	lt, err := m.LogTarget([]int{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, -split/segment.DefaultTemperature, lt, 1e-15)

	p, err := m.Target([]int{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(lt), p, 1e-15)
}

func TestEnergy_Errors(t *testing.T) {
	m := twoNodeModel(t, 1)

	_, err := m.Energy([]int{0, 0})
	assert.ErrorIs(t, err, segment.ErrSegmentTooLong)

	_, err = m.Energy([]int{0})
	assert.ErrorIs(t, err, segment.ErrLabelingLength)
}

func TestNew_Validation(t *testing.T) {
	_, err := segment.New(nil, nil, mat.NewDense(1, 1, nil), nil)
	assert.ErrorIs(t, err, segment.ErrBadModel)

	_, err = segment.New(nil, []float64{1, 0}, mat.NewDense(1, 1, nil), nil)
	assert.ErrorIs(t, err, segment.ErrBadModel)

	_, err = segment.New([]segment.Node{node(false, 1)}, []float64{0.5, 0.5}, mat.NewDense(2, 2, nil), nil)
	assert.ErrorIs(t, err, segment.ErrBadModel)

	assert.Panics(t, func() { segment.WithTemperature(0) })
}

func TestEdgeOn(t *testing.T) {
	m, err := segment.New(
		[]segment.Node{node(false, 1), node(true, 1), node(false, 1)},
		[]float64{1},
		mat.NewDense(1, 1, []float64{1}),
		[]float64{1, 1, 1},
	)
	require.NoError(t, err)

	assert.Equal(t, 1.0, m.EdgeOn(0, 1, 0))
	assert.InDelta(t, 0.2, m.EdgeOn(1, 2, 0), 1e-12)
	assert.InDelta(t, 0.2, m.EdgeOn(1, 2, 99), 1e-12)
	assert.InDelta(t, 0.4, m.EdgeOn(1, 2, 250), 1e-12)
	assert.InDelta(t, 0.9, m.EdgeOn(1, 2, 5000), 1e-12)
}

func TestGroundTruth(t *testing.T) {
	assert.Equal(t, []int{0, 0, 1, 1, 0, 0}, segment.GroundTruthLabeling(6, []int{2, 4}))
	assert.Equal(t, []int{0, 0, 0}, segment.GroundTruthLabeling(3, []int{9}))

	m := twoNodeModel(t, 0.6, 0.4)
	got, err := m.GroundTruthLogTarget([]int{1})
	require.NoError(t, err)
	want, err := m.LogTarget([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func wordModel(t *testing.T) *segment.Model {
	t.Helper()
	var lex [distribution.NumWordTypes]segment.Lexicon
	var tables [distribution.NumWordTypes]*mat.Dense
	for _, wt := range distribution.WordTypes {
		lex[wt] = vocab.New("storm", "court")
		tables[wt] = mat.NewDense(2, 2, []float64{0.7, 0.1, 0.3, 0.9})
	}
	n0 := node(false, 1, 1)
	n0.Words[distribution.NP1] = []string{"storm", "tornado"}
	n1 := node(false, 1, 1)
	n1.Words[distribution.NP1] = []string{"storm"}
	m, err := segment.New(
		[]segment.Node{n0, n1},
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
		[]float64{0.5, 0.5},
		segment.WithWordTables(lex, tables),
	)
	require.NoError(t, err)

	return m
}

func TestCategoryGivenWords(t *testing.T) {
	m := wordModel(t)
	probs, err := m.CategoryGivenWords([]string{"storm", "tornado", "storm"}, distribution.NP1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.49 * 0.5, 0.01 * 0.5}, probs, 1e-12)

	_, err = twoNodeModel(t, 1, 1).CategoryGivenWords([]string{"storm"}, distribution.VP)
	assert.ErrorIs(t, err, segment.ErrNoWordTables)
}

func TestClassifyByWords(t *testing.T) {
	m := wordModel(t)
	cat, p, err := m.ClassifyByWords([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, cat)
	// NP1: 0.49·0.5; VP and NP2 have no words: 0.5 each; divided by 0.5².
	assert.InDelta(t, 0.49*0.5*0.5*0.5/0.25, p, 1e-12)
}

func TestProblem_ChainGraph(t *testing.T) {
	m := twoNodeModel(t, 0.6, 0.4)
	p := m.Problem()
	assert.Equal(t, 2, p.GraphSize)
	assert.Equal(t, []graph.Edge{{U: 0, V: 1}}, p.Edges)
	assert.Equal(t, swcut.Whole(2), p.Initial)
	assert.InDelta(t, 0.2, p.EdgeProb(1, 0, nil), 1e-12)

	got, err := p.Target.LogDensity(swcut.Singletons(2), nil)
	require.NoError(t, err)
	want, err := m.LogTarget([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSegment_ForcedNodesStayTogether(t *testing.T) {
	m, err := segment.New(
		[]segment.Node{node(false, 0.9, 0.1), node(true, 0.1, 0.9), node(true, 0.1, 0.9)},
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
		[]float64{0.3, 0.3, 0.4},
	)
	require.NoError(t, err)

	res, err := m.Segment(context.Background(), swcut.New(swcut.WithSeed(2), swcut.WithIterations(100)))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}}, res.Segments)
	assert.Equal(t, []int{0, 0, 0}, res.Labels)
}

func TestSegment_FindsTopicBoundary(t *testing.T) {
	m, err := segment.New(
		[]segment.Node{
			node(false, 0.9, 0.01), node(false, 0.9, 0.01),
			node(false, 0.01, 0.9), node(false, 0.01, 0.9),
		},
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, []float64{0.1, 0.9, 0.9, 0.1}),
		[]float64{0.1, 0.8, 0.05, 0.05},
		segment.WithTemperature(1),
	)
	require.NoError(t, err)

	res, err := m.Segment(context.Background(), swcut.New(swcut.WithSeed(9), swcut.WithIterations(500)))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, res.Segments)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Labels)
	assert.Equal(t, []int{0, 1}, res.Categories)
}

func uniformModel(t *testing.T, nodes []segment.Node, lengthPrior ...float64) *segment.Model {
	t.Helper()
	m, err := segment.New(
		nodes,
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
		lengthPrior,
	)
	require.NoError(t, err)

	return m
}

func TestInitialSegments(t *testing.T) {
	plain := func(n int) []segment.Node {
		nodes := make([]segment.Node, n)
		for i := range nodes {
			nodes[i] = node(false, 0.5, 0.5)
		}
		return nodes
	}
	forcedAt := func(n int, forced ...int) []segment.Node {
		nodes := plain(n)
		for _, i := range forced {
			nodes[i].Forced = true
		}
		return nodes
	}

	cases := []struct {
		name        string
		nodes       []segment.Node
		lengthPrior []float64
		want        swcut.Clustering
	}{
		{"covered", plain(3), []float64{0.2, 0.3, 0.5}, swcut.Whole(3)},
		{"chunks", plain(6), []float64{0.4, 0.3, 0.3}, swcut.Clustering{{0, 1, 2}, {3, 4, 5}}},
		{"remainder", plain(5), []float64{0.5, 0.5}, swcut.Clustering{{0, 1}, {2, 3}, {4}}},
		{"forced pulls boundary back", forcedAt(6, 3), []float64{0.4, 0.3, 0.3}, swcut.Clustering{{0, 1}, {2, 3, 4}, {5}}},
		{"forced run longer than table", forcedAt(4, 1, 2), []float64{0.5, 0.5}, swcut.Clustering{{0, 1}, {2, 3}}},
		{"no table", plain(2), nil, swcut.Singletons(2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := uniformModel(t, tc.nodes, tc.lengthPrior...)
			got := m.InitialSegments()
			assert.Equal(t, tc.want, got)
			assert.NoError(t, got.Validate(len(tc.nodes)))
			assert.Equal(t, tc.want, m.Problem().Initial)
		})
	}
}

func TestSegment_LongerThanLengthPrior(t *testing.T) {
	nodes := make([]segment.Node, 6)
	for i := range nodes {
		nodes[i] = node(false, 0.5, 0.5)
	}
	m := uniformModel(t, nodes, 0.4, 0.3, 0.3)

	_, err := m.Energy([]int{0, 0, 0, 0, 0, 0})
	require.ErrorIs(t, err, segment.ErrSegmentTooLong)

	res, err := m.Segment(context.Background(), swcut.New(swcut.WithSeed(1), swcut.WithIterations(50)))
	require.NoError(t, err)
	require.Len(t, res.Labels, 6)
	covered := 0
	for _, seg := range res.Segments {
		assert.LessOrEqual(t, len(seg), 3)
		covered += len(seg)
	}
	assert.Equal(t, 6, covered)
	assert.False(t, math.IsNaN(res.Energy))
}

func TestProblem_TooLongSegmentHasZeroTarget(t *testing.T) {
	nodes := make([]segment.Node, 4)
	for i := range nodes {
		nodes[i] = node(false, 0.5, 0.5)
	}
	p := uniformModel(t, nodes, 0.5, 0.5).Problem()

	lt, err := p.Target.LogDensity(swcut.Whole(4), nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(lt, -1))
	assert.True(t, math.IsNaN(p.Monitor(swcut.Whole(4))))

	lt, err = p.Target.LogDensity(swcut.Clustering{{0, 1}, {2, 3}}, nil)
	require.NoError(t, err)
	assert.False(t, math.IsInf(lt, 0))
	assert.False(t, math.IsNaN(p.Monitor(swcut.Clustering{{0, 1}, {2, 3}})))
}
