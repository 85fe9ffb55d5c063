// SPDX-License-Identifier: MIT

package affinity_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/swclust/affinity"
	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vertex builds a single-document vertex whose word types share hist.
func vertex(t testing.TB, doc int, hist ...float64) distribution.Vertex {
	t.Helper()
	var dists [distribution.NumWordTypes]distribution.Distribution
	for i := range dists {
		d, err := distribution.New(hist)
		require.NoError(t, err)
		dists[i] = d
	}

	return distribution.NewVertex([]int{doc}, dists)
}

// pairs returns {0,1} identical and {2,3} identical but disjoint from {0,1}.
func pairs(t *testing.T) []distribution.Vertex {
	return []distribution.Vertex{
		vertex(t, 0, 2, 1, 0, 0),
		vertex(t, 1, 2, 1, 0, 0),
		vertex(t, 2, 0, 0, 1, 3),
		vertex(t, 3, 0, 0, 1, 3),
	}
}

func TestProbability_IdenticalIsOne(t *testing.T) {
	m := affinity.New(pairs(t))
	p, err := m.Probability(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-12)

	p, err = m.Probability(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestProbability_DisjointDecays(t *testing.T) {
	vs := []distribution.Vertex{vertex(t, 0, 1, 0), vertex(t, 1, 0, 1)}

	// Each direction costs log(1/1e-100) nats.
	want := math.Exp(-100 * math.Ln10 / affinity.DefaultDecay)
	p, err := affinity.New(vs).Probability(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, want, p, 1e-9)

	sharp, err := affinity.New(vs, affinity.WithDecay(1)).Probability(0, 1)
	require.NoError(t, err)
	assert.Less(t, sharp, 1e-90)
}

func TestProbability_SymmetricAndCached(t *testing.T) {
	vs := []distribution.Vertex{vertex(t, 0, 3, 1), vertex(t, 1, 1, 1)}
	m := affinity.New(vs)

	a, err := m.Probability(0, 1)
	require.NoError(t, err)
	b, err := m.Probability(1, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, m.CacheLen())
	assert.Equal(t, a, m.EdgeProb(1, 0, nil))
}

func TestProbability_Errors(t *testing.T) {
	m := affinity.New([]distribution.Vertex{vertex(t, 0, 1, 1), vertex(t, 1, 1, 1, 1)})

	_, err := m.Probability(0, 5)
	assert.ErrorIs(t, err, affinity.ErrIndexOutOfRange)

	_, err = m.Probability(0, 1)
	assert.ErrorIs(t, err, distribution.ErrLengthMismatch)
	assert.Equal(t, 0.0, m.EdgeProb(0, 1, nil))
}

func TestEdges_PrunesDisjointPairs(t *testing.T) {
	m := affinity.New(pairs(t))

	edges, err := m.Edges(1)
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{{U: 0, V: 1}, {U: 2, V: 3}}, edges)

	// At level 2 the threshold 1.6 exceeds every TV distance.
	edges, err = m.Edges(2)
	require.NoError(t, err)
	assert.Len(t, edges, 6)
}

func TestEdges_CustomThreshold(t *testing.T) {
	m := affinity.New(pairs(t), affinity.WithThreshold(func(int) float64 { return -1 }))
	edges, err := m.Edges(1)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestDistance(t *testing.T) {
	m := affinity.New(pairs(t))
	d, err := m.Distance(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-12)
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { affinity.WithDecay(0) })
	assert.Panics(t, func() { affinity.WithThreshold(nil) })
	assert.Panics(t, func() { affinity.WithLogger(nil) })
}

func BenchmarkProbability(b *testing.B) {
	hist := make([]float64, 5000)
	for i := range hist {
		hist[i] = float64(i % 7)
	}
	shifted := append(append([]float64(nil), hist[1:]...), 1)
	vs := []distribution.Vertex{vertex(b, 0, hist...), vertex(b, 1, shifted...)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := affinity.New(vs)
		_, _ = m.Probability(0, 1)
	}
}
