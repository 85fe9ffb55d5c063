// SPDX-License-Identifier: MIT

package swcut_test

import (
	"context"
	"errors"
	"testing"

	"github.com/katalvlaran/swclust/graph"
	"github.com/katalvlaran/swclust/swcut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTarget = errors.New("target failed")

// pairReward scores +10 for every listed pair sharing a cluster.
func pairReward(pairs ...[2]int) swcut.Target {
	return swcut.TargetFunc(func(c swcut.Clustering, _ *swcut.Context) (float64, error) {
		labels := make(map[int]int)
		for i, cl := range c {
			for _, v := range cl {
				labels[v] = i
			}
		}
		score := 0.0
		for _, p := range pairs {
			if labels[p[0]] == labels[p[1]] {
				score += 10
			}
		}
		return score, nil
	})
}

func constProb(q float64) func(int, int, *swcut.Context) float64 {
	return func(int, int, *swcut.Context) float64 { return q }
}

func TestClustering_FromLabelsIsCanonical(t *testing.T) {
	c := swcut.FromLabels([]int{7, 3, 7, 3, 9})
	assert.Equal(t, swcut.Clustering{{0, 2}, {1, 3}, {4}}, c)

	labels, err := c.Labels(5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1, 2}, labels)
}

func TestClustering_Validate(t *testing.T) {
	assert.NoError(t, swcut.Clustering{{1, 0}, {2}}.Validate(3))
	assert.ErrorIs(t, swcut.Clustering{{0, 1}}.Validate(3), swcut.ErrNotPartition)
	assert.ErrorIs(t, swcut.Clustering{{0, 1}, {1, 2}}.Validate(3), swcut.ErrNotPartition)
	assert.ErrorIs(t, swcut.Clustering{{0, 1, 2}, {}}.Validate(3), swcut.ErrNotPartition)
	assert.ErrorIs(t, swcut.Clustering{{0, 5}}.Validate(2), swcut.ErrNotPartition)
}

func TestClustering_Canonical(t *testing.T) {
	c := swcut.Clustering{{5, 3}, {2, 0}}.Canonical()
	assert.Equal(t, swcut.Clustering{{0, 2}, {3, 5}}, c)
	assert.Equal(t, 4, c.Size())
	assert.Equal(t, swcut.Clustering{{0, 1, 2}}, swcut.Whole(3))
	assert.Equal(t, swcut.Clustering{{0}, {1}}, swcut.Singletons(2))
}

func TestSample_BadProblem(t *testing.T) {
	s := swcut.New()
	_, err := s.Sample(context.Background(), swcut.Problem{GraphSize: 2, Target: pairReward()})
	assert.ErrorIs(t, err, swcut.ErrBadProblem)

	_, err = s.Sample(context.Background(), swcut.Problem{GraphSize: 2, EdgeProb: constProb(1)})
	assert.ErrorIs(t, err, swcut.ErrBadProblem)

	_, err = s.Sample(context.Background(), swcut.Problem{
		GraphSize: 2, EdgeProb: constProb(1), Target: pairReward(),
		Initial: swcut.Clustering{{0}},
	})
	assert.ErrorIs(t, err, swcut.ErrNotPartition)

	_, err = s.Sample(context.Background(), swcut.Problem{
		GraphSize: 2, EdgeProb: constProb(1), Target: pairReward(),
		Edges: []graph.Edge{{U: 0, V: 3}},
	})
	assert.ErrorIs(t, err, graph.ErrVertexOutOfRange)
}

func TestSample_EmptyGraph(t *testing.T) {
	c, err := swcut.New().Sample(context.Background(), swcut.Problem{EdgeProb: constProb(1), Target: pairReward()})
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestSample_FindsRewardedPairs(t *testing.T) {
	p := swcut.Problem{
		GraphSize: 4,
		Edges:     []graph.Edge{{U: 0, V: 1}, {U: 2, V: 3}},
		EdgeProb:  constProb(0.5),
		Target:    pairReward([2]int{0, 1}, [2]int{2, 3}),
	}
	c, err := swcut.New(swcut.WithSeed(42), swcut.WithIterations(200)).Sample(context.Background(), p)
	require.NoError(t, err)
	require.NoError(t, c.Validate(4))
	assert.Equal(t, swcut.Clustering{{0, 1}, {2, 3}}, c)
}

func TestSample_DeterministicForSeed(t *testing.T) {
	p := swcut.Problem{
		GraphSize: 6,
		Edges:     graph.Chain(6),
		EdgeProb:  constProb(0.4),
		Target:    pairReward([2]int{0, 1}, [2]int{4, 5}),
	}
	a, err := swcut.New(swcut.WithSeed(3), swcut.WithIterations(50), swcut.WithKeepBest(false)).Sample(context.Background(), p)
	require.NoError(t, err)
	b, err := swcut.New(swcut.WithSeed(3), swcut.WithIterations(50), swcut.WithKeepBest(false)).Sample(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSample_ForcedEdgesNeverSplit(t *testing.T) {
	p := swcut.Problem{
		GraphSize: 4,
		Edges:     graph.Chain(4),
		EdgeProb:  constProb(1),
		Target:    pairReward(),
		Initial:   swcut.Whole(4),
	}
	c, err := swcut.New(swcut.WithIterations(30)).Sample(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, swcut.Whole(4), c)
}

func TestSample_CallbackPerProposal(t *testing.T) {
	var calls, last int
	p := swcut.Problem{
		GraphSize: 3,
		Edges:     graph.Chain(3),
		EdgeProb:  constProb(0.5),
		Target:    pairReward([2]int{0, 1}),
		Callback: func(c swcut.Clustering, sc *swcut.Context) {
			calls++
			last = sc.Iteration
		},
		Monitor: func(c swcut.Clustering) float64 { return float64(len(c)) },
	}
	_, err := swcut.New(swcut.WithIterations(25)).Sample(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 25, calls)
	assert.Equal(t, 24, last)
}

func TestSample_TargetErrorAborts(t *testing.T) {
	p := swcut.Problem{
		GraphSize: 2,
		Edges:     graph.Chain(2),
		EdgeProb:  constProb(0.5),
		Target: swcut.TargetFunc(func(swcut.Clustering, *swcut.Context) (float64, error) {
			return 0, errTarget
		}),
	}
	_, err := swcut.New().Sample(context.Background(), p)
	assert.ErrorIs(t, err, errTarget)
}

func TestSample_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := swcut.Problem{GraphSize: 2, EdgeProb: constProb(0.5), Target: pairReward()}
	_, err := swcut.New().Sample(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { swcut.WithIterations(0) })
	assert.Panics(t, func() { swcut.WithRand(nil) })
	assert.Panics(t, func() { swcut.WithLogger(nil) })
}

func BenchmarkSample_Chain(b *testing.B) {
	p := swcut.Problem{
		GraphSize: 200,
		Edges:     graph.Chain(200),
		EdgeProb:  constProb(0.5),
		Target:    pairReward([2]int{0, 1}, [2]int{10, 11}, [2]int{100, 101}),
	}
	s := swcut.New(swcut.WithSeed(1), swcut.WithIterations(100))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.Sample(context.Background(), p); err != nil {
			b.Fatal(err)
		}
	}
}
