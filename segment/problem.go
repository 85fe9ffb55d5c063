// SPDX-License-Identifier: MIT

package segment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/graph"
	"github.com/katalvlaran/swclust/swcut"
)

// Problem expresses the segmentation as an SW-cut problem over the chain
// graph 0-1-...-n-1, starting from InitialSegments. Clusters of the sampled
// partition are read as labels, so a cluster that is not contiguous simply
// yields several segments.
//
// The problem's target gives zero probability to a labeling with a segment
// longer than the length prior, so the sampler rejects such proposals.
// Energy and LogTarget still report ErrSegmentTooLong for them.
func (m *Model) Problem() swcut.Problem {
	n := len(m.nodes)

	return swcut.Problem{
		GraphSize: n,
		Edges:     graph.Chain(n),
		EdgeProb: func(i, j int, sc *swcut.Context) float64 {
			if i > j {
				i, j = j, i
			}
			it := 0
			if sc != nil {
				it = sc.Iteration
			}
			return m.EdgeOn(i, j, it)
		},
		Target: swcut.TargetFunc(func(c swcut.Clustering, _ *swcut.Context) (float64, error) {
			labels, err := c.Labels(n)
			if err != nil {
				return 0, err
			}
			lt, err := m.LogTarget(labels)
			if errors.Is(err, ErrSegmentTooLong) {
				return math.Inf(-1), nil
			}
			return lt, err
		}),
		Initial: m.InitialSegments(),
		Monitor: func(c swcut.Clustering) float64 {
			labels, err := c.Labels(n)
			if err == nil {
				var e float64
				if e, err = m.Energy(labels); err == nil {
					return e
				}
			}
			m.logger.Debug("segment energy unavailable", zap.Error(err))
			return math.NaN()
		},
	}
}

// InitialSegments returns the starting partition of the sampler: the whole
// sequence when the length prior covers it, otherwise contiguous runs of at
// most len(lengthPrior) nodes. A run boundary is moved back so that it does
// not fall before a Forced node, unless the run would then be empty.
func (m *Model) InitialSegments() swcut.Clustering {
	n := len(m.nodes)
	limit := len(m.lengthPrior)
	switch {
	case limit >= n:
		return swcut.Whole(n)
	case limit == 0:
		return swcut.Singletons(n)
	}

	var c swcut.Clustering
	for start := 0; start < n; {
		end := start + limit
		if end < n {
			cut := end
			for cut > start+1 && m.nodes[cut].Forced {
				cut--
			}
			if !m.nodes[cut].Forced {
				end = cut
			}
		} else {
			end = n
		}
		run := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			run = append(run, i)
		}
		c = append(c, run)
		start = end
	}

	return c
}

// Result is a sampled segmentation.
type Result struct {
	Segments   [][]int
	Labels     []int // run index of every node
	Categories []int // category of every segment
	Energy     float64
}

// Segment samples a segmentation with s.
func (m *Model) Segment(ctx context.Context, s swcut.Sampler) (Result, error) {
	n := len(m.nodes)
	if n == 0 {
		return Result{}, nil
	}
	c, err := s.Sample(ctx, m.Problem())
	if err != nil {
		return Result{}, fmt.Errorf("segment: %w", err)
	}
	raw, err := c.Labels(n)
	if err != nil {
		return Result{}, fmt.Errorf("segment: %w", err)
	}

	res := Result{Segments: LabelingToSegments(raw), Labels: make([]int, n)}
	for k, seg := range res.Segments {
		for _, i := range seg {
			res.Labels[i] = k
		}
		cat, _, err := m.Classify(seg)
		if err != nil {
			return Result{}, err
		}
		res.Categories = append(res.Categories, cat)
	}
	if res.Energy, err = m.Energy(raw); err != nil {
		return Result{}, err
	}

	return res, nil
}
