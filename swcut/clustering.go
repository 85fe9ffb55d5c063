// SPDX-License-Identifier: MIT

package swcut

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotPartition indicates a clustering that overlaps, misses a vertex,
// references a vertex out of range or has an empty cluster.
var ErrNotPartition = errors.New("swcut: clustering is not a partition")

// Clustering is a partition of 0..n-1 into disjoint non-empty sets.
type Clustering [][]int

// FromLabels groups vertices by label. The result is canonical: clusters are
// sorted and ordered by their smallest member.
func FromLabels(labels []int) Clustering {
	groups := make(map[int][]int)
	order := make([]int, 0)
	for v, l := range labels {
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], v)
	}
	c := make(Clustering, 0, len(order))
	for _, l := range order {
		c = append(c, groups[l]) // vertices were appended in ascending order
	}

	return c
}

// Singletons returns {{0}, {1}, …, {n-1}}.
func Singletons(n int) Clustering {
	c := make(Clustering, n)
	for i := range c {
		c[i] = []int{i}
	}

	return c
}

// Whole returns the single cluster {0..n-1}, or an empty clustering for n==0.
func Whole(n int) Clustering {
	if n == 0 {
		return Clustering{}
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	return Clustering{all}
}

// Canonical returns a deep copy with every cluster sorted and clusters
// ordered by their smallest member.
func (c Clustering) Canonical() Clustering {
	out := make(Clustering, len(c))
	for i, cl := range c {
		cp := append([]int(nil), cl...)
		sort.Ints(cp)
		out[i] = cp
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) == 0 || len(out[j]) == 0 {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})

	return out
}

// Validate checks that c partitions 0..n-1.
func (c Clustering) Validate(n int) error {
	seen := make([]bool, n)
	count := 0
	for i, cl := range c {
		if len(cl) == 0 {
			return fmt.Errorf("%w: cluster %d is empty", ErrNotPartition, i)
		}
		for _, v := range cl {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: vertex %d out of range [0,%d)", ErrNotPartition, v, n)
			}
			if seen[v] {
				return fmt.Errorf("%w: vertex %d appears twice", ErrNotPartition, v)
			}
			seen[v] = true
			count++
		}
	}
	if count != n {
		return fmt.Errorf("%w: covers %d of %d vertices", ErrNotPartition, count, n)
	}

	return nil
}

// Labels returns labels[v] = index of the cluster containing v.
//
// Errors:
//   - ErrNotPartition if c does not partition 0..n-1.
func (c Clustering) Labels(n int) ([]int, error) {
	if err := c.Validate(n); err != nil {
		return nil, err
	}
	labels := make([]int, n)
	for i, cl := range c {
		for _, v := range cl {
			labels[v] = i
		}
	}

	return labels, nil
}

// Size returns the number of vertices covered.
func (c Clustering) Size() int {
	n := 0
	for _, cl := range c {
		n += len(cl)
	}

	return n
}
