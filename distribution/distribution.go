// SPDX-License-Identifier: MIT

package distribution

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Operation names used when wrapping sentinels.
const (
	opNew            = "New"
	opAt             = "At"
	opMerge          = "Merge"
	opKL             = "KL"
	opTotalVariation = "TotalVariation"
)

// Distribution is a histogram over word ids normalized to sum to 1.
//
// The zero value is the unset distribution: it has no weights and acts as the
// identity element of Merge. A Distribution built from an all-zero histogram
// keeps its length but is also empty (Total()==0).
//
// Distributions are values; no method mutates the receiver.
type Distribution struct {
	weights []float64 // normalized weights, len == vocabulary size
	total   float64   // raw count the weights were divided by
}

// New normalizes histogram by its sum and records that sum as the total.
// The input slice is copied.
//
// Errors:
//   - ErrNegativeWeight if any bin is negative, NaN or ±Inf.
//
// Complexity: O(n).
func New(histogram []float64) (Distribution, error) {
	for _, v := range histogram {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Distribution{}, distributionErrorf(opNew, ErrNegativeWeight)
		}
	}
	w := make([]float64, len(histogram))
	copy(w, histogram)

	total := floats.Sum(w)
	if total != 0 && total != 1 {
		// divide rather than scale by 1/total so exact ratios stay exact
		for i := range w {
			w[i] /= total
		}
	}

	return Distribution{weights: w, total: total}, nil
}

// FromCounts builds a Distribution over a vocabulary of size n from a list of
// word ids, one entry per occurrence.
//
// Errors:
//   - ErrWordOutOfRange if an id is outside [0, n).
func FromCounts(n int, ids []int) (Distribution, error) {
	hist := make([]float64, n)
	for _, id := range ids {
		if id < 0 || id >= n {
			return Distribution{}, distributionErrorf(opNew, ErrWordOutOfRange)
		}
		hist[id]++
	}

	return New(hist)
}

// Len returns the vocabulary size this distribution spans.
func (d Distribution) Len() int { return len(d.weights) }

// Total returns the raw count that produced the normalized weights.
func (d Distribution) Total() float64 { return d.total }

// IsEmpty reports whether the distribution carries no mass.
func (d Distribution) IsEmpty() bool { return d.total == 0 }

// At returns the probability of word id.
//
// Errors:
//   - ErrWordOutOfRange if id is outside [0, Len()).
func (d Distribution) At(id int) (float64, error) {
	if id < 0 || id >= len(d.weights) {
		return 0, distributionErrorf(opAt, ErrWordOutOfRange)
	}

	return d.weights[id], nil
}

// Weights returns a copy of the normalized weights.
func (d Distribution) Weights() []float64 {
	out := make([]float64, len(d.weights))
	copy(out, d.weights)

	return out
}

// Merge combines a and b as if their raw histograms had been summed and the
// result renormalized. Merge is commutative and associative up to floating
// point rounding; an empty operand returns a copy of the other one.
//
// Errors:
//   - ErrLengthMismatch if both operands carry mass over different vocabularies.
//
// Complexity: O(n).
func Merge(a, b Distribution) (Distribution, error) {
	if a.IsEmpty() {
		return b.clone(), nil
	}
	if b.IsEmpty() {
		return a.clone(), nil
	}
	if len(a.weights) != len(b.weights) {
		return Distribution{}, distributionErrorf(opMerge, ErrLengthMismatch)
	}

	counts := make([]float64, len(a.weights))
	floats.ScaleTo(counts, a.total, a.weights) // recover raw counts of a
	floats.AddScaled(counts, b.total, b.weights)

	return New(counts)
}

// KL returns the Kullback–Leibler divergence KL(a‖b) with every weight floored
// by Epsilon before the logarithm. The result is asymmetric; average both
// directions for a symmetric score.
//
// Errors:
//   - ErrLengthMismatch if the vocabularies differ.
func KL(a, b Distribution) (float64, error) {
	if len(a.weights) != len(b.weights) {
		return 0, distributionErrorf(opKL, ErrLengthMismatch)
	}

	var kl float64
	for i, p := range a.weights {
		if p == 0 {
			continue // 0·log(0/q) contributes nothing
		}
		kl += p * (math.Log(p+Epsilon) - math.Log(b.weights[i]+Epsilon))
	}
	if kl < 0 {
		// rounding can push identical inputs a hair below zero
		kl = 0
	}

	return kl, nil
}

// TotalVariation returns half the L1 distance between the weight vectors.
// The result is symmetric and lies in [0, 1] for normalized inputs.
//
// Errors:
//   - ErrLengthMismatch if the vocabularies differ.
func TotalVariation(a, b Distribution) (float64, error) {
	if len(a.weights) != len(b.weights) {
		return 0, distributionErrorf(opTotalVariation, ErrLengthMismatch)
	}
	if len(a.weights) == 0 {
		return 0, nil
	}

	return floats.Distance(a.weights, b.weights, 1) / 2, nil
}

// Top returns the ids of the k most probable words in descending order of
// weight; ties keep ascending id order. k is clamped to Len().
func (d Distribution) Top(k int) []int {
	if k > len(d.weights) {
		k = len(d.weights)
	}
	if k <= 0 {
		return nil
	}

	ids := make([]int, len(d.weights))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return d.weights[ids[i]] > d.weights[ids[j]]
	})

	return ids[:k]
}

// clone returns a deep copy so callers never share backing arrays.
func (d Distribution) clone() Distribution {
	if d.weights == nil {
		return Distribution{total: d.total}
	}

	return Distribution{weights: d.Weights(), total: d.total}
}
