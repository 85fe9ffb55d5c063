// SPDX-License-Identifier: MIT

package distribution

import (
	"sort"
	"strconv"
	"strings"
)

const (
	opVertex      = "Vertex"
	opMergeVertex = "MergeVertices"
)

// Vertex is one Distribution per word type plus the documents it aggregates.
// Equality is defined by Key(): the sorted document-id set.
type Vertex struct {
	dists [NumWordTypes]Distribution
	docs  []int // sorted, unique
}

// NewVertex builds a vertex over docs with the given per-type distributions.
// docs is copied, sorted and de-duplicated.
func NewVertex(docs []int, dists [NumWordTypes]Distribution) Vertex {
	v := Vertex{docs: normalizeIDs(docs)}
	for i := range dists {
		v.dists[i] = dists[i].clone()
	}

	return v
}

// Distribution returns the distribution of word type t.
//
// Errors:
//   - ErrWordType if t is not a declared word type.
func (v Vertex) Distribution(t WordType) (Distribution, error) {
	if !t.Valid() {
		return Distribution{}, distributionErrorf(opVertex, ErrWordType)
	}

	return v.dists[t], nil
}

// Documents returns a copy of the sorted document ids.
func (v Vertex) Documents() []int {
	out := make([]int, len(v.docs))
	copy(out, v.docs)

	return out
}

// Key is the canonical identity of the vertex, e.g. "3,10,11".
func (v Vertex) Key() string { return KeyOf(v.docs) }

// Equal reports whether both vertices aggregate the same documents.
func (v Vertex) Equal(o Vertex) bool { return v.Key() == o.Key() }

// MergeVertices merges every word-type distribution independently and unions
// the document sets.
//
// Errors:
//   - ErrLengthMismatch from Merge, wrapped with the operation name.
func MergeVertices(a, b Vertex) (Vertex, error) {
	var out Vertex
	for _, t := range WordTypes {
		m, err := Merge(a.dists[t], b.dists[t])
		if err != nil {
			return Vertex{}, distributionErrorf(opMergeVertex, err)
		}
		out.dists[t] = m
	}
	out.docs = unionIDs(a.docs, b.docs)

	return out, nil
}

// KeyOf renders a document-id set canonically. The input need not be sorted.
func KeyOf(ids []int) string {
	sorted := normalizeIDs(ids)
	var sb strings.Builder
	for i, id := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}

	return sb.String()
}

// normalizeIDs returns a sorted, de-duplicated copy of ids.
func normalizeIDs(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)

	w := 0
	for i, id := range out {
		if i > 0 && id == out[w-1] {
			continue
		}
		out[w] = id
		w++
	}

	return out[:w]
}

// unionIDs merges two sorted unique slices into a new sorted unique slice.
func unionIDs(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)

	return append(out, b[j:]...)
}
