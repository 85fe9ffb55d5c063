// SPDX-License-Identifier: MIT

package distribution

// MergeCache memoizes merged vertices by the document set they cover.
//
// Because Vertex identity is its document set, the merge of any group of
// vertices covering documents D is the same no matter which sub-groups were
// merged first. The cache is owned by one model instance and is not safe for
// concurrent use.
type MergeCache struct {
	entries map[string]Vertex
	hits    int
	misses  int
}

// NewMergeCache returns an empty cache.
func NewMergeCache() *MergeCache {
	return &MergeCache{entries: make(map[string]Vertex)}
}

// Merge folds vs into one Vertex, returning the cached result when the union
// of their document sets has been merged before.
//
// Errors:
//   - ErrEmpty if vs is empty.
//   - ErrLengthMismatch from MergeVertices.
//
// Complexity: O(Σ|docs|·log) for the key, plus O(len(vs)·V) on a miss.
func (c *MergeCache) Merge(vs []Vertex) (Vertex, error) {
	if len(vs) == 0 {
		return Vertex{}, distributionErrorf(opMergeVertex, ErrEmpty)
	}

	var docs []int
	for _, v := range vs {
		docs = append(docs, v.docs...)
	}
	key := KeyOf(docs)
	if hit, ok := c.entries[key]; ok {
		c.hits++
		return hit, nil
	}
	c.misses++

	acc := vs[0]
	for _, v := range vs[1:] {
		m, err := MergeVertices(acc, v)
		if err != nil {
			return Vertex{}, err
		}
		acc = m
	}
	c.entries[key] = acc

	return acc, nil
}

// Len returns the number of cached merges.
func (c *MergeCache) Len() int { return len(c.entries) }

// Stats returns the hit and miss counters.
func (c *MergeCache) Stats() (hits, misses int) { return c.hits, c.misses }

// Reset drops every cached entry and zeroes the counters.
func (c *MergeCache) Reset() {
	c.entries = make(map[string]Vertex)
	c.hits, c.misses = 0, 0
}
