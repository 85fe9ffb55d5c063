// SPDX-License-Identifier: MIT

// Package graph provides the small undirected graph the samplers work on:
// vertices are the dense integers 0..n-1 and edges are unordered pairs.
//
// Unlike a general-purpose graph, vertex identity is positional. Each
// clustering level renumbers its vertices, so a Graph is built once per level
// and discarded afterwards.
//
// Errors:
//
//	ErrBadOrder            - negative vertex count.
//	ErrVertexOutOfRange    - an edge endpoint outside [0, n).
//	ErrLoopNotAllowed      - an edge from a vertex to itself.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for graph construction.
var (
	// ErrBadOrder indicates a negative number of vertices.
	ErrBadOrder = errors.New("graph: vertex count must be non-negative")

	// ErrVertexOutOfRange indicates an edge endpoint outside [0, n).
	ErrVertexOutOfRange = errors.New("graph: vertex out of range")

	// ErrLoopNotAllowed indicates a self-loop.
	ErrLoopNotAllowed = errors.New("graph: self-loop not allowed")
)

// Edge is an unordered vertex pair stored with U < V.
type Edge struct {
	U, V int
}

// NewEdge returns the canonical (min, max) form of {u, v}.
func NewEdge(u, v int) Edge {
	if u > v {
		u, v = v, u
	}

	return Edge{U: u, V: v}
}

// Graph is an immutable undirected simple graph over 0..n-1.
type Graph struct {
	n     int
	edges []Edge  // canonical, sorted, unique
	adj   [][]int // adj[v] sorted ascending
}

// New validates edges and builds the adjacency lists. Duplicate edges
// (in either orientation) collapse into one.
//
// Complexity: O(n + E·log E).
func New(n int, edges []Edge) (*Graph, error) {
	if n < 0 {
		return nil, ErrBadOrder
	}

	seen := make(map[Edge]struct{}, len(edges))
	canon := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return nil, fmt.Errorf("%w: (%d,%d) with n=%d", ErrVertexOutOfRange, e.U, e.V, n)
		}
		if e.U == e.V {
			return nil, fmt.Errorf("%w: %d", ErrLoopNotAllowed, e.U)
		}
		c := NewEdge(e.U, e.V)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		canon = append(canon, c)
	}
	sort.Slice(canon, func(i, j int) bool {
		if canon[i].U != canon[j].U {
			return canon[i].U < canon[j].U
		}
		return canon[i].V < canon[j].V
	})

	adj := make([][]int, n)
	for _, e := range canon {
		adj[e.U] = append(adj[e.U], e.V)
		adj[e.V] = append(adj[e.V], e.U)
	}
	for v := range adj {
		sort.Ints(adj[v])
	}

	return &Graph{n: n, edges: canon, adj: adj}, nil
}

// Chain returns the path edges (0,1), (1,2), …, (n-2,n-1).
func Chain(n int) []Edge {
	if n < 2 {
		return nil
	}
	edges := make([]Edge, n-1)
	for i := range edges {
		edges[i] = Edge{U: i, V: i + 1}
	}

	return edges
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return g.n }

// Size returns the number of edges.
func (g *Graph) Size() int { return len(g.edges) }

// Edges returns a copy of the canonical edge list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// Neighbors returns the sorted neighbors of v, or nil if v is out of range.
func (g *Graph) Neighbors(v int) []int {
	if v < 0 || v >= g.n {
		return nil
	}

	return g.adj[v]
}
