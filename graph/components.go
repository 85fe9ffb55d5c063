// SPDX-License-Identifier: MIT

package graph

// Components partitions the vertices into connected components using only the
// edges for which keep returns true (all edges when keep is nil).
//
// Each component is sorted ascending and components are ordered by their
// smallest vertex, so the result is deterministic for a fixed keep.
//
// Implementation:
//   - Stage 1: Build the adjacency restricted to kept edges.
//   - Stage 2: BFS from every unvisited vertex in ascending order.
//
// Complexity: O(V + E).
func (g *Graph) Components(keep func(Edge) bool) [][]int {
	adj := g.adj
	if keep != nil {
		adj = make([][]int, g.n)
		for _, e := range g.edges {
			if keep(e) {
				adj[e.U] = append(adj[e.U], e.V)
				adj[e.V] = append(adj[e.V], e.U)
			}
		}
	}

	visited := make([]bool, g.n)
	var comps [][]int
	queue := make([]int, 0, g.n)
	for start := 0; start < g.n; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue = append(queue[:0], start)
		comp := []int{}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			comp = append(comp, v)
			for _, w := range adj[v] {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}
		sortInts(comp)
		comps = append(comps, comp)
	}

	return comps
}

// ComponentOf returns the component containing v under keep, sorted ascending.
// It returns nil if v is out of range.
func (g *Graph) ComponentOf(v int, keep func(Edge) bool) []int {
	if v < 0 || v >= g.n {
		return nil
	}
	for _, c := range g.Components(keep) {
		for _, w := range c {
			if w == v {
				return c
			}
		}
	}

	return nil
}

// sortInts is an insertion sort; components are small and mostly ordered
// already because BFS starts from the smallest vertex.
func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] < a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
