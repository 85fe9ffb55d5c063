// SPDX-License-Identifier: MIT

// Package hierarchy records successive clusterings as a tree.
//
// Nodes live in an arena and are addressed by NodeID. Terminal nodes stand for
// the original vertices (documents); branch nodes group the nodes of the level
// below. The grouping map (parent links plus the per-level top lists) is kept
// beside the arena, so a level is appended without rewriting any node.
//
// Tree records whole levels from the multi-level driver. TopicTree wraps a
// Tree with one merged word distribution per top-level branch and supports
// pairwise branch combination, likelihood and complexity scoring.
package hierarchy

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/swclust/swcut"
)

// Sentinel errors.
var (
	// ErrTerminalNotFound indicates a terminal id that is not in the tree.
	ErrTerminalNotFound = errors.New("hierarchy: terminal not found")

	// ErrNodeNotFound indicates a NodeID outside the arena.
	ErrNodeNotFound = errors.New("hierarchy: node not found")

	// ErrBadLevel indicates a clustering that does not partition the current top.
	ErrBadLevel = errors.New("hierarchy: clustering does not match current top level")

	// ErrBranchNotFound indicates a branch index outside the current top.
	ErrBranchNotFound = errors.New("hierarchy: branch not found")
)

// NodeID addresses a node in the arena.
type NodeID int

// NoParent marks a top-level node.
const NoParent NodeID = -1

// Node is either a terminal (Terminal >= 0, no children) or a branch.
type Node struct {
	Terminal int
	Children []NodeID
}

// IsTerminal reports whether n stands for an original vertex.
func (n Node) IsTerminal() bool { return n.Terminal >= 0 }

// Tree is an append-only hierarchy over terminals 0..n-1.
// It is not safe for concurrent use.
type Tree struct {
	nodes  []Node
	parent []NodeID
	levels [][]NodeID // levels[0] = terminals; last = current top
}

// New returns a tree whose single level holds n terminals.
func New(n int) *Tree {
	t := &Tree{
		nodes:  make([]Node, n),
		parent: make([]NodeID, n),
	}
	base := make([]NodeID, n)
	for i := 0; i < n; i++ {
		t.nodes[i] = Node{Terminal: i}
		t.parent[i] = NoParent
		base[i] = NodeID(i)
	}
	t.levels = [][]NodeID{base}

	return t
}

// Terminals returns the number of terminals.
func (t *Tree) Terminals() int { return len(t.levels[0]) }

// Depth returns the number of levels added on top of the terminals.
func (t *Tree) Depth() int { return len(t.levels) - 1 }

// Top returns a copy of the current top-level node ids. Index i of the result
// is vertex i of the next clustering round.
func (t *Tree) Top() []NodeID { return append([]NodeID(nil), t.top()...) }

func (t *Tree) top() []NodeID { return t.levels[len(t.levels)-1] }

// Node returns a copy of node id.
func (t *Tree) Node(id NodeID) (Node, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	n := t.nodes[id]
	n.Children = append([]NodeID(nil), n.Children...)

	return n, nil
}

// AddLevelOnTop groups the current top nodes by c, whose members index into
// Top(). Every cluster becomes a new branch, including singletons, so each
// level has its own node set.
//
// Errors:
//   - ErrBadLevel (wrapping swcut.ErrNotPartition) if c is not a partition of
//     the current top. The tree is left unchanged.
func (t *Tree) AddLevelOnTop(c swcut.Clustering) error {
	cur := t.top()
	if err := c.Validate(len(cur)); err != nil {
		return fmt.Errorf("%w: %w", ErrBadLevel, err)
	}

	next := make([]NodeID, 0, len(c))
	for _, cluster := range c.Canonical() {
		id := NodeID(len(t.nodes))
		children := make([]NodeID, len(cluster))
		for i, v := range cluster {
			children[i] = cur[v]
			t.parent[cur[v]] = id
		}
		t.nodes = append(t.nodes, Node{Terminal: -1, Children: children})
		t.parent = append(t.parent, NoParent)
		next = append(next, id)
	}
	t.levels = append(t.levels, next)

	return nil
}

// combine replaces top nodes i and j by one new branch holding both, placed at
// min(i, j). It starts a new level.
func (t *Tree) combine(i, j int) error {
	cur := t.top()
	if i < 0 || j < 0 || i >= len(cur) || j >= len(cur) || i == j {
		return fmt.Errorf("%w: (%d,%d) of %d", ErrBranchNotFound, i, j, len(cur))
	}
	if i > j {
		i, j = j, i
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Terminal: -1, Children: []NodeID{cur[i], cur[j]}})
	t.parent = append(t.parent, NoParent)
	t.parent[cur[i]], t.parent[cur[j]] = id, id

	next := make([]NodeID, 0, len(cur)-1)
	next = append(next, cur[:i]...)
	next = append(next, id)
	next = append(next, cur[i+1:j]...)
	next = append(next, cur[j+1:]...)
	t.levels = append(t.levels, next)

	return nil
}

// TerminalsOf returns the terminals under id in left-to-right order.
func (t *Tree) TerminalsOf(id NodeID) ([]int, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	var out []int
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n.IsTerminal() {
			out = append(out, n.Terminal)
			continue
		}
		for k := len(n.Children) - 1; k >= 0; k-- {
			stack = append(stack, n.Children[k])
		}
	}

	return out, nil
}

// FindBranchID returns the index in Top() of the branch holding terminal.
//
// Complexity: O(depth).
func (t *Tree) FindBranchID(terminal int) (int, error) {
	if terminal < 0 || terminal >= t.Terminals() {
		return 0, fmt.Errorf("%w: %d", ErrTerminalNotFound, terminal)
	}
	root := NodeID(terminal)
	for t.parent[root] != NoParent {
		root = t.parent[root]
	}
	for i, id := range t.top() {
		if id == root {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %d", ErrTerminalNotFound, terminal)
}

// Level returns level k (0 = terminals) as a clustering of terminal ids.
func (t *Tree) Level(k int) (swcut.Clustering, error) {
	if k < 0 || k >= len(t.levels) {
		return nil, fmt.Errorf("hierarchy: level %d of %d", k, len(t.levels))
	}
	out := make(swcut.Clustering, 0, len(t.levels[k]))
	for _, id := range t.levels[k] {
		ts, _ := t.TerminalsOf(id)
		out = append(out, ts)
	}

	return out.Canonical(), nil
}

// Render writes the hierarchy under the current top as an indented outline.
// Each branch opens with "+" and each terminal is printed as "|- label".
// A nil label prints the terminal id.
func (t *Tree) Render(w io.Writer, label func(terminal int) string) error {
	if label == nil {
		label = func(i int) string { return fmt.Sprint(i) }
	}
	var sb strings.Builder
	var walk func(ids []NodeID, depth int)
	walk = func(ids []NodeID, depth int) {
		indent := strings.Repeat("|  ", depth)
		sb.WriteString(indent + "+\n")
		for _, id := range ids {
			n := t.nodes[id]
			if n.IsTerminal() {
				sb.WriteString(indent + "|- " + label(n.Terminal) + "\n")
				continue
			}
			walk(n.Children, depth+1)
		}
	}
	walk(t.top(), 0)
	_, err := io.WriteString(w, sb.String())

	return err
}
