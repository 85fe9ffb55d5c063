// SPDX-License-Identifier: MIT

package hierarchy

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrCorruptSnapshot indicates a snapshot that does not describe a valid tree.
var ErrCorruptSnapshot = errors.New("hierarchy: corrupt snapshot")

// snapshot is the wire form of a Tree. Terminal nodes are implied by the
// first level and not stored.
type snapshot struct {
	Terminals int     `msgpack:"terminals"`
	Branches  [][]int `msgpack:"branches"` // children of node Terminals+i
	Levels    [][]int `msgpack:"levels"`   // levels above the terminals
}

// MarshalBinary encodes the tree as msgpack so a run can be checkpointed
// between levels.
func (t *Tree) MarshalBinary() ([]byte, error) {
	s := snapshot{Terminals: t.Terminals()}
	for _, n := range t.nodes[s.Terminals:] {
		s.Branches = append(s.Branches, idsToInts(n.Children))
	}
	for _, lvl := range t.levels[1:] {
		s.Levels = append(s.Levels, idsToInts(lvl))
	}
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: encode snapshot: %w", err)
	}

	return data, nil
}

// Restore decodes a tree written by MarshalBinary.
//
// Errors:
//   - ErrCorruptSnapshot for undecodable data or dangling node references.
func Restore(data []byte) (*Tree, error) {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if s.Terminals < 0 {
		return nil, fmt.Errorf("%w: %d terminals", ErrCorruptSnapshot, s.Terminals)
	}

	t := New(s.Terminals)
	for i, children := range s.Branches {
		id := NodeID(s.Terminals + i)
		ids := make([]NodeID, len(children))
		for k, c := range children {
			// children always precede their branch in the arena
			if c < 0 || c >= int(id) || t.parent[c] != NoParent {
				return nil, fmt.Errorf("%w: branch %d child %d", ErrCorruptSnapshot, id, c)
			}
			ids[k] = NodeID(c)
			t.parent[c] = id
		}
		t.nodes = append(t.nodes, Node{Terminal: -1, Children: ids})
		t.parent = append(t.parent, NoParent)
	}
	for _, lvl := range s.Levels {
		ids := make([]NodeID, len(lvl))
		for k, v := range lvl {
			if v < 0 || v >= len(t.nodes) {
				return nil, fmt.Errorf("%w: level node %d", ErrCorruptSnapshot, v)
			}
			ids[k] = NodeID(v)
		}
		t.levels = append(t.levels, ids)
	}

	return t, nil
}

func idsToInts(ids []NodeID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}

	return out
}
