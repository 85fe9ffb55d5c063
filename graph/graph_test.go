// SPDX-License-Identifier: MIT

package graph_test

import (
	"testing"

	"github.com/katalvlaran/swclust/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := graph.New(-1, nil)
	assert.ErrorIs(t, err, graph.ErrBadOrder)

	_, err = graph.New(2, []graph.Edge{{U: 0, V: 2}})
	assert.ErrorIs(t, err, graph.ErrVertexOutOfRange)

	_, err = graph.New(2, []graph.Edge{{U: 1, V: 1}})
	assert.ErrorIs(t, err, graph.ErrLoopNotAllowed)
}

func TestNew_CanonicalizesEdges(t *testing.T) {
	g, err := graph.New(3, []graph.Edge{{U: 2, V: 0}, {U: 0, V: 2}, {U: 1, V: 0}})
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{{U: 0, V: 1}, {U: 0, V: 2}}, g.Edges())
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, []int{1, 2}, g.Neighbors(0))
	assert.Nil(t, g.Neighbors(3))
}

func TestComponents(t *testing.T) {
	g, err := graph.New(6, []graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 4, V: 5}})
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 1, 2}, {3}, {4, 5}}, g.Components(nil))

	cut := g.Components(func(e graph.Edge) bool { return e != graph.Edge{U: 1, V: 2} })
	assert.Equal(t, [][]int{{0, 1}, {2}, {3}, {4, 5}}, cut)

	assert.Equal(t, []int{4, 5}, g.ComponentOf(5, nil))
	assert.Nil(t, g.ComponentOf(9, nil))
}

func TestChain(t *testing.T) {
	assert.Nil(t, graph.Chain(1))
	assert.Equal(t, []graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}}, graph.Chain(3))
}
