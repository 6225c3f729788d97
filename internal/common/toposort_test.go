package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(edges map[int][]int) func(int) []int {
	return func(i int) []int { return edges[i] }
}

func TestTopoSort_Order(t *testing.T) {
	order, err := TopoSort(4, graph(map[int][]int{
		0: {2},
		1: nil,
		2: {3},
		3: nil,
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2, 0}, order)
}

func TestTopoSort_Cycle(t *testing.T) {
	order, err := TopoSort(3, graph(map[int][]int{
		0: {1},
		1: {0},
	}))
	require.ErrorIs(t, err, ErrCycle)
	assert.Equal(t, []int{2}, order)
}

func TestTopoSort_OutOfRange(t *testing.T) {
	_, err := TopoSort(1, graph(map[int][]int{0: {5}}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCycle)
}

func TestCycleMembers(t *testing.T) {
	// 0 <-> 1 is a cycle, 2 depends on the cycle, 3 is free
	deps := graph(map[int][]int{
		0: {1},
		1: {0},
		2: {0},
	})
	assert.Equal(t, []int{0, 1}, CycleMembers(4, deps))

	assert.Nil(t, CycleMembers(2, graph(map[int][]int{1: {0}})))

	// self loop
	assert.Equal(t, []int{0}, CycleMembers(1, graph(map[int][]int{0: {0}})))
}
