package common

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycle is returned by TopoSort when the dependency graph is not a DAG.
var ErrCycle = errors.New("cycle detected")

// TopoSort returns node indices so that every node follows its dependencies.
//
// depsFn(i) yields indices that must come before i. When several nodes are
// ready the smallest index goes first, so ties keep input order. On a cycle
// the partial order is returned together with ErrCycle.
func TopoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return order, ErrCycle
	}

	return order, nil
}

// CycleMembers returns, in index order, the nodes that lie on a cycle or on
// a path between cycles. Nodes that only depend on a cycle are excluded.
func CycleMembers(n int, depsFn func(i int) []int) []int {
	order, err := TopoSort(n, depsFn)
	if err == nil {
		return nil
	}

	left := make(map[int]bool, n-len(order))
	for i := range n {
		left[i] = true
	}

	for _, i := range order {
		delete(left, i)
	}

	// peel nodes nothing in the remainder depends on
	for changed := true; changed; {
		changed = false

		needed := map[int]bool{}

		for i := range left {
			for _, d := range depsFn(i) {
				if left[d] {
					needed[d] = true
				}
			}
		}

		for i := range left {
			if !needed[i] {
				delete(left, i)

				changed = true
			}
		}
	}

	members := make([]int, 0, len(left))
	for i := range left {
		members = append(members, i)
	}

	sort.Ints(members)

	return members
}
