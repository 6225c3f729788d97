package resolve

import (
	"fmt"
	"strings"

	"pdu-generator/internal/common"
	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/schema"
)

// checkCycles rejects inheritance cycles and by-value composition cycles
// (Reference and fixed lists of message types). Such a type has no finite
// default value. Variable lists may refer back to their owner: an empty list
// ends the recursion.
//
// On success it returns the classes in dependency order.
func (r *Resolver) checkCycles() []*schema.GeneratedClass {
	var nodes []*schema.GeneratedClass

	index := make(map[*schema.GeneratedClass]int)

	for _, c := range r.model.Classes {
		if r.byName[c.Name] == c {
			index[c] = len(nodes)
			nodes = append(nodes, c)
		}
	}

	deps := func(i int) []int {
		var out []int

		c := nodes[i]
		if j, ok := index[c.ParentClass]; ok && c.ParentClass != nil {
			out = append(out, j)
		}

		for _, a := range c.Attributes {
			if a.Class == nil || a.IsVariableList() {
				continue
			}

			if j, ok := index[a.Class]; ok {
				out = append(out, j)
			}
		}

		return out
	}

	order, err := common.TopoSort(len(nodes), deps)
	if err == nil {
		out := make([]*schema.GeneratedClass, len(order))
		for i, j := range order {
			out[i] = nodes[j]
		}

		return out
	}

	members := common.CycleMembers(len(nodes), deps)
	in := make(map[int]bool, len(members))

	for _, m := range members {
		in[m] = true
	}

	for _, m := range members {
		path := cyclePath(m, deps, in)

		names := make([]string, len(path))
		for i, j := range path {
			names[i] = nodes[j].Name
		}

		r.diags.AddError(diagnostic.CodeCompositionCycle,
			fmt.Sprintf("%s contains itself by value: %s", nodes[m].Name, strings.Join(names, " -> ")),
			nodes[m].Name, "")
	}

	return nil
}

// cyclePath finds the shortest dependency path from start back to start
// inside the member set. If start only sits between cycles, the path to the
// first reached cycle is returned instead.
func cyclePath(start int, deps func(int) []int, in map[int]bool) []int {
	prev := map[int]int{}
	queue := []int{start}
	visited := map[int]bool{start: true}
	last := start

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		last = cur

		for _, d := range deps(cur) {
			if !in[d] {
				continue
			}

			if d == start {
				return unwind(prev, start, cur, start)
			}

			if !visited[d] {
				visited[d] = true
				prev[d] = cur
				queue = append(queue, d)
			}
		}
	}

	return unwind(prev, start, last, -1)
}

func unwind(prev map[int]int, start, end, closing int) []int {
	var rev []int
	for n := end; n != start; n = prev[n] {
		rev = append(rev, n)
	}

	path := []int{start}
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}

	if closing >= 0 {
		path = append(path, closing)
	}

	return path
}
