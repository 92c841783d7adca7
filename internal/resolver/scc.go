package resolver

import "sort"

// tarjanSCC computes strongly-connected components of the dependency
// graph using an explicit stack rather than recursive DFS, per design
// note §9 ("avoid recursive DFS without an explicit stack for very large
// catalogs"). Edge direction follows g.Deps (rule -> its dependencies).
func tarjanSCC(g *Graph) [][]string {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var result [][]string

	type frame struct {
		node    string
		depIdx  int
		deps    []string
	}

	for _, start := range g.Nodes {
		if _, visited := indices[start]; visited {
			continue
		}

		var work []*frame
		work = append(work, &frame{node: start, deps: g.Deps[start]})
		indices[start] = index
		lowlink[start] = index
		index++
		stack = append(stack, start)
		onStack[start] = true

		for len(work) > 0 {
			top := work[len(work)-1]

			if top.depIdx < len(top.deps) {
				dep := top.deps[top.depIdx]
				top.depIdx++

				if _, visited := indices[dep]; !visited {
					indices[dep] = index
					lowlink[dep] = index
					index++
					stack = append(stack, dep)
					onStack[dep] = true
					work = append(work, &frame{node: dep, deps: g.Deps[dep]})
				} else if onStack[dep] {
					if indices[dep] < lowlink[top.node] {
						lowlink[top.node] = indices[dep]
					}
				}
				continue
			}

			// Children exhausted: pop and propagate lowlink to parent.
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1]
				if lowlink[top.node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[top.node]
				}
			}

			if lowlink[top.node] == indices[top.node] {
				var scc []string
				for {
					n := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[n] = false
					scc = append(scc, n)
					if n == top.node {
						break
					}
				}
				sort.Strings(scc)
				result = append(result, scc)
			}
		}
	}

	return result
}

// findSimpleCycle locates one simple cycle within an SCC's member set by
// walking dependency edges restricted to that set until a node repeats.
func findSimpleCycle(g *Graph, members []string) []string {
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	if len(members) == 0 {
		return nil
	}

	start := members[0]
	visited := map[string]int{start: 0}
	path := []string{start}
	current := start

	for {
		var next string
		for _, dep := range g.Deps[current] {
			if memberSet[dep] {
				next = dep
				break
			}
		}
		if next == "" {
			return path
		}
		if idx, seen := visited[next]; seen {
			cycle := append([]string{}, path[idx:]...)
			cycle = append(cycle, next)
			return cycle
		}
		visited[next] = len(path)
		path = append(path, next)
		current = next
		if len(path) > len(members)+1 {
			return path
		}
	}
}
