package depgraph

// tarjanSCC computes the strongly connected components of g in reverse
// topological order (the order Tarjan's algorithm naturally produces them,
// since a component is only finished -- popped off the stack -- after every
// component reachable from it; edges run from a defining rule to the rules
// that depend on it, so dependents come out first). Isolated rules with no
// self-loop form a singleton component.
func tarjanSCC(g *Graph) [][]int {
	n := len(g.Rules)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var stack []int
	var out [][]int
	next := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, eidx := range g.adj[v] {
			w := g.Edges[eidx].To
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			out = append(out, scc)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
	return out
}
