package hwgraph

// TopoSortFFCut returns a topological order of the graph's live nodes. The
// netlist can contain feedback loops through flip-flops/latches (spec.md
// §9's "cyclic netlist handled via FF-cut acyclic analysis"): a register's
// output is available combinationally at rank 0 regardless of the rank of
// its own D/clock/enable inputs, so register nodes are seeded into the
// order up front rather than waiting on their fan-in, which is exactly
// what breaks the cycle and makes a standard Kahn's-algorithm sort
// terminate. isFFBoundary should report true for Gate/Latch nodes (and any
// other node whose rank is fixed independent of its parents, e.g. Input).
func (g *Graph) TopoSortFFCut(isFFBoundary func(NodeIndex) bool) []NodeIndex {
	indegree := map[NodeIndex]int{}
	g.NodeIndices(func(n NodeIndex) {
		indegree[n] = len(g.InEdges(n))
	})

	var queue []NodeIndex
	queued := map[NodeIndex]bool{}
	enqueue := func(n NodeIndex) {
		if !queued[n] {
			queued[n] = true
			queue = append(queue, n)
		}
	}

	g.NodeIndices(func(n NodeIndex) {
		if indegree[n] == 0 || isFFBoundary(n) {
			enqueue(n)
		}
	})

	var order []NodeIndex
	visited := map[NodeIndex]bool{}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		order = append(order, n)

		for _, c := range g.Children(n) {
			if visited[c] {
				continue
			}
			indegree[c]--
			if indegree[c] <= 0 {
				enqueue(c)
			}
		}
	}

	return order
}
