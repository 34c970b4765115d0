// Package passes implements the structural graph transformations run
// between netlist ingestion and partitioning: dead-code elimination,
// register/SRAM node splitting, IO distribution (component E), and ASAP/
// ALAP rank analysis (component F).
package passes

import (
	"log/slog"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

// DeadCodeEliminate removes every node not reachable forward from some
// Input and backward from some Output, mirroring dead_code_elimination
// (original passes/dce.rs): a forward BFS from inputs, a backward BFS from
// outputs, then deletion of anything either BFS missed.
func DeadCodeEliminate(g *hwgraph.Graph, inputs, outputs []hwgraph.NodeIndex) {
	forward := bfs(g, inputs, func(n hwgraph.NodeIndex) []hwgraph.NodeIndex { return g.Children(n) })
	backward := bfs(g, outputs, func(n hwgraph.NodeIndex) []hwgraph.NodeIndex { return g.Parents(n) })

	removed := 0
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if !forward[n] || !backward[n] {
			g.RemoveNode(n)
			removed++
		}
	})

	slog.Debug("dead code elimination", "removed", removed)
}

func bfs(g *hwgraph.Graph, starts []hwgraph.NodeIndex, next func(hwgraph.NodeIndex) []hwgraph.NodeIndex) map[hwgraph.NodeIndex]bool {
	visited := map[hwgraph.NodeIndex]bool{}
	queue := append([]hwgraph.NodeIndex{}, starts...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		for _, m := range next(n) {
			if !visited[m] {
				queue = append(queue, m)
			}
		}
	}
	return visited
}

// CollectIO scans the graph for live Input/Output nodes, the Go analogue of
// rebuilding Circuit.io_i/io_o after DCE renumbers node indices.
func CollectIO(g *hwgraph.Graph) (inputs, outputs []hwgraph.NodeIndex) {
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		switch g.Node(n).Is() {
		case primitive.KindInput:
			inputs = append(inputs, n)
		case primitive.KindOutput:
			outputs = append(outputs, n)
		}
	})
	return inputs, outputs
}
