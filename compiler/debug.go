package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

// titleCaser renders a primitive.Kind's label in Title case for .dot
// output, the same way the teacher renders enum-ish names for display.
var titleCaser = cases.Title(language.English)

// DebugGraph walks backward from a mismatching node to its nearest
// Gate/Latch/Input ancestors and renders the resulting fan-in cone as a
// Graphviz .dot string, mirroring circuit.rs's debug_graph (spec.md's
// supplemented §4.2). Graphviz itself (dot → pdf) is an external
// collaborator; this only produces the .dot text. Each node's label
// includes its ASAP/ALAP rank, its pc, and the last simulated value Verify
// stamped onto its DebugInfo, if any.
func (c *Circuit) DebugGraph(start hwgraph.NodeIndex) string {
	g := c.Graph

	visited := map[hwgraph.NodeIndex]bool{}
	var order []hwgraph.NodeIndex
	var edges [][2]hwgraph.NodeIndex

	var walk func(n hwgraph.NodeIndex)
	walk = func(n hwgraph.NodeIndex) {
		if visited[n] {
			return
		}
		visited[n] = true
		order = append(order, n)

		if g.Node(n).Is().IsRegister() || g.Node(n).Is() == primitive.KindInput {
			return
		}
		for _, p := range g.Parents(n) {
			edges = append(edges, [2]hwgraph.NodeIndex{p, n})
			walk(p)
		}
	}
	walk(start)

	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, n := range order {
		node := g.Node(n)
		label := node.Name()
		if label == "" {
			label = titleCaser.String(strings.ToLower(node.Is().String()))
		}
		b.WriteString(fmt.Sprintf(
			"    %d [ label = %q ]\n",
			int(n),
			fmt.Sprintf("%s\\n%s asap=%d alap=%d pc=%d val=%d",
				label, node.Is(), node.Info.Rank.ASAP, node.Info.Rank.ALAP,
				node.Info.PC, node.Info.Debug.Val),
		))
	}
	for _, e := range edges {
		b.WriteString(fmt.Sprintf("    %d -> %d\n", int(e[0]), int(e[1])))
	}
	b.WriteString("}")
	return b.String()
}
