package passes

import (
	"fmt"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

// CheckNoDirectFFChain reports an error if g contains an edge directly
// connecting two register (Gate/Latch) nodes with no combinational node
// between them. FindRankOrder/ALAPFromASAP assume SplitRegNodes has already
// run: it inserts a passthrough LUT on any such edge so a register chain's
// rank reflects one pipeline stage per register rather than collapsing
// adjacent registers onto the same rank. A direct FF-to-FF edge reaching
// this check means that pass was skipped.
func CheckNoDirectFFChain(g *hwgraph.Graph) error {
	isFF := func(n hwgraph.NodeIndex) bool {
		k := g.Node(n).Is()
		return k == primitive.KindGate || k == primitive.KindLatch
	}

	var violation error
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if violation != nil || !isFF(n) {
			return
		}
		for _, c := range g.Children(n) {
			if isFF(c) {
				violation = fmt.Errorf("direct register-to-register edge from node %d to node %d: SplitRegNodes must run before rank analysis", n, c)
				return
			}
		}
	})
	return violation
}
