package passes

import (
	"fmt"
	"hash/fnv"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

// SplitRegNodes inserts a passthrough LUT (truth table [[1]]) between any
// register (Gate/Latch) node and a register child, removing the direct
// register-to-register edge. This breaks the scheduler's register-to-
// register ordering constraint into two register-to-LUT-to-register hops,
// mirroring split_reg_nodes (original passes/split_reg_nodes.rs).
func SplitRegNodes(g *hwgraph.Graph) {
	type splitKey struct {
		parent, child hwgraph.NodeIndex
		edge          hwgraph.EdgeIndex
	}
	type splitVal struct {
		lut        hwgraph.HWNode
		parentEdge hwgraph.HWEdge
		childEdge  hwgraph.HWEdge
	}

	var toSplit []splitKey
	newNodes := map[splitKey]splitVal{}

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		node := g.Node(n)
		if node.Is() != primitive.KindLatch && node.Is() != primitive.KindGate {
			return
		}
		for _, e := range g.OutEdges(n) {
			_, c := g.EdgeEnds(e)
			cnode := g.Node(c)
			if cnode.Is() != primitive.KindLatch && cnode.Is() != primitive.KindGate {
				continue
			}

			h := fnv.New64a()
			fmt.Fprintf(h, "%s-%s", node.Name(), cnode.Name())
			newName := fmt.Sprintf("SPLIT-%s-%d", node.Name(), h.Sum64())

			lut := hwgraph.NewHWNode(hwgraph.NodePrimitive{
				Kind:   primitive.KindLut,
				Name:   newName,
				Inputs: []string{node.Name()},
				Table:  [][]uint8{{1}},
			})
			lut.Info.Coord = node.Info.Coord

			key := splitKey{parent: n, child: c, edge: e}
			toSplit = append(toSplit, key)
			newNodes[key] = splitVal{
				lut:        lut,
				parentEdge: hwgraph.NewHWEdge(primitive.Signal{Kind: primitive.SignalWire, Name: node.Name()}),
				childEdge:  hwgraph.NewHWEdge(primitive.Signal{Kind: primitive.SignalWire, Name: newName}),
			}
		}
	})

	for _, key := range toSplit {
		val := newNodes[key]
		lutIdx := g.AddNode(val.lut)
		g.AddEdge(key.parent, lutIdx, val.parentEdge)
		g.AddEdge(lutIdx, key.child, val.childEdge)
	}
	for _, key := range toSplit {
		g.RemoveEdge(key.edge)
	}
}
