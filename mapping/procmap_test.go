package mapping

import (
	"testing"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/partition"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// buildFanOut builds a single input feeding n independent LUTs, all within
// one module, so greedyPartition has real spreading decisions to make.
func buildFanOut(n int) *hwgraph.Graph {
	g := hwgraph.NewGraph()
	in := g.AddNode(hwgraph.NewHWNode(hwgraph.NodePrimitive{Kind: primitive.KindInput, Name: "a"}))
	for i := 0; i < n; i++ {
		lut := g.AddNode(hwgraph.NewHWNode(hwgraph.NodePrimitive{
			Kind: primitive.KindLut, Name: "l", Inputs: []string{"a"}, Table: [][]uint8{{1}},
		}))
		g.AddEdge(in, lut, hwgraph.NewHWEdge(primitive.Signal{Kind: primitive.SignalWire, Name: "a"}))
	}
	return g
}

func TestGreedyPartitionAssignsEveryNodeAProc(t *testing.T) {
	cfg := platform.NewBuilder().WithTopology(1, 4).Build()
	g := buildFanOut(6)

	greedyPartition(g, cfg)

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if g.Node(n).Info.Coord.Proc >= cfg.NumProcs {
			t.Fatalf("node %d assigned out-of-range proc %d", n, g.Node(n).Info.Coord.Proc)
		}
	})
}

func TestGreedyPartitionSpreadsLoadAcrossProcessors(t *testing.T) {
	cfg := platform.NewBuilder().WithTopology(1, 4).Build()
	g := buildFanOut(8)

	greedyPartition(g, cfg)

	used := map[uint32]bool{}
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if g.Node(n).Is() == primitive.KindLut {
			used[g.Node(n).Info.Coord.Proc] = true
		}
	})
	if len(used) < 2 {
		t.Fatalf("expected the 8 independent LUTs to spread across more than one processor, used %v", used)
	}
}

func TestMapProcessorsWritesBackToOriginalGraph(t *testing.T) {
	cfg := platform.NewBuilder().WithTopology(1, 4).Build()
	g := buildFanOut(3)
	g.NodeIndices(func(n hwgraph.NodeIndex) { g.Node(n).Info.Coord.Module = 0 })

	result := &partition.Result{
		Subcircuits:     map[uint32]*partition.SubCircuit{0: {Graph: g}},
		GraphToSubgraph: map[hwgraph.NodeIndex]hwgraph.NodeIndex{},
	}
	g.NodeIndices(func(n hwgraph.NodeIndex) { result.GraphToSubgraph[n] = n })

	MapProcessors(g, result, cfg)

	assigned := false
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if g.Node(n).Info.Coord.Proc != 0 {
			assigned = true
		}
	})
	if !assigned {
		t.Fatal("expected at least one node to land on a non-zero processor")
	}
}
