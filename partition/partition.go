package partition

import (
	"log/slog"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/platform"
)

// SubCircuit is one module's slice of the full netlist, mirroring the
// original's SubCircuit{subgraph, mapping} (the mapping half is filled in
// later by the mapping package, component I).
type SubCircuit struct {
	Graph *hwgraph.Graph
}

// Result is the output of Partition: each module's SubCircuit plus the map
// from every original node index to its (module, local index), mirroring
// circuit.subcircuits and circuit.graph_to_subgraph.
type Result struct {
	Subcircuits     map[uint32]*SubCircuit
	GraphToSubgraph map[hwgraph.NodeIndex]hwgraph.NodeIndex
}

// Partition groups g into register-bounded clusters and balances those
// clusters across cfg.NumMods modules, mirroring partition(). When the
// computed partition count is 1, the whole graph becomes a single trivial
// subcircuit and p is never invoked, exactly as the original special-cases
// n_partitions == 1.
func Partition(g *hwgraph.Graph, inputs []hwgraph.NodeIndex, cfg platform.Config, p Partitioner, seed uint64) (*Result, error) {
	sizes := RegGroupSizes(g, inputs)
	cg := BuildCondensation(g, sizes)

	totalNodes := uint32(g.NodeCount())
	gatesPerModule := cfg.NumProcs * cfg.MaxSteps
	nPartitions := totalNodes / (gatesPerModule / 5)

	slog.Info("partition: reg grouping complete",
		"groups", len(cg.Groups), "total_nodes", totalNodes,
		"gates_per_module", gatesPerModule, "n_partitions", nPartitions)

	if nPartitions <= 1 {
		return trivialPartition(g), nil
	}

	assignment, err := p.Partition(cg, nPartitions, seed)
	if err != nil {
		return nil, &PartitionerFailure{NumPartitions: nPartitions, Err: err}
	}

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		node := g.Node(n)
		node.Info.Coord.Module = assignment[node.Info.RegGrp]
	})

	return splitByModule(g), nil
}

func trivialPartition(g *hwgraph.Graph) *Result {
	mapping := map[hwgraph.NodeIndex]hwgraph.NodeIndex{}
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		mapping[n] = n
		g.Node(n).Info.Coord.Module = 0
	})
	return &Result{
		Subcircuits:     map[uint32]*SubCircuit{0: {Graph: g}},
		GraphToSubgraph: mapping,
	}
}

// splitByModule builds one subgraph per assigned module, keeping only
// edges whose endpoints landed in the same module (cross-module edges are
// realized later as network routes by the scheduler, not as graph edges).
func splitByModule(g *hwgraph.Graph) *Result {
	subgraphs := map[uint32]*hwgraph.Graph{}
	mapping := map[hwgraph.NodeIndex]hwgraph.NodeIndex{}

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		mod := g.Node(n).Info.Coord.Module
		sg, ok := subgraphs[mod]
		if !ok {
			sg = hwgraph.NewGraph()
			subgraphs[mod] = sg
		}
		mapping[n] = sg.AddNode(*g.Node(n))
	})

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		srcMod := g.Node(n).Info.Coord.Module
		for _, e := range g.OutEdges(n) {
			_, dst := g.EdgeEnds(e)
			if g.Node(dst).Info.Coord.Module != srcMod {
				continue
			}
			subgraphs[srcMod].AddEdge(mapping[n], mapping[dst], *g.Edge(e))
		}
	})

	result := &Result{Subcircuits: map[uint32]*SubCircuit{}, GraphToSubgraph: mapping}
	for mod, sg := range subgraphs {
		result.Subcircuits[mod] = &SubCircuit{Graph: sg}
	}
	return result
}
