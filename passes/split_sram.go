package passes

import (
	"fmt"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// SplitSRAMNodes replaces every SRAMNode with one scalar node per connected
// control/data bit, distributed across processors, mirroring
// split_sram_nodes = adjust_sram_nodes + split_sram_node_by_io (original
// passes/split_sram_nodes.rs).
func SplitSRAMNodes(g *hwgraph.Graph, cfg platform.Config) error {
	if err := adjustSRAMNodes(g, cfg); err != nil {
		return err
	}
	splitSRAMNodeByIO(g, cfg)
	return nil
}

// adjustSRAMNodes assumes each SRAM is mapped to one module and reassigns
// surplus same-module SRAM nodes onto free modules.
func adjustSRAMNodes(g *hwgraph.Graph, cfg platform.Config) error {
	freeModules := map[uint32]bool{}
	for m := uint32(0); m < cfg.NumMods; m++ {
		freeModules[m] = true
	}

	var sramOrder []uint32
	sramByModule := map[uint32][]hwgraph.NodeIndex{}

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		node := g.Node(n)
		if node.Is() != primitive.KindSRAMNode {
			return
		}
		mod := node.Info.Coord.Module
		if _, ok := sramByModule[mod]; !ok {
			sramOrder = append(sramOrder, mod)
		}
		sramByModule[mod] = append(sramByModule[mod], n)
		delete(freeModules, mod)
	})

	var freeList []uint32
	for m := range freeModules {
		freeList = append(freeList, m)
	}

	for _, mod := range sramOrder {
		nodes := sramByModule[mod]
		if len(nodes) == 1 {
			continue
		}
		if len(nodes)-1 > len(freeList) {
			return fmt.Errorf("passes: not enough free modules for SRAM reassignment")
		}
		for i, n := range nodes {
			if i == 0 {
				continue
			}
			free := freeList[len(freeList)-1]
			freeList = freeList[:len(freeList)-1]
			info := &g.Node(n).Info
			info.Coord = platform.Coordinate{Module: free, Proc: info.Coord.Proc}
		}
	}
	return nil
}

func assignProcToSRAMNode(node hwgraph.HWNode, i uint32, cfg platform.Config) hwgraph.HWNode {
	node.Info.Coord.Proc = i % cfg.NumProcs
	return node
}

// toNodePrimitive converts an edge's signal into the scalar node primitive
// it becomes once split out of its parent SRAMNode, mirroring
// `CircuitPrimitive::from(&edge.signal)`.
func toNodePrimitive(s primitive.Signal) hwgraph.NodePrimitive {
	return hwgraph.NodePrimitive{Kind: s.ToKind(), Name: s.Name, SRAMIdx: s.Idx}
}

// splitSRAMNodeByIO replaces each SRAMNode with one node per connected
// control/data bit: parent-feeding and child-feeding bits alike take
// processor i % NumProcs, filling from processor 0 forward.
func splitSRAMNodeByIO(g *hwgraph.Graph, cfg platform.Config) {
	type replaceInfo struct {
		parents []hwgraph.NodeIndex
		pEdges  []hwgraph.HWEdge
		childs  []hwgraph.NodeIndex
		cEdges  []hwgraph.HWEdge
		node    hwgraph.HWNode
	}

	sramInfo := map[hwgraph.NodeIndex]*replaceInfo{}
	var sramOrder []hwgraph.NodeIndex

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		node := g.Node(n)
		if node.Is() != primitive.KindSRAMNode {
			return
		}
		if _, ok := sramInfo[n]; !ok {
			sramInfo[n] = &replaceInfo{node: *node}
			sramOrder = append(sramOrder, n)
		}
		info := sramInfo[n]
		for _, e := range g.InEdges(n) {
			p, _ := g.EdgeEnds(e)
			info.parents = append(info.parents, p)
			info.pEdges = append(info.pEdges, *g.Edge(e))
		}
		for _, e := range g.OutEdges(n) {
			_, c := g.EdgeEnds(e)
			info.childs = append(info.childs, c)
			info.cEdges = append(info.cEdges, *g.Edge(e))
		}
	})

	for _, n := range sramOrder {
		info := sramInfo[n]

		for i, p := range info.parents {
			edge := info.pEdges[i]
			scalar := assignProcToSRAMNode(info.node, uint32(i), cfg)
			scalar.Prim = toNodePrimitive(edge.Signal)
			sramIdx := g.AddNode(scalar)
			g.AddEdge(p, sramIdx, edge)
		}

		for i := len(info.childs) - 1; i >= 0; i-- {
			c := info.childs[i]
			edge := info.cEdges[i]
			scalar := assignProcToSRAMNode(info.node, uint32(i), cfg)
			scalar.Prim = toNodePrimitive(edge.Signal)
			sramIdx := g.AddNode(scalar)
			g.AddEdge(sramIdx, c, edge)
		}
	}

	for _, n := range sramOrder {
		g.RemoveNode(n)
	}
}
