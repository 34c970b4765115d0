package partition

import "github.com/sarchlab/bee-compiler/hwgraph"

// groupEdge is an unordered pair of register-group ids; a and b are stored
// with a <= b so the same crossing is never double-counted.
type groupEdge struct{ a, b uint32 }

// CondensationGraph collapses the node graph down to one vertex per register
// group, weighted by group size, with an edge wherever two groups are
// adjacent in the node graph. This is the graph the partitioner balances.
type CondensationGraph struct {
	Groups []uint32 // group ids, in first-seen order (deterministic iteration)
	Sizes  map[uint32]int
	Edges  map[groupEdge]int
}

// BuildCondensation walks every live edge of g and records a condensation
// edge whenever its endpoints' register groups differ. Mirrors the
// reggrp_graph construction in partition_reg_boundaries.
func BuildCondensation(g *hwgraph.Graph, sizes map[uint32]int) *CondensationGraph {
	cg := &CondensationGraph{Sizes: sizes, Edges: map[groupEdge]int{}}

	seen := map[uint32]bool{}
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		grp := g.Node(n).Info.RegGrp
		if !seen[grp] {
			seen[grp] = true
			cg.Groups = append(cg.Groups, grp)
		}
	})

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		src := g.Node(n).Info.RegGrp
		for _, c := range g.Children(n) {
			dst := g.Node(c).Info.RegGrp
			if src == dst {
				continue
			}
			e := groupEdge{src, dst}
			if e.a > e.b {
				e.a, e.b = e.b, e.a
			}
			cg.Edges[e]++
		}
	})

	return cg
}
