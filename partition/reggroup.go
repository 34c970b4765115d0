// Package partition implements component G: grouping the netlist into
// register-bounded clusters, then splitting those clusters across modules
// via a balanced graph partitioner. Mirrors
// original_source/compiler/src/passes/partition.rs.
package partition

import (
	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

// RegGroupSizes partitions every live node into a register group: an edge
// crossing a register-group boundary must have at least one Gate/Latch node
// as an endpoint. Every node (inputs, registers themselves, and everything
// reachable without crossing a register) ends up assigned a group id in
// n.Info.RegGrp. Mirrors partition_reg_boundaries.
func RegGroupSizes(g *hwgraph.Graph, inputs []hwgraph.NodeIndex) map[uint32]int {
	visited := map[hwgraph.NodeIndex]bool{}

	var q []hwgraph.NodeIndex
	q = append(q, inputs...)

	var reggrp uint32
	sizes := map[uint32]int{}

	for len(q) > 0 {
		root := q[0]
		q = q[1:]
		if visited[root] {
			continue
		}

		grp := reggrp
		reggrp++

		qq := []hwgraph.NodeIndex{root}
		for len(qq) > 0 {
			n := qq[0]
			qq = qq[1:]
			if visited[n] {
				continue
			}
			visited[n] = true

			g.Node(n).Info.RegGrp = grp
			sizes[grp]++

			for _, c := range g.Neighbors(n) {
				if visited[c] {
					continue
				}
				k := g.Node(c).Is()
				if k == primitive.KindGate || k == primitive.KindLatch {
					q = append(q, c)
				} else {
					qq = append(qq, c)
				}
			}
		}
	}

	// Any node not reachable (undirected) from an input starts its own
	// singleton group, rather than panicking as the original asserts;
	// a well-formed post-DCE netlist never hits this path.
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if visited[n] {
			return
		}
		grp := reggrp
		reggrp++
		g.Node(n).Info.RegGrp = grp
		sizes[grp]++
		visited[n] = true
	})

	return sizes
}
