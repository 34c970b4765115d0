package passes

import (
	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

func setRank(g *hwgraph.Graph, n hwgraph.NodeIndex, rank uint32) {
	info := &g.Node(n).Info
	if rank > info.Rank.ASAP {
		info.Rank.ASAP = rank
	}
}

// FindRankOrder assigns ASAP rank to every node, topologically: Input and
// register (Gate/Latch) nodes start at rank 0, and every other node's rank
// is one more than the maximum rank of its parents. Mirrors find_rank_order
// (original passes/set_rank.rs).
func FindRankOrder(g *hwgraph.Graph, inputs []hwgraph.NodeIndex) {
	isFFOrInput := func(n hwgraph.NodeIndex) bool {
		k := g.Node(n).Is()
		return k == primitive.KindGate || k == primitive.KindLatch
	}

	for _, n := range inputs {
		setRank(g, n, 0)
	}
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if isFFOrInput(n) {
			setRank(g, n, 0)
		}
	})

	order := g.TopoSortFFCut(func(n hwgraph.NodeIndex) bool {
		k := g.Node(n).Is()
		return k == primitive.KindInput || k == primitive.KindGate || k == primitive.KindLatch
	})

	for _, n := range order {
		k := g.Node(n).Is()
		if k == primitive.KindGate || k == primitive.KindLatch || k == primitive.KindInput {
			continue
		}
		var maxParentRank uint32
		for _, p := range g.Parents(n) {
			if r := g.Node(p).Info.Rank.ASAP; r > maxParentRank {
				maxParentRank = r
			}
		}
		setRank(g, n, maxParentRank+1)
	}
}

// ALAPFromASAP computes each node's ALAP rank given the circuit's overall
// critical-path depth, by running the mirror-image pass backward from
// outputs: an output's ALAP equals the overall max ASAP, and every other
// node's ALAP is one less than the minimum ALAP of its children. Mobility
// (RankInfo.Mob) is then ALAP - ASAP. This mirrors the same ASAP/ALAP rank
// analysis spec.md §4.F describes; the original's visible source computes
// only ASAP (find_rank_order) so the backward pass is supplemented here to
// complete the ASAP/ALAP pair spec.md's data model requires on every node.
func ALAPFromASAP(g *hwgraph.Graph, outputs []hwgraph.NodeIndex) {
	var maxASAP uint32
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		if r := g.Node(n).Info.Rank.ASAP; r > maxASAP {
			maxASAP = r
		}
	})

	alap := map[hwgraph.NodeIndex]uint32{}
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		alap[n] = maxASAP
	})

	order := g.TopoSortFFCut(func(n hwgraph.NodeIndex) bool {
		k := g.Node(n).Is()
		return k == primitive.KindOutput || k == primitive.KindGate || k == primitive.KindLatch
	})
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		k := g.Node(n).Is()
		if k == primitive.KindOutput || k == primitive.KindGate || k == primitive.KindLatch {
			continue
		}
		children := g.Children(n)
		if len(children) == 0 {
			continue
		}
		minChildALAP := alap[children[0]]
		for _, c := range children[1:] {
			if alap[c] < minChildALAP {
				minChildALAP = alap[c]
			}
		}
		if minChildALAP > 0 {
			alap[n] = minChildALAP - 1
		} else {
			alap[n] = 0
		}
	}

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		info := &g.Node(n).Info
		info.Rank.ALAP = alap[n]
		if info.Rank.ALAP >= info.Rank.ASAP {
			info.Rank.Mob = info.Rank.ALAP - info.Rank.ASAP
		}
	})
}
