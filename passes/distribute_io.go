package passes

import (
	"fmt"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// DistributeIO ensures at most one Input and one Output node is mapped to
// each processor coordinate, reassigning surplus nodes onto free
// coordinates. Mirrors distribute_io (original passes/distribute_io.rs).
func DistributeIO(g *hwgraph.Graph, cfg platform.Config) error {
	if err := distributeIOWithKind(g, cfg, primitive.KindInput); err != nil {
		return err
	}
	return distributeIOWithKind(g, cfg, primitive.KindOutput)
}

func distributeIOWithKind(g *hwgraph.Graph, cfg platform.Config, kind primitive.Kind) error {
	freeProcs := map[platform.Coordinate]bool{}
	for m := uint32(0); m < cfg.NumMods; m++ {
		for p := uint32(0); p < cfg.NumProcs; p++ {
			freeProcs[platform.Coordinate{Module: m, Proc: p}] = true
		}
	}

	var coordOrder []platform.Coordinate
	byCoord := map[platform.Coordinate][]hwgraph.NodeIndex{}

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		node := g.Node(n)
		if node.Is() != kind {
			return
		}
		coord := node.Info.Coord
		if _, ok := byCoord[coord]; !ok {
			coordOrder = append(coordOrder, coord)
		}
		byCoord[coord] = append(byCoord[coord], n)
		delete(freeProcs, coord)
	})

	var freeList []platform.Coordinate
	for c := range freeProcs {
		freeList = append(freeList, c)
	}

	for _, coord := range coordOrder {
		nodes := byCoord[coord]
		if len(nodes) == 1 {
			continue
		}
		if len(nodes)-1 > len(freeList) {
			return fmt.Errorf("passes: not enough free processors for IO %s", kind)
		}
		for i, n := range nodes {
			if i == 0 {
				continue
			}
			free := freeList[len(freeList)-1]
			freeList = freeList[:len(freeList)-1]
			g.Node(n).Info.Coord = free
		}
	}
	return nil
}
