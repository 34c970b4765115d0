package platform

import "fmt"

type modPair struct {
	Src uint32
	Dst uint32
}

// GlobalNetworkTopology is the inter-module switch wiring, built once from
// (NumMods, NumProcs) per spec.md §3/§4.B. Ported from
// GlobalNetworkTopology::new (common/config.rs).
type GlobalNetworkTopology struct {
	Edges         map[Coordinate]Coordinate
	InterModPaths map[modPair][]NetworkPath

	// edgeOrder/pairOrder preserve insertion order, mirroring the original's
	// use of IndexMap so Debug() output and iteration are deterministic.
	edgeOrder []Coordinate
	pairOrder []modPair
}

// NewGlobalNetworkTopology builds the inter-module wiring for numMods
// modules of numProcs processors each. With numMods==1 there is no
// inter-module network and the topology is empty.
func NewGlobalNetworkTopology(numMods, numProcs uint32) GlobalNetworkTopology {
	t := GlobalNetworkTopology{
		Edges:         map[Coordinate]Coordinate{},
		InterModPaths: map[modPair][]NetworkPath{},
	}
	if numMods == 1 {
		return t
	}

	numMods1 := numMods - 1
	grpSz := numProcs / numMods1

	if !powerOf2(numMods1) {
		panic(fmt.Sprintf("num_mods should be 2^n + 1, got num_mods=%d", numMods))
	}
	if !powerOf2(numProcs) {
		panic(fmt.Sprintf("num_procs should be a power of 2, got %d", numProcs))
	}
	if numProcs < numMods1 {
		panic(fmt.Sprintf("num_procs %d < num_mods - 1 %d", numProcs, numMods1))
	}

	for m := uint32(0); m < numMods1; m++ {
		for p := uint32(0); p < numProcs; p++ {
			r := p % grpSz
			q := (p - r) / grpSz
			src := Coordinate{Module: m, Proc: p}
			var dst Coordinate
			if q == m {
				dst = Coordinate{Module: numMods1, Proc: p}
			} else {
				dst = Coordinate{Module: q, Proc: m*grpSz + r}
			}
			t.addEdge(src, dst)
			t.addEdge(dst, src)
			t.addPath(src, dst)
			t.addPath(dst, src)
		}
	}
	return t
}

func (t *GlobalNetworkTopology) addEdge(src, dst Coordinate) {
	if _, ok := t.Edges[src]; !ok {
		t.edgeOrder = append(t.edgeOrder, src)
	}
	t.Edges[src] = dst
}

func (t *GlobalNetworkTopology) addPath(src, dst Coordinate) {
	fwd := modPair{src.Module, dst.Module}
	rev := modPair{dst.Module, src.Module}
	if _, ok := t.InterModPaths[fwd]; !ok {
		t.pairOrder = append(t.pairOrder, fwd)
	}
	if _, ok := t.InterModPaths[rev]; !ok {
		t.pairOrder = append(t.pairOrder, rev)
	}
	t.InterModPaths[fwd] = append(t.InterModPaths[fwd], NewNetworkPath(src, dst))
}

// InterModulePaths returns the direct paths connecting some processor in
// src.Module to some processor in dst.Module.
func (t GlobalNetworkTopology) InterModulePaths(src, dst Coordinate) []NetworkPath {
	paths := t.InterModPaths[modPair{src.Module, dst.Module}]
	out := make([]NetworkPath, len(paths))
	copy(out, paths)
	return out
}

// InterModuleRoutes returns every two-hop route from src.Module to
// dst.Module via some intermediate module, per
// GlobalNetworkTopology::inter_mod_routes.
func (t GlobalNetworkTopology) InterModuleRoutes(src, dst Coordinate) []NetworkRoute {
	var routes []NetworkRoute

	srcToInter := map[uint32][]NetworkPath{}
	interToDst := map[uint32][]NetworkPath{}
	var interOrder []uint32
	seen := map[uint32]bool{}

	for pair, paths := range t.InterModPaths {
		if pair.Src == src.Module && pair.Dst != dst.Module {
			if !seen[pair.Dst] {
				seen[pair.Dst] = true
				interOrder = append(interOrder, pair.Dst)
			}
			srcToInter[pair.Dst] = append(srcToInter[pair.Dst], paths...)
		}
		if pair.Src != src.Module && pair.Dst == dst.Module {
			if !seen[pair.Src] {
				seen[pair.Src] = true
				interOrder = append(interOrder, pair.Src)
			}
			interToDst[pair.Src] = append(interToDst[pair.Src], paths...)
		}
	}

	for _, imod := range interOrder {
		s2iPaths, ok1 := srcToInter[imod]
		i2dPaths, ok2 := interToDst[imod]
		if !ok1 || !ok2 {
			continue
		}
		for _, s2i := range s2iPaths {
			for _, i2d := range i2dPaths {
				var route NetworkRoute
				if s2i.Dst == i2d.Src {
					route = NetworkRoute{s2i, i2d}
				} else {
					route = NetworkRoute{s2i, NewNetworkPath(s2i.Dst, i2d.Src), i2d}
				}
				routes = append(routes, route)
			}
		}
	}
	return routes
}

// Dot renders the topology as a Graphviz digraph, mirroring the original's
// custom Debug impl.
func (t GlobalNetworkTopology) Dot() string {
	out := "digraph {\n"
	idx := map[Coordinate]int{}
	for i, src := range t.edgeOrder {
		idx[src] = i
		out += fmt.Sprintf("    %d [ label = %q ]\n", i, src.String())
	}
	for i, src := range t.edgeOrder {
		dst := t.Edges[src]
		out += fmt.Sprintf("    %d -> %d [ ]\n", i, idx[dst])
	}
	out += "}"
	return out
}
