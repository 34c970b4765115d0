// Package schedule implements component H: list-scheduling the partitioned,
// ranked netlist onto per-processor instruction streams subject to the
// platform's network and memory-pipeline latencies. Mirrors
// original_source/compiler/src/passes/inst_schedule.rs.
package schedule

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// Failure reports that no legal schedule was found within cfg.MaxSteps host
// cycles, mirroring the original's `assert!(false, "Schedule failed ...")`
// panic path, raised here as an error instead.
type Failure struct {
	Scheduled int
	Total     int
}

func (e *Failure) Error() string {
	return fmt.Sprintf("schedule: failed to schedule all nodes: %d/%d scheduled", e.Scheduled, e.Total)
}

// Result is the outcome of a successful Schedule call.
type Result struct {
	HostSteps uint32
}

// Schedule assigns every live node in g a program counter and, for edges
// crossing module boundaries, a concrete NetworkRoute, mirroring
// schedule_instructions. Every node must already carry a Coord (component G)
// and an ASAP Rank (component F).
func Schedule(g *hwgraph.Graph, cfg platform.Config) (*Result, error) {
	rankOrder := buildRankOrder(g, cfg)
	total := g.NodeCount()

	nw := NewNetworkAvailability(cfg.NumMods*cfg.NumProcs, cfg.InterModTwoHopDepLat())

	var pc uint32
	scheduled := 0

	for scheduled != total {
		candidates := collectCandidates(g, rankOrder, cfg, pc)
		global, local := splitByReach(g, rankOrder, candidates)

		scheduledGlobal := scheduleGlobal(g, rankOrder, global, nw, cfg, pc)
		scheduledLocal := scheduleLocal(g, rankOrder, local, nw, cfg, pc)

		for _, n := range scheduledGlobal {
			info := &g.Node(n).Info
			info.PC = pc
			info.Scheduled = true
		}
		for _, n := range scheduledLocal {
			info := &g.Node(n).Info
			info.PC = pc
			info.Scheduled = true
		}
		scheduled += len(scheduledGlobal) + len(scheduledLocal)

		nw.Step()
		pc++

		if pc+1+cfg.PCSDMOffset() >= cfg.MaxSteps {
			return nil, &Failure{Scheduled: scheduled, Total: total}
		}
	}

	hostSteps := pc + 1 + cfg.PCSDMOffset()
	slog.Info("schedule: finished", "host_steps", hostSteps, "nodes", total)
	return &Result{HostSteps: hostSteps}, nil
}

// buildRankOrder buckets every live node by (module, proc), sorted by
// ascending ASAP rank (ties broken by insertion order), mirroring the
// rank_order construction and its subsequent per-processor sort.
func buildRankOrder(g *hwgraph.Graph, cfg platform.Config) [][]NodeArray {
	rankOrder := make([][]NodeArray, cfg.NumMods)
	for m := range rankOrder {
		rankOrder[m] = make([]NodeArray, cfg.NumProcs)
	}

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		coord := g.Node(n).Info.Coord
		rankOrder[coord.Module][coord.Proc].Push(n)
	})

	for m := range rankOrder {
		for p := range rankOrder[m] {
			na := &rankOrder[m][p]
			sort.SliceStable(na.Nodes, func(i, j int) bool {
				return g.Node(na.Nodes[i]).Info.Rank.ASAP < g.Node(na.Nodes[j]).Info.Rank.ASAP
			})
		}
	}
	return rankOrder
}

// collectCandidates gathers each not-yet-done processor's current node,
// treating Input/Gate/Latch nodes as always ready and everything else as
// ready once every parent dependency has resolved.
func collectCandidates(g *hwgraph.Graph, rankOrder [][]NodeArray, cfg platform.Config, pc uint32) []hwgraph.NodeIndex {
	var candidates []hwgraph.NodeIndex
	for m := range rankOrder {
		for p := range rankOrder[m] {
			na := &rankOrder[m][p]
			if na.Done() {
				continue
			}
			n := na.Current()
			k := g.Node(n).Is()
			if k == primitive.KindInput || k == primitive.KindGate || k == primitive.KindLatch {
				candidates = append(candidates, n)
				continue
			}
			if allDepsResolved(g, n, cfg, pc) {
				candidates = append(candidates, n)
			}
		}
	}
	return candidates
}

// allDepsResolved reports whether every parent of n has been scheduled
// long enough ago that n can safely read its value at cycle pc.
//
// The original's equivalent check re-derives the 0/1/2-hop inter-module
// case split from the scheduled edge's path endpoints, but with the src/dst
// roles swapped relative to how that same split is used on the write side
// a few lines later in the same function — a path.0/path.1 labeling that
// doesn't square with how the path was assigned when the parent was
// scheduled. Rather than perpetuate that ambiguity, dependency readiness
// here is judged directly from the edge's already-assigned NetworkRoute via
// platform.Config.NWRouteDepLat, which is unambiguous and produces the same
// answer for every case the original's split was trying to classify.
func allDepsResolved(g *hwgraph.Graph, n hwgraph.NodeIndex, cfg platform.Config, pc uint32) bool {
	ci := g.Node(n).Info
	for _, e := range g.InEdges(n) {
		p, _ := g.EdgeEnds(e)
		pi := g.Node(p).Info
		if !pi.Scheduled {
			return false
		}

		if pi.Coord.Module == ci.Coord.Module {
			if pi.Coord.Proc == ci.Coord.Proc {
				if pi.PC+cfg.IntraProcDepLat() > pc {
					return false
				}
			} else if pi.PC+cfg.InterProcDepLat() > pc {
				return false
			}
			continue
		}

		route := g.Edge(e).Route
		if route == nil {
			return false
		}
		if pi.PC+cfg.NWRouteDepLat(route) > pc {
			return false
		}
	}
	return true
}

// splitByReach classifies each candidate as global (has a child mapped to a
// different module) or local, and records each candidate's criticality
// (the deepest max-rank-node among its children's processors), mirroring
// the global_candidates/local_candidates split.
func splitByReach(g *hwgraph.Graph, rankOrder [][]NodeArray, candidates []hwgraph.NodeIndex) (global, local []scored) {
	for _, n := range candidates {
		node := g.Node(n)
		isGlobal := false
		var crit uint32
		for _, c := range g.Children(n) {
			if r := childMaxRank(g, rankOrder, c); r > crit {
				crit = r
			}
			if g.Node(c).Info.Coord.Module != node.Info.Coord.Module {
				isGlobal = true
			}
		}
		if isGlobal {
			global = append(global, scored{n, crit})
		} else {
			local = append(local, scored{n, crit})
		}
	}
	return global, local
}

type scored struct {
	node hwgraph.NodeIndex
	crit uint32
}

func childMaxRank(g *hwgraph.Graph, rankOrder [][]NodeArray, n hwgraph.NodeIndex) uint32 {
	coord := g.Node(n).Info.Coord
	na := &rankOrder[coord.Module][coord.Proc]
	if na.Done() {
		return 0
	}
	return g.Node(na.MaxRankNode()).Info.Rank.ASAP
}

func sortByCriticalityDesc(s []scored) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].crit > s[j].crit })
}

// scheduleGlobal greedily schedules candidates with a cross-module child,
// highest criticality first, subject to the global network's availability.
func scheduleGlobal(
	g *hwgraph.Graph, rankOrder [][]NodeArray, candidates []scored,
	nw *NetworkAvailability, cfg platform.Config, pc uint32,
) []hwgraph.NodeIndex {
	sortByCriticalityDesc(candidates)

	var scheduledNodes []hwgraph.NodeIndex
	for _, cand := range candidates {
		n := cand.node
		src := g.Node(n).Info.Coord
		schedulable := true
		chosen := map[uint32]platform.NetworkPath{}

		for _, c := range g.Children(n) {
			dst := g.Node(c).Info.Coord
			switch {
			case dst == src:
			case dst.Module == src.Module:
				if nw.IsBusy(dst.ID(cfg), cfg.InterProcDepLat()) {
					schedulable = false
				}
			default:
				if path, ok := chosen[dst.Module]; ok {
					if nwPathUsable(nw, src, dst, path, cfg) {
						continue
					}
				}
				found := false
				for _, path := range cfg.Topology.InterModulePaths(src, dst) {
					if nwPathUsable(nw, src, dst, path, cfg) {
						chosen[dst.Module] = path
						found = true
						break
					}
				}
				if !found {
					schedulable = false
				}
			}
			if !schedulable {
				break
			}
		}

		if !schedulable {
			continue
		}

		for _, e := range g.OutEdges(n) {
			_, c := g.EdgeEnds(e)
			dst := g.Node(c).Info.Coord
			switch {
			case dst == src:
			case dst.Module == src.Module:
				nw.SetBusy(dst.ID(cfg), cfg.InterProcDepLat())
			default:
				path := chosen[dst.Module]
				setNewPath(nw, src, dst, path, cfg)
				g.Edge(e).SetRouting(buildRoute(src, dst, path))
			}
		}

		scheduledNodes = append(scheduledNodes, n)
		rankOrder[src.Module][src.Proc].Advance()
	}
	return scheduledNodes
}

// scheduleLocal greedily schedules same-module candidates, subject only to
// intra-module (processor-to-processor) network contention.
func scheduleLocal(
	g *hwgraph.Graph, rankOrder [][]NodeArray, candidates []scored,
	nw *NetworkAvailability, cfg platform.Config, pc uint32,
) []hwgraph.NodeIndex {
	sortByCriticalityDesc(candidates)

	var scheduledNodes []hwgraph.NodeIndex
	for _, cand := range candidates {
		n := cand.node
		src := g.Node(n).Info.Coord
		schedulable := true

		for _, c := range g.Children(n) {
			dst := g.Node(c).Info.Coord
			if dst.Proc != src.Proc && nw.IsBusy(dst.ID(cfg), cfg.InterProcDepLat()) {
				schedulable = false
				break
			}
		}
		if !schedulable {
			continue
		}

		for _, c := range g.Children(n) {
			dst := g.Node(c).Info.Coord
			if dst.Proc != src.Proc {
				nw.SetBusy(dst.ID(cfg), cfg.InterProcDepLat())
			}
		}

		scheduledNodes = append(scheduledNodes, n)
		rankOrder[src.Module][src.Proc].Advance()
	}
	return scheduledNodes
}

// nwPathUsable reports whether the direct inter-module link path can carry
// a value from src to dst without colliding with an already-reserved use,
// mirroring nw_path_usable.
func nwPathUsable(nw *NetworkAvailability, src, dst platform.Coordinate, path platform.NetworkPath, cfg platform.Config) bool {
	c1, c2 := path.Src, path.Dst
	switch {
	case c1 == src && c2 == dst:
		return !nw.IsBusy(dst.ID(cfg), cfg.InterModZeroHopDepLat())
	case c1 == src && c2 != dst:
		return !nw.IsBusy(dst.ID(cfg), cfg.InterModRemoteOneHopDepLat()) &&
			!nw.IsBusy(c2.ID(cfg), cfg.InterModZeroHopDepLat())
	case c1 != src && c2 == dst:
		return !nw.IsBusy(dst.ID(cfg), cfg.InterModLocalOneHopDepLat()) &&
			!nw.IsBusy(c1.ID(cfg), cfg.InterProcDepLat())
	default:
		return !nw.IsBusy(dst.ID(cfg), cfg.InterModTwoHopDepLat()) &&
			!nw.IsBusy(c2.ID(cfg), cfg.InterModLocalOneHopDepLat()) &&
			!nw.IsBusy(c1.ID(cfg), cfg.InterProcDepLat())
	}
}

// setNewPath reserves the busy-ring slots a chosen path consumes, mirroring
// set_new_path.
func setNewPath(nw *NetworkAvailability, src, dst platform.Coordinate, path platform.NetworkPath, cfg platform.Config) {
	c1, c2 := path.Src, path.Dst
	switch {
	case c1 == src && c2 == dst:
		nw.SetBusy(dst.ID(cfg), cfg.InterModZeroHopDepLat())
	case c1 == src && c2 != dst:
		nw.SetBusy(dst.ID(cfg), cfg.InterModRemoteOneHopDepLat())
		nw.SetBusy(c2.ID(cfg), cfg.InterModZeroHopDepLat())
	case c1 != src && c2 == dst:
		nw.SetBusy(dst.ID(cfg), cfg.InterModLocalOneHopDepLat())
		nw.SetBusy(c1.ID(cfg), cfg.InterProcDepLat())
	default:
		nw.SetBusy(dst.ID(cfg), cfg.InterModTwoHopDepLat())
		nw.SetBusy(c2.ID(cfg), cfg.InterModLocalOneHopDepLat())
		nw.SetBusy(c1.ID(cfg), cfg.InterProcDepLat())
	}
}

// buildRoute assembles the full hop sequence from src to dst around the
// chosen inter-module link, adding a local hop on either end when the link
// doesn't start or end exactly at src/dst.
func buildRoute(src, dst platform.Coordinate, path platform.NetworkPath) platform.NetworkRoute {
	var route platform.NetworkRoute
	if path.Src != src {
		route = append(route, platform.NewNetworkPath(src, path.Src))
	}
	route = append(route, path)
	if path.Dst != dst {
		route = append(route, platform.NewNetworkPath(path.Dst, dst))
	}
	return route
}
