// Package refsim implements component K: the per-gate reference simulator.
// Unlike fsim, it carries no processor, switch or pipeline timing at all —
// it walks the netlist itself in topological order once per cycle and is
// the golden model fsim's compiled output is checked against (spec.md §4.K,
// §8's fsim≡refsim equivalence invariant). Grounded on spec.md §4.K; no
// file in original_source/ implements an untimed graph-walking simulator
// (compiler/src/fsim/*.rs is fsim's own timed model), so this package's
// shape is supplemented from the specification rather than ported, while
// reusing fsim.SRAMState/fsim.SRAMRequest for SRAM semantics and
// primitive.EvalLUT for LUT evaluation so both simulators agree on those by
// construction instead of by parallel reimplementation.
package refsim

import (
	"fmt"

	"github.com/sarchlab/bee-compiler/fsim"
	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// Simulator evaluates g one cycle at a time: every combinational node is
// recomputed fresh each cycle in topological order, while Gate/Latch
// outputs and SRAM read-data busses are treated as pre-resolved roots
// (hwgraph.TopoSortFFCut) and only flip to their newly computed value at
// the end of the cycle — the same stage-then-commit discipline fsim.
// Processor uses, which is what makes the two simulators comparable cycle
// for cycle despite fsim's extra pipeline delay between decode and commit.
type Simulator struct {
	g   *hwgraph.Graph
	cfg platform.Config

	order []hwgraph.NodeIndex

	val        map[hwgraph.NodeIndex]primitive.Bit
	pendingReg map[hwgraph.NodeIndex]primitive.Bit
	inputs     map[hwgraph.NodeIndex]primitive.Bit

	byName map[string]hwgraph.NodeIndex

	srams       map[uint32]*fsim.SRAMState
	sramReaders map[uint32][]hwgraph.NodeIndex // SRAMRdData nodes, by module
	pendingSRAM map[uint32]uint64
}

// NewSimulator builds a Simulator over g. srams maps a module index to the
// fsim.SRAMState backing that module's SRAM (the same state a fsim.Board
// for the same compiled design would use, so the two simulators can be run
// side by side against independent copies of the same initial memory
// contents). Every Latch node's netlist LatchInit seeds its initial value,
// to the extent it resolves to a concrete 0/1 (spec.md's TestRegInit
// scenario); Gate nodes and unresolved (X/Unknown) latch inits start at 0.
func NewSimulator(g *hwgraph.Graph, cfg platform.Config, srams map[uint32]*fsim.SRAMState) *Simulator {
	s := &Simulator{
		g:           g,
		cfg:         cfg,
		val:         map[hwgraph.NodeIndex]primitive.Bit{},
		pendingReg:  map[hwgraph.NodeIndex]primitive.Bit{},
		inputs:      map[hwgraph.NodeIndex]primitive.Bit{},
		byName:      map[string]hwgraph.NodeIndex{},
		srams:       srams,
		sramReaders: map[uint32][]hwgraph.NodeIndex{},
		pendingSRAM: map[uint32]uint64{},
	}

	s.order = g.TopoSortFFCut(func(n hwgraph.NodeIndex) bool {
		k := g.Node(n).Is()
		return k.IsRegister() || k == primitive.KindInput || k == primitive.KindSRAMRdData
	})

	g.NodeIndices(func(n hwgraph.NodeIndex) {
		node := g.Node(n)
		if name := node.Name(); name != "" {
			s.byName[name] = n
		}
		if node.Is() == primitive.KindLatch {
			if v, ok := node.Prim.LatchInit.ToBit(); ok {
				s.val[n] = v
			}
		}
		if node.Is() == primitive.KindSRAMRdData {
			mod := node.Info.Coord.Module
			s.sramReaders[mod] = append(s.sramReaders[mod], n)
		}
	})

	return s
}

// PokeInput drives the named Input signal's value for the next RunCycle.
func (s *Simulator) PokeInput(name string, val primitive.Bit) error {
	n, ok := s.byName[name]
	if !ok || s.g.Node(n).Is() != primitive.KindInput {
		return fmt.Errorf("refsim: unknown input signal %q", name)
	}
	s.inputs[n] = val
	return nil
}

// Peek reads the named signal's current, stable value.
func (s *Simulator) Peek(name string) (primitive.Bit, error) {
	n, ok := s.byName[name]
	if !ok {
		return 0, fmt.Errorf("refsim: unknown signal %q", name)
	}
	return s.val[n], nil
}

// RunCycle evaluates every live node once, in topological order, then
// commits every register's and SRAM read-data bus's staged next value.
func (s *Simulator) RunCycle() {
	reqs := map[uint32]*fsim.SRAMRequest{}
	for mod := range s.srams {
		reqs[mod] = &fsim.SRAMRequest{}
	}

	for _, n := range s.order {
		s.evalNode(n, reqs)
	}

	for mod, req := range reqs {
		s.pendingSRAM[mod] = req.Access(s.srams[mod])
	}

	for n, v := range s.pendingReg {
		s.val[n] = v
	}
	for n := range s.pendingReg {
		delete(s.pendingReg, n)
	}
	for mod, resp := range s.pendingSRAM {
		for _, n := range s.sramReaders[mod] {
			idx := s.g.Node(n).Prim.SRAMIdx
			s.val[n] = primitive.Bit((resp >> idx) & 1)
		}
	}
}

func (s *Simulator) evalNode(n hwgraph.NodeIndex, reqs map[uint32]*fsim.SRAMRequest) {
	node := s.g.Node(n)
	switch node.Is() {
	case primitive.KindNOP, primitive.KindSRAMNode:
		return
	case primitive.KindInput:
		s.val[n] = s.inputs[n]
	case primitive.KindOutput:
		s.val[n] = s.parentVal(n, 0)
	case primitive.KindConstLut:
		s.val[n] = node.Prim.ConstVal
	case primitive.KindLut:
		s.val[n] = primitive.EvalLUT(node.Prim.Table, s.parentVals(n))
	case primitive.KindGate:
		s.pendingReg[n] = evalRegister(s.parentVals(n), s.val[n])
	case primitive.KindLatch:
		ops := s.parentVals(n)
		if len(ops) == 0 {
			s.pendingReg[n] = s.val[n]
		} else {
			s.pendingReg[n] = ops[0]
		}
	case primitive.KindSRAMRdData:
		// A pre-resolved root: its value for this cycle was already set by
		// the previous cycle's RunCycle commit (or is the zero value on the
		// very first cycle). Nothing to do until this cycle's own request
		// is accumulated and fired below.
	default:
		v := s.parentVal(n, 0)
		s.val[n] = v
		if req, ok := reqs[node.Info.Coord.Module]; ok {
			req.SetByAbsIdx(s.cfg, node.Prim.UniqueSRAMInputIdx(s.cfg), v)
		}
	}
}

// evalRegister applies an edge-triggered flip-flop's D/enable semantics,
// identical to fsim.evalGate: netlist.BuildModule only ever wires GateD
// and, when present, GateE as data dependencies (GateC/GateR never are),
// so dynamic reset is unmodeled in both simulators equally and a register
// always samples D unless a present, low enable holds the current Q.
func evalRegister(ops []primitive.Bit, curQ primitive.Bit) primitive.Bit {
	if len(ops) == 0 {
		return curQ
	}
	if len(ops) > 1 && ops[1] == 0 {
		return curQ
	}
	return ops[0]
}

func (s *Simulator) parentVals(n hwgraph.NodeIndex) []primitive.Bit {
	parents := s.g.Parents(n)
	ops := make([]primitive.Bit, len(parents))
	for i, p := range parents {
		ops[i] = s.val[p]
	}
	return ops
}

func (s *Simulator) parentVal(n hwgraph.NodeIndex, i int) primitive.Bit {
	parents := s.g.Parents(n)
	if i >= len(parents) {
		return 0
	}
	return s.val[parents[i]]
}
