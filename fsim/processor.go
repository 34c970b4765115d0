package fsim

import (
	"github.com/sarchlab/bee-compiler/instr"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// Processor is one bit-serial processing element: its own instruction
// stream plus local/switch-received data memory, the Go analogue of
// processor.rs's Processor. Only the outer shape (imem/ldm/sdm arrays, a
// pc-indexed step loop, a switch-out register) is grounded on processor.rs;
// that file's actual instruction semantics belong to an incompatible older
// AND/OR/INV Opcode prototype (it depends on a crate::fsim::common module
// absent from the retrieved source) and are not reused. The per-host-step
// execution below is supplemented fresh from spec.md §4.J against the
// already-built instr.Instruction/Operand/SwitchInfo model.
type Processor struct {
	cfg       platform.Config
	coord     platform.Coordinate
	hostSteps uint32

	imem []instr.Instruction
	ldm  []primitive.Bit
	sdm  []primitive.Bit

	// pendingReg stages a Gate/Latch's newly computed D value; it only
	// replaces ldm[pc] at the target-cycle boundary (CommitRegisters), so
	// every read of ldm[pc] during the cycle observes the stable,
	// previous-cycle Q — matching the FF-cut scheduling assumption
	// (hwgraph.TopoSortFFCut) that a register's output is already resolved
	// at the start of the cycle it is read in.
	pendingReg map[uint32]primitive.Bit

	inputs map[uint32]primitive.Bit // pc -> externally poked value (OpInput)

	sram *SRAMProcessor // nil if this processor's module has no SRAM

	switchOutVal   primitive.Bit
	switchOutValid bool
}

// NewProcessor builds a processor over a fixed instruction stream. regInit
// seeds ldm at register (Gate/Latch) pc slots with their netlist initial
// value — Instruction carries no init field (mirroring the original, which
// has no such field either), so spec.md's TestRegInit scenario requires
// this to be threaded in separately by the caller (component L's Circuit
// driver, which still has the originating hwgraph.NodePrimitive.LatchInit
// available) rather than recovered from the instruction stream alone.
func NewProcessor(cfg platform.Config, coord platform.Coordinate, hostSteps uint32, imem []instr.Instruction, sram *SRAMProcessor, regInit map[uint32]primitive.Bit) *Processor {
	p := &Processor{
		cfg:        cfg,
		coord:      coord,
		hostSteps:  hostSteps,
		imem:       imem,
		ldm:        make([]primitive.Bit, hostSteps),
		sdm:        make([]primitive.Bit, hostSteps),
		pendingReg: map[uint32]primitive.Bit{},
		inputs:     map[uint32]primitive.Bit{},
		sram:       sram,
	}
	for pc, v := range regInit {
		if pc < hostSteps {
			p.ldm[pc] = v
		}
	}
	return p
}

// Poke sets the value an OpInput instruction at pc will read this and every
// following target cycle, until poked again.
func (p *Processor) Poke(pc uint32, val primitive.Bit) { p.inputs[pc] = val }

// Peek returns ldm[pc], the value signal_map-based Board.Peek reads back.
func (p *Processor) Peek(pc uint32) primitive.Bit { return p.ldm[pc] }

func subPC(t, offset, hostSteps uint32) (uint32, bool) {
	if t < offset {
		return 0, false
	}
	idx := t - offset
	if idx >= hostSteps {
		return 0, false
	}
	return idx, true
}

// Compute runs the local half of absolute host step t: decode
// imem[t-PCLDMOffset] (if that pipeline slot is occupied yet this cycle),
// evaluate it against already-committed ldm/sdm, and stage its result.
// Also arms the processor's switch-out register, which ConsumeSwitch may
// still override this same step if this pc also relays another hop.
func (p *Processor) Compute(t uint32) {
	p.switchOutValid = false

	ldmIdx, ok := subPC(t, p.cfg.PCLDMOffset(), p.hostSteps)
	if !ok {
		return
	}
	inst := p.imem[ldmIdx]
	if !inst.Valid {
		return
	}

	ops := p.readOperands(inst)
	result := p.eval(inst, ldmIdx, ops)

	broadcast := result
	switch inst.Opcode {
	case primitive.OpGate, primitive.OpLatch:
		p.pendingReg[ldmIdx] = result
		broadcast = p.ldm[ldmIdx] // children see the stable Q, not next D
	default:
		p.ldm[ldmIdx] = result
	}

	if inst.Mem {
		p.sram.SetBit(inst.SRAMIdx, result)
	}

	p.switchOutVal = broadcast
	p.switchOutValid = true
}

// readOperands gathers an instruction's operand bits from local or
// switch-received data memory.
func (p *Processor) readOperands(inst instr.Instruction) []primitive.Bit {
	ops := make([]primitive.Bit, len(inst.Operand))
	for i, op := range inst.Operand {
		if op.Local {
			ops[i] = p.ldm[op.Rs]
		} else {
			ops[i] = p.sdm[op.Rs]
		}
	}
	return ops
}

// eval computes one instruction's scalar result, per spec.md §4.C's
// opcode semantics.
func (p *Processor) eval(inst instr.Instruction, pc uint32, ops []primitive.Bit) primitive.Bit {
	switch inst.Opcode {
	case primitive.OpInput:
		return p.inputs[pc]
	case primitive.OpOutput, primitive.OpSRAMIn:
		if len(ops) == 0 {
			return 0
		}
		return ops[0]
	case primitive.OpLut, primitive.OpConstLut:
		return evalLut(inst, ops)
	case primitive.OpGate:
		return evalGate(ops, p.ldm[pc])
	case primitive.OpLatch:
		if len(ops) == 0 {
			return p.ldm[pc]
		}
		return ops[0]
	case primitive.OpSRAMOut:
		return p.sram.ReadBit(inst.SRAMIdx)
	default:
		return 0
	}
}

// evalLut looks up the LUT's packed truth table at the bit position formed
// by its ordered operand values (operand 0 is the MSB), matching
// primitive.PackTruthTable's assignment convention. OpConstLut's single-row
// table collapses to bit 0 since it has no inputs.
func evalLut(inst instr.Instruction, ops []primitive.Bit) primitive.Bit {
	if len(ops) == 0 {
		return primitive.Bit(inst.Lut & 1)
	}
	var idx uint64
	for _, b := range ops {
		idx = idx<<1 | uint64(b)
	}
	return primitive.Bit((inst.Lut >> idx) & 1)
}

// evalGate applies an edge-triggered flip-flop's D/enable semantics: with
// no enable operand wired in (netlist.Build only wires GateD and, when
// present, GateE — GateC/GateR are never wired as data dependencies, so
// dynamic reset is not modeled, matching both simulators equally), the
// register always samples D; with an enable operand, a zero enable holds
// the current Q instead.
func evalGate(ops []primitive.Bit, curQ primitive.Bit) primitive.Bit {
	if len(ops) == 0 {
		return curQ
	}
	d := ops[0]
	if len(ops) > 1 && ops[1] == 0 {
		return curQ
	}
	return d
}

// ConsumeSwitch runs the switch-receiving half of absolute host step t:
// decode imem[t-PCSDMOffset]'s switch metadata (if any), land the bit
// currently sitting on the indicated local or global switch port into sdm,
// and, if this hop must relay onward (SInfo.Fwd), re-arm this processor's
// own switch-out for the next hop with that same received bit — overriding
// whatever Compute staged this step. Must run after every processor's
// Compute for this step and before EmitSwitch.
func (p *Processor) ConsumeSwitch(t uint32, local, global *Switch) {
	sdmIdx, ok := subPC(t, p.cfg.PCSDMOffset(), p.hostSteps)
	if !ok {
		return
	}
	inst := p.imem[sdmIdx]
	if !inst.SInfo.LocalSet {
		return
	}

	var val primitive.Bit
	if inst.SInfo.Local {
		val = local.Get(inst.SInfo.Idx)
	} else {
		val = global.Get(inst.SInfo.Idx)
	}
	p.sdm[sdmIdx] = val

	if inst.SInfo.FwdSet && inst.SInfo.Fwd {
		p.switchOutVal = val
		p.switchOutValid = true
	}
}

// EmitSwitch submits this step's armed switch-out value onto both the
// local and global switch, at this processor's own id in each. A
// same-module consumer reads it off local; a cross-module consumer reads
// it off global after that switch's own (longer) latency. Submitting to
// both unconditionally is a documented simplification: exact per-hop
// latency bookkeeping for a relayed multi-hop route would need routing
// metadata the Instruction format does not carry (see mapping/emit.go),
// the same gap the original's own unfinished merge_partitions left open.
func (p *Processor) EmitSwitch(t uint32, local, global *Switch) {
	if !p.switchOutValid {
		return
	}
	id := p.coord.ID(p.cfg)
	local.Set(id, t, p.switchOutVal)
	global.Set(id, t, p.switchOutVal)
}

// CommitRegisters flips every staged Gate/Latch result into ldm, making it
// the stable Q for the next target cycle. Must run once, after every host
// step of the current target cycle has executed.
func (p *Processor) CommitRegisters() {
	for pc, v := range p.pendingReg {
		p.ldm[pc] = v
	}
	for pc := range p.pendingReg {
		delete(p.pendingReg, pc)
	}
}
