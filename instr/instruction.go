package instr

import (
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// Instruction is a single processor's instruction for one program counter
// slot, the Go analogue of the original's Instruction (common/instruction.rs).
type Instruction struct {
	Valid   bool
	Opcode  primitive.Opcode
	Lut     uint64
	Operand []Operand
	SInfo   SwitchInfo

	// Mem is set when this instruction is an SRAM control-bit write;
	// Operand[1:] then indicates which IO bit is being driven.
	Mem bool

	// SRAMIdx is the absolute bit index within the module's SRAM control
	// word (for an SRAMIn instruction) or read-data bus (for an SRAMOut
	// instruction) that this instruction's result drives or reads,
	// mirroring CircuitPrimitive::unique_sram_input_idx/
	// unique_sram_output_idx. The original never carries this on the wire:
	// a real processor's SRAM port wiring is fixed by static per-port
	// configuration, not by the instruction stream, so SRAMIdx is runtime
	// metadata only and Encode/Decode below do not touch it.
	SRAMIdx uint32
}

// New returns an invalid NOP instruction with room for nops operands.
func New(nops uint32) Instruction {
	return Instruction{
		Opcode:  primitive.OpNOP,
		Operand: make([]Operand, 0, nops),
	}
}

// Bit is a single packed instruction bit, MSB-first within each field.
type Bit = bool

// Encode packs the instruction into its wire bit layout per cfg, in the
// field order: opcode | lut table | per-operand {rs, local} in reverse
// index order (lut_inputs-1 .. 0) | switch idx | switch local | switch fwd |
// mem. Mirrors Instruction::to_bits.
func Encode(inst Instruction, cfg platform.Config) []Bit {
	var bits []Bit

	opcode := uint32(inst.Opcode.WireOpcode())
	bits = appendField(bits, uint64(opcode), cfg.OpcodeBits())
	bits = appendField(bits, inst.Lut, cfg.LutBits())

	for opIdx := int(cfg.LutInputs) - 1; opIdx >= 0; opIdx-- {
		var rs primitive.Bits
		var local bool = true
		if opIdx < len(inst.Operand) {
			rs = inst.Operand[opIdx].Rs
			local = inst.Operand[opIdx].Local
		}
		bits = appendField(bits, uint64(rs), cfg.IndexBits())
		bits = append(bits, local)
	}

	bits = appendField(bits, uint64(inst.SInfo.Idx), cfg.SwitchBits())
	bits = append(bits, inst.SInfo.Local)
	bits = append(bits, inst.SInfo.Fwd)
	bits = append(bits, inst.Mem)

	return bits
}

func appendField(bits []Bit, v uint64, width uint32) []Bit {
	for i := uint32(0); i < width; i++ {
		sl := width - i - 1
		bits = append(bits, (v>>sl)&1 == 1)
	}
	return bits
}

// Decode unpacks a bit slice produced by Encode back into an Instruction,
// the inverse of the field layout above. valid/lut-truth-table semantics
// distinguishing ConstLut from Lut are not recoverable from the wire format
// alone (both encode as OpLut) and must be supplied by the caller that
// knows the node kind, mirroring the original compiler's own one-way
// to_bits (there is no from_bits in original_source/).
func Decode(bits []Bit, cfg platform.Config) Instruction {
	pos := 0
	readField := func(width uint32) uint64 {
		var v uint64
		for i := uint32(0); i < width; i++ {
			v <<= 1
			if pos < len(bits) && bits[pos] {
				v |= 1
			}
			pos++
		}
		return v
	}

	inst := New(cfg.LutInputs)
	inst.Opcode = primitive.Opcode(readField(cfg.OpcodeBits()))
	inst.Lut = readField(cfg.LutBits())

	ops := make([]Operand, cfg.LutInputs)
	for opIdx := int(cfg.LutInputs) - 1; opIdx >= 0; opIdx-- {
		rs := primitive.Bits(readField(cfg.IndexBits()))
		local := pos < len(bits) && bits[pos]
		pos++
		ops[opIdx] = Operand{Rs: rs, Local: local}
	}
	inst.Operand = ops

	inst.SInfo.Idx = primitive.Bits(readField(cfg.SwitchBits()))
	if pos < len(bits) {
		inst.SInfo.Local = bits[pos]
	}
	pos++
	if pos < len(bits) {
		inst.SInfo.Fwd = bits[pos]
	}
	pos++
	if pos < len(bits) {
		inst.Mem = bits[pos]
	}
	pos++
	inst.Valid = true

	return inst
}

// PortsUsed returns the number of operands reading from local data memory
// and the number reading from switch-received data memory, mirroring
// Instruction::ports_used. A nil return for either means no operands use
// that port at all (matching the original's Option<u32>/reduce semantics).
func (inst Instruction) PortsUsed() (ldm *uint32, sdm *uint32) {
	return inst.ldmPortsUsed(), inst.sdmPortsUsed()
}

func (inst Instruction) ldmPortsUsed() *uint32 {
	if len(inst.Operand) == 0 {
		return nil
	}
	var n uint32
	for _, op := range inst.Operand {
		if op.Local {
			n++
		}
	}
	return &n
}

func (inst Instruction) sdmPortsUsed() *uint32 {
	if len(inst.Operand) == 0 {
		return nil
	}
	var n uint32
	for _, op := range inst.Operand {
		if !op.Local {
			n++
		}
	}
	return &n
}
