// Package hwgraph is the gate-level netlist graph model (component A):
// a typed node/edge arena plus the per-node scheduling metadata every later
// pass (DCE, splitting, ranking, partitioning, scheduling) reads and writes.
package hwgraph

import (
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// NodePrimitive is the Go analogue of the original's CircuitPrimitive enum
// (common/primitive.rs): a tagged union of every gate-level netlist node
// kind, represented idiomatically as one struct with a Kind discriminator
// and the fields relevant to that kind left populated.
type NodePrimitive struct {
	Kind primitive.Kind

	// Name is the node's single output signal name: Input/Output name,
	// Lut/Gate/Latch output, or an SRAM port-bit name.
	Name string

	// Lut fields.
	Inputs []string // LUT fan-in signal names
	Table  [][]uint8

	// ConstLut field.
	ConstVal primitive.Bit

	// Gate fields (c=clock, d=data, q=output, r=reset, e=enable).
	GateC, GateD string
	GateR, GateE *string

	// Latch fields.
	LatchInput, LatchControl string
	LatchInit                primitive.FourStateBit

	// SRAMNode fields.
	SRAMConns map[string]string

	// SRAM scalar port-bit index (SRAM*Addr/*Data/*Mask).
	SRAMIdx uint32
}

// UniqueSRAMInputOffset is the base bit offset of this node's SRAM control
// signal within the SRAM control word, per
// CircuitPrimitive::unique_sram_input_offset.
func (p NodePrimitive) UniqueSRAMInputOffset(cfg platform.Config) uint32 {
	switch p.Kind {
	case primitive.KindSRAMRdEn:
		return cfg.SRAMRdEnOffset()
	case primitive.KindSRAMWrEn:
		return cfg.SRAMWrEnOffset()
	case primitive.KindSRAMRdAddr:
		return cfg.SRAMRdAddrOffset()
	case primitive.KindSRAMWrAddr:
		return cfg.SRAMWrAddrOffset()
	case primitive.KindSRAMWrData:
		return cfg.SRAMWrDataOffset()
	case primitive.KindSRAMWrMask:
		return cfg.SRAMWrMaskOffset()
	case primitive.KindSRAMRdWrEn:
		return cfg.SRAMRdWrEnOffset()
	case primitive.KindSRAMRdWrMode:
		return cfg.SRAMRdWrModeOffset()
	case primitive.KindSRAMRdWrAddr:
		return cfg.SRAMRdWrAddrOffset()
	default:
		return cfg.SRAMOtherOffset()
	}
}

// UniqueSRAMInputIdx is the absolute bit index of this node's SRAM control
// signal, per CircuitPrimitive::unique_sram_input_idx.
func (p NodePrimitive) UniqueSRAMInputIdx(cfg platform.Config) uint32 {
	offset := p.UniqueSRAMInputOffset(cfg)
	switch p.Kind {
	case primitive.KindSRAMRdAddr, primitive.KindSRAMWrAddr, primitive.KindSRAMWrMask,
		primitive.KindSRAMWrData, primitive.KindSRAMRdWrAddr:
		return offset + p.SRAMIdx
	default:
		return offset
	}
}

// UniqueSRAMOutputIdx is the bit index within the SRAM read-data bus this
// node reads, or cfg.SRAMWidth if this node is not an SRAMRdData bit, per
// CircuitPrimitive::unique_sram_output_idx.
func (p NodePrimitive) UniqueSRAMOutputIdx(cfg platform.Config) uint32 {
	if p.Kind == primitive.KindSRAMRdData {
		return p.SRAMIdx
	}
	return cfg.SRAMWidth
}

// NodeCheckState records whether fsim and refsim agreed on this node's
// simulated value, for SimulationMismatch reporting (spec.md §7).
type NodeCheckState int

const (
	CheckUnknown NodeCheckState = iota
	CheckMatch
	CheckMismatch
)

// DebugInfo carries the last simulated value and its cross-check state.
type DebugInfo struct {
	Check NodeCheckState
	Val   primitive.Bit
}

// RankInfo is the ASAP/ALAP rank analysis result (component F).
type RankInfo struct {
	ASAP uint32
	ALAP uint32
	Mob  uint32
}

// Critical reports whether this node lies on the critical path (zero slack).
func (r RankInfo) Critical() bool {
	return r.ALAP-r.ASAP == 0
}

// LPUInfo records the logical processing unit this node was mapped into,
// when the target has LUT-packed memory-tile scheduling. Unused by the
// single-LUT-per-processor target modeled here but carried for fidelity
// with the original's NodeInfo shape.
type LPUInfo struct {
	MemTile  *uint32
	LutGroup *uint32
	LutEntry *uint32
}

// NodeInfo is the per-node metadata filled in by the compiler passes.
type NodeInfo struct {
	Coord     platform.Coordinate
	Rank      RankInfo
	RegGrp    uint32
	Scheduled bool
	PC        uint32
	Debug     DebugInfo
	LPU       LPUInfo
}

// HWNode is a single netlist graph node: its parsed primitive plus the
// compiler-filled NodeInfo.
type HWNode struct {
	Prim NodePrimitive
	Info NodeInfo
}

// NewHWNode wraps a freshly-parsed primitive with zeroed NodeInfo.
func NewHWNode(prim NodePrimitive) HWNode {
	return HWNode{Prim: prim}
}

// Is returns the node's structural Kind, the Go analogue of HWNode::is().
func (n HWNode) Is() primitive.Kind { return n.Prim.Kind }

// Name returns the node's single output signal name, or "" for NOP/SRAMNode.
func (n HWNode) Name() string {
	switch n.Prim.Kind {
	case primitive.KindSRAMNode:
		return ""
	default:
		return n.Prim.Name
	}
}
