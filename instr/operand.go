// Package instr is the per-processor instruction model (component C): the
// encoded operand/switch fields the scheduler fills in and the bit-packing
// codec that turns an Instruction into the wire format component I emits.
package instr

import "github.com/sarchlab/bee-compiler/primitive"

// Operand is one LUT input's source: an index into local or switch-received
// data memory, plus which LUT input position it feeds.
type Operand struct {
	Rs    primitive.Bits
	Local bool
	Idx   primitive.Bits
}

// SwitchInfo is the per-instruction switch-routing metadata: which remote
// processor to receive from, whether that source is within the local
// module's switch, and whether to forward the received bit onward.
type SwitchInfo struct {
	LocalSet bool
	FwdSet   bool

	Idx   primitive.Bits
	Local bool
	Fwd   bool
}
