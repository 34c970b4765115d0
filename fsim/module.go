package fsim

import (
	"github.com/sarchlab/bee-compiler/instr"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// Module is one module's processor array plus its local switch and SRAM
// controller, the Go analogue of module.rs's Module. Grounded on
// module.rs's wiring order (step every proc, then shuffle switch ports),
// generalized to this simulator's host-step granularity instead of
// module.rs's own debug-only, explicitly FIXME'd 10-iteration run() loop.
type Module struct {
	cfg   platform.Config
	idx   uint32
	procs []*Processor
	local *Switch
	sram  *SRAMProcessor
}

// NewModule builds module idx's cfg.NumProcs processors sharing sram (nil
// if this module carries no SRAM). imems and regInit are indexed by local
// proc id. The local switch is sized and indexed by each processor's
// board-wide id (platform.Coordinate.ID) rather than its local proc index,
// so the same SwitchInfo.Idx a consumer's instruction carries works
// whether the producer is local or (via the board's global switch) remote.
func NewModule(cfg platform.Config, idx uint32, hostSteps uint32, imems [][]instr.Instruction, sram *SRAMProcessor, regInit []map[uint32]primitive.Bit) *Module {
	m := &Module{
		cfg:   cfg,
		idx:   idx,
		procs: make([]*Processor, cfg.NumProcs),
		local: NewSwitch(int(cfg.TotalProcs()), cfg.InterProcNWLat),
		sram:  sram,
	}
	for p := uint32(0); p < cfg.NumProcs; p++ {
		var init map[uint32]primitive.Bit
		if int(p) < len(regInit) {
			init = regInit[p]
		}
		coord := platform.Coordinate{Module: idx, Proc: p}
		m.procs[p] = NewProcessor(cfg, coord, hostSteps, imems[p], sram, init)
	}
	return m
}

// Compute runs every processor's local-compute half of host step t.
func (m *Module) Compute(t uint32) {
	if t == 0 && m.sram != nil {
		m.sram.BeginCycle()
	}
	for _, p := range m.procs {
		p.Compute(t)
	}
}

// ConsumeSwitch runs every processor's switch-receive half of host step t
// against both this module's local switch and the board's global switch.
func (m *Module) ConsumeSwitch(t uint32, global *Switch) {
	for _, p := range m.procs {
		p.ConsumeSwitch(t, m.local, global)
	}
}

// EmitSwitch submits every processor's armed switch-out value onto this
// module's local switch and the board's global switch, then advances the
// local switch's latency queue for this step; Board.Tick advances the
// global switch's queue itself.
func (m *Module) EmitSwitch(t uint32, global *Switch) {
	for _, p := range m.procs {
		p.EmitSwitch(t, m.local, global)
	}
	m.local.RunCycle(t)
}

// CommitRegisters flips every processor's staged register results into
// ldm, ending one target cycle.
func (m *Module) CommitRegisters() {
	for _, p := range m.procs {
		p.CommitRegisters()
	}
}

// Proc returns this module's local-id processor p.
func (m *Module) Proc(p uint32) *Processor { return m.procs[p] }
