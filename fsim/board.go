package fsim

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bee-compiler/instr"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// SignalLocation is where a named netlist signal lives once compiled: the
// (module, proc) that produces it and the pc slot its value is held at.
type SignalLocation struct {
	Coord platform.Coordinate
	PC    uint32
}

// Board is the whole emulated platform: every module's processor array
// plus the board-wide global switch connecting them, the Go analogue of
// board.rs's Board. Grounded on board.rs's constructor and peek/poke API;
// its per-host-step loop is supplemented from spec.md §4.J, since board.rs
// defers to module.rs's incompatible prototype for that.
//
// A Board is driven by its own sim.Engine exactly the way core.Core is
// driven by the device's engine: one Tick per host step, instead of a
// bare for loop, so every RunCycle call schedules hostSteps ticks through
// the akita engine and lets it call Tick until the board reports no more
// progress for this cycle.
type Board struct {
	*sim.TickingComponent

	cfg       platform.Config
	modules   []*Module
	global    *Switch
	hostSteps uint32
	signals   map[string]SignalLocation

	engine  sim.Engine
	step    uint32
	running bool
}

// NewBoard assembles a board from per-(module,proc) instruction streams.
// regInit gives a Gate/Latch output's netlist initial value at its
// SignalLocation (spec.md's TestRegInit scenario); srams maps a module
// index to the SRAMState backing that module's SRAM, for modules with one.
func NewBoard(cfg platform.Config, hostSteps uint32, streams [][]instr.Instruction, signals map[string]SignalLocation, regInit map[SignalLocation]primitive.Bit, srams map[uint32]*SRAMState) *Board {
	b := &Board{
		cfg:       cfg,
		modules:   make([]*Module, cfg.NumMods),
		global:    NewSwitch(int(cfg.TotalProcs()), cfg.InterModNWLat),
		hostSteps: hostSteps,
		signals:   signals,
	}

	perModuleInit := make([][]map[uint32]primitive.Bit, cfg.NumMods)
	for i := range perModuleInit {
		perModuleInit[i] = make([]map[uint32]primitive.Bit, cfg.NumProcs)
	}
	for loc, val := range regInit {
		m := perModuleInit[loc.Coord.Module]
		if m[loc.Coord.Proc] == nil {
			m[loc.Coord.Proc] = map[uint32]primitive.Bit{}
		}
		m[loc.Coord.Proc][loc.PC] = val
	}

	for m := uint32(0); m < cfg.NumMods; m++ {
		imems := make([][]instr.Instruction, cfg.NumProcs)
		for p := uint32(0); p < cfg.NumProcs; p++ {
			imems[p] = streams[(platform.Coordinate{Module: m, Proc: p}).ID(cfg)]
		}
		var sram *SRAMProcessor
		if state, ok := srams[m]; ok {
			sram = NewSRAMProcessor(cfg, state)
		}
		b.modules[m] = NewModule(cfg, m, hostSteps, imems, sram, perModuleInit[m])
	}

	b.engine = sim.NewSerialEngine()
	b.TickingComponent = sim.NewTickingComponent("Board", b.engine, 1*sim.GHz, b)

	return b
}

// Engine returns the sim.Engine this board ticks itself through, so a
// caller running under a monitoring.Monitor can register it alongside the
// board itself (monitor.RegisterEngine), mirroring how samples register
// the device's shared engine.
func (b *Board) Engine() sim.Engine {
	return b.engine
}

// PokeInput drives the named Input signal's value for the next RunCycle.
func (b *Board) PokeInput(name string, val primitive.Bit) error {
	loc, ok := b.signals[name]
	if !ok {
		return fmt.Errorf("fsim: unknown signal %q", name)
	}
	proc := b.modules[loc.Coord.Module].Proc(loc.Coord.Proc)
	inst := proc.imem[loc.PC]
	if inst.Opcode != primitive.OpInput {
		return fmt.Errorf("fsim: signal %q is not an Input", name)
	}
	proc.Poke(loc.PC, val)
	return nil
}

// Peek reads the named signal's current value.
func (b *Board) Peek(name string) (primitive.Bit, error) {
	loc, ok := b.signals[name]
	if !ok {
		return 0, fmt.Errorf("fsim: unknown signal %q", name)
	}
	proc := b.modules[loc.Coord.Module].Proc(loc.Coord.Proc)
	return proc.Peek(loc.PC), nil
}

// Tick runs one host step: local compute, switch-consume, switch-emit,
// then the global switch's own latency advance, the phase order spec.md
// §4.J describes. It reports no progress once hostSteps ticks have run
// for the cycle RunCycle is currently driving, which is what stops the
// engine's Run loop without it needing to know hostSteps itself.
func (b *Board) Tick(now sim.VTimeInSec) bool {
	if !b.running || b.step >= b.hostSteps {
		return false
	}

	t := b.step
	for _, m := range b.modules {
		m.Compute(t)
	}
	for _, m := range b.modules {
		m.ConsumeSwitch(t, b.global)
	}
	for _, m := range b.modules {
		m.EmitSwitch(t, b.global)
	}
	b.global.RunCycle(t)

	b.step++
	return true
}

// RunCycle executes one target cycle: hostSteps host steps driven by this
// Board's own sim.Engine (Tick runs each step's phase-ordered work), then
// commits every register's staged next value.
func (b *Board) RunCycle() {
	b.step = 0
	b.running = true
	b.engine.Run()
	b.running = false

	for _, m := range b.modules {
		m.CommitRegisters()
	}
}
