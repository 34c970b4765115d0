// Package fsim implements component J: the cycle-accurate functional
// simulator that actually runs a compiled instruction stream the way the
// emulated hardware would, host step by host step. Mirrors
// original_source/compiler/src/fsim/{board,module,processor,switch,sram}.rs.
package fsim

import "github.com/sarchlab/bee-compiler/primitive"

// switchPort is a one-slot latency queue carrying a single bit of switch
// traffic: a value submitted at host step T becomes the port's current
// value lat steps later. Ported directly from switch.rs's SwitchPort,
// which is self-contained and needed no adaptation beyond the rename.
type switchPort struct {
	lat     uint32
	cur     primitive.Bit
	pending []pendingBit
}

type pendingBit struct {
	deliverAt uint32
	val       primitive.Bit
}

func newSwitchPort(lat uint32) *switchPort {
	return &switchPort{lat: lat}
}

// submit queues val for delivery lat steps after step.
func (p *switchPort) submit(step uint32, val primitive.Bit) {
	p.pending = append(p.pending, pendingBit{deliverAt: step + p.lat, val: val})
}

// runCycle delivers any pending value whose time has come, mirroring
// SwitchPort::run_cycle.
func (p *switchPort) runCycle(step uint32) {
	for i, pb := range p.pending {
		if pb.deliverAt == step {
			p.cur = pb.val
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			return
		}
	}
}

func (p *switchPort) curReq() primitive.Bit { return p.cur }

// Switch is a fixed-size array of latency-queued ports, the Go analogue of
// switch.rs's Switch. One Switch instance serves as a module's local switch
// and a second serves as the board's global switch; both are sized
// NumMods*NumProcs and indexed by board-wide processor id.
type Switch struct {
	ports []*switchPort
}

// NewSwitch builds a Switch with nports ports, each delivering submitted
// values lat steps later.
func NewSwitch(nports int, lat uint32) *Switch {
	s := &Switch{ports: make([]*switchPort, nports)}
	for i := range s.ports {
		s.ports[i] = newSwitchPort(lat)
	}
	return s
}

// Get returns port id's current delivered value.
func (s *Switch) Get(id uint32) primitive.Bit { return s.ports[id].curReq() }

// Set submits val on port id for delivery after the switch's latency.
func (s *Switch) Set(id uint32, step uint32, val primitive.Bit) {
	s.ports[id].submit(step, val)
}

// RunCycle advances every port's latency queue by one host step.
func (s *Switch) RunCycle(step uint32) {
	for _, p := range s.ports {
		p.runCycle(step)
	}
}
