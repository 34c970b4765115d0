package compiler

import (
	"github.com/sarchlab/bee-compiler/fsim"
	"github.com/sarchlab/bee-compiler/refsim"
)

// NewBoard stands up a fresh fsim.Board over this Circuit's compiled
// streams, ready for RunCycle/PokeInput/Peek by signal name. If a Monitor
// is attached (WithMonitor), the board registers itself with it, mirroring
// config.DeviceBuilder.createTiles registering each tile's Core.
func (c *Circuit) NewBoard() *fsim.Board {
	board := fsim.NewBoard(c.Cfg, c.HostSteps, c.Streams, c.Signals, c.RegInit, c.newSRAMs())
	if c.Monitor != nil {
		c.Monitor.RegisterEngine(board.Engine())
		c.Monitor.RegisterComponent(board)
	}
	return board
}

// NewReference stands up a fresh refsim.Simulator over the same compiled
// graph, with its own independent SRAM state so it never observes fsim's
// writes or vice versa.
func (c *Circuit) NewReference() *refsim.Simulator {
	return refsim.NewSimulator(c.Graph, c.Cfg, c.newSRAMs())
}
