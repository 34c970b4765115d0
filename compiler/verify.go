package compiler

import (
	"github.com/sarchlab/bee-compiler/fsim"
	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
	"github.com/sarchlab/bee-compiler/refsim"
)

// SimulationMismatch is spec.md §7's SimulationMismatch(cycle, signal, got,
// expected) error kind: fsim and refsim disagreed on a named signal's value
// after some target cycle. Fatal to the self-check (§7's "bubble up, emit a
// dot/pdf of the failing fan-in cone, abort with nonzero exit" policy);
// Verify collects every mismatch rather than stopping at the first so a
// single run's Report can show the full picture.
type SimulationMismatch struct {
	Cycle    int
	Signal   string
	Node     hwgraph.NodeIndex
	Got      primitive.Bit // fsim's value
	Expected primitive.Bit // refsim's value
}

// Stimulus drives both simulators identically for one target cycle: the
// returned map's keys must name Input signals known to Circuit.Signals.
type Stimulus func(cycle int) map[string]primitive.Bit

// Verify runs board and ref side by side for cycles target cycles, applying
// stim before each one, and compares every named signal after each cycle,
// mirroring spec.md §8 property 7. It also stamps every checked node's
// hwgraph.DebugInfo (Check/Val) on c.Graph so a later DebugGraph call can
// render the failing fan-in cone without re-running anything.
func (c *Circuit) Verify(cycles int, stim Stimulus) ([]SimulationMismatch, error) {
	board := c.NewBoard()
	ref := c.NewReference()
	return c.verifyAgainst(board, ref, cycles, stim)
}

func (c *Circuit) verifyAgainst(board *fsim.Board, ref *refsim.Simulator, cycles int, stim Stimulus) ([]SimulationMismatch, error) {
	var mismatches []SimulationMismatch

	for cycle := 0; cycle < cycles; cycle++ {
		for name, val := range stim(cycle) {
			if err := board.PokeInput(name, val); err != nil {
				return mismatches, err
			}
			if err := ref.PokeInput(name, val); err != nil {
				return mismatches, err
			}
		}

		board.RunCycle()
		ref.RunCycle()

		for name, n := range c.byName {
			got, err := board.Peek(name)
			if err != nil {
				continue // not every named node is a Board-addressable signal (e.g. SRAM bits)
			}
			want, err := ref.Peek(name)
			if err != nil {
				continue
			}

			info := &c.Graph.Node(n).Info.Debug
			info.Val = got
			if got == want {
				info.Check = hwgraph.CheckMatch
				continue
			}
			info.Check = hwgraph.CheckMismatch
			mismatches = append(mismatches, SimulationMismatch{
				Cycle: cycle, Signal: name, Node: n, Got: got, Expected: want,
			})
		}
	}

	return mismatches, nil
}
