package refsim

import (
	"sort"

	"github.com/sarchlab/bee-compiler/fsim"
	"github.com/sarchlab/bee-compiler/primitive"
)

// ValueChange is one recorded transition in a parsed value-change-dump: the
// dumped signal holds this value from Timestep onward until its next
// recorded change.
type ValueChange struct {
	Timestep uint64
	Value    primitive.Bit
}

// VCDReference wraps a pre-parsed value-change-dump, keyed by its signal
// hierarchy path — the external VCD parser is out of scope (spec.md §1's
// "reference RTL simulation via an external Verilog simulator (we consume
// its waveform output)"), so this only ever sees already-parsed changes.
// TimestepsPerCycle and ClockStartLow are the cycle-to-timestep mapping
// constants spec.md §6 specifies.
type VCDReference struct {
	Changes           map[string][]ValueChange
	TimestepsPerCycle uint64
	ClockStartLow     bool
}

// Timestep maps a target cycle to its VCD timestep, per spec.md §6:
// cycle·timesteps_per_cycle + (clock_start_low ? 1 : 0).
func (v VCDReference) Timestep(cycle int) uint64 {
	ts := uint64(cycle) * v.TimestepsPerCycle
	if v.ClockStartLow {
		ts++
	}
	return ts
}

// ValueAt returns the value path held at the given timestep: the last
// recorded change at or before timestep, per VCD's hold-until-next-change
// semantics. Changes for a path need not be pre-sorted.
func (v VCDReference) ValueAt(path string, timestep uint64) (primitive.Bit, bool) {
	changes := v.Changes[path]
	if len(changes) == 0 {
		return 0, false
	}
	changes = append([]ValueChange(nil), changes...)
	sort.Slice(changes, func(i, j int) bool { return changes[i].Timestep < changes[j].Timestep })

	idx := sort.Search(len(changes), func(i int) bool {
		return changes[i].Timestep > timestep
	})
	if idx == 0 {
		return 0, false
	}
	return changes[idx-1].Value, true
}

// VCDMismatch reports a target cycle and signal where the functional
// simulator and the VCD reference waveform disagreed.
type VCDMismatch struct {
	Cycle    int
	Signal   string
	Got      primitive.Bit // fsim's value
	Expected primitive.Bit // the VCD reference's value
}

// CompareCycle checks board against vcd for one target cycle, mirroring
// Circuit.Verify's fsim-vs-refsim check but against an external waveform
// instead of this package's own Simulator (spec.md §6's reference-waveform
// self-check, supplemented per SPEC_FULL.md §4.3). A dumped path with no
// recorded value yet, or with no Board-addressable signal of the same
// name, is skipped rather than reported, since not every dumped hierarchy
// path necessarily corresponds to a signal this compiler tracked.
func CompareCycle(cycle int, board *fsim.Board, vcd VCDReference) []VCDMismatch {
	ts := vcd.Timestep(cycle)

	var mismatches []VCDMismatch
	for path := range vcd.Changes {
		want, ok := vcd.ValueAt(path, ts)
		if !ok {
			continue
		}
		got, err := board.Peek(path)
		if err != nil {
			continue
		}
		if got != want {
			mismatches = append(mismatches, VCDMismatch{
				Cycle: cycle, Signal: path, Got: got, Expected: want,
			})
		}
	}
	return mismatches
}
