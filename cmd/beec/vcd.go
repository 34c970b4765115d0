package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/bee-compiler/primitive"
	"github.com/sarchlab/bee-compiler/refsim"
)

// vcdFile is the on-disk shape loadVCD reads: the external VCD parser is
// out of scope (spec.md §1), so --vcd takes its already-parsed output,
// serialized as JSON, the same convention netlist.LoadFile and
// loadStimuli use for their own out-of-scope external inputs.
type vcdFile struct {
	TimestepsPerCycle uint64                 `json:"timesteps_per_cycle"`
	ClockStartLow     bool                   `json:"clock_start_low"`
	Changes           map[string][]vcdChange `json:"changes"`
}

type vcdChange struct {
	Timestep uint64 `json:"timestep"`
	Value    int    `json:"value"`
}

func loadVCD(path string) (refsim.VCDReference, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return refsim.VCDReference{}, fmt.Errorf("beec: read vcd %s: %w", path, err)
	}

	var f vcdFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return refsim.VCDReference{}, fmt.Errorf("beec: parse vcd %s: %w", path, err)
	}

	changes := make(map[string][]refsim.ValueChange, len(f.Changes))
	for path, cs := range f.Changes {
		vs := make([]refsim.ValueChange, len(cs))
		for i, c := range cs {
			vs[i] = refsim.ValueChange{Timestep: c.Timestep, Value: primitive.Bit(c.Value)}
		}
		changes[path] = vs
	}

	return refsim.VCDReference{
		TimestepsPerCycle: f.TimestepsPerCycle,
		ClockStartLow:     f.ClockStartLow,
		Changes:           changes,
	}, nil
}
