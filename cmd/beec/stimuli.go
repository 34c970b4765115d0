package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/bee-compiler/primitive"
)

// loadStimuli reads a stimulus file: a JSON array where each element is one
// target cycle's {signal: 0|1} pokes, per spec.md §6's stimuli file input.
// Cycles past the end of the file poke nothing new: every input holds its
// last poked value (useful for letting a circuit settle after its last
// driven input changes).
func loadStimuli(path string) ([]map[string]primitive.Bit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("beec: read stimuli %s: %w", path, err)
	}

	var cycles []map[string]int
	if err := json.Unmarshal(raw, &cycles); err != nil {
		return nil, fmt.Errorf("beec: parse stimuli %s: %w", path, err)
	}

	out := make([]map[string]primitive.Bit, len(cycles))
	for i, cycle := range cycles {
		out[i] = make(map[string]primitive.Bit, len(cycle))
		for name, v := range cycle {
			out[i][name] = primitive.Bit(v)
		}
	}
	return out, nil
}

// stimulusFrom turns a loaded cycle list into a compiler.Stimulus, holding
// the input steady at its last poked value once the file runs out.
func stimulusFrom(cycles []map[string]primitive.Bit) func(cycle int) map[string]primitive.Bit {
	held := map[string]primitive.Bit{}
	return func(cycle int) map[string]primitive.Bit {
		if cycle < len(cycles) {
			for name, v := range cycles[cycle] {
				held[name] = v
			}
		}
		out := make(map[string]primitive.Bit, len(held))
		for name, v := range held {
			out[name] = v
		}
		return out
	}
}
