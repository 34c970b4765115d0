package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/instr"
)

// signalMapEntry is one signal_map{} value, per spec.md §6's mapping file
// field names.
type signalMapEntry struct {
	Module    uint32 `json:"module"`
	Proc      uint32 `json:"proc"`
	RankASAP  uint32 `json:"rank.asap"`
	RankALAP  uint32 `json:"rank.alap"`
	Scheduled bool   `json:"scheduled"`
	PC        uint32 `json:"pc"`
}

// moduleMapping is one module's JSON dump: its per-processor instructions
// (as the decoded struct, not the packed wire bits — the packed stream is
// saved separately as the binary artifact) and its signal_map.
type moduleMapping struct {
	Instructions [][]instr.Instruction     `json:"instructions"`
	SignalMap    map[string]signalMapEntry `json:"signal_map"`
}

// SaveArtifacts writes the compiled circuit's external-interface artifacts
// (spec.md §6) under dir: one little-endian-packed binary instruction
// stream per (module, processor) concatenated in coordinate order
// (circuit.insts), and one JSON ModuleMapping file per module
// (module_<m>.mapping.json).
func (c *Circuit) SaveArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("compiler: create artifact dir %s: %w", dir, err)
	}

	if err := c.saveInstructionStream(filepath.Join(dir, "circuit.insts")); err != nil {
		return err
	}

	signalsByModule := make([]map[string]signalMapEntry, c.Cfg.NumMods)
	for m := range signalsByModule {
		signalsByModule[m] = map[string]signalMapEntry{}
	}
	c.Graph.NodeIndices(func(n hwgraph.NodeIndex) {
		node := c.Graph.Node(n)
		name := node.Name()
		if name == "" {
			return
		}
		mod := node.Info.Coord.Module
		signalsByModule[mod][name] = signalMapEntry{
			Module:    mod,
			Proc:      node.Info.Coord.Proc,
			RankASAP:  node.Info.Rank.ASAP,
			RankALAP:  node.Info.Rank.ALAP,
			Scheduled: node.Info.Scheduled,
			PC:        node.Info.PC,
		}
	})

	for m := uint32(0); m < c.Cfg.NumMods; m++ {
		instructions := make([][]instr.Instruction, c.Cfg.NumProcs)
		for p := uint32(0); p < c.Cfg.NumProcs; p++ {
			instructions[p] = c.Streams[m*c.Cfg.NumProcs+p]
		}
		mm := moduleMapping{Instructions: instructions, SignalMap: signalsByModule[m]}

		raw, err := json.MarshalIndent(mm, "", "  ")
		if err != nil {
			return fmt.Errorf("compiler: marshal module %d mapping: %w", m, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("module_%d.mapping.json", m))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("compiler: write %s: %w", path, err)
		}
	}

	return nil
}

// saveInstructionStream packs every processor's stream via instr.Encode, in
// (module, processor) order, little-endian into whole bytes, padding the
// tail of the last byte with zero bits, per spec.md §6.
func (c *Circuit) saveInstructionStream(path string) error {
	var bitBuf []instr.Bit
	for _, stream := range c.Streams {
		for _, inst := range stream {
			bitBuf = append(bitBuf, instr.Encode(inst, c.Cfg)...)
		}
	}

	nbytes := (len(bitBuf) + 7) / 8
	out := make([]byte, nbytes)
	for i, bit := range bitBuf {
		if !bit {
			continue
		}
		out[i/8] |= 1 << uint(i%8)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("compiler: write %s: %w", path, err)
	}
	return nil
}
