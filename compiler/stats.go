package compiler

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

// StatsTable renders a go-pretty summary of the compiled circuit: per-
// module node counts and NOP/utilization, mirroring core/util.go's
// PrintState table style and the original's histo::Histogram dumps
// (passes/partition.rs, passes/dce.rs) rendered here as a table instead of
// a text histogram.
func (c *Circuit) StatsTable() string {
	perModule := make([]int, c.Cfg.NumMods)
	c.Graph.NodeIndices(func(n hwgraph.NodeIndex) {
		perModule[c.Graph.Node(n).Info.Coord.Module]++
	})

	t := table.NewWriter()
	t.SetTitle("Compiled circuit summary")
	t.AppendHeader(table.Row{"Module", "Live Nodes", "Total Slots", "Used Slots", "NOP Slots", "Utilization %"})

	for m := uint32(0); m < c.Cfg.NumMods; m++ {
		total, used := 0, 0
		for p := uint32(0); p < c.Cfg.NumProcs; p++ {
			stream := c.Streams[(m*c.Cfg.NumProcs)+p]
			total += len(stream)
			for _, inst := range stream {
				if inst.Opcode != primitive.OpNOP || inst.Valid {
					used++
				}
			}
		}
		util := 0.0
		if total > 0 {
			util = 100 * float64(used) / float64(total)
		}
		t.AppendRow(table.Row{m, perModule[m], total, used, total - used, util})
	}

	return t.Render()
}
