package netlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

// Build ingests a parsed netlist file into a single HWGraph, mirroring
// blif_to_circuit/module_to_circuit (original
// passes/blif_to_circuit.rs). It requires exactly one flattened module.
func Build(file File) (*hwgraph.Graph, error) {
	if len(file.Modules) != 1 {
		return nil, &MultipleModules{Count: len(file.Modules)}
	}
	return BuildModule(file.Modules[0])
}

// BuildModule ingests a single module into a fresh HWGraph.
func BuildModule(mod Module) (*hwgraph.Graph, error) {
	g := hwgraph.NewGraph()

	netToNode := map[string]hwgraph.NodeIndex{}
	outToNode := map[string]hwgraph.NodeIndex{}

	for _, name := range mod.Inputs {
		idx := g.AddNode(hwgraph.NewHWNode(hwgraph.NodePrimitive{
			Kind: primitive.KindInput,
			Name: name,
		}))
		netToNode[name] = idx
	}

	for _, name := range mod.Outputs {
		idx := g.AddNode(hwgraph.NewHWNode(hwgraph.NodePrimitive{
			Kind: primitive.KindOutput,
			Name: name,
		}))
		outToNode[name] = idx
	}

	for _, e := range mod.Elems {
		idx := g.AddNode(hwgraph.NewHWNode(e))
		switch e.Kind {
		case primitive.KindLut, primitive.KindConstLut:
			netToNode[e.Name] = idx
		case primitive.KindGate:
			netToNode[e.Name] = idx
		case primitive.KindLatch:
			netToNode[e.Name] = idx
		case primitive.KindSRAMNode:
			netToNode[e.Name] = idx
		default:
			return nil, fmt.Errorf("netlist: unrecognized body primitive %s", e.Kind)
		}
	}

	// sramOutNet records, for every net an SRAMNode drives (its read-data
	// bus), which scalar bit of that node produces it — so a later
	// wireTagged call for a consumer of that net can tag the edge with
	// the same SignalSRAMRdData/Idx that passes.SplitSRAMNodes expects on
	// the node's out-edges, rather than a generic SignalWire.
	type sramOut struct {
		node hwgraph.NodeIndex
		sig  primitive.Signal
	}
	sramOutNet := map[string]sramOut{}
	for _, e := range mod.Elems {
		if e.Kind != primitive.KindSRAMNode {
			continue
		}
		dst := netToNode[e.Name]
		for port, net := range e.SRAMConns {
			kind, idx, isOutput, ok := parseSRAMPort(port)
			if ok && isOutput {
				sramOutNet[net] = sramOut{node: dst, sig: primitive.Signal{Kind: kind, Name: net, Idx: idx}}
			}
		}
	}

	wireTagged := func(from string, to hwgraph.NodeIndex, sig primitive.Signal) error {
		if out, ok := sramOutNet[from]; ok {
			g.AddEdge(out.node, to, hwgraph.NewHWEdge(out.sig))
			return nil
		}
		srcIdx, ok := netToNode[from]
		if !ok {
			return fmt.Errorf("netlist: undriven net %q", from)
		}
		g.AddEdge(srcIdx, to, hwgraph.NewHWEdge(sig))
		return nil
	}

	wire := func(from string, to hwgraph.NodeIndex) error {
		return wireTagged(from, to, primitive.Signal{Kind: primitive.SignalWire, Name: from})
	}

	for _, e := range mod.Elems {
		dst := netToNode[e.Name]
		switch e.Kind {
		case primitive.KindLut, primitive.KindConstLut:
			for _, in := range e.Inputs {
				if err := wire(in, dst); err != nil {
					return nil, err
				}
			}
		case primitive.KindGate:
			if err := wire(e.GateD, dst); err != nil {
				return nil, err
			}
			if e.GateE != nil {
				if err := wire(*e.GateE, dst); err != nil {
					return nil, err
				}
			}
		case primitive.KindLatch:
			if err := wire(e.LatchInput, dst); err != nil {
				return nil, err
			}
		case primitive.KindSRAMNode:
			for port, net := range e.SRAMConns {
				kind, idx, isOutput, ok := parseSRAMPort(port)
				if !ok || isOutput {
					continue // output ports are wired from the consumer's side, above
				}
				if err := wireTagged(net, dst, primitive.Signal{Kind: kind, Name: net, Idx: idx}); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, name := range mod.Outputs {
		dst := outToNode[name]
		if err := wire(name, dst); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// parseSRAMPort maps a NodePrimitive.SRAMConns key to the SignalKind and bit
// index passes.SplitSRAMNodes expects on the unsplit SRAMNode's edges, and
// whether the port is driven BY the SRAM (its read-data bus) rather than
// driving it. Multi-bit ports are named by index, e.g. "rd_addr3" is bit 3
// of the read address bus; the single-bit control ports (en/mode) take no
// index. This key scheme isn't specified by anything upstream of this
// package (the external parser's SRAMConns shape never survives in
// original_source/) — it's this ingester's own convention, matched by
// whatever stage flattens a SystemVerilog SRAM instance into
// NodePrimitive.SRAMConns.
func parseSRAMPort(port string) (kind primitive.SignalKind, idx uint32, isOutput, ok bool) {
	switch port {
	case "rd_en":
		return primitive.SignalSRAMRdEn, 0, false, true
	case "wr_en":
		return primitive.SignalSRAMWrEn, 0, false, true
	case "rdwr_en":
		return primitive.SignalSRAMRdWrEn, 0, false, true
	case "rdwr_mode":
		return primitive.SignalSRAMRdWrMode, 0, false, true
	}

	indexed := []struct {
		prefix   string
		kind     primitive.SignalKind
		isOutput bool
	}{
		{"rd_addr", primitive.SignalSRAMRdAddr, false},
		{"rd_data", primitive.SignalSRAMRdData, true},
		{"wr_addr", primitive.SignalSRAMWrAddr, false},
		{"wr_mask", primitive.SignalSRAMWrMask, false},
		{"wr_data", primitive.SignalSRAMWrData, false},
		{"rdwr_addr", primitive.SignalSRAMRdWrAddr, false},
	}
	for _, c := range indexed {
		if !strings.HasPrefix(port, c.prefix) {
			continue
		}
		n, err := strconv.Atoi(port[len(c.prefix):])
		if err != nil || n < 0 {
			continue
		}
		return c.kind, uint32(n), c.isOutput, true
	}

	return 0, 0, false, false
}
