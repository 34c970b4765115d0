package netlist

import (
	"testing"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/primitive"
)

func TestBuildModuleWiresLutChain(t *testing.T) {
	mod := Module{
		Name:    "top",
		Inputs:  []string{"a", "b"},
		Outputs: []string{"y"},
		Elems: []hwgraph.NodePrimitive{
			{Kind: primitive.KindLut, Name: "y", Inputs: []string{"a", "b"}, Table: [][]uint8{{1, 1, 1}}},
		},
	}

	g, err := BuildModule(mod)
	if err != nil {
		t.Fatalf("BuildModule() error = %v", err)
	}

	if g.NodeCount() != 4 {
		t.Fatalf("NodeCount() = %d, want 4 (a, b, lut-y, output-y)", g.NodeCount())
	}
}

func TestBuildFileRejectsMultipleModules(t *testing.T) {
	_, err := Build(File{Modules: []Module{{}, {}}})
	if err == nil {
		t.Fatal("expected MultipleModules error")
	}
	if _, ok := err.(*MultipleModules); !ok {
		t.Fatalf("error type = %T, want *MultipleModules", err)
	}
}

func TestBuildModuleUndrivenNet(t *testing.T) {
	mod := Module{
		Name:    "top",
		Inputs:  []string{"a"},
		Outputs: []string{"y"},
		Elems: []hwgraph.NodePrimitive{
			{Kind: primitive.KindLut, Name: "y", Inputs: []string{"missing"}, Table: [][]uint8{{1}}},
		},
	}
	if _, err := BuildModule(mod); err == nil {
		t.Fatal("expected an error for an undriven net")
	}
}

// TestBuildModuleWiresSRAMNode exercises an SRAM macro with one read port
// and one write port: rd_en/rd_addr0/wr_en/wr_addr0/wr_data0 drive the
// SRAMNode, and rd_data0 drives a consumer LUT, mirroring the port-key
// convention parseSRAMPort establishes.
func TestBuildModuleWiresSRAMNode(t *testing.T) {
	mod := Module{
		Name:    "top",
		Inputs:  []string{"rd_en", "wr_en", "addr0", "data0"},
		Outputs: []string{"q"},
		Elems: []hwgraph.NodePrimitive{
			{
				Kind: primitive.KindSRAMNode,
				Name: "mem0",
				SRAMConns: map[string]string{
					"rd_en":    "rd_en",
					"rd_addr0": "addr0",
					"wr_en":    "wr_en",
					"wr_addr0": "addr0",
					"wr_data0": "data0",
					"rd_data0": "rdbit0",
				},
			},
			{Kind: primitive.KindLut, Name: "q", Inputs: []string{"rdbit0"}, Table: [][]uint8{{1}}},
		},
	}

	g, err := BuildModule(mod)
	if err != nil {
		t.Fatalf("BuildModule() error = %v", err)
	}

	var sramIdx hwgraph.NodeIndex
	var lutIdx hwgraph.NodeIndex
	g.NodeIndices(func(n hwgraph.NodeIndex) {
		switch g.Node(n).Is() {
		case primitive.KindSRAMNode:
			sramIdx = n
		case primitive.KindLut:
			lutIdx = n
		}
	})

	in := g.InEdges(sramIdx)
	if len(in) != 5 {
		t.Fatalf("len(InEdges(sram)) = %d, want 5 (rd_en, rd_addr0, wr_en, wr_addr0, wr_data0)", len(in))
	}
	kinds := map[primitive.SignalKind]bool{}
	for _, e := range in {
		kinds[g.Edge(e).Signal.Kind] = true
	}
	for _, want := range []primitive.SignalKind{
		primitive.SignalSRAMRdEn, primitive.SignalSRAMRdAddr,
		primitive.SignalSRAMWrEn, primitive.SignalSRAMWrAddr, primitive.SignalSRAMWrData,
	} {
		if !kinds[want] {
			t.Errorf("InEdges(sram) missing a %v-tagged edge", want)
		}
	}

	out := g.OutEdges(sramIdx)
	if len(out) != 1 {
		t.Fatalf("len(OutEdges(sram)) = %d, want 1 (rd_data0 -> q's lut)", len(out))
	}
	if g.Edge(out[0]).Signal.Kind != primitive.SignalSRAMRdData {
		t.Errorf("OutEdges(sram)[0].Signal.Kind = %v, want SignalSRAMRdData", g.Edge(out[0]).Signal.Kind)
	}
	_, dst := g.EdgeEnds(out[0])
	if dst != lutIdx {
		t.Error("expected the SRAM's rd_data0 out-edge to land on the consuming lut node")
	}
}
