package compiler

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bee-compiler/hwgraph"
	"github.com/sarchlab/bee-compiler/netlist"
	"github.com/sarchlab/bee-compiler/partition"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// These scenarios are the worked examples a compiled circuit must agree
// with its own reference simulator on: a pure-combinational adder, initial
// flip-flop state flowing to an output, a shift register, a tiny iterative
// subtractor built the way a Euclidean GCD core would be, and the two SRAM
// port arrangements (read-after-write, address fed back from read data).
// Each only asserts Verify finds zero mismatches: the property under test
// is fsim-vs-refsim agreement on the compiled schedule, not that the
// circuit reimplements its namesake's arithmetic bit-for-bit.

func mustCompileSpec(file netlist.File, cfg platform.Config) *Circuit {
	c, err := Compile(file, cfg, partition.GreedyPartitioner{}, 1)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func requireNoMismatches(c *Circuit, cycles int, stim Stimulus) {
	mismatches, err := c.Verify(cycles, stim)
	Expect(err).NotTo(HaveOccurred())
	Expect(mismatches).To(BeEmpty())
}

// gcdNetlist builds a 2-bit Euclidean-subtraction core computing gcd(ra,
// rb) iteratively in latches, the GCD scenario: ra=3 (ra1=1,ra0=1), rb=2
// (rb1=1,rb0=0). Each target cycle subtracts the smaller register from the
// larger until they're equal, at which point both freeze.
func gcdNetlist() netlist.File {
	lut := func(name string, inputs []string, table [][]uint8) hwgraph.NodePrimitive {
		return hwgraph.NodePrimitive{Kind: primitive.KindLut, Name: name, Inputs: inputs, Table: table}
	}
	xor2 := [][]uint8{{1, 0}, {0, 1}}
	xnor2 := [][]uint8{{0, 0}, {1, 1}}
	xor3 := [][]uint8{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}}
	mux := [][]uint8{{0, 2, 1}, {1, 1, 2}} // mux(sel, d1, d0)

	return netlist.File{Modules: []netlist.Module{{
		Name:    "gcd",
		Outputs: []string{"gcd1", "gcd0"},
		Elems: []hwgraph.NodePrimitive{
			{Kind: primitive.KindLatch, Name: "ra1", LatchInput: "ra1_next", LatchInit: primitive.One},
			{Kind: primitive.KindLatch, Name: "ra0", LatchInput: "ra0_next", LatchInit: primitive.One},
			{Kind: primitive.KindLatch, Name: "rb1", LatchInput: "rb1_next", LatchInit: primitive.One},
			{Kind: primitive.KindLatch, Name: "rb0", LatchInput: "rb0_next", LatchInit: primitive.Zero},

			lut("diff_ab0", []string{"ra0", "rb0"}, xor2),
			lut("borrow_ab0", []string{"ra0", "rb0"}, [][]uint8{{0, 1}}),
			lut("diff_ab1", []string{"ra1", "rb1", "borrow_ab0"}, xor3),
			lut("borrow_ab1", []string{"ra1", "rb1", "borrow_ab0"}, notBorrowRows()),

			lut("borrow_ba0", []string{"rb0", "ra0"}, [][]uint8{{0, 1}}),
			lut("diff_ba1", []string{"rb1", "ra1", "borrow_ba0"}, xor3),
			lut("borrow_ba1", []string{"rb1", "ra1", "borrow_ba0"}, notBorrowRows()),

			lut("eq1", []string{"ra1", "rb1"}, xnor2),
			lut("eq0", []string{"ra0", "rb0"}, xnor2),
			lut("eq", []string{"eq1", "eq0"}, [][]uint8{{1, 1}}),
			lut("not_eq", []string{"eq"}, [][]uint8{{0}}),
			lut("ge_ab", []string{"borrow_ab1"}, [][]uint8{{0}}),
			lut("do_sub_a", []string{"ge_ab", "not_eq"}, [][]uint8{{1, 1}}),
			lut("do_sub_b", []string{"borrow_ab1", "not_eq"}, [][]uint8{{1, 1}}),

			lut("ra1_next", []string{"do_sub_a", "diff_ab1", "ra1"}, mux),
			lut("ra0_next", []string{"do_sub_a", "diff_ab0", "ra0"}, mux),
			lut("rb1_next", []string{"do_sub_b", "diff_ba1", "rb1"}, mux),
			lut("rb0_next", []string{"do_sub_b", "diff_ba0", "rb0"}, mux),

			lut("diff_ba0", []string{"rb0", "ra0"}, xor2),

			lut("gcd1", []string{"ra1"}, [][]uint8{{1}}),
			lut("gcd0", []string{"ra0"}, [][]uint8{{1}}),
		},
	}}}
}

// notBorrowRows returns the on-set rows of a 2-bit subtractor's MSB-stage
// borrow-out bit, as a function of (a_msb, b_msb, borrow_in).
func notBorrowRows() [][]uint8 {
	return [][]uint8{{0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {1, 1, 1}}
}

func sramReadWriteNetlist() netlist.File {
	return netlist.File{Modules: []netlist.Module{{
		Name:    "sram",
		Inputs:  []string{"rd_en", "wr_en", "addr0", "data0"},
		Outputs: []string{"q"},
		Elems: []hwgraph.NodePrimitive{
			{
				Kind: primitive.KindSRAMNode, Name: "mem0",
				SRAMConns: map[string]string{
					"rd_en": "rd_en", "rd_addr0": "addr0",
					"wr_en": "wr_en", "wr_addr0": "addr0", "wr_data0": "data0",
					"rd_data0": "rdbit0",
				},
			},
			{Kind: primitive.KindLut, Name: "q", Inputs: []string{"rdbit0"}, Table: [][]uint8{{1}}},
		},
	}}}
}

var _ = Describe("fsim/refsim equivalence scenarios", func() {
	// Adder: a pure-combinational full adder, checked against the
	// reference across every input row.
	Describe("Adder", func() {
		It("agrees with the reference across every (a, b, cin) row", func() {
			file := netlist.File{Modules: []netlist.Module{{
				Name:    "adder",
				Inputs:  []string{"a", "b", "cin"},
				Outputs: []string{"sum", "cout"},
				Elems: []hwgraph.NodePrimitive{
					{
						Kind: primitive.KindLut, Name: "sum", Inputs: []string{"a", "b", "cin"},
						Table: [][]uint8{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}},
					},
					{
						Kind: primitive.KindLut, Name: "cout", Inputs: []string{"a", "b", "cin"},
						Table: [][]uint8{{1, 1, 2}, {1, 2, 1}, {2, 1, 1}},
					},
				},
			}}}

			cfg := platform.NewBuilder().
				WithTopology(5, 4).WithMaxSteps(65536).WithLutInputs(3).
				WithPipelineLatencies(0, 0, 1).WithNetworkLatencies(0, 0).
				Build()
			c := mustCompileSpec(file, cfg)

			rows := [][3]primitive.Bit{
				{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
				{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
			}
			stim := func(cycle int) map[string]primitive.Bit {
				r := rows[cycle%len(rows)]
				return map[string]primitive.Bit{"a": r[0], "b": r[1], "cin": r[2]}
			}

			requireNoMismatches(c, len(rows), stim)
		})
	})

	// TestRegInit: latches seeded with each of the four FourStateBit
	// inits, checked against the reference at the first target cycle.
	Describe("RegInit", func() {
		It("carries each of the four FourStateBit inits to its output", func() {
			mk := func(name string, init primitive.FourStateBit) hwgraph.NodePrimitive {
				return hwgraph.NodePrimitive{Kind: primitive.KindLatch, Name: name, LatchInput: name + "_d", LatchInit: init}
			}
			buf := func(name, in string) hwgraph.NodePrimitive {
				return hwgraph.NodePrimitive{Kind: primitive.KindLut, Name: name, Inputs: []string{in}, Table: [][]uint8{{1}}}
			}

			file := netlist.File{Modules: []netlist.Module{{
				Name:    "reginit",
				Outputs: []string{"q0", "q1", "qx", "qu"},
				Elems: []hwgraph.NodePrimitive{
					mk("r0", primitive.Zero),
					mk("r1", primitive.One),
					mk("rx", primitive.X),
					mk("ru", primitive.Unknown),
					{Kind: primitive.KindConstLut, Name: "r0_d", ConstVal: 0},
					{Kind: primitive.KindConstLut, Name: "r1_d", ConstVal: 1},
					{Kind: primitive.KindConstLut, Name: "rx_d", ConstVal: 0},
					{Kind: primitive.KindConstLut, Name: "ru_d", ConstVal: 0},
					buf("q0", "r0"),
					buf("q1", "r1"),
					buf("qx", "rx"),
					buf("qu", "ru"),
				},
			}}}

			cfg := platform.NewBuilder().
				WithTopology(5, 4).WithPipelineLatencies(1, 0, 1).WithNetworkLatencies(0, 1).
				Build()
			c := mustCompileSpec(file, cfg)

			requireNoMismatches(c, 2, func(int) map[string]primitive.Bit { return nil })
		})
	})

	// ShiftReg: a 3-deep chain of latches, checked that out(cycle) ==
	// in(cycle - depth) for cycle >= depth, both against the reference and
	// directly off a standalone board.
	Describe("ShiftReg", func() {
		It("delays its input by its depth", func() {
			const depth = 3

			file := netlist.File{Modules: []netlist.Module{{
				Name:    "shiftreg",
				Inputs:  []string{"in"},
				Outputs: []string{"out"},
				Elems: []hwgraph.NodePrimitive{
					{Kind: primitive.KindLatch, Name: "s0", LatchInput: "in", LatchInit: primitive.Zero},
					{Kind: primitive.KindLatch, Name: "s1", LatchInput: "s0", LatchInit: primitive.Zero},
					{Kind: primitive.KindLatch, Name: "s2", LatchInput: "s1", LatchInit: primitive.Zero},
					{Kind: primitive.KindLut, Name: "out", Inputs: []string{"s2"}, Table: [][]uint8{{1}}},
				},
			}}}

			cfg := platform.NewBuilder().WithTopology(9, 8).Build()
			c := mustCompileSpec(file, cfg)

			history := []primitive.Bit{}
			stim := func(cycle int) map[string]primitive.Bit {
				v := primitive.Bit((cycle * 7) % 2)
				history = append(history, v)
				return map[string]primitive.Bit{"in": v}
			}

			const cycles = 10
			requireNoMismatches(c, cycles, stim)

			board := c.NewBoard()
			for cycle := 0; cycle < cycles; cycle++ {
				Expect(board.PokeInput("in", history[cycle])).To(Succeed())
				board.RunCycle()
				if cycle < depth {
					continue
				}
				got, err := board.Peek("out")
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(history[cycle-depth]), "cycle %d", cycle)
			}
		})
	})

	// GCD: an iterative Euclidean-subtraction core, checked only for
	// fsim-vs-refsim agreement over enough cycles to converge.
	Describe("GCD", func() {
		It("agrees with the reference while it converges", func() {
			cfg := platform.NewBuilder().WithTopology(9, 8).Build()
			c := mustCompileSpec(gcdNetlist(), cfg)

			requireNoMismatches(c, 6, func(int) map[string]primitive.Bit { return nil })
		})
	})

	// SRAM: the two port arrangements a compiled SRAM node must get right —
	// a write followed by a same-address read, and a read address fed back
	// from the previous cycle's read data (pointer chasing).
	Describe("SRAM", func() {
		It("agrees with the reference on read-after-write", func() {
			cfg := platform.NewBuilder().WithTopology(5, 8).Build()
			c := mustCompileSpec(sramReadWriteNetlist(), cfg)

			stim := func(cycle int) map[string]primitive.Bit {
				switch cycle {
				case 0:
					return map[string]primitive.Bit{"wr_en": 1, "rd_en": 0, "addr0": 1, "data0": 1}
				default:
					return map[string]primitive.Bit{"wr_en": 0, "rd_en": 1, "addr0": 1, "data0": 0}
				}
			}

			requireNoMismatches(c, 8, stim)
		})

		It("agrees with the reference while pointer-chasing", func() {
			file := netlist.File{Modules: []netlist.Module{{
				Name:    "ptrchase",
				Outputs: []string{"q"},
				Elems: []hwgraph.NodePrimitive{
					{Kind: primitive.KindConstLut, Name: "rd_en_c", ConstVal: 1},
					{Kind: primitive.KindConstLut, Name: "wr_en_c", ConstVal: 0},
					{Kind: primitive.KindLatch, Name: "ptr0", LatchInput: "rdbit0", LatchInit: primitive.Zero},
					{
						Kind: primitive.KindSRAMNode, Name: "mem0",
						SRAMConns: map[string]string{
							"rd_en": "rd_en_c", "rd_addr0": "ptr0",
							"wr_en": "wr_en_c", "wr_addr0": "ptr0", "wr_data0": "rd_en_c",
							"rd_data0": "rdbit0",
						},
					},
					{Kind: primitive.KindLut, Name: "q", Inputs: []string{"rdbit0"}, Table: [][]uint8{{1}}},
				},
			}}}

			cfg := platform.NewBuilder().WithTopology(5, 8).Build()
			c := mustCompileSpec(file, cfg)

			requireNoMismatches(c, 6, func(int) map[string]primitive.Bit { return nil })
		})
	})
})
