package fsim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bee-compiler/instr"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// singleProcStream builds a one-processor, one-module board's instruction
// stream directly (bypassing the compiler passes) so fsim's execution
// semantics can be tested in isolation.
func singleProcStream(cfg platform.Config, insts ...instr.Instruction) [][]instr.Instruction {
	stream := make([]instr.Instruction, cfg.MaxSteps)
	for i := range stream {
		stream[i] = instr.New(cfg.LutInputs)
	}
	for i, inst := range insts {
		stream[i] = inst
	}
	return [][]instr.Instruction{stream}
}

var _ = Describe("Board", func() {
	Describe("a combinational AND gate", func() {
		It("computes AND across every input row", func() {
			cfg := platform.NewBuilder().WithTopology(1, 1).WithLutInputs(2).WithMaxSteps(8).Build()

			// pc0: Input a. pc1: Input b. pc2: Lut(a,b) = AND. pc3: Output(lut).
			and := instr.New(cfg.LutInputs)
			and.Valid = true
			and.Opcode = primitive.OpLut
			and.Lut = primitive.PackTruthTable([][]uint8{{1, 1}})
			and.Operand = []instr.Operand{{Rs: 0, Local: true}, {Rs: 1, Local: true}}

			out := instr.New(cfg.LutInputs)
			out.Valid = true
			out.Opcode = primitive.OpOutput
			out.Operand = []instr.Operand{{Rs: 2, Local: true}}

			in0 := instr.New(cfg.LutInputs)
			in0.Valid = true
			in0.Opcode = primitive.OpInput
			in1 := instr.New(cfg.LutInputs)
			in1.Valid = true
			in1.Opcode = primitive.OpInput

			streams := singleProcStream(cfg, in0, in1, and, out)
			signals := map[string]SignalLocation{
				"a":   {Coord: platform.Coordinate{}, PC: 0},
				"b":   {Coord: platform.Coordinate{}, PC: 1},
				"out": {Coord: platform.Coordinate{}, PC: 3},
			}

			board := NewBoard(cfg, cfg.MaxSteps, streams, signals, nil, nil)

			cases := []struct{ a, b, want primitive.Bit }{
				{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 1},
			}
			for _, c := range cases {
				Expect(board.PokeInput("a", c.a)).To(Succeed())
				Expect(board.PokeInput("b", c.b)).To(Succeed())
				board.RunCycle()
				got, err := board.Peek("out")
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(c.want), "AND(%d,%d)", c.a, c.b)
			}
		})
	})

	Describe("a register", func() {
		It("holds its previous value across a cycle before latching", func() {
			cfg := platform.NewBuilder().WithTopology(1, 1).WithLutInputs(1).WithMaxSteps(4).Build()

			// pc0: Input d. pc1: Gate(d) (no enable, always samples). pc2: Output(q).
			in0 := instr.New(cfg.LutInputs)
			in0.Valid = true
			in0.Opcode = primitive.OpInput

			gate := instr.New(cfg.LutInputs)
			gate.Valid = true
			gate.Opcode = primitive.OpGate
			gate.Operand = []instr.Operand{{Rs: 0, Local: true}}

			out := instr.New(cfg.LutInputs)
			out.Valid = true
			out.Opcode = primitive.OpOutput
			out.Operand = []instr.Operand{{Rs: 1, Local: true}}

			streams := singleProcStream(cfg, in0, gate, out)
			signals := map[string]SignalLocation{
				"d": {PC: 0},
				"q": {PC: 2},
			}

			board := NewBoard(cfg, cfg.MaxSteps, streams, signals, nil, nil)

			Expect(board.PokeInput("d", 1)).To(Succeed())
			board.RunCycle()
			q, err := board.Peek("q")
			Expect(err).NotTo(HaveOccurred())
			Expect(q).To(Equal(primitive.Bit(0)), "first cycle: register had not yet latched")

			board.RunCycle()
			q, err = board.Peek("q")
			Expect(err).NotTo(HaveOccurred())
			Expect(q).To(Equal(primitive.Bit(1)), "second cycle: register should now hold d from cycle 1")
		})
	})

	Describe("an unknown signal name", func() {
		It("errors on both Peek and PokeInput", func() {
			cfg := platform.NewBuilder().WithTopology(1, 1).Build()
			board := NewBoard(cfg, cfg.MaxSteps, singleProcStream(cfg), map[string]SignalLocation{}, nil, nil)

			_, err := board.Peek("missing")
			Expect(err).To(HaveOccurred())
			Expect(board.PokeInput("missing", 1)).To(HaveOccurred())
		})
	})
})
