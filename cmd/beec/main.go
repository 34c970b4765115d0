// Command beec is the bee-compiler CLI: compile a flattened gate-level
// netlist into per-processor instruction streams for the bit-serial
// processor array, self-check the result against the per-gate reference
// simulator, and inspect the compiled circuit, mirroring the original's
// CLI contract (spec.md §6).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bee-compiler/compiler"
	"github.com/sarchlab/bee-compiler/netlist"
	"github.com/sarchlab/bee-compiler/partition"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
	"github.com/sarchlab/bee-compiler/refsim"
)

var (
	configPath string
	outDir     string
	cycles     int
	stimPath   string
	vcdPath    string
	monitorOn  bool
)

func main() {
	root := &cobra.Command{
		Use:   "beec [netlist.json]",
		Short: "Compile and simulate a gate-level netlist on the bit-serial processor array",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "platform/compiler YAML config (defaults applied if omitted)")
	root.PersistentFlags().StringVar(&outDir, "out", "build", "artifact output directory")
	root.PersistentFlags().IntVar(&cycles, "cycles", 8, "number of target cycles to run")
	root.PersistentFlags().StringVar(&stimPath, "stimuli", "", "JSON stimulus file: an array of per-cycle {signal: 0|1} pokes")
	root.PersistentFlags().StringVar(&vcdPath, "vcd", "", "pre-parsed VCD reference waveform (JSON) to additionally check verify against")
	root.PersistentFlags().BoolVar(&monitorOn, "monitor", false, "register the board's engine and itself with an akita monitoring.Monitor")

	root.AddCommand(
		compileCmd(),
		instgenCmd(),
		simulateCmd(),
		verifyCmd(),
		statsCmd(),
	)

	if err := root.Execute(); err != nil {
		slog.Error("beec: command failed", "err", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// loadCircuit reads netlistPath and configPath (if set) and runs the full
// compile pipeline (component A through I), mirroring every subcommand's
// shared setup.
func loadCircuit(netlistPath string) (*compiler.Circuit, error) {
	fc := platform.FileConfig{
		Platform: platform.Default(),
		Compiler: platform.DefaultCompilerConfig(),
		KaMinPar: platform.DefaultKaMinParConfig(),
	}
	if configPath != "" {
		loaded, err := platform.LoadFileConfig(configPath)
		if err != nil {
			return nil, err
		}
		fc = loaded
	}

	file, err := netlist.LoadFile(netlistPath)
	if err != nil {
		return nil, err
	}

	c, err := compiler.Compile(file, fc.Platform, partition.GreedyPartitioner{}, fc.KaMinPar.Seed)
	if err != nil {
		return nil, err
	}
	if monitorOn {
		c.WithMonitor(monitoring.NewMonitor())
	}
	return c, nil
}

func compileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [netlist.json]",
		Short: "Compile a netlist, self-check it against the reference simulator, and save artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			if err := c.SaveArtifacts(outDir); err != nil {
				return err
			}
			return runVerify(c)
		},
	}
}

func instgenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instgen [netlist.json]",
		Short: "Compile a netlist and save its instruction streams, skipping the self-check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			return c.SaveArtifacts(outDir)
		},
	}
}

func simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate [netlist.json]",
		Short: "Compile a netlist and run it on the bit-serial functional simulator standalone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCircuit(args[0])
			if err != nil {
				return err
			}

			stim, err := loadStim()
			if err != nil {
				return err
			}

			board := c.NewBoard()
			for cycle := 0; cycle < cycles; cycle++ {
				for name, v := range stim(cycle) {
					if err := board.PokeInput(name, v); err != nil {
						return fmt.Errorf("beec: poke %s at cycle %d: %w", name, cycle, err)
					}
				}
				board.RunCycle()

				fmt.Printf("cycle %d:", cycle)
				for name := range c.Signals {
					v, err := board.Peek(name)
					if err != nil {
						continue
					}
					fmt.Printf(" %s=%d", name, v)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [netlist.json]",
		Short: "Compile a netlist and self-check it against the reference simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			return runVerify(c)
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [netlist.json]",
		Short: "Compile a netlist and print per-module utilization statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			fmt.Println(c.StatsTable())
			return nil
		},
	}
}

// loadStim builds a compiler.Stimulus from --stimuli, or a stimulus that
// pokes nothing (every input held at its zero/previous value) when the flag
// is omitted.
func loadStim() (compiler.Stimulus, error) {
	if stimPath == "" {
		return func(int) map[string]primitive.Bit { return nil }, nil
	}

	loaded, err := loadStimuli(stimPath)
	if err != nil {
		return nil, err
	}
	return stimulusFrom(loaded), nil
}

// runVerify runs the fsim-vs-refsim self-check (spec.md §7/§8), and also
// checks fsim against a VCD reference waveform when --vcd is set (spec.md
// §6, SPEC_FULL.md §4.3), reporting the combined result and returning a
// non-nil error (nonzero exit, per spec.md §6's CLI contract) on any
// mismatch.
func runVerify(c *compiler.Circuit) error {
	stim, err := loadStim()
	if err != nil {
		return err
	}

	mismatches, err := c.Verify(cycles, stim)
	if err != nil {
		return err
	}

	report := compiler.NewReport(cycles, len(c.Signals), mismatches)
	report.WriteReport(os.Stdout)

	vcdMismatches, err := runVCDCheck(c, stim)
	if err != nil {
		return err
	}

	if !report.OK() || len(vcdMismatches) > 0 {
		return fmt.Errorf("beec: %d simulation mismatches, %d vcd mismatches", len(mismatches), len(vcdMismatches))
	}
	return nil
}

// runVCDCheck drives a fresh board with stim and checks it against --vcd,
// when set; it is a no-op otherwise.
func runVCDCheck(c *compiler.Circuit, stim compiler.Stimulus) ([]refsim.VCDMismatch, error) {
	if vcdPath == "" {
		return nil, nil
	}

	vcd, err := loadVCD(vcdPath)
	if err != nil {
		return nil, err
	}

	board := c.NewBoard()
	var mismatches []refsim.VCDMismatch
	for cycle := 0; cycle < cycles; cycle++ {
		for name, v := range stim(cycle) {
			if err := board.PokeInput(name, v); err != nil {
				return nil, fmt.Errorf("beec: poke %s at cycle %d: %w", name, cycle, err)
			}
		}
		board.RunCycle()
		mismatches = append(mismatches, refsim.CompareCycle(cycle, board, vcd)...)
	}

	for _, m := range mismatches {
		fmt.Printf("vcd mismatch: cycle %d signal %s got %d want %d\n", m.Cycle, m.Signal, m.Got, m.Expected)
	}
	return mismatches, nil
}
