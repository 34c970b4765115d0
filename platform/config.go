// Package platform carries the emulator platform configuration: topology
// size, pipeline latencies and SRAM geometry, plus the derived bit-field
// layout the instruction encoder and both simulators rely on. Mirrors the
// teacher's fluent WithX(...) Builder idiom (config.DeviceBuilder).
package platform

import (
	"math/bits"

	"github.com/sarchlab/bee-compiler/primitive"
)

// Config is the hardware emulation platform configuration, the Go analogue
// of the original compiler's PlatformConfig (spec.md §4.B).
type Config struct {
	NumMods  uint32
	NumProcs uint32
	MaxSteps uint32

	LutInputs uint32

	InterProcNWLat uint32
	InterModNWLat  uint32

	IMemLat   uint32
	DMemRdLat uint32
	DMemWrLat uint32

	SRAMWidth   uint32
	SRAMEntries uint32
	SRAMRdPorts uint32
	SRAMWrPorts uint32
	SRAMRdLat   uint32
	SRAMWrLat   uint32

	Topology GlobalNetworkTopology
}

// Default returns the platform configuration used by the original compiler's
// `impl Default for PlatformConfig` (compiler/src/common/config.rs).
func Default() Config {
	c := Config{
		NumMods:        1,
		NumProcs:       64,
		MaxSteps:       128,
		LutInputs:      3,
		InterProcNWLat: 0,
		InterModNWLat:  0,
		IMemLat:        0,
		DMemRdLat:      0,
		DMemWrLat:      1,
		SRAMWidth:      64,
		SRAMEntries:    1024,
		SRAMRdPorts:    1,
		SRAMWrPorts:    1,
		SRAMRdLat:      1,
		SRAMWrLat:      1,
	}
	c.Topology = NewGlobalNetworkTopology(c.NumMods, c.NumProcs)
	return c
}

// Builder builds a Config with the fluent WithX(...) style used throughout
// the teacher pack (config.DeviceBuilder, core.Builder).
type Builder struct {
	cfg Config
}

// NewBuilder starts from Default().
func NewBuilder() Builder {
	return Builder{cfg: Default()}
}

func (b Builder) WithTopology(numMods, numProcs uint32) Builder {
	b.cfg.NumMods = numMods
	b.cfg.NumProcs = numProcs
	return b
}

func (b Builder) WithMaxSteps(maxSteps uint32) Builder {
	b.cfg.MaxSteps = maxSteps
	return b
}

func (b Builder) WithLutInputs(n uint32) Builder {
	b.cfg.LutInputs = n
	return b
}

func (b Builder) WithNetworkLatencies(interProc, interMod uint32) Builder {
	b.cfg.InterProcNWLat = interProc
	b.cfg.InterModNWLat = interMod
	return b
}

func (b Builder) WithPipelineLatencies(imem, dmemRd, dmemWr uint32) Builder {
	b.cfg.IMemLat = imem
	b.cfg.DMemRdLat = dmemRd
	b.cfg.DMemWrLat = dmemWr
	return b
}

func (b Builder) WithSRAMGeometry(width, entries, rdPorts, wrPorts, rdLat, wrLat uint32) Builder {
	b.cfg.SRAMWidth = width
	b.cfg.SRAMEntries = entries
	b.cfg.SRAMRdPorts = rdPorts
	b.cfg.SRAMWrPorts = wrPorts
	b.cfg.SRAMRdLat = rdLat
	b.cfg.SRAMWrLat = wrLat
	return b
}

// Build finalizes the configuration, deriving the global network topology.
func (b Builder) Build() Config {
	b.cfg.Topology = NewGlobalNetworkTopology(b.cfg.NumMods, b.cfg.NumProcs)
	return b.cfg
}

func powerOf2(v uint32) bool {
	return v&(v-1) == 0
}

func log2Ceil(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	log2x := uint32(bits.Len32(v))
	if powerOf2(v) {
		return log2x - 1
	}
	return log2x
}

// IndexBits is ceil(log2(MaxSteps)), the width of a data-memory index field.
func (c Config) IndexBits() uint32 { return log2Ceil(c.MaxSteps) }

// SwitchBits is ceil(log2(NumProcs)), the width of a switch-source field.
func (c Config) SwitchBits() uint32 { return log2Ceil(c.NumProcs) }

// OpcodeBits is ceil(log2(OpcodeCount)).
func (c Config) OpcodeBits() uint32 { return log2Ceil(uint32(primitive.OpcodeCount)) }

// LutBits is 2^LutInputs, the width of a LUT truth table.
func (c Config) LutBits() uint32 { return 1 << c.LutInputs }

// TotalProcs is NumMods * NumProcs.
func (c Config) TotalProcs() uint32 { return c.NumMods * c.NumProcs }

// PCLDMOffset: at host step X, a local compute result is stored at ldm[X -
// PCLDMOffset]. Spec.md §4.B.
func (c Config) PCLDMOffset() uint32 { return c.IMemLat + c.DMemRdLat }

// PCSDMOffset: at host step X, a switch-received result is stored at
// sdm[X - PCSDMOffset]. Spec.md §4.B.
func (c Config) PCSDMOffset() uint32 { return c.IMemLat + c.DMemRdLat + c.InterProcNWLat }

// RemoteSinLat is the latency at which a remote processor's output becomes
// visible on the local switch-in port.
func (c Config) RemoteSinLat() uint32 { return c.InterProcNWLat }
