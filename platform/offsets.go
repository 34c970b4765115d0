package platform

import "github.com/sarchlab/bee-compiler/primitive"

// NWPathLat is the latency contributed by a single network hop, per
// PlatformConfig::nw_path_lat.
func (c Config) NWPathLat(p NetworkPath) uint32 {
	switch p.Typ {
	case ProcessorInternal:
		return 0
	case InterProcessor:
		return c.InterProcNWLat
	default:
		return c.InterModNWLat
	}
}

// NWRouteLat sums a route's hop latencies, adding one DMemWrLat between
// consecutive hops, per PlatformConfig::nw_route_lat.
func (c Config) NWRouteLat(route NetworkRoute) uint32 {
	var lat uint32
	for i, p := range route {
		lat += c.NWPathLat(p)
		if i != len(route)-1 {
			lat += c.DMemWrLat
		}
	}
	return lat
}

// NWRouteDepLat is the cycle offset at which data sent along route becomes
// visible to its consumer, per PlatformConfig::nw_route_dep_lat.
func (c Config) NWRouteDepLat(route NetworkRoute) uint32 {
	return c.NWRouteLat(route) + c.DMemWrLat
}

// The following chain of *_offset functions lays out the bit positions of
// the scalar SRAM-control signals packed into a wide SRAM instruction word,
// exactly mirroring the original's sram_*_offset chain (common/config.rs).
// Each offset function is defined in terms of the previous one plus that
// signal's own width, so changing one geometry parameter (SRAMEntries,
// SRAMWidth) shifts every later offset automatically.

func (c Config) SRAMRdEnOffset() uint32 { return 0 }

func (c Config) SRAMWrEnOffset() uint32 { return c.SRAMRdEnOffset() + 1 }

func (c Config) SRAMRdAddrOffset() uint32 { return c.SRAMWrEnOffset() + 1 }

func (c Config) SRAMWrAddrOffset() uint32 { return c.SRAMRdAddrOffset() + c.SRAMEntries }

func (c Config) SRAMWrDataOffset() uint32 { return c.SRAMWrAddrOffset() + c.SRAMEntries }

func (c Config) SRAMWrMaskOffset() uint32 { return c.SRAMWrDataOffset() + c.SRAMWidth }

func (c Config) SRAMRdWrEnOffset() uint32 { return c.SRAMWrMaskOffset() + c.SRAMWidth }

func (c Config) SRAMRdWrModeOffset() uint32 { return c.SRAMRdWrEnOffset() + 1 }

func (c Config) SRAMRdWrAddrOffset() uint32 { return c.SRAMRdWrModeOffset() + 1 }

func (c Config) SRAMOtherOffset() uint32 { return c.SRAMRdWrModeOffset() + c.SRAMEntries }

// IndexToSRAMInputType maps a scalar bit index within the SRAM control word
// back onto the (Kind, bit offset within that field) it belongs to, the
// inverse of the offset chain above. Mirrors
// PlatformConfig::index_to_sram_input_type.
func (c Config) IndexToSRAMInputType(idx uint32) (primitive.Kind, uint32) {
	switch {
	case idx >= c.SRAMOtherOffset():
		panic("platform: unknown index to sram input type")
	case idx >= c.SRAMRdWrAddrOffset():
		return primitive.KindSRAMRdWrAddr, idx - c.SRAMRdWrAddrOffset()
	case idx >= c.SRAMRdWrModeOffset():
		return primitive.KindSRAMRdWrMode, idx - c.SRAMRdWrModeOffset()
	case idx >= c.SRAMRdWrEnOffset():
		return primitive.KindSRAMRdWrEn, idx - c.SRAMRdWrEnOffset()
	case idx >= c.SRAMWrMaskOffset():
		return primitive.KindSRAMWrMask, idx - c.SRAMWrMaskOffset()
	case idx >= c.SRAMWrDataOffset():
		return primitive.KindSRAMWrData, idx - c.SRAMWrDataOffset()
	case idx >= c.SRAMWrAddrOffset():
		return primitive.KindSRAMWrAddr, idx - c.SRAMWrAddrOffset()
	case idx >= c.SRAMRdAddrOffset():
		return primitive.KindSRAMRdAddr, idx - c.SRAMRdAddrOffset()
	case idx >= c.SRAMWrEnOffset():
		return primitive.KindSRAMWrEn, idx - c.SRAMWrEnOffset()
	default:
		return primitive.KindSRAMRdEn, idx - c.SRAMRdEnOffset()
	}
}
