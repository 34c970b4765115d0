package platform

// The following dependency-latency helpers tell the scheduler (component H)
// when a value produced at one coordinate becomes safely consumable at
// another. The single-hop forms (IntraProcDepLat/InterProcDepLat) mirror
// PlatformConfig::intra_proc_dep_lat/inter_proc_dep_lat exactly.
//
// IntraProcDepLat: I can use a value computed on my own processor at
// `local.pc + intra_proc_dep_lat`.
func (c Config) IntraProcDepLat() uint32 { return c.DMemRdLat + c.DMemWrLat }

// InterProcDepLat: I can use a value computed on another processor in my
// module at `remote.pc + inter_proc_dep_lat`.
func (c Config) InterProcDepLat() uint32 { return c.DMemRdLat + c.InterProcNWLat + c.DMemWrLat }

// The four inter-module variants below classify a cross-module dependency
// by how many local (intra-module) hops bracket the single inter-module
// link, and are read off the busy-ring index of whichever coordinate the
// scheduler is checking contention against at that hop. The platform's
// committed source only sketches the single-hop intra/inter-proc latencies
// above; the four-way inter-module split is supplemented here from the
// structure of NWRouteDepLat (one DMemWrLat settle time per hop boundary),
// generalized over a direct link, a remote-module one-hop detour, a local
// one-hop detour, and both detours combined.

// InterModZeroHopDepLat is the dependency latency of a direct inter-module
// link with no local hop on either end.
func (c Config) InterModZeroHopDepLat() uint32 { return c.InterModNWLat + c.DMemWrLat }

// InterModRemoteOneHopDepLat is the dependency latency observed at the
// intermediate processor when the inter-module link lands one local hop
// short of the true destination.
func (c Config) InterModRemoteOneHopDepLat() uint32 { return c.InterModNWLat + c.DMemWrLat }

// InterModLocalOneHopDepLat is the dependency latency observed at the
// intermediate processor when the inter-module link departs one local hop
// away from the true source.
func (c Config) InterModLocalOneHopDepLat() uint32 { return c.InterProcNWLat + c.DMemWrLat }

// InterModTwoHopDepLat is the dependency latency of a route needing a local
// hop on both ends of the inter-module link.
func (c Config) InterModTwoHopDepLat() uint32 {
	return c.InterProcNWLat + c.DMemWrLat + c.InterModNWLat + c.DMemWrLat
}
