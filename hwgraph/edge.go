package hwgraph

import (
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

// NetworkRoute aliases platform.NetworkRoute for brevity within this package.
type NetworkRoute = platform.NetworkRoute

// HWEdge is the metadata attached to each netlist graph edge: the signal it
// carries, its global-network routing once scheduled (nil until then), and
// its partitioner edge weight.
type HWEdge struct {
	Signal primitive.Signal
	Route  NetworkRoute // nil until scheduled; set by schedule.Schedule for cross-module edges
	Weight *int32
}

// NewHWEdge wraps a signal with no routing or weight yet assigned.
func NewHWEdge(s primitive.Signal) HWEdge {
	return HWEdge{Signal: s}
}

// SetRouting records the global-network route this edge was scheduled onto.
func (e *HWEdge) SetRouting(route NetworkRoute) {
	e.Route = route
}

// WeightOr returns the edge's partitioner weight, defaulting to zero.
func (e HWEdge) WeightOr() int32 {
	if e.Weight == nil {
		return 0
	}
	return *e.Weight
}
