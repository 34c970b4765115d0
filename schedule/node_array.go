package schedule

import "github.com/sarchlab/bee-compiler/hwgraph"

// NodeArray is the per-(module,proc) instruction stream under construction:
// the nodes mapped to that processor, in scheduling order, plus a cursor to
// the next one still waiting to be scheduled. Mirrors NodeArray
// (original_source/compiler/src/passes/inst_schedule.rs).
type NodeArray struct {
	Nodes []hwgraph.NodeIndex
	ptr   int
}

// Push appends a node mapped to this processor.
func (na *NodeArray) Push(n hwgraph.NodeIndex) {
	na.Nodes = append(na.Nodes, n)
}

// Current returns the next unscheduled node on this processor.
func (na *NodeArray) Current() hwgraph.NodeIndex {
	return na.Nodes[na.ptr]
}

// Done reports whether every node on this processor has been scheduled.
func (na *NodeArray) Done() bool {
	return na.ptr == len(na.Nodes)
}

// Advance marks the current node scheduled and moves the cursor forward.
func (na *NodeArray) Advance() {
	na.ptr++
}

// MaxRankNode returns the last (highest-rank) node on this processor.
func (na *NodeArray) MaxRankNode() hwgraph.NodeIndex {
	return na.Nodes[len(na.Nodes)-1]
}
