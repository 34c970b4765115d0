package hwgraph

import "fmt"

// NodeIndex is a stable handle to a node. Indices are never reused within a
// graph's lifetime (RemoveNode tombstones rather than compacting), so a
// NodeIndex captured before a pass runs remains valid afterward unless that
// specific node was removed.
type NodeIndex int

// EdgeIndex is a stable handle to an edge, with the same tombstone-don't-
// reuse guarantee as NodeIndex.
type EdgeIndex int

type edgeEnds struct {
	src, dst NodeIndex
}

// Graph is the netlist graph: a directed multigraph of HWNode vertices and
// HWEdge arcs, the Go analogue of the original's
// `type HWGraph = petgraph::Graph<HWNode, HWEdge>`. No graph library exists
// anywhere in the example pack, so this is a small hand-rolled arena in the
// same spirit as petgraph's Graph: parallel slices indexed by NodeIndex/
// EdgeIndex, with adjacency lists for directed traversal.
type Graph struct {
	nodes    []HWNode
	nodeLive []bool
	edges    []HWEdge
	edgeEnds []edgeEnds
	edgeLive []bool

	outgoing map[NodeIndex][]EdgeIndex
	incoming map[NodeIndex][]EdgeIndex
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		outgoing: map[NodeIndex][]EdgeIndex{},
		incoming: map[NodeIndex][]EdgeIndex{},
	}
}

// AddNode inserts a node and returns its stable index.
func (g *Graph) AddNode(n HWNode) NodeIndex {
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.nodeLive = append(g.nodeLive, true)
	return idx
}

// AddEdge inserts a directed edge from src to dst and returns its index.
func (g *Graph) AddEdge(src, dst NodeIndex, e HWEdge) EdgeIndex {
	idx := EdgeIndex(len(g.edges))
	g.edges = append(g.edges, e)
	g.edgeEnds = append(g.edgeEnds, edgeEnds{src, dst})
	g.edgeLive = append(g.edgeLive, true)
	g.outgoing[src] = append(g.outgoing[src], idx)
	g.incoming[dst] = append(g.incoming[dst], idx)
	return idx
}

// RemoveEdge tombstones an edge; it no longer appears in traversal but its
// index is never reassigned.
func (g *Graph) RemoveEdge(e EdgeIndex) {
	g.edgeLive[e] = false
}

// RemoveNode tombstones a node and every edge touching it.
func (g *Graph) RemoveNode(n NodeIndex) {
	g.nodeLive[n] = false
	for _, e := range g.outgoing[n] {
		g.edgeLive[e] = false
	}
	for _, e := range g.incoming[n] {
		g.edgeLive[e] = false
	}
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	n := 0
	for _, live := range g.nodeLive {
		if live {
			n++
		}
	}
	return n
}

// Node returns the node at idx.
func (g *Graph) Node(idx NodeIndex) *HWNode {
	return &g.nodes[idx]
}

// NodeLive reports whether idx refers to a live (not removed) node.
func (g *Graph) NodeLive(idx NodeIndex) bool {
	return int(idx) < len(g.nodeLive) && g.nodeLive[idx]
}

// Edge returns the edge at idx.
func (g *Graph) Edge(idx EdgeIndex) *HWEdge {
	return &g.edges[idx]
}

// EdgeEnds returns the (src, dst) of an edge.
func (g *Graph) EdgeEnds(idx EdgeIndex) (NodeIndex, NodeIndex) {
	ends := g.edgeEnds[idx]
	return ends.src, ends.dst
}

// NodeIndices iterates every live node index in insertion order.
func (g *Graph) NodeIndices(fn func(NodeIndex)) {
	for i, live := range g.nodeLive {
		if live {
			fn(NodeIndex(i))
		}
	}
}

// OutEdges returns the live outgoing edges of n, in insertion order.
func (g *Graph) OutEdges(n NodeIndex) []EdgeIndex {
	return g.liveOnly(g.outgoing[n])
}

// InEdges returns the live incoming edges of n, in insertion order.
func (g *Graph) InEdges(n NodeIndex) []EdgeIndex {
	return g.liveOnly(g.incoming[n])
}

func (g *Graph) liveOnly(all []EdgeIndex) []EdgeIndex {
	out := make([]EdgeIndex, 0, len(all))
	for _, e := range all {
		if g.edgeLive[e] {
			out = append(out, e)
		}
	}
	return out
}

// Children returns the destination nodes of n's live outgoing edges.
func (g *Graph) Children(n NodeIndex) []NodeIndex {
	edges := g.OutEdges(n)
	out := make([]NodeIndex, len(edges))
	for i, e := range edges {
		_, dst := g.EdgeEnds(e)
		out[i] = dst
	}
	return out
}

// Parents returns the source nodes of n's live incoming edges.
func (g *Graph) Parents(n NodeIndex) []NodeIndex {
	edges := g.InEdges(n)
	out := make([]NodeIndex, len(edges))
	for i, e := range edges {
		src, _ := g.EdgeEnds(e)
		out[i] = src
	}
	return out
}

// Neighbors returns the nodes reachable from n via either a live outgoing or
// incoming edge, i.e. n's neighbors in the undirected view of the graph.
func (g *Graph) Neighbors(n NodeIndex) []NodeIndex {
	out := g.Children(n)
	return append(out, g.Parents(n)...)
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph{nodes=%d, edges=%d}", g.NodeCount(), len(g.edges))
}
