package hwgraph

import (
	"testing"

	"github.com/sarchlab/bee-compiler/primitive"
)

func TestGraphAddNodeEdge(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewHWNode(NodePrimitive{Kind: primitive.KindInput, Name: "a"}))
	b := g.AddNode(NewHWNode(NodePrimitive{Kind: primitive.KindOutput, Name: "b"}))
	g.AddEdge(a, b, NewHWEdge(primitive.Signal{Kind: primitive.SignalWire, Name: "a"}))

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", g.NodeCount())
	}
	children := g.Children(a)
	if len(children) != 1 || children[0] != b {
		t.Fatalf("Children(a) = %v, want [%v]", children, b)
	}
	parents := g.Parents(b)
	if len(parents) != 1 || parents[0] != a {
		t.Fatalf("Parents(b) = %v, want [%v]", parents, a)
	}
}

func TestGraphRemoveNodeTombstonesEdges(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewHWNode(NodePrimitive{Kind: primitive.KindInput, Name: "a"}))
	b := g.AddNode(NewHWNode(NodePrimitive{Kind: primitive.KindOutput, Name: "b"}))
	g.AddEdge(a, b, NewHWEdge(primitive.Signal{Kind: primitive.SignalWire, Name: "a"}))

	g.RemoveNode(a)
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount() after remove = %d, want 1", g.NodeCount())
	}
	if len(g.InEdges(b)) != 0 {
		t.Fatalf("InEdges(b) after removing a = %v, want empty", g.InEdges(b))
	}
}

func TestRankInfoCritical(t *testing.T) {
	r := RankInfo{ASAP: 3, ALAP: 3}
	if !r.Critical() {
		t.Error("expected ASAP==ALAP to be critical")
	}
	r2 := RankInfo{ASAP: 1, ALAP: 4}
	if r2.Critical() {
		t.Error("expected ASAP!=ALAP to be non-critical")
	}
}
