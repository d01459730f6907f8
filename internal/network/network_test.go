package network

import (
	"math/rand"
	"testing"
)

func idRange(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func TestEdgeCanonicalization(t *testing.T) {
	if Edge(5, 2) != (EdgeKey{A: 2, B: 5}) {
		t.Errorf("Edge(5,2) = %v, want {2 5}", Edge(5, 2))
	}
	if Edge(2, 5) != Edge(5, 2) {
		t.Error("edge identity must be direction-independent")
	}
}

func TestSmallWorldEdgeCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	net, err := NewSmallWorld(idRange(20), 4, 0.5, rng)
	if err != nil {
		t.Fatal(err)
	}
	if net.NodeCount() != 20 {
		t.Errorf("NodeCount = %d, want 20", net.NodeCount())
	}
	// Rewiring relocates edges but never changes their number.
	if net.EdgeCount() != 40 {
		t.Errorf("EdgeCount = %d, want 40", net.EdgeCount())
	}
}

func TestSmallWorldRingLattice(t *testing.T) {
	// With rewiring off the graph is the plain ring lattice.
	rng := rand.New(rand.NewSource(1))
	net, err := NewSmallWorld(idRange(20), 4, 0, rng)
	if err != nil {
		t.Fatal(err)
	}

	strong, weak := net.EgoView(0)
	wantStrong := []int{1, 2, 18, 19}
	wantWeak := []int{3, 4, 16, 17}
	if !equalInts(strong, wantStrong) {
		t.Errorf("strong ties = %v, want %v", strong, wantStrong)
	}
	if !equalInts(weak, wantWeak) {
		t.Errorf("weak ties = %v, want %v", weak, wantWeak)
	}
}

func TestSmallWorldDegreeValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewSmallWorld(idRange(4), 4, 0.5, rng); err == nil {
		t.Error("lattice degree >= node count should fail")
	}
	if _, err := NewSmallWorld(idRange(4), -1, 0.5, rng); err == nil {
		t.Error("negative lattice degree should fail")
	}
}

func TestTickDecay(t *testing.T) {
	net := NewFromEdges([]EdgeKey{Edge(0, 1), Edge(1, 2)})
	net.SetCensor(Edge(0, 1), 2)

	net.TickDecay()
	if steps, _ := net.CensorSteps(Edge(0, 1)); steps != 1 {
		t.Errorf("after decay countdown = %d, want 1", steps)
	}
	if steps, _ := net.CensorSteps(Edge(1, 2)); steps != 0 {
		t.Errorf("uncensored edge countdown = %d, want 0", steps)
	}
	net.TickDecay()
	net.TickDecay()
	if steps, _ := net.CensorSteps(Edge(0, 1)); steps != 0 {
		t.Errorf("countdown went below zero: %d", steps)
	}
}

func TestEgoViewTwoHop(t *testing.T) {
	// 0 connects to 1 and 2, which connect to each other; 3 hangs off 2.
	net := NewFromEdges([]EdgeKey{Edge(0, 1), Edge(0, 2), Edge(1, 2), Edge(2, 3)})

	strong, weak := net.EgoView(0)
	if !equalInts(strong, []int{1, 2}) {
		t.Errorf("strong = %v, want [1 2]", strong)
	}
	if !equalInts(weak, []int{3}) {
		t.Errorf("weak = %v, want [3]", weak)
	}
}

func TestEgoViewCensoredEdgeDemotesTie(t *testing.T) {
	// Triangle 0-1-2 with the 0-1 edge censored: 1 is still reachable,
	// but only through 2, so it becomes a weak tie.
	net := NewFromEdges([]EdgeKey{Edge(0, 1), Edge(0, 2), Edge(1, 2)})
	net.SetCensor(Edge(0, 1), 3)

	strong, weak := net.EgoView(0)
	if !equalInts(strong, []int{2}) {
		t.Errorf("strong = %v, want [2]", strong)
	}
	if !equalInts(weak, []int{1}) {
		t.Errorf("weak = %v, want [1]", weak)
	}
}

func TestEgoViewCensorshipDisconnects(t *testing.T) {
	// Chain 0-1-2: censoring 0-1 cuts off both 1 and 2 from 0 even
	// though 1-2 stays live.
	net := NewFromEdges([]EdgeKey{Edge(0, 1), Edge(1, 2)})
	net.SetCensor(Edge(0, 1), 5)

	strong, weak := net.EgoView(0)
	if len(strong) != 0 || len(weak) != 0 {
		t.Errorf("EgoView(0) = (%v, %v), want empty", strong, weak)
	}

	strong, weak = net.EgoView(1)
	if !equalInts(strong, []int{2}) || len(weak) != 0 {
		t.Errorf("EgoView(1) = (%v, %v), want ([2], [])", strong, weak)
	}
}

func TestEgoViewUnknownNode(t *testing.T) {
	net := NewFromEdges([]EdgeKey{Edge(0, 1)})
	strong, weak := net.EgoView(99)
	if strong != nil || weak != nil {
		t.Errorf("EgoView of a non-member = (%v, %v), want nils", strong, weak)
	}
}

func TestLiveTies(t *testing.T) {
	net := NewFromEdges([]EdgeKey{Edge(0, 1), Edge(0, 2)})
	net.SetCensor(Edge(0, 1), 1)

	ties := net.LiveTies(0)
	if len(ties) != 1 || ties[0] != Edge(0, 2) {
		t.Errorf("LiveTies = %v, want [{0 2}]", ties)
	}
}

func TestPendingDedupAndOrder(t *testing.T) {
	p := NewPending()
	p.Add(Edge(3, 1))
	p.Add(Edge(1, 3)) // same edge, other direction
	p.Add(Edge(0, 2))

	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	edges := p.Edges()
	if edges[0] != Edge(0, 2) || edges[1] != Edge(1, 3) {
		t.Errorf("Edges = %v, want canonical sorted order", edges)
	}

	p.Reset()
	if p.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", p.Len())
	}
}

func TestResolvePending(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	net := NewFromEdges([]EdgeKey{Edge(0, 1), Edge(1, 2), Edge(2, 3)})

	p := NewPending()
	p.Add(Edge(0, 1))
	p.Add(Edge(1, 2))

	// Probability 1: every uncensored candidate gets censored.
	if got := net.ResolvePending(p, 4, 1.0, rng); got != 2 {
		t.Errorf("censored count = %d, want 2", got)
	}
	if steps, _ := net.CensorSteps(Edge(0, 1)); steps != 4 {
		t.Errorf("countdown = %d, want 4", steps)
	}

	// Mid-censorship edges are not re-drawn even at probability 1.
	if got := net.ResolvePending(p, 4, 1.0, rng); got != 0 {
		t.Errorf("censored count on re-resolve = %d, want 0", got)
	}

	// Probability 0: nothing happens.
	net2 := NewFromEdges([]EdgeKey{Edge(0, 1)})
	p2 := NewPending()
	p2.Add(Edge(0, 1))
	if got := net2.ResolvePending(p2, 4, 0, rng); got != 0 {
		t.Errorf("censored count at prob 0 = %d, want 0", got)
	}
}

func equalInts(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
