// Package network provides the small-world influence graph over citizen
// identities. Topology is fixed at construction; the only mutable state
// is the per-edge censor countdown. Edges live in an arena keyed by
// canonical (min,max) ID pairs with an adjacency index for hop expansion.
package network

import (
	"fmt"
	"math/rand"
)

// EdgeKey identifies an undirected edge. A < B always holds.
type EdgeKey struct {
	A int
	B int
}

// Edge canonicalizes an endpoint pair into an EdgeKey.
func Edge(u, v int) EdgeKey {
	if u > v {
		u, v = v, u
	}
	return EdgeKey{A: u, B: v}
}

// Network is an undirected graph whose edges carry censor countdowns.
// An edge with countdown > 0 is censored: excluded from ego views but
// never removed from the topology.
type Network struct {
	censor map[EdgeKey]int          // edge arena: countdown per edge
	adj    map[int]map[int]struct{} // adjacency index
	nodes  []int                    // node IDs in construction order
}

// NewSmallWorld builds a Watts–Strogatz graph over the given IDs: a ring
// lattice where each node connects to latticeDegree nearest neighbors
// (rounded down to even), then each lattice edge is rewired to a random
// endpoint with probability rewireProb. Every edge starts uncensored.
func NewSmallWorld(ids []int, latticeDegree int, rewireProb float64, rng *rand.Rand) (*Network, error) {
	n := len(ids)
	if latticeDegree >= n {
		return nil, fmt.Errorf("small world: lattice degree %d must be below node count %d", latticeDegree, n)
	}
	if latticeDegree < 0 {
		return nil, fmt.Errorf("small world: lattice degree %d must be non-negative", latticeDegree)
	}

	net := &Network{
		censor: make(map[EdgeKey]int),
		adj:    make(map[int]map[int]struct{}, n),
		nodes:  append([]int(nil), ids...),
	}
	for _, id := range ids {
		net.adj[id] = make(map[int]struct{})
	}

	// Ring lattice: each node connects to the latticeDegree/2 nearest
	// neighbors on each side.
	half := latticeDegree / 2
	for j := 1; j <= half; j++ {
		for i := 0; i < n; i++ {
			net.addEdge(ids[i], ids[(i+j)%n])
		}
	}

	// Rewire pass, same traversal order as the lattice pass. An edge
	// (u,v) becomes (u,w) for a uniformly drawn w that is neither u nor
	// already adjacent to u. Saturated nodes are skipped.
	for j := 1; j <= half; j++ {
		for i := 0; i < n; i++ {
			if rng.Float64() >= rewireProb {
				continue
			}
			u := ids[i]
			v := ids[(i+j)%n]
			if len(net.adj[u]) >= n-1 {
				continue
			}
			w := ids[rng.Intn(n)]
			for w == u || net.hasEdge(u, w) {
				w = ids[rng.Intn(n)]
			}
			net.removeEdge(u, v)
			net.addEdge(u, w)
		}
	}

	return net, nil
}

// NewFromEdges builds a network with an explicit topology, every edge
// uncensored. Used by tooling and tests that need a fixed graph instead
// of a generated one.
func NewFromEdges(edges []EdgeKey) *Network {
	net := &Network{
		censor: make(map[EdgeKey]int),
		adj:    make(map[int]map[int]struct{}),
	}
	addNode := func(id int) {
		if _, ok := net.adj[id]; !ok {
			net.adj[id] = make(map[int]struct{})
			net.nodes = append(net.nodes, id)
		}
	}
	for _, e := range edges {
		addNode(e.A)
		addNode(e.B)
		net.addEdge(e.A, e.B)
	}
	return net
}

func (net *Network) addEdge(u, v int) {
	net.censor[Edge(u, v)] = 0
	net.adj[u][v] = struct{}{}
	net.adj[v][u] = struct{}{}
}

func (net *Network) removeEdge(u, v int) {
	delete(net.censor, Edge(u, v))
	delete(net.adj[u], v)
	delete(net.adj[v], u)
}

func (net *Network) hasEdge(u, v int) bool {
	_, ok := net.censor[Edge(u, v)]
	return ok
}

// HasNode reports whether id is a network member.
func (net *Network) HasNode(id int) bool {
	_, ok := net.adj[id]
	return ok
}

// NodeCount returns the number of nodes.
func (net *Network) NodeCount() int {
	return len(net.nodes)
}

// EdgeCount returns the number of edges. Invariant across a run.
func (net *Network) EdgeCount() int {
	return len(net.censor)
}

// CensorSteps returns the remaining censor countdown for an edge, or
// ok=false if the edge does not exist.
func (net *Network) CensorSteps(e EdgeKey) (steps int, ok bool) {
	steps, ok = net.censor[e]
	return steps, ok
}

// Censored reports whether an edge exists and is currently censored.
func (net *Network) Censored(e EdgeKey) bool {
	steps, ok := net.censor[e]
	return ok && steps > 0
}

// SetCensor sets an edge's countdown directly, for tooling and tests;
// the step loop censors edges through ResolvePending. Unknown edges are
// reported, never created.
func (net *Network) SetCensor(e EdgeKey, steps int) bool {
	if _, ok := net.censor[e]; !ok {
		return false
	}
	net.censor[e] = steps
	return true
}

// TickDecay decrements every positive censor countdown by one.
func (net *Network) TickDecay() {
	for e, steps := range net.censor {
		if steps > 0 {
			net.censor[e] = steps - 1
		}
	}
}
