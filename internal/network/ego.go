package network

import "sort"

// EgoView computes the focal citizen's visible network neighborhood in
// two passes: first the two-hop ego node set over the full topology,
// then a re-expansion from the focal node using only non-censored edges
// inside that set. The second pass is what makes censorship able to
// disconnect a node whose other edges are still live. Strong ties are
// the nodes at hop one of the re-expansion, weak ties the remaining
// reachable nodes; the focal node is in neither set. Both results come
// back sorted.
func (net *Network) EgoView(id int) (strong, weak []int) {
	if !net.HasNode(id) {
		return nil, nil
	}

	// Pass one: every node within two hops, censored edges included.
	ego := net.expand(id, nil, true)

	// Pass two: re-expand over the ego subgraph with censored edges
	// stripped, recording hop depth.
	depth := net.expandDepth(id, ego)

	for node, d := range depth {
		if node == id {
			continue
		}
		switch d {
		case 1:
			strong = append(strong, node)
		default:
			weak = append(weak, node)
		}
	}
	sort.Ints(strong)
	sort.Ints(weak)
	return strong, weak
}

// LiveTies returns the canonical keys of the focal citizen's currently
// non-censored incident edges within its ego view. These are the edges
// an Active citizen exposes to censorship.
func (net *Network) LiveTies(id int) []EdgeKey {
	strong, _ := net.EgoView(id)
	ties := make([]EdgeKey, 0, len(strong))
	for _, s := range strong {
		ties = append(ties, Edge(id, s))
	}
	return ties
}

const hopRadius = 2

// expand runs a bounded BFS from id. When includeCensored is false,
// censored edges are skipped; when within is non-nil, expansion is
// restricted to that node set.
func (net *Network) expand(id int, within map[int]struct{}, includeCensored bool) map[int]struct{} {
	reached := map[int]struct{}{id: {}}
	frontier := []int{id}
	for hop := 0; hop < hopRadius; hop++ {
		var next []int
		for _, u := range frontier {
			for v := range net.adj[u] {
				if _, seen := reached[v]; seen {
					continue
				}
				if within != nil {
					if _, ok := within[v]; !ok {
						continue
					}
				}
				if !includeCensored && net.Censored(Edge(u, v)) {
					continue
				}
				reached[v] = struct{}{}
				next = append(next, v)
			}
		}
		frontier = next
	}
	return reached
}

// expandDepth is expand restricted to non-censored edges inside the ego
// set, returning the hop depth at which each node was first reached.
func (net *Network) expandDepth(id int, ego map[int]struct{}) map[int]int {
	depth := map[int]int{id: 0}
	frontier := []int{id}
	for hop := 1; hop <= hopRadius; hop++ {
		var next []int
		for _, u := range frontier {
			for v := range net.adj[u] {
				if _, seen := depth[v]; seen {
					continue
				}
				if _, ok := ego[v]; !ok {
					continue
				}
				if net.Censored(Edge(u, v)) {
					continue
				}
				depth[v] = hop
				next = append(next, v)
			}
		}
		frontier = next
	}
	return depth
}
