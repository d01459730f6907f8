package network

import (
	"math/rand"
	"sort"
)

// Pending accumulates the edges that Active citizens exposed to
// censorship during the current tick. The scheduler hands one Pending
// into every activation, resolves it after the last agent, and resets
// it. Membership is deduplicated on canonical edge keys.
type Pending struct {
	edges map[EdgeKey]struct{}
}

// NewPending creates an empty accumulator.
func NewPending() *Pending {
	return &Pending{edges: make(map[EdgeKey]struct{})}
}

// Add records a candidate edge. Adding the same edge twice is a no-op.
func (p *Pending) Add(e EdgeKey) {
	p.edges[e] = struct{}{}
}

// Len returns the number of distinct candidate edges.
func (p *Pending) Len() int {
	return len(p.edges)
}

// Edges returns the candidates in canonical sorted order, so that
// resolution consumes the random stream reproducibly.
func (p *Pending) Edges() []EdgeKey {
	out := make([]EdgeKey, 0, len(p.edges))
	for e := range p.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Reset clears the accumulator for the next tick.
func (p *Pending) Reset() {
	p.edges = make(map[EdgeKey]struct{})
}

// ResolvePending draws once per candidate edge that is currently
// uncensored; on success the edge's countdown is set to duration. Edges
// already mid-censorship are not re-drawn. Returns the number of edges
// newly censored.
func (net *Network) ResolvePending(p *Pending, duration int, prob float64, rng *rand.Rand) int {
	censored := 0
	for _, e := range p.Edges() {
		steps, ok := net.censor[e]
		if !ok || steps > 0 {
			continue
		}
		if rng.Float64() < prob {
			net.censor[e] = duration
			censored++
		}
	}
	return censored
}
