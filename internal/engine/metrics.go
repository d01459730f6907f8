package engine

import "github.com/talgya/unrest/internal/agents"

// Stats holds the aggregate counters recomputed after every tick from
// the live population. Jailed citizens are outside the Active/Quiescent
// split; averages over empty sets are 0.
type Stats struct {
	Active    int `json:"active"`
	Quiescent int `json:"quiescent"`
	Jailed    int `json:"jailed"`
	Citizens  int `json:"citizens"`
	Cops      int `json:"cops"`

	AvgJailTerm       float64 `json:"avg_jail_term"`       // over currently jailed citizens
	AvgStrongReceival float64 `json:"avg_strong_receival"` // over non-jailed citizens
	AvgWeakReceival   float64 `json:"avg_weak_receival"`   // over non-jailed citizens

	PendingEdges  int     `json:"pending_edges"`  // edges marked for censorship this tick
	PendingRatio  float64 `json:"pending_ratio"`  // pending edges / total edges
	CensoredEdges int     `json:"censored_edges"` // edges newly censored this tick
}

func (m *Model) updateStats(pendingEdges, censoredEdges int) {
	var s Stats
	jailTotal := 0
	strongTotal, weakTotal, free := 0, 0, 0

	for _, a := range m.Agents {
		if a.Breed == agents.BreedCop {
			s.Cops++
			continue
		}
		s.Citizens++
		if a.JailTerm > 0 {
			s.Jailed++
			jailTotal += a.JailTerm
			continue
		}
		free++
		strongTotal += a.StrongTiesReceived
		weakTotal += a.WeakTiesReceived
		if a.Condition == agents.Active {
			s.Active++
		} else {
			s.Quiescent++
		}
	}

	if s.Jailed > 0 {
		s.AvgJailTerm = float64(jailTotal) / float64(s.Jailed)
	}
	if free > 0 {
		s.AvgStrongReceival = float64(strongTotal) / float64(free)
		s.AvgWeakReceival = float64(weakTotal) / float64(free)
	}

	s.PendingEdges = pendingEdges
	if edges := m.edgeCount(); edges > 0 {
		s.PendingRatio = float64(pendingEdges) / float64(edges)
	}
	s.CensoredEdges = censoredEdges

	m.Stats = s
}
