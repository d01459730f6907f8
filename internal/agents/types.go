// Package agents provides the agent data model and per-tick behavior.
// Agent kind is a closed breed tag; the engine dispatches on it rather
// than through interfaces, so the full set of behaviors is visible in
// one switch.
package agents

import (
	"github.com/talgya/unrest/internal/grid"
)

// Breed is the agent-kind tag.
type Breed uint8

const (
	BreedCitizen Breed = iota
	BreedCop
)

// String returns the breed tag used in snapshots.
func (b Breed) String() string {
	if b == BreedCop {
		return "cop"
	}
	return "citizen"
}

// Condition is a citizen's behavioral state.
type Condition uint8

const (
	Quiescent Condition = iota
	Active
)

// String returns the condition label used in snapshots.
func (c Condition) String() string {
	if c == Active {
		return "Active"
	}
	return "Quiescent"
}

// Agent is a citizen or a cop on the grid. Cop agents carry only
// identity, position, and vision; the remaining fields belong to
// citizens and stay zero for cops.
type Agent struct {
	ID     int
	Breed  Breed
	Pos    grid.Point
	Vision int // Moore radius the agent can inspect

	// JailTerm is the remaining jail countdown. A jailed citizen
	// (JailTerm > 0) neither transitions condition nor moves.
	JailTerm int

	// Citizen decision state.
	Hardship     float64 // exogenous, [0,1], fixed at creation
	RiskAversion float64 // exogenous, [0,1], fixed at creation
	Grievance    float64 // hardship * (1 - legitimacy), fixed at creation
	Condition    Condition

	// ArrestProbability is the citizen's own estimate of being arrested
	// if active, recomputed on every free tick.
	ArrestProbability float64

	// Tie receival counters, recomputed each free tick in network mode.
	StrongTiesReceived int
	WeakTiesReceived   int
}

// NewCitizen creates a Quiescent citizen. Grievance is derived once here
// and never recomputed.
func NewCitizen(id int, pos grid.Point, hardship, legitimacy, riskAversion float64, vision int) *Agent {
	return &Agent{
		ID:           id,
		Breed:        BreedCitizen,
		Pos:          pos,
		Vision:       vision,
		Hardship:     hardship,
		RiskAversion: riskAversion,
		Grievance:    hardship * (1 - legitimacy),
		Condition:    Quiescent,
	}
}

// NewCop creates a cop.
func NewCop(id int, pos grid.Point, vision int) *Agent {
	return &Agent{
		ID:     id,
		Breed:  BreedCop,
		Pos:    pos,
		Vision: vision,
	}
}

// Jailed reports whether the agent is serving a jail term.
func (a *Agent) Jailed() bool {
	return a.JailTerm > 0
}
