// Package engine wires the grid, influence network, and agent
// population into a tick-based civil-violence simulation.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/unrest/internal/agents"
	"github.com/talgya/unrest/internal/config"
	"github.com/talgya/unrest/internal/field"
	"github.com/talgya/unrest/internal/grid"
	"github.com/talgya/unrest/internal/network"
)

// Model holds the complete simulation state. All randomness flows
// through the single Rng, so one seed reproduces one trajectory.
type Model struct {
	Params config.Params

	Grid   *grid.Grid
	Net    *network.Network // nil when network mode is off
	Agents []*agents.Agent  // creation order
	Index  map[int]*agents.Agent

	Rng     *rand.Rand
	Pending *network.Pending

	Iteration int
	Running   bool

	Stats Stats
}

// New constructs a model from validated parameters: agents scattered by
// density over the grid, the small-world network over citizen IDs, one
// seeded random stream. Construction either succeeds completely or
// returns an error with no partial state.
func New(p config.Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("construct model: %w", err)
	}

	m := &Model{
		Params:  p,
		Grid:    grid.New(p.Width, p.Height),
		Index:   make(map[int]*agents.Agent),
		Rng:     rand.New(rand.NewSource(p.Seed)),
		Pending: network.NewPending(),
		Running: true,
	}

	var hardship *field.Hardship
	if p.HardshipField {
		hardship = field.NewHardship(p.Seed)
	}

	// One pass over the cells: cop with probability CopDensity,
	// otherwise citizen with probability CopDensity+CitizenDensity on a
	// second draw.
	var citizenIDs []int
	id := 0
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			pos := grid.Point{X: x, Y: y}
			switch {
			case m.Rng.Float64() < p.CopDensity:
				m.add(agents.NewCop(id, pos, p.CopVision))
				id++
			case m.Rng.Float64() < p.CopDensity+p.CitizenDensity:
				h := m.Rng.Float64()
				if hardship != nil {
					h = hardship.At(x, y)
				}
				risk := m.Rng.Float64()
				m.add(agents.NewCitizen(id, pos, h, p.Legitimacy, risk, p.CitizenVision))
				citizenIDs = append(citizenIDs, id)
				id++
			}
		}
	}

	if p.NetworkMode {
		net, err := network.NewSmallWorld(citizenIDs, p.LatticeDegree, p.RewireProb, m.Rng)
		if err != nil {
			return nil, fmt.Errorf("construct model: %w", err)
		}
		m.Net = net
	}

	// The reference collects one data point before the first step.
	m.updateStats(0, 0)

	slog.Debug("model constructed",
		"citizens", m.Stats.Citizens,
		"cops", m.Stats.Cops,
		"edges", m.edgeCount(),
		"seed", p.Seed,
	)
	return m, nil
}

func (m *Model) add(a *agents.Agent) {
	// Placement onto an occupied cell cannot happen here: each cell is
	// visited once.
	if err := m.Grid.Place(a.ID, a.Pos); err != nil {
		panic(err)
	}
	m.Agents = append(m.Agents, a)
	m.Index[a.ID] = a
}

func (m *Model) edgeCount() int {
	if m.Net == nil {
		return 0
	}
	return m.Net.EdgeCount()
}

// Step advances the simulation one tick: censor decay, one activation
// per agent in scheduler order, pending-censorship resolution, metrics.
func (m *Model) Step() error {
	if m.Net != nil {
		m.Net.TickDecay()
	}

	env := &agents.Env{
		Grid:            m.Grid,
		Net:             m.Net,
		Pending:         m.Pending,
		Index:           m.Index,
		Rng:             m.Rng,
		Movement:        m.Params.Movement,
		NetworkMode:     m.Params.NetworkMode,
		ArrestConstant:  m.Params.ArrestConstant,
		ActiveThreshold: m.Params.ActiveThreshold,
		MaxJailTerm:     m.Params.MaxJailTerm,
		StrongWeakRatio: m.Params.StrongWeakRatio,
	}
	for _, a := range m.order() {
		if err := agents.Step(a, env); err != nil {
			return fmt.Errorf("tick %d: %w", m.Iteration, err)
		}
	}

	pending := m.Pending.Len()
	censored := 0
	if m.Net != nil {
		censored = m.Net.ResolvePending(m.Pending, m.Params.CensorDuration, m.Params.CensorProb, m.Rng)
	}
	m.Pending.Reset()

	m.updateStats(pending, censored)

	m.Iteration++
	if m.Iteration > m.Params.MaxIters {
		m.Running = false
	}
	return nil
}

// order returns this tick's activation sequence. Sequential uses
// creation order; random reshuffles a copy each tick from the shared
// stream; simultaneous commits immediately like sequential and differs
// from it in name only (see DESIGN.md).
func (m *Model) order() []*agents.Agent {
	if m.Params.Activation != config.OrderRandom {
		return m.Agents
	}
	shuffled := append([]*agents.Agent(nil), m.Agents...)
	m.Rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Run steps the model until the iteration ceiling trips.
func (m *Model) Run() error {
	for m.Running {
		if err := m.Step(); err != nil {
			return err
		}
		if m.Iteration%100 == 0 {
			slog.Debug("progress",
				"tick", m.Iteration,
				"active", m.Stats.Active,
				"jailed", m.Stats.Jailed,
				"censored_now", m.Stats.CensoredEdges,
			)
		}
	}
	return nil
}
