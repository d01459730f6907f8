// Per-tick agent behavior. The engine owns the shared structures and
// hands them in through Env; an activation mutates only the agent's own
// fields plus the explicitly shared ones (grid occupancy on movement,
// jail state on arrest, the pending-censorship accumulator).
package agents

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/talgya/unrest/internal/grid"
	"github.com/talgya/unrest/internal/network"
)

// Env is the slice of model state one activation may read, plus the
// shared parameters of the decision rule.
type Env struct {
	Grid    *grid.Grid
	Net     *network.Network
	Pending *network.Pending
	Index   map[int]*Agent // agent ID → agent
	Rng     *rand.Rand

	Movement        bool
	NetworkMode     bool
	ArrestConstant  float64
	ActiveThreshold float64
	MaxJailTerm     int
	StrongWeakRatio float64
}

// Step activates one agent, dispatching on breed.
func Step(a *Agent, env *Env) error {
	switch a.Breed {
	case BreedCop:
		return stepCop(a, env)
	default:
		return stepCitizen(a, env)
	}
}

// stepCitizen runs the citizen protocol: serve jail time, or estimate
// arrest risk, maybe rebel, maybe move. A citizen that is already
// Active exposes its live network ties to censorship whether or not it
// activated this tick.
func stepCitizen(a *Agent, env *Env) error {
	if a.JailTerm > 0 {
		a.JailTerm--
		return nil
	}

	hood := env.Grid.Neighborhood(a.Pos, a.Vision)

	var strong, weak []int
	if env.NetworkMode {
		strong, weak = env.Net.EgoView(a.ID)
	}

	a.ArrestProbability = estimateArrestProbability(a, env, hood, strong, weak)

	if env.NetworkMode && a.Condition == Active {
		for _, s := range strong {
			env.Pending.Add(network.Edge(a.ID, s))
		}
	}

	if a.Condition == Quiescent {
		if a.Grievance-a.RiskAversion*a.ArrestProbability > env.ActiveThreshold {
			a.Condition = Active
		}
	}

	return move(a, env, hood)
}

// estimateArrestProbability fuses spatial and network information into
// P(arrest | going active) = 1 - exp(-k * floor(cops / actives)).
// Actives start at 1 (the citizen counts itself), gain 1 per non-jailed
// Active spatial neighbor, and in network mode StrongWeakRatio per
// non-jailed Active strong tie and 1 per non-jailed Active weak tie.
// The floor applies to the cops/actives ratio, so fractional tie weight
// still shifts the result through the denominator.
func estimateArrestProbability(a *Agent, env *Env, hood []grid.Point, strong, weak []int) float64 {
	cops := 0
	actives := 1.0
	a.StrongTiesReceived = 0
	a.WeakTiesReceived = 0

	for _, id := range env.Grid.Occupants(hood) {
		n := env.Index[id]
		switch {
		case n.Breed == BreedCop:
			cops++
		case n.Condition == Active && n.JailTerm == 0:
			actives++
		}
	}

	for _, id := range strong {
		if t := env.Index[id]; t.Condition == Active && t.JailTerm == 0 {
			actives += env.StrongWeakRatio
			a.StrongTiesReceived++
		}
	}
	for _, id := range weak {
		if t := env.Index[id]; t.Condition == Active && t.JailTerm == 0 {
			actives++
			a.WeakTiesReceived++
		}
	}

	return 1 - math.Exp(-env.ArrestConstant*math.Floor(float64(cops)/actives))
}

// stepCop scans the cop's vision, arrests one non-jailed Active citizen
// if any are in sight, then moves. Arrest takes effect immediately:
// agents activated later this tick see the new jail state.
func stepCop(a *Agent, env *Env) error {
	hood := env.Grid.Neighborhood(a.Pos, a.Vision)

	var targets []*Agent
	for _, id := range env.Grid.Occupants(hood) {
		n := env.Index[id]
		if n.Breed == BreedCitizen && n.Condition == Active && n.JailTerm == 0 {
			targets = append(targets, n)
		}
	}
	if len(targets) > 0 {
		arrestee := targets[env.Rng.Intn(len(targets))]
		arrestee.JailTerm = env.Rng.Intn(env.MaxJailTerm + 1)
		arrestee.Condition = Quiescent
	}

	return move(a, env, hood)
}

// move relocates the agent to a uniformly chosen empty neighboring
// cell. No empty neighbor, or movement disabled, is a normal no-op.
func move(a *Agent, env *Env, hood []grid.Point) error {
	if !env.Movement {
		return nil
	}
	var empties []grid.Point
	for _, p := range hood {
		if env.Grid.IsEmpty(p) {
			empties = append(empties, p)
		}
	}
	if len(empties) == 0 {
		return nil
	}
	dst := empties[env.Rng.Intn(len(empties))]
	if err := env.Grid.Move(a.ID, a.Pos, dst); err != nil {
		return fmt.Errorf("agent %d: %w", a.ID, err)
	}
	a.Pos = dst
	return nil
}
