package engine

import "github.com/talgya/unrest/internal/agents"

// Aggregate is the per-tick model-level snapshot handed to reporting
// layers.
type Aggregate struct {
	Iteration int `json:"iteration"`
	Stats
}

// Aggregate returns the snapshot for the current tick.
func (m *Model) Aggregate() Aggregate {
	return Aggregate{Iteration: m.Iteration, Stats: m.Stats}
}

// AgentRow is one agent's per-tick snapshot. Condition and arrest
// probability are citizen fields; a cop row carries the breed tag and
// position only.
type AgentRow struct {
	ID                int     `json:"id"`
	X                 int     `json:"x"`
	Y                 int     `json:"y"`
	Breed             string  `json:"breed"`
	JailTerm          int     `json:"jail_term"`
	Condition         string  `json:"condition,omitempty"`
	ArrestProbability float64 `json:"arrest_probability"`
}

// AgentRows produces one row per agent from live state, in creation
// order. Rows are built on demand; replaying a run requires the same
// seed, not stored rows.
func (m *Model) AgentRows() []AgentRow {
	rows := make([]AgentRow, 0, len(m.Agents))
	for _, a := range m.Agents {
		row := AgentRow{
			ID:       a.ID,
			X:        a.Pos.X,
			Y:        a.Pos.Y,
			Breed:    a.Breed.String(),
			JailTerm: a.JailTerm,
		}
		if a.Breed == agents.BreedCitizen {
			row.Condition = a.Condition.String()
			row.ArrestProbability = a.ArrestProbability
		}
		rows = append(rows, row)
	}
	return rows
}
