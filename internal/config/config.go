// Package config holds the simulation parameters: defaults matching the
// canonical model, optional YAML overrides, and fail-fast validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Activation order policies for the scheduler.
const (
	OrderSequential   = "sequential"   // fixed creation order
	OrderRandom       = "random"       // reshuffled uniformly each tick
	OrderSimultaneous = "simultaneous" // immediate-commit, creation order (see DESIGN.md)
)

// Params configures one simulation run.
type Params struct {
	// Grid and population.
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	CitizenDensity float64 `yaml:"citizen_density"` // fraction of cells holding citizens
	CopDensity     float64 `yaml:"cop_density"`     // fraction of cells holding cops
	CitizenVision  int     `yaml:"citizen_vision"`  // Moore radius, cells
	CopVision      int     `yaml:"cop_vision"`

	// Decision rule.
	Legitimacy      float64 `yaml:"legitimacy"`       // shared regime legitimacy, [0,1]
	MaxJailTerm     int     `yaml:"max_jail_term"`    // arrest draws uniform [0, this]
	ActiveThreshold float64 `yaml:"active_threshold"` // rebel when net grievance exceeds this
	ArrestConstant  float64 `yaml:"arrest_constant"`  // k in 1 - exp(-k*floor(cops/actives))
	Movement        bool    `yaml:"movement"`

	// Run control.
	MaxIters   int    `yaml:"max_iters"`
	Activation string `yaml:"activation"` // OrderSequential, OrderRandom, OrderSimultaneous
	Seed       int64  `yaml:"seed"`

	// Influence network.
	NetworkMode     bool    `yaml:"network_mode"`      // fuse network ties into the arrest estimate
	LatticeDegree   int     `yaml:"lattice_degree"`    // ring-lattice nearest neighbors
	RewireProb      float64 `yaml:"rewire_prob"`       // small-world rewiring probability
	StrongWeakRatio float64 `yaml:"strong_weak_ratio"` // weight of a strong tie vs a weak tie
	CensorDuration  int     `yaml:"censor_duration"`   // ticks an edge stays censored
	CensorProb      float64 `yaml:"censor_prob"`       // per-candidate censoring probability

	// Spatially correlated hardship instead of uniform draws.
	HardshipField bool `yaml:"hardship_field"`
}

// Default returns the canonical parameter set.
func Default() Params {
	return Params{
		Width:           40,
		Height:          40,
		CitizenDensity:  0.7,
		CopDensity:      0.074,
		CitizenVision:   7,
		CopVision:       7,
		Legitimacy:      0.8,
		MaxJailTerm:     30,
		ActiveThreshold: 0.1,
		ArrestConstant:  2.3,
		Movement:        true,
		MaxIters:        1000,
		Activation:      OrderRandom,
		Seed:            42,
		NetworkMode:     true,
		LatticeDegree:   4,
		RewireProb:      0.5,
		StrongWeakRatio: 5,
		CensorDuration:  5,
		CensorProb:      0.10,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse config %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the parameter set. Construction refuses to start from
// an invalid one; nothing is validated again mid-run.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.CitizenDensity < 0 || p.CopDensity < 0 {
		return fmt.Errorf("densities must be non-negative")
	}
	if p.CitizenDensity+p.CopDensity >= 1 {
		return fmt.Errorf("cop density + citizen density must be below 1, got %.3f", p.CitizenDensity+p.CopDensity)
	}
	if p.CitizenVision < 1 || p.CopVision < 1 {
		return fmt.Errorf("vision radii must be at least 1")
	}
	if p.Legitimacy < 0 || p.Legitimacy > 1 {
		return fmt.Errorf("legitimacy must be in [0,1], got %g", p.Legitimacy)
	}
	if p.MaxJailTerm < 0 {
		return fmt.Errorf("max jail term must be non-negative")
	}
	if p.ArrestConstant < 0 {
		return fmt.Errorf("arrest constant must be non-negative")
	}
	if p.MaxIters < 1 {
		return fmt.Errorf("max iterations must be at least 1")
	}
	switch p.Activation {
	case OrderSequential, OrderRandom, OrderSimultaneous:
	default:
		return fmt.Errorf("unknown activation order %q", p.Activation)
	}
	if p.NetworkMode {
		if p.LatticeDegree < 0 {
			return fmt.Errorf("lattice degree must be non-negative")
		}
		if p.RewireProb < 0 || p.RewireProb > 1 {
			return fmt.Errorf("rewire probability must be in [0,1], got %g", p.RewireProb)
		}
		if p.StrongWeakRatio < 0 {
			return fmt.Errorf("strong/weak ratio must be non-negative")
		}
		if p.CensorDuration < 0 {
			return fmt.Errorf("censor duration must be non-negative")
		}
		if p.CensorProb < 0 || p.CensorProb > 1 {
			return fmt.Errorf("censor probability must be in [0,1], got %g", p.CensorProb)
		}
	}
	return nil
}
