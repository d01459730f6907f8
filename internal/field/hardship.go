// Package field generates spatially correlated hardship using layered
// simplex noise. With the field enabled, neighboring cells hand out
// similar hardship instead of independent uniform draws, so grievance
// clusters geographically.
package field

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Hardship samples a noise field over grid coordinates, normalized to [0,1].
type Hardship struct {
	noise opensimplex.Noise
}

// NewHardship creates a hardship field for the given seed.
func NewHardship(seed int64) *Hardship {
	return &Hardship{noise: opensimplex.NewNormalized(seed)}
}

// At returns the hardship value for a cell.
func (h *Hardship) At(x, y int) float64 {
	return octaveNoise(h.noise, float64(x), float64(y), 4, 0.08, 0.5)
}

// octaveNoise layers multiple noise frequencies for natural-looking
// variation, renormalized back to [0,1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	freq := frequency

	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}

	return total / maxValue
}
