// Package environment models conditions outside the colony's control:
// calendar seasons and slow drift in resource availability.
package environment

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// driftFrequency sets how quickly resource drift wanders between months.
// At 0.35 the noise decorrelates over roughly a season.
const driftFrequency = 0.35

// Field supplies a smooth drift value in [-1, 1] for each simulated month.
// A nil Field, or one built with zero variability, is flat.
type Field struct {
	noise       opensimplex.Noise
	variability float64
}

// NewField builds a drift field seeded from seed. Variability is the
// fractional swing applied to the raw resource score; zero disables drift.
func NewField(seed int64, variability float64) *Field {
	if variability <= 0 {
		return &Field{}
	}
	return &Field{
		noise:       opensimplex.New(seed),
		variability: variability,
	}
}

// Drift returns the raw noise in [-1, 1] for a month.
func (f *Field) Drift(month int) float64 {
	if f == nil || f.noise == nil {
		return 0
	}
	v := f.noise.Eval2(float64(month)*driftFrequency, 0)
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Multiplier returns the factor applied to the raw resource score for a
// month: 1 + variability·drift.
func (f *Field) Multiplier(month int) float64 {
	if f == nil {
		return 1
	}
	return 1 + f.variability*f.Drift(month)
}
