package montecarlo

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/talgya/colonysim/internal/params"
)

// perturbed lists the rates that carry parameter uncertainty between trials.
var perturbed = []string{
	"breedingRate",
	"kittenSurvivalRate",
	"adultSurvivalRate",
	"annualSurvivalRate",
	"urbanRisk",
	"diseaseRisk",
	"naturalRisk",
}

// quantileEpsilon keeps inverse-CDF sampling away from the infinite tails.
const quantileEpsilon = 1e-9

// Perturb returns a copy of p with each uncertain rate scaled once by a
// factor drawn from N(1, cv), then clamped into the rate's valid range.
// Sampling is by inverse CDF on rng so the draw sequence is fixed by the
// trial seed.
func Perturb(p params.Set, cv float64, rng *rand.Rand) (params.Set, error) {
	if cv <= 0 {
		return p, nil
	}
	factor := distuv.Normal{Mu: 1, Sigma: cv}

	for _, name := range perturbed {
		u := rng.Float64()
		if u < quantileEpsilon {
			u = quantileEpsilon
		} else if u > 1-quantileEpsilon {
			u = 1 - quantileEpsilon
		}

		f, _ := params.Lookup(name)
		v, _ := p.Value(name)
		next, err := p.With(name, f.Clamp(v*factor.Quantile(u)))
		if err != nil {
			return p, fmt.Errorf("perturb %s: %w", name, err)
		}
		p = next
	}
	return p, nil
}
