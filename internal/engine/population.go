// Population dynamics: monthly mortality by cause and births.
package engine

import (
	"math"

	"github.com/talgya/colonysim/internal/biology"
	"github.com/talgya/colonysim/internal/params"
)

// jitter holds the per-month multiplicative noise, one draw per stochastic
// term. All draws happen every month whatever the colony state, so two runs
// with the same seed see the same noise even when their populations diverge.
type jitter struct {
	kitten, adult, natural, urban, disease, births float64
}

// mortalityRates are per-capita monthly death rates.
type mortalityRates struct {
	kitten, adult, natural, urban, disease, density float64
}

func monthlyMortality(p params.Set, j jitter, impact, resourceFactor float64) mortalityRates {
	return mortalityRates{
		kitten:  (1 - p.KittenSurvivalRate) / biology.MonthsPerYear * j.kitten,
		adult:   (1 - p.AdultSurvivalRate) / biology.MonthsPerYear * j.adult,
		natural: p.NaturalRisk * (1 - p.AnnualSurvivalRate) / biology.MonthsPerYear * j.natural,
		urban:   p.UrbanRisk / biology.MonthsPerYear * j.urban,
		disease: p.DiseaseRisk / biology.MonthsPerYear * j.disease,
		density: DensityMortality(impact, resourceFactor),
	}
}

// countDeaths turns rates into whole-cat deaths per cause. Kitten and adult
// baselines apply to their heuristic share of the colony; the other causes
// apply to everyone. The total never exceeds the whole cats present.
func countDeaths(total float64, r mortalityRates) Deaths {
	kittens := total * biology.KittenRatioHeuristic
	adults := total - kittens

	d := Deaths{
		Kitten:  floorCount(r.kitten * kittens),
		Adult:   floorCount(r.adult * adults),
		Natural: floorCount(r.natural * total),
		Urban:   floorCount(r.urban * total),
		Disease: floorCount(r.disease * total),
		Density: floorCount(r.density * total),
	}

	excess := d.Total() - math.Floor(total)
	if excess <= 0 {
		return d
	}
	// Trim the most situational causes first.
	for _, cause := range []*float64{&d.Density, &d.Disease, &d.Urban, &d.Natural, &d.Adult, &d.Kitten} {
		cut := math.Min(excess, *cause)
		*cause -= cut
		excess -= cut
		if excess <= 0 {
			break
		}
	}
	return d
}

// removeDeaths subtracts deaths from both sub-populations in proportion to
// their share of the colony.
func removeDeaths(s ColonyState, deaths float64) ColonyState {
	total := s.Total()
	if total <= 0 || deaths <= 0 {
		return s
	}
	share := s.Unsterilized / total
	s.Unsterilized = math.Max(0, s.Unsterilized-deaths*share)
	s.Sterilized = math.Max(0, s.Sterilized-deaths*(1-share))
	return s
}

// births returns kittens born this month. Only unsterilized cats breed, and
// crowding suppresses births entirely at full density impact.
func births(unsterilized float64, p params.Set, seasonal, resource, impact, j float64) float64 {
	monthlyBreedingProb := p.LittersPerYear / biology.MonthsPerYear * p.BreedingRate
	b := unsterilized * p.FemaleRatio * monthlyBreedingProb * p.KittensPerLitter *
		seasonal * resource * (1 - impact) * j
	return math.Max(0, b)
}

func floorCount(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Floor(v)
}
