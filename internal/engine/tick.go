// Package engine advances a colony month by month and summarizes whole runs.
package engine

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/talgya/colonysim/internal/biology"
	"github.com/talgya/colonysim/internal/entropy"
	"github.com/talgya/colonysim/internal/environment"
	"github.com/talgya/colonysim/internal/params"
)

// Step advances the colony by one month. month is 1-based. The result
// depends only on its arguments: the same state, month, parameters, drift
// field and generator position always produce the same next state.
//
// Order within the month: seasonal and resource factors, capacity and
// density, mortality, births, sterilization, abandonment, cost.
func Step(state ColonyState, month int, p params.Set, env *environment.Field, rng *rand.Rand) (ColonyState, MonthlyRecord, error) {
	j := drawJitter(rng)

	calendar := environment.CalendarMonth(p.StartMonth, month)
	seasonal := SeasonalFactor(calendar, p.PeakBreedingMonth, p.SeasonalAmplitude)
	resource := ResourceFactor(ResourceScore(p) * env.Multiplier(month))
	capacity := CarryingCapacity(p.TerritorySize, p.DensityThreshold)
	impact := DensityImpact(state.Total(), capacity)

	rates := monthlyMortality(p, j, impact, resource)
	deaths := countDeaths(state.Total(), rates)
	next := removeDeaths(state, deaths.Total())

	born := births(next.Unsterilized, p, seasonal, resource, impact, j.births)
	next.Unsterilized += born

	next, sterilized := sterilize(next, p.MonthlySterilizationRate)
	next, abandoned := abandon(next, p.MonthlyAbandonment)

	food := FoodCost(next.Total(), p)
	vet := SterilizationCost(sterilized, p)

	rec := MonthlyRecord{
		Month:             month,
		CalendarMonth:     calendar,
		Season:            environment.SeasonName(environment.SeasonOf(calendar)),
		Total:             next.Total(),
		Sterilized:        next.Sterilized,
		Unsterilized:      next.Unsterilized,
		Births:            born,
		Deaths:            deaths,
		Sterilizations:    sterilized,
		Abandoned:         abandoned,
		FoodCost:          food,
		SterilizationCost: vet,
		Cost:              food + vet,
		SeasonalFactor:    seasonal,
		ResourceFactor:    resource,
		Capacity:          capacity,
		DensityImpact:     impact,
	}

	if err := checkFinite(rec); err != nil {
		return state, MonthlyRecord{}, err
	}

	slog.Debug("month stepped",
		"month", month,
		"season", rec.Season,
		"total", rec.Total,
		"births", born,
		"deaths", deaths.Total(),
		"sterilized", sterilized,
		"impact", impact,
	)
	return next, rec, nil
}

func drawJitter(rng *rand.Rand) jitter {
	u := func() float64 { return entropy.Uniform(rng, biology.JitterMin, biology.JitterMax) }
	return jitter{
		kitten:  u(),
		adult:   u(),
		natural: u(),
		urban:   u(),
		disease: u(),
		births:  u(),
	}
}

func checkFinite(rec MonthlyRecord) error {
	values := []struct {
		name string
		v    float64
	}{
		{"seasonalFactor", rec.SeasonalFactor},
		{"resourceFactor", rec.ResourceFactor},
		{"capacity", rec.Capacity},
		{"densityImpact", rec.DensityImpact},
		{"births", rec.Births},
		{"deaths", rec.Deaths.Total()},
		{"unsterilized", rec.Unsterilized},
		{"sterilized", rec.Sterilized},
		{"cost", rec.Cost},
	}
	for _, q := range values {
		if math.IsNaN(q.v) || math.IsInf(q.v, 0) {
			return &StepError{Month: rec.Month, Quantity: q.name, Value: q.v, Wrapped: ErrNumericDegeneracy}
		}
	}
	return nil
}
