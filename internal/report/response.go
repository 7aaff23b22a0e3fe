// Package report shapes engine and Monte Carlo results into the outbound
// response contract and renders them for people.
package report

import (
	"math"

	"github.com/talgya/colonysim/internal/engine"
	"github.com/talgya/colonysim/internal/montecarlo"
	"github.com/talgya/colonysim/internal/params"
)

const (
	ModeSingle     = "single"
	ModeMonteCarlo = "montecarlo"
)

// Response is the caller-facing result. In Monte Carlo mode every scalar and
// series also carries its _lower and _upper band; in single mode those are
// omitted. Values are rounded here and nowhere earlier.
type Response struct {
	RunID  string `json:"runId,omitempty"`
	Mode   string `json:"mode"`
	Seed   int64  `json:"seed"`
	Trials int    `json:"trials,omitempty"`

	InitialPopulation float64 `json:"initialPopulation"`
	InitialSterilized float64 `json:"initialSterilized"`

	FinalPopulation      float64  `json:"finalPopulation"`
	FinalPopulationLower *float64 `json:"finalPopulation_lower,omitempty"`
	FinalPopulationUpper *float64 `json:"finalPopulation_upper,omitempty"`

	PopulationChange      float64  `json:"populationChange"`
	PopulationChangeLower *float64 `json:"populationChange_lower,omitempty"`
	PopulationChangeUpper *float64 `json:"populationChange_upper,omitempty"`

	SterilizationRate      float64  `json:"sterilizationRate"`
	SterilizationRateLower *float64 `json:"sterilizationRate_lower,omitempty"`
	SterilizationRateUpper *float64 `json:"sterilizationRate_upper,omitempty"`

	TotalCost      float64  `json:"totalCost"`
	TotalCostLower *float64 `json:"totalCost_lower,omitempty"`
	TotalCostUpper *float64 `json:"totalCost_upper,omitempty"`

	CostBreakdown CostBreakdown `json:"costBreakdown"`
	Mortality     Mortality     `json:"mortality"`

	Months                      []int     `json:"months"`
	TotalPopulation             []float64 `json:"totalPopulation"`
	TotalPopulationLower        []float64 `json:"totalPopulation_lower,omitempty"`
	TotalPopulationUpper        []float64 `json:"totalPopulation_upper,omitempty"`
	SterilizedPopulation        []float64 `json:"sterilizedPopulation"`
	SterilizedPopulationLower   []float64 `json:"sterilizedPopulation_lower,omitempty"`
	SterilizedPopulationUpper   []float64 `json:"sterilizedPopulation_upper,omitempty"`
	UnsterilizedPopulation      []float64 `json:"unsterilizedPopulation"`
	UnsterilizedPopulationLower []float64 `json:"unsterilizedPopulation_lower,omitempty"`
	UnsterilizedPopulationUpper []float64 `json:"unsterilizedPopulation_upper,omitempty"`

	// Records is the month-by-month audit trail of a single run.
	Records []engine.MonthlyRecord `json:"records,omitempty"`
}

type CostBreakdown struct {
	Food               float64  `json:"food"`
	FoodLower          *float64 `json:"food_lower,omitempty"`
	FoodUpper          *float64 `json:"food_upper,omitempty"`
	Sterilization      float64  `json:"sterilization"`
	SterilizationLower *float64 `json:"sterilization_lower,omitempty"`
	SterilizationUpper *float64 `json:"sterilization_upper,omitempty"`
}

type Mortality struct {
	TotalDeaths        float64  `json:"totalDeaths"`
	TotalDeathsLower   *float64 `json:"totalDeaths_lower,omitempty"`
	TotalDeathsUpper   *float64 `json:"totalDeaths_upper,omitempty"`
	KittenDeaths       float64  `json:"kittenDeaths"`
	KittenDeathsLower  *float64 `json:"kittenDeaths_lower,omitempty"`
	KittenDeathsUpper  *float64 `json:"kittenDeaths_upper,omitempty"`
	AdultDeaths        float64  `json:"adultDeaths"`
	AdultDeathsLower   *float64 `json:"adultDeaths_lower,omitempty"`
	AdultDeathsUpper   *float64 `json:"adultDeaths_upper,omitempty"`
	MortalityRate      float64  `json:"mortalityRate"`
	MortalityRateLower *float64 `json:"mortalityRate_lower,omitempty"`
	MortalityRateUpper *float64 `json:"mortalityRate_upper,omitempty"`
	NaturalDeaths      float64  `json:"naturalDeaths"`
	NaturalDeathsLower *float64 `json:"naturalDeaths_lower,omitempty"`
	NaturalDeathsUpper *float64 `json:"naturalDeaths_upper,omitempty"`
	UrbanDeaths        float64  `json:"urbanDeaths"`
	UrbanDeathsLower   *float64 `json:"urbanDeaths_lower,omitempty"`
	UrbanDeathsUpper   *float64 `json:"urbanDeaths_upper,omitempty"`
	DiseaseDeaths      float64  `json:"diseaseDeaths"`
	DiseaseDeathsLower *float64 `json:"diseaseDeaths_lower,omitempty"`
	DiseaseDeathsUpper *float64 `json:"diseaseDeaths_upper,omitempty"`
	DensityDeaths      float64  `json:"densityDeaths"`
	DensityDeathsLower *float64 `json:"densityDeaths_lower,omitempty"`
	DensityDeathsUpper *float64 `json:"densityDeaths_upper,omitempty"`
}

// FromSingle formats one run.
func FromSingle(r *engine.RunResult) *Response {
	s := r.Summary
	resp := &Response{
		Mode:              ModeSingle,
		Seed:              r.Seed,
		InitialPopulation: cats(s.InitialPopulation),
		InitialSterilized: cats(r.Initial.Sterilized),
		FinalPopulation:   cats(s.FinalPopulation),
		PopulationChange:  cats(s.FinalPopulation) - cats(s.InitialPopulation),
		SterilizationRate: ratio(s.SterilizationRate),
		TotalCost:         cents(s.TotalCost),
		CostBreakdown: CostBreakdown{
			Food:          cents(s.FoodCost),
			Sterilization: cents(s.SterilizationCost),
		},
		Mortality: Mortality{
			TotalDeaths:   cats(s.TotalDeaths),
			KittenDeaths:  cats(s.Deaths.Kitten),
			AdultDeaths:   cats(s.Deaths.Adult),
			MortalityRate: ratio(s.MortalityRate),
			NaturalDeaths: cats(s.Deaths.Natural),
			UrbanDeaths:   cats(s.Deaths.Urban),
			DiseaseDeaths: cats(s.Deaths.Disease),
			DensityDeaths: cats(s.Deaths.Density),
		},
		Records: r.Records,
	}

	n := len(r.Records)
	resp.Months = make([]int, n)
	resp.TotalPopulation = make([]float64, n)
	resp.SterilizedPopulation = make([]float64, n)
	resp.UnsterilizedPopulation = make([]float64, n)
	for i, rec := range r.Records {
		resp.Months[i] = rec.Month
		resp.TotalPopulation[i] = cats(rec.Total)
		resp.SterilizedPopulation[i] = cats(rec.Sterilized)
		resp.UnsterilizedPopulation[i] = cats(rec.Unsterilized)
	}
	return resp
}

// FromMonteCarlo formats an aggregated batch. Headline values are the
// trial means.
func FromMonteCarlo(r *montecarlo.Result, p params.Set) *Response {
	resp := &Response{
		Mode:              ModeMonteCarlo,
		Seed:              r.Seed,
		Trials:            r.Trials,
		InitialPopulation: cats(p.InitialColonySize),
		InitialSterilized: cats(p.AlreadySterilized),
		Months:            append([]int(nil), r.Months...),
	}

	resp.FinalPopulation, resp.FinalPopulationLower, resp.FinalPopulationUpper = banded(r, "finalPopulation", cats)
	resp.PopulationChange, resp.PopulationChangeLower, resp.PopulationChangeUpper = banded(r, "populationChange", cats)
	resp.SterilizationRate, resp.SterilizationRateLower, resp.SterilizationRateUpper = banded(r, "sterilizationRate", ratio)
	resp.TotalCost, resp.TotalCostLower, resp.TotalCostUpper = banded(r, "totalCost", cents)

	c := &resp.CostBreakdown
	c.Food, c.FoodLower, c.FoodUpper = banded(r, "foodCost", cents)
	c.Sterilization, c.SterilizationLower, c.SterilizationUpper = banded(r, "sterilizationCost", cents)

	m := &resp.Mortality
	m.TotalDeaths, m.TotalDeathsLower, m.TotalDeathsUpper = banded(r, "totalDeaths", cats)
	m.KittenDeaths, m.KittenDeathsLower, m.KittenDeathsUpper = banded(r, "kittenDeaths", cats)
	m.AdultDeaths, m.AdultDeathsLower, m.AdultDeathsUpper = banded(r, "adultDeaths", cats)
	m.MortalityRate, m.MortalityRateLower, m.MortalityRateUpper = banded(r, "mortalityRate", ratio)
	m.NaturalDeaths, m.NaturalDeathsLower, m.NaturalDeathsUpper = banded(r, "naturalDeaths", cats)
	m.UrbanDeaths, m.UrbanDeathsLower, m.UrbanDeathsUpper = banded(r, "urbanDeaths", cats)
	m.DiseaseDeaths, m.DiseaseDeathsLower, m.DiseaseDeathsUpper = banded(r, "diseaseDeaths", cats)
	m.DensityDeaths, m.DensityDeathsLower, m.DensityDeathsUpper = banded(r, "densityDeaths", cats)

	resp.TotalPopulation, resp.TotalPopulationLower, resp.TotalPopulationUpper = series(r.TotalPopulation)
	resp.SterilizedPopulation, resp.SterilizedPopulationLower, resp.SterilizedPopulationUpper = series(r.SterilizedPopulation)
	resp.UnsterilizedPopulation, resp.UnsterilizedPopulationLower, resp.UnsterilizedPopulationUpper = series(r.UnsterilizedPopulation)
	return resp
}

// IsMonteCarlo reports whether the response carries bands.
func (r *Response) IsMonteCarlo() bool {
	return r.Mode == ModeMonteCarlo
}

func banded(r *montecarlo.Result, metric string, round func(float64) float64) (float64, *float64, *float64) {
	b := r.Metric(metric)
	lo, hi := round(b.Lower), round(b.Upper)
	return round(b.Mean), &lo, &hi
}

func series(bands []montecarlo.Band) (mean, lower, upper []float64) {
	mean = make([]float64, len(bands))
	lower = make([]float64, len(bands))
	upper = make([]float64, len(bands))
	for i, b := range bands {
		mean[i] = cats(b.Mean)
		lower[i] = cats(b.Lower)
		upper[i] = cats(b.Upper)
	}
	return mean, lower, upper
}

// cats rounds to whole animals.
func cats(v float64) float64 { return math.Round(v) }

// cents rounds currency.
func cents(v float64) float64 { return math.Round(v*100) / 100 }

func ratio(v float64) float64 { return math.Round(v*10000) / 10000 }
