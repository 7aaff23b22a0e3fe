// Single-run simulation: drives Step across the horizon and summarizes it.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/colonysim/internal/entropy"
	"github.com/talgya/colonysim/internal/environment"
	"github.com/talgya/colonysim/internal/params"
)

// envStream is the Derive stream reserved for the environment drift field,
// kept apart from the jitter generator so enabling drift does not shift the
// jitter sequence.
const envStream = 1 << 32

// Options controls a single run.
type Options struct {
	Seed int64 // Random seed (0 = random)
}

// RunResult is one finished trial. It is not modified after RunSingle
// returns.
type RunResult struct {
	Seed    int64           `json:"seed"`
	Initial ColonyState     `json:"initial"`
	Records []MonthlyRecord `json:"records"`
	Summary Summary         `json:"summary"`
}

// Summary is the run-level roll-up of the monthly records.
type Summary struct {
	InitialPopulation   float64 `json:"initialPopulation"`
	FinalPopulation     float64 `json:"finalPopulation"`
	FinalSterilized     float64 `json:"finalSterilized"`
	FinalUnsterilized   float64 `json:"finalUnsterilized"`
	PeakPopulation      float64 `json:"peakPopulation"`
	PopulationChange    float64 `json:"populationChange"`
	SterilizationRate   float64 `json:"sterilizationRate"`
	TotalBirths         float64 `json:"totalBirths"`
	TotalAbandoned      float64 `json:"totalAbandoned"`
	TotalSterilizations float64 `json:"totalSterilizations"`
	FoodCost            float64 `json:"foodCost"`
	SterilizationCost   float64 `json:"sterilizationCost"`
	TotalCost           float64 `json:"totalCost"`
	Deaths              Deaths  `json:"deaths"`
	TotalDeaths         float64 `json:"totalDeaths"`
	MortalityRate       float64 `json:"mortalityRate"`
}

// RunSingle projects one colony trajectory for p.SimulationLength months.
// The parameters are validated first; an invalid Set returns a
// params.ValidationError and nothing is simulated.
func RunSingle(p params.Set, opts Options) (*RunResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := entropy.Resolve(opts.Seed)
	rng := entropy.NewRand(seed)
	env := environment.NewField(entropy.Derive(seed, envStream), p.ResourceVariability)

	initial := InitialState(p.InitialColonySize, p.AlreadySterilized)
	state := initial
	records := make([]MonthlyRecord, 0, p.SimulationLength)

	for month := 1; month <= p.SimulationLength; month++ {
		next, rec, err := Step(state, month, p, env, rng)
		if err != nil {
			return nil, fmt.Errorf("run seed %d: %w", seed, err)
		}
		records = append(records, rec)
		state = next
	}

	res := &RunResult{
		Seed:    seed,
		Initial: initial,
		Records: records,
		Summary: summarize(initial, state, records),
	}

	slog.Debug("run complete",
		"seed", seed,
		"months", len(records),
		"final_population", res.Summary.FinalPopulation,
		"total_deaths", res.Summary.TotalDeaths,
		"total_cost", res.Summary.TotalCost,
	)
	return res, nil
}

// summarize rolls the records up. Deaths are summed from the records once,
// so the per-cause totals always equal the monthly values.
func summarize(initial, final ColonyState, records []MonthlyRecord) Summary {
	s := Summary{
		InitialPopulation: initial.Total(),
		FinalPopulation:   final.Total(),
		FinalSterilized:   final.Sterilized,
		FinalUnsterilized: final.Unsterilized,
		PeakPopulation:    initial.Total(),
	}

	for _, r := range records {
		s.TotalBirths += r.Births
		s.TotalAbandoned += r.Abandoned
		s.TotalSterilizations += r.Sterilizations
		s.FoodCost += r.FoodCost
		s.SterilizationCost += r.SterilizationCost
		s.Deaths = s.Deaths.Add(r.Deaths)
		if r.Total > s.PeakPopulation {
			s.PeakPopulation = r.Total
		}
	}

	s.TotalCost = s.FoodCost + s.SterilizationCost
	s.TotalDeaths = s.Deaths.Total()
	s.PopulationChange = s.FinalPopulation - s.InitialPopulation
	if s.FinalPopulation > 0 {
		s.SterilizationRate = s.FinalSterilized / s.FinalPopulation
	}
	if exposed := s.InitialPopulation + s.TotalBirths + s.TotalAbandoned; exposed > 0 {
		s.MortalityRate = s.TotalDeaths / exposed
	}
	return s
}
