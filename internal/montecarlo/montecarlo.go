// Package montecarlo runs many perturbed colony trials concurrently and
// reduces them to mean and percentile bands.
package montecarlo

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/colonysim/internal/engine"
	"github.com/talgya/colonysim/internal/entropy"
	"github.com/talgya/colonysim/internal/params"
)

// perturbStream is the Derive stream for a trial's perturbation generator.
const perturbStream = 1 << 33

// Options controls a batch.
type Options struct {
	Seed    int64 // Batch seed (0 = random)
	Workers int   // Concurrent trials (0 = GOMAXPROCS)
}

// Result is the aggregate of a finished batch. Series are index-aligned with
// Months.
type Result struct {
	Seed            int64   `json:"seed"`
	Trials          int     `json:"trials"`
	LowerPercentile float64 `json:"lowerPercentile"`
	UpperPercentile float64 `json:"upperPercentile"`

	Months                 []int  `json:"months"`
	TotalPopulation        []Band `json:"totalPopulation"`
	SterilizedPopulation   []Band `json:"sterilizedPopulation"`
	UnsterilizedPopulation []Band `json:"unsterilizedPopulation"`

	// Summary holds one band per metric named in Metrics.
	Summary map[string]Band `json:"summary"`
}

// Metric returns the band for a summary metric.
func (r *Result) Metric(name string) Band {
	return r.Summary[name]
}

// Metrics lists the summary metrics aggregated for every batch, in report
// order.
var Metrics = []string{
	"finalPopulation",
	"populationChange",
	"sterilizationRate",
	"peakPopulation",
	"totalBirths",
	"totalSterilizations",
	"totalCost",
	"foodCost",
	"sterilizationCost",
	"totalDeaths",
	"kittenDeaths",
	"adultDeaths",
	"naturalDeaths",
	"urbanDeaths",
	"diseaseDeaths",
	"densityDeaths",
	"mortalityRate",
}

func metricValue(s engine.Summary, name string) float64 {
	switch name {
	case "finalPopulation":
		return s.FinalPopulation
	case "populationChange":
		return s.PopulationChange
	case "sterilizationRate":
		return s.SterilizationRate
	case "peakPopulation":
		return s.PeakPopulation
	case "totalBirths":
		return s.TotalBirths
	case "totalSterilizations":
		return s.TotalSterilizations
	case "totalCost":
		return s.TotalCost
	case "foodCost":
		return s.FoodCost
	case "sterilizationCost":
		return s.SterilizationCost
	case "totalDeaths":
		return s.TotalDeaths
	case "kittenDeaths":
		return s.Deaths.Kitten
	case "adultDeaths":
		return s.Deaths.Adult
	case "naturalDeaths":
		return s.Deaths.Natural
	case "urbanDeaths":
		return s.Deaths.Urban
	case "diseaseDeaths":
		return s.Deaths.Disease
	case "densityDeaths":
		return s.Deaths.Density
	case "mortalityRate":
		return s.MortalityRate
	}
	return 0
}

// Run executes p.NumberOfSimulations trials and aggregates them. Each trial
// gets its own seed derived from the batch seed, so a fixed batch seed
// reproduces the same result for any worker count.
//
// A trial error or a cancelled ctx aborts the batch; no partial result is
// returned.
func Run(ctx context.Context, p params.Set, opts Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := entropy.Resolve(opts.Seed)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := p.NumberOfSimulations
	start := time.Now()

	runs := make([]*engine.RunResult, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := runTrial(p, seed, i, n)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			runs[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := aggregate(runs, p, seed)

	slog.Info("monte carlo batch complete",
		"seed", seed,
		"trials", n,
		"workers", workers,
		"months", p.SimulationLength,
		"final_population_mean", res.Metric("finalPopulation").Mean,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// runTrial perturbs p and runs one trajectory. A batch of one is left
// unperturbed so it matches a plain single run with the same trial seed.
func runTrial(p params.Set, batchSeed int64, i, n int) (*engine.RunResult, error) {
	trialSeed := TrialSeed(batchSeed, i)

	if n > 1 {
		var err error
		rng := entropy.NewRand(entropy.Derive(trialSeed, perturbStream))
		p, err = Perturb(p, p.VariationCoefficient, rng)
		if err != nil {
			return nil, err
		}
	}
	return engine.RunSingle(p, engine.Options{Seed: trialSeed})
}

// TrialSeed returns the engine seed used for trial i of a batch.
func TrialSeed(batchSeed int64, i int) int64 {
	return entropy.Derive(batchSeed, uint64(i))
}

// aggregate reduces runs in trial order so the result does not depend on
// completion order.
func aggregate(runs []*engine.RunResult, p params.Set, seed int64) *Result {
	lo, hi := p.LowerPercentile, p.UpperPercentile
	months := p.SimulationLength

	res := &Result{
		Seed:                   seed,
		Trials:                 len(runs),
		LowerPercentile:        lo,
		UpperPercentile:        hi,
		Months:                 make([]int, months),
		TotalPopulation:        make([]Band, months),
		SterilizedPopulation:   make([]Band, months),
		UnsterilizedPopulation: make([]Band, months),
		Summary:                make(map[string]Band, len(Metrics)),
	}

	total := make([]float64, len(runs))
	sterilized := make([]float64, len(runs))
	unsterilized := make([]float64, len(runs))
	for m := 0; m < months; m++ {
		for i, r := range runs {
			rec := r.Records[m]
			total[i] = rec.Total
			sterilized[i] = rec.Sterilized
			unsterilized[i] = rec.Unsterilized
		}
		res.Months[m] = m + 1
		res.TotalPopulation[m] = bandOf(total, lo, hi)
		res.SterilizedPopulation[m] = bandOf(sterilized, lo, hi)
		res.UnsterilizedPopulation[m] = bandOf(unsterilized, lo, hi)
	}

	values := make([]float64, len(runs))
	for _, name := range Metrics {
		for i, r := range runs {
			values[i] = metricValue(r.Summary, name)
		}
		res.Summary[name] = bandOf(values, lo, hi)
	}
	return res
}
