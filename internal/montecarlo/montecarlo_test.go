package montecarlo

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/talgya/colonysim/internal/engine"
	"github.com/talgya/colonysim/internal/entropy"
	"github.com/talgya/colonysim/internal/params"
)

func mustParams(t *testing.T, overrides map[string]any) params.Set {
	t.Helper()
	p, err := params.New(overrides)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	return p
}

func checkOrdered(t *testing.T, label string, b Band) {
	t.Helper()
	if b.Lower > b.Mean || b.Mean > b.Upper {
		t.Errorf("%s: band out of order: %+v", label, b)
	}
}

func TestBandsOrdered(t *testing.T) {
	p := mustParams(t, map[string]any{
		"numberOfSimulations":      60,
		"simulationLength":         18,
		"monthlySterilizationRate": 2,
		"variationCoefficient":     0.3,
	})
	res, err := Run(context.Background(), p, Options{Seed: 7})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Trials != 60 || len(res.Months) != 18 {
		t.Fatalf("trials/months = %d/%d, want 60/18", res.Trials, len(res.Months))
	}
	for m := range res.Months {
		checkOrdered(t, "total", res.TotalPopulation[m])
		checkOrdered(t, "sterilized", res.SterilizedPopulation[m])
		checkOrdered(t, "unsterilized", res.UnsterilizedPopulation[m])
	}
	for _, name := range Metrics {
		b, ok := res.Summary[name]
		if !ok {
			t.Errorf("summary missing %q", name)
			continue
		}
		checkOrdered(t, name, b)
	}
}

func TestSingleTrialMatchesSingleRun(t *testing.T) {
	p := mustParams(t, map[string]any{"numberOfSimulations": 1, "simulationLength": 10})
	res, err := Run(context.Background(), p, Options{Seed: 99})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for name, b := range res.Summary {
		if b.Width() != 0 {
			t.Errorf("%s: single trial band should have zero width, got %+v", name, b)
		}
	}
	for m, b := range res.TotalPopulation {
		if b.Lower != b.Mean || b.Upper != b.Mean {
			t.Errorf("month %d: single trial band should collapse, got %+v", m+1, b)
		}
	}

	single, err := engine.RunSingle(p, engine.Options{Seed: TrialSeed(99, 0)})
	if err != nil {
		t.Fatalf("RunSingle: %v", err)
	}
	if got := res.Metric("finalPopulation").Mean; got != single.Summary.FinalPopulation {
		t.Errorf("finalPopulation = %v, want single run's %v", got, single.Summary.FinalPopulation)
	}
}

func TestResultIndependentOfWorkers(t *testing.T) {
	p := mustParams(t, map[string]any{
		"numberOfSimulations":  40,
		"simulationLength":     12,
		"variationCoefficient": 0.2,
		"resourceVariability":  0.2,
	})

	one, err := Run(context.Background(), p, Options{Seed: 1234, Workers: 1})
	if err != nil {
		t.Fatalf("Run(1 worker): %v", err)
	}
	many, err := Run(context.Background(), p, Options{Seed: 1234, Workers: 8})
	if err != nil {
		t.Fatalf("Run(8 workers): %v", err)
	}
	if !reflect.DeepEqual(one, many) {
		t.Error("results differ between 1 and 8 workers for the same seed")
	}
}

func TestUnseededBatchRecordsSeed(t *testing.T) {
	p := mustParams(t, map[string]any{"numberOfSimulations": 5})
	a, err := Run(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.Seed == 0 {
		t.Fatal("expected a non-zero recorded seed")
	}
	b, err := Run(context.Background(), p, Options{Seed: a.Seed})
	if err != nil {
		t.Fatalf("Run(replay): %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("replaying the recorded seed should reproduce the batch")
	}
}

func TestCancelledContextReturnsNoResult(t *testing.T) {
	p := mustParams(t, map[string]any{"numberOfSimulations": 200})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, p, Options{Seed: 5, Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Error("cancelled batch should not return a partial result")
	}
}

func TestInvalidParamsRejected(t *testing.T) {
	p := params.Defaults()
	p.NumberOfSimulations = 0
	if _, err := Run(context.Background(), p, Options{Seed: 1}); !errors.Is(err, params.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBatchMeansConverge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping convergence check in short mode")
	}

	batchMeans := func(trials int) []float64 {
		p := mustParams(t, map[string]any{
			"numberOfSimulations":  trials,
			"simulationLength":     12,
			"variationCoefficient": 0.1,
		})
		means := make([]float64, 0, 8)
		for seed := int64(1); seed <= 8; seed++ {
			res, err := Run(context.Background(), p, Options{Seed: seed})
			if err != nil {
				t.Fatalf("Run(%d trials, seed %d): %v", trials, seed, err)
			}
			means = append(means, res.Metric("finalPopulation").Mean)
		}
		return means
	}

	small := batchMeans(25)
	large := batchMeans(400)

	var sum float64
	for _, m := range large {
		sum += m
	}
	avg := sum / float64(len(large))
	if avg <= 0 {
		t.Fatalf("mean final population %v, expected a growing colony", avg)
	}
	if spread := StdDev(large) / avg; spread > 0.05 {
		t.Errorf("batch means spread %.3f of the mean, want below 0.05: %v", spread, large)
	}
	if StdDev(large) >= StdDev(small) {
		t.Errorf("spread of batch means did not shrink: %v at 25 trials, %v at 400",
			StdDev(small), StdDev(large))
	}
}

func TestPerturbStaysInRange(t *testing.T) {
	base := params.Defaults()
	rng := entropy.NewRand(42)
	for i := 0; i < 500; i++ {
		p, err := Perturb(base, 1, rng)
		if err != nil {
			t.Fatalf("Perturb: %v", err)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("perturbed set invalid: %v", err)
		}
		if p.TerritorySize != base.TerritorySize || p.InitialColonySize != base.InitialColonySize {
			t.Fatal("Perturb touched a parameter outside the uncertain rates")
		}
	}
}

func TestPerturbZeroVariation(t *testing.T) {
	base := params.Defaults()
	p, err := Perturb(base, 0, entropy.NewRand(3))
	if err != nil {
		t.Fatalf("Perturb: %v", err)
	}
	if p != base {
		t.Error("zero variation should leave the parameters unchanged")
	}
}

func TestPerturbDeterministic(t *testing.T) {
	base := params.Defaults()
	a, _ := Perturb(base, 0.2, entropy.NewRand(11))
	b, _ := Perturb(base, 0.2, entropy.NewRand(11))
	if a != b {
		t.Error("same generator seed should perturb identically")
	}
	if a == base {
		t.Error("non-zero variation should move at least one rate")
	}
}

func TestBandOf(t *testing.T) {
	b := bandOf([]float64{5, 1, 4, 2, 3, 6, 8, 7, 10, 9}, 10, 90)
	if math.Abs(b.Mean-5.5) > 1e-12 {
		t.Errorf("mean = %v, want 5.5", b.Mean)
	}
	if b.Lower != 1 || b.Upper != 9 {
		t.Errorf("band = [%v, %v], want [1, 9]", b.Lower, b.Upper)
	}

	// A heavy outlier drags the mean above the upper percentile; the band
	// widens to keep it inside.
	skewed := bandOf([]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1000}, 10, 90)
	if skewed.Upper < skewed.Mean {
		t.Errorf("skewed band %+v does not contain its mean", skewed)
	}

	same := bandOf([]float64{0.1, 0.1, 0.1}, 10, 90)
	if same.Width() != 0 || same.Mean != 0.1 {
		t.Errorf("identical values should give a zero-width band at the value, got %+v", same)
	}
}
