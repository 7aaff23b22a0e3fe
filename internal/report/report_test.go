package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/talgya/colonysim/internal/engine"
	"github.com/talgya/colonysim/internal/montecarlo"
	"github.com/talgya/colonysim/internal/params"
)

func singleRun(t *testing.T, overrides map[string]any) *engine.RunResult {
	t.Helper()
	p, err := params.New(overrides)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	res, err := engine.RunSingle(p, engine.Options{Seed: 21})
	if err != nil {
		t.Fatalf("RunSingle: %v", err)
	}
	return res
}

func batch(t *testing.T, overrides map[string]any) (*montecarlo.Result, params.Set) {
	t.Helper()
	p, err := params.New(overrides)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	res, err := montecarlo.Run(context.Background(), p, montecarlo.Options{Seed: 21})
	if err != nil {
		t.Fatalf("montecarlo.Run: %v", err)
	}
	return res, p
}

func TestFromSingleSeriesAligned(t *testing.T) {
	run := singleRun(t, map[string]any{"simulationLength": 9, "monthlySterilizationRate": 2})
	resp := FromSingle(run)

	if resp.Mode != ModeSingle || resp.IsMonteCarlo() {
		t.Errorf("mode = %q, want single", resp.Mode)
	}
	n := len(resp.Months)
	if n != 9 || len(resp.TotalPopulation) != n || len(resp.SterilizedPopulation) != n || len(resp.UnsterilizedPopulation) != n {
		t.Fatalf("series lengths differ: months %d total %d sterilized %d unsterilized %d",
			n, len(resp.TotalPopulation), len(resp.SterilizedPopulation), len(resp.UnsterilizedPopulation))
	}
	for i, m := range resp.Months {
		if m != i+1 {
			t.Errorf("Months[%d] = %d, want %d", i, m, i+1)
		}
	}
	if resp.FinalPopulationLower != nil || resp.TotalPopulationLower != nil {
		t.Error("single run should not carry bands")
	}
}

func TestFromSingleRounding(t *testing.T) {
	run := &engine.RunResult{
		Seed:    4,
		Initial: engine.ColonyState{Unsterilized: 10},
		Records: []engine.MonthlyRecord{{Month: 1, Total: 12.6, Sterilized: 1.2, Unsterilized: 11.4}},
		Summary: engine.Summary{
			InitialPopulation: 10,
			FinalPopulation:   12.6,
			SterilizationRate: 1.2 / 12.6,
			FoodCost:          10.005,
			SterilizationCost: 50,
			TotalCost:         60.005,
			Deaths:            engine.Deaths{Urban: 1},
			TotalDeaths:       1,
			MortalityRate:     1.0 / 14.0,
		},
	}
	resp := FromSingle(run)

	if resp.FinalPopulation != 13 {
		t.Errorf("FinalPopulation = %v, want 13", resp.FinalPopulation)
	}
	if resp.PopulationChange != 3 {
		t.Errorf("PopulationChange = %v, want 3", resp.PopulationChange)
	}
	if resp.TotalPopulation[0] != 13 || resp.SterilizedPopulation[0] != 1 || resp.UnsterilizedPopulation[0] != 11 {
		t.Errorf("series not rounded to whole cats: %v %v %v",
			resp.TotalPopulation, resp.SterilizedPopulation, resp.UnsterilizedPopulation)
	}
	if resp.CostBreakdown.Sterilization != 50 {
		t.Errorf("sterilization cost = %v, want 50", resp.CostBreakdown.Sterilization)
	}
	if resp.Mortality.UrbanDeaths != 1 || resp.Mortality.MortalityRate != 0.0714 {
		t.Errorf("mortality = %+v", resp.Mortality)
	}
	// Raw records are left untouched.
	if run.Records[0].Total != 12.6 {
		t.Error("formatting modified the run records")
	}
}

func TestFromMonteCarloBands(t *testing.T) {
	res, p := batch(t, map[string]any{"numberOfSimulations": 30, "simulationLength": 8, "variationCoefficient": 0.25})
	resp := FromMonteCarlo(res, p)

	if !resp.IsMonteCarlo() || resp.Trials != 30 {
		t.Fatalf("mode/trials = %q/%d", resp.Mode, resp.Trials)
	}
	scalars := []struct {
		name         string
		mean         float64
		lower, upper *float64
	}{
		{"finalPopulation", resp.FinalPopulation, resp.FinalPopulationLower, resp.FinalPopulationUpper},
		{"populationChange", resp.PopulationChange, resp.PopulationChangeLower, resp.PopulationChangeUpper},
		{"sterilizationRate", resp.SterilizationRate, resp.SterilizationRateLower, resp.SterilizationRateUpper},
		{"totalCost", resp.TotalCost, resp.TotalCostLower, resp.TotalCostUpper},
		{"food", resp.CostBreakdown.Food, resp.CostBreakdown.FoodLower, resp.CostBreakdown.FoodUpper},
		{"totalDeaths", resp.Mortality.TotalDeaths, resp.Mortality.TotalDeathsLower, resp.Mortality.TotalDeathsUpper},
		{"densityDeaths", resp.Mortality.DensityDeaths, resp.Mortality.DensityDeathsLower, resp.Mortality.DensityDeathsUpper},
	}
	for _, s := range scalars {
		if s.lower == nil || s.upper == nil {
			t.Errorf("%s: missing band", s.name)
			continue
		}
		if *s.lower > s.mean || s.mean > *s.upper {
			t.Errorf("%s: %v not within [%v, %v]", s.name, s.mean, *s.lower, *s.upper)
		}
	}

	n := len(resp.Months)
	for _, ys := range [][]float64{
		resp.TotalPopulation, resp.TotalPopulationLower, resp.TotalPopulationUpper,
		resp.SterilizedPopulationLower, resp.UnsterilizedPopulationUpper,
	} {
		if len(ys) != n {
			t.Fatalf("series length %d, want %d", len(ys), n)
		}
	}
	for i := range resp.Months {
		if resp.TotalPopulationLower[i] > resp.TotalPopulation[i] || resp.TotalPopulation[i] > resp.TotalPopulationUpper[i] {
			t.Errorf("month %d: band out of order", i+1)
		}
	}
}

func TestResponseJSONFieldNames(t *testing.T) {
	res, p := batch(t, map[string]any{"numberOfSimulations": 5, "simulationLength": 3})
	data, err := json.Marshal(FromMonteCarlo(res, p))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{
		"finalPopulation", "finalPopulation_lower", "finalPopulation_upper",
		"totalCost_lower", "costBreakdown", "mortality", "months",
		"totalPopulation", "totalPopulation_lower", "sterilizedPopulation_upper",
		"unsterilizedPopulation",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	mort, _ := m["mortality"].(map[string]any)
	for _, key := range []string{"kittenDeaths", "adultDeaths", "mortalityRate", "densityDeaths_lower"} {
		if _, ok := mort[key]; !ok {
			t.Errorf("mortality missing key %q", key)
		}
	}

	single, err := json.Marshal(FromSingle(singleRun(t, nil)))
	if err != nil {
		t.Fatalf("marshal single: %v", err)
	}
	if strings.Contains(string(single), "_lower") {
		t.Error("single-run JSON should not contain band fields")
	}
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestWriteChartSingle(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChart(&buf, FromSingle(singleRun(t, map[string]any{"simulationLength": 1}))); err != nil {
		t.Fatalf("WriteChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestWriteChartMonteCarlo(t *testing.T) {
	res, p := batch(t, map[string]any{"numberOfSimulations": 10, "simulationLength": 6})
	var buf bytes.Buffer
	if err := WriteChart(&buf, FromMonteCarlo(res, p)); err != nil {
		t.Fatalf("WriteChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestWriteChartEmpty(t *testing.T) {
	if err := WriteChart(&bytes.Buffer{}, &Response{}); err == nil {
		t.Error("expected error for a response without months")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, FromSingle(singleRun(t, map[string]any{"simulationLength": 4}))); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Final population", "Total cost", "density", "Month"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	res, p := batch(t, map[string]any{"numberOfSimulations": 4, "simulationLength": 2})
	buf.Reset()
	if err := WriteTable(&buf, FromMonteCarlo(res, p)); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if !strings.Contains(buf.String(), "4 trials") || !strings.Contains(buf.String(), "Lower") {
		t.Errorf("Monte Carlo table missing bands:\n%s", buf.String())
	}
}
