package params

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Field describes one parameter: its canonical name, default and valid range.
type Field struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Default     float64 `json:"default"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	MinOpen     bool    `json:"minExclusive,omitempty"`
	MaxOpen     bool    `json:"maxExclusive,omitempty"`
	Integer     bool    `json:"integer,omitempty"`

	get func(*Set) float64
	set func(*Set, float64)
}

func num(name, desc string, def, lo, hi float64, ptr func(*Set) *float64) Field {
	return Field{
		Name: name, Description: desc, Default: def, Min: lo, Max: hi,
		get: func(s *Set) float64 { return *ptr(s) },
		set: func(s *Set, v float64) { *ptr(s) = v },
	}
}

func whole(name, desc string, def, lo, hi float64, ptr func(*Set) *int) Field {
	return Field{
		Name: name, Description: desc, Default: def, Min: lo, Max: hi, Integer: true,
		get: func(s *Set) float64 { return float64(*ptr(s)) },
		set: func(s *Set, v float64) { *ptr(s) = int(v) },
	}
}

func openMin(f Field) Field { f.MinOpen = true; return f }
func openMax(f Field) Field { f.MaxOpen = true; return f }

var fields = []Field{
	num("initialColonySize", "cats in the colony at month 0", 10, 0, 100000,
		func(s *Set) *float64 { return &s.InitialColonySize }),
	num("alreadySterilized", "cats already sterilized at month 0", 0, 0, 100000,
		func(s *Set) *float64 { return &s.AlreadySterilized }),
	num("monthlySterilizationRate", "cats sterilized per month", 0, 0, 10000,
		func(s *Set) *float64 { return &s.MonthlySterilizationRate }),
	num("sterilizationCost", "cost per sterilization", 50, 0, 10000,
		func(s *Set) *float64 { return &s.SterilizationCost }),
	whole("simulationLength", "months to project", 12, 1, 60,
		func(s *Set) *int { return &s.SimulationLength }),
	num("monthlyAbandonment", "cats abandoned into the colony per month", 0, 0, 1000,
		func(s *Set) *float64 { return &s.MonthlyAbandonment }),
	whole("startMonth", "calendar month of the first simulated month", 1, 1, 12,
		func(s *Set) *int { return &s.StartMonth }),

	num("breedingRate", "share of unsterilized females that breed", 0.85, 0, 1,
		func(s *Set) *float64 { return &s.BreedingRate }),
	num("littersPerYear", "litters per breeding female per year", 2, 0, 4,
		func(s *Set) *float64 { return &s.LittersPerYear }),
	num("kittensPerLitter", "kittens per litter", 4, 1, 10,
		func(s *Set) *float64 { return &s.KittensPerLitter }),
	num("femaleRatio", "share of the colony that is female", 0.5, 0, 1,
		func(s *Set) *float64 { return &s.FemaleRatio }),

	openMin(num("kittenSurvivalRate", "annual kitten survival probability", 0.5, 0, 1,
		func(s *Set) *float64 { return &s.KittenSurvivalRate })),
	openMin(num("adultSurvivalRate", "annual adult survival probability", 0.8, 0, 1,
		func(s *Set) *float64 { return &s.AdultSurvivalRate })),
	openMin(num("annualSurvivalRate", "annual survival against natural causes", 0.7, 0, 1,
		func(s *Set) *float64 { return &s.AnnualSurvivalRate })),

	num("seasonalAmplitude", "depth of the off-season breeding dip", 0.5, 0, 1,
		func(s *Set) *float64 { return &s.SeasonalAmplitude }),
	whole("peakBreedingMonth", "calendar month of peak breeding", 5, 1, 12,
		func(s *Set) *int { return &s.PeakBreedingMonth }),

	num("territorySize", "territory area in square metres", 5000, 10, 1000000,
		func(s *Set) *float64 { return &s.TerritorySize }),
	num("densityThreshold", "cats per 100 square metres at capacity", 1, 0.01, 10,
		func(s *Set) *float64 { return &s.DensityThreshold }),

	num("baseFoodCapacity", "food supply relative to need", 0.8, 0, 1,
		func(s *Set) *float64 { return &s.BaseFoodCapacity }),
	num("foodScalingFactor", "how well food supply scales with the colony", 0.9, 0, 1,
		func(s *Set) *float64 { return &s.FoodScalingFactor }),
	num("feedingFrequency", "caretaker feedings per week", 7, 0, 21,
		func(s *Set) *float64 { return &s.FeedingFrequency }),
	num("feedingConsistency", "reliability of the feeding schedule", 0.8, 0, 1,
		func(s *Set) *float64 { return &s.FeedingConsistency }),
	num("waterAvailability", "access to water", 0.8, 0, 1,
		func(s *Set) *float64 { return &s.WaterAvailability }),
	num("shelterQuality", "quality of available shelter", 0.7, 0, 1,
		func(s *Set) *float64 { return &s.ShelterQuality }),
	num("foodCostPerCat", "base monthly food cost per cat", 10, 0, 1000,
		func(s *Set) *float64 { return &s.FoodCostPerCat }),

	num("urbanRisk", "annual death risk from traffic and people", 0.1, 0, 1,
		func(s *Set) *float64 { return &s.UrbanRisk }),
	num("diseaseRisk", "annual death risk from disease", 0.1, 0, 1,
		func(s *Set) *float64 { return &s.DiseaseRisk }),
	num("naturalRisk", "scale on natural-causes mortality", 0.1, 0, 1,
		func(s *Set) *float64 { return &s.NaturalRisk }),
	num("resourceVariability", "month-to-month resource drift", 0, 0, 0.5,
		func(s *Set) *float64 { return &s.ResourceVariability }),

	whole("numberOfSimulations", "Monte Carlo trials", 100, 1, 10000,
		func(s *Set) *int { return &s.NumberOfSimulations }),
	num("variationCoefficient", "per-trial parameter uncertainty (σ/μ)", 0.1, 0, 1,
		func(s *Set) *float64 { return &s.VariationCoefficient }),
	openMax(num("lowerPercentile", "lower band percentile", 10, 0, 100,
		func(s *Set) *float64 { return &s.LowerPercentile })),
	openMin(num("upperPercentile", "upper band percentile", 90, 0, 100,
		func(s *Set) *float64 { return &s.UpperPercentile })),
}

var lookup = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}()

// legacyAliases maps older caller-facing names onto the canonical schema.
// snake_case spellings of canonical names are resolved separately.
var legacyAliases = map[string]string{
	"density_impact_threshold": "densityThreshold",
	"kittenSurvival":           "kittenSurvivalRate",
	"adultSurvival":            "adultSurvivalRate",
	"survivalRate":             "annualSurvivalRate",
	"seasonalVariation":        "seasonalAmplitude",
	"seasonal_variation":       "seasonalAmplitude",
	"peakMonth":                "peakBreedingMonth",
	"peak_month":               "peakBreedingMonth",
	"foodCapacity":             "baseFoodCapacity",
	"food_capacity":            "baseFoodCapacity",
	"baseFoodCost":             "foodCostPerCat",
	"base_food_cost":           "foodCostPerCat",
	"numSimulations":           "numberOfSimulations",
	"colonySize":               "initialColonySize",
	"colony_size":              "initialColonySize",
}

// Canonical resolves a caller-supplied name to its canonical form.
func Canonical(name string) (string, bool) {
	if _, ok := lookup[name]; ok {
		return name, true
	}
	if c, ok := legacyAliases[name]; ok {
		return c, true
	}
	if c := snakeToCamel(name); c != name {
		if _, ok := lookup[c]; ok {
			return c, true
		}
	}
	return "", false
}

// Fields returns the schema in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the schema entry for a canonical name or alias.
func Lookup(name string) (Field, bool) {
	c, ok := Canonical(name)
	if !ok {
		return Field{}, false
	}
	return lookup[c], true
}

// Clamp pulls v into the field's range. Open bounds are approached by a
// small margin so the result always passes check.
func (f Field) Clamp(v float64) float64 {
	lo, hi := f.Min, f.Max
	if f.MinOpen {
		lo = math.Nextafter(lo, math.Inf(1))
	}
	if f.MaxOpen {
		hi = math.Nextafter(hi, math.Inf(-1))
	}
	if f.Integer {
		v = math.Round(v)
	}
	return math.Max(lo, math.Min(hi, v))
}

func (f Field) check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: f.Name, Value: v, Reason: "must be finite"}
	}
	if f.Integer && v != math.Trunc(v) {
		return &ValidationError{Field: f.Name, Value: v, Reason: "must be a whole number"}
	}
	below := v < f.Min || (f.MinOpen && v == f.Min)
	above := v > f.Max || (f.MaxOpen && v == f.Max)
	if below || above {
		return &ValidationError{Field: f.Name, Value: v, Reason: "out of range " + f.rangeString()}
	}
	return nil
}

func (f Field) rangeString() string {
	open, closeB := "[", "]"
	if f.MinOpen {
		open = "("
	}
	if f.MaxOpen {
		closeB = ")"
	}
	return fmt.Sprintf("%s%g, %g%s", open, f.Min, f.Max, closeB)
}

func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
