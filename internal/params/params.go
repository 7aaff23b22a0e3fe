// Package params defines the validated parameter set consumed by the colony
// engine and the Monte Carlo aggregator.
//
// A Set is built by merging caller overrides over the defaults table and is
// rejected, never clamped, when any value falls outside its documented range.
package params

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Set is the complete, validated configuration for one projection. It is a
// plain value: the engine receives copies and never mutates the caller's Set.
type Set struct {
	// Colony and intervention.
	InitialColonySize        float64 `json:"initialColonySize" yaml:"initialColonySize"`
	AlreadySterilized        float64 `json:"alreadySterilized" yaml:"alreadySterilized"`
	MonthlySterilizationRate float64 `json:"monthlySterilizationRate" yaml:"monthlySterilizationRate"`
	SterilizationCost        float64 `json:"sterilizationCost" yaml:"sterilizationCost"`
	SimulationLength         int     `json:"simulationLength" yaml:"simulationLength"`
	MonthlyAbandonment       float64 `json:"monthlyAbandonment" yaml:"monthlyAbandonment"`
	StartMonth               int     `json:"startMonth" yaml:"startMonth"`

	// Reproduction.
	BreedingRate     float64 `json:"breedingRate" yaml:"breedingRate"`
	LittersPerYear   float64 `json:"littersPerYear" yaml:"littersPerYear"`
	KittensPerLitter float64 `json:"kittensPerLitter" yaml:"kittensPerLitter"`
	FemaleRatio      float64 `json:"femaleRatio" yaml:"femaleRatio"`

	// Survival (annual probabilities).
	KittenSurvivalRate float64 `json:"kittenSurvivalRate" yaml:"kittenSurvivalRate"`
	AdultSurvivalRate  float64 `json:"adultSurvivalRate" yaml:"adultSurvivalRate"`
	AnnualSurvivalRate float64 `json:"annualSurvivalRate" yaml:"annualSurvivalRate"`

	// Seasonality.
	SeasonalAmplitude float64 `json:"seasonalAmplitude" yaml:"seasonalAmplitude"`
	PeakBreedingMonth int     `json:"peakBreedingMonth" yaml:"peakBreedingMonth"`

	// Territory and density.
	TerritorySize    float64 `json:"territorySize" yaml:"territorySize"`
	DensityThreshold float64 `json:"densityThreshold" yaml:"densityThreshold"`

	// Resources and feeding.
	BaseFoodCapacity   float64 `json:"baseFoodCapacity" yaml:"baseFoodCapacity"`
	FoodScalingFactor  float64 `json:"foodScalingFactor" yaml:"foodScalingFactor"`
	FeedingFrequency   float64 `json:"feedingFrequency" yaml:"feedingFrequency"`
	FeedingConsistency float64 `json:"feedingConsistency" yaml:"feedingConsistency"`
	WaterAvailability  float64 `json:"waterAvailability" yaml:"waterAvailability"`
	ShelterQuality     float64 `json:"shelterQuality" yaml:"shelterQuality"`
	FoodCostPerCat     float64 `json:"foodCostPerCat" yaml:"foodCostPerCat"`

	// Risk (annual).
	UrbanRisk   float64 `json:"urbanRisk" yaml:"urbanRisk"`
	DiseaseRisk float64 `json:"diseaseRisk" yaml:"diseaseRisk"`
	NaturalRisk float64 `json:"naturalRisk" yaml:"naturalRisk"`

	// ResourceVariability scales smooth month-to-month drift in resources.
	// Zero disables the drift.
	ResourceVariability float64 `json:"resourceVariability" yaml:"resourceVariability"`

	// Monte Carlo.
	NumberOfSimulations  int     `json:"numberOfSimulations" yaml:"numberOfSimulations"`
	VariationCoefficient float64 `json:"variationCoefficient" yaml:"variationCoefficient"`
	LowerPercentile      float64 `json:"lowerPercentile" yaml:"lowerPercentile"`
	UpperPercentile      float64 `json:"upperPercentile" yaml:"upperPercentile"`
}

// Defaults returns a Set populated from the defaults table. Each call returns
// a fresh value.
func Defaults() Set {
	var s Set
	for _, f := range fields {
		f.set(&s, f.Default)
	}
	return s
}

// New merges overrides over Defaults and validates the result. Keys may be
// canonical names or any alias accepted by Canonical, but at most one key
// may name each parameter. Keys are applied in sorted order so the first
// reported error is stable.
func New(overrides map[string]any) (Set, error) {
	s := Defaults()

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	via := make(map[string]string, len(keys))
	for _, k := range keys {
		name, ok := Canonical(k)
		if !ok {
			return Set{}, &ValidationError{Field: k, Value: overrides[k], Reason: "unknown parameter"}
		}
		if prev, dup := via[name]; dup {
			return Set{}, duplicateError(name, overrides[k], prev, k)
		}
		via[name] = k
		f := lookup[name]

		x, err := toFloat(overrides[k])
		if err != nil {
			return Set{}, &ValidationError{Field: name, Value: overrides[k], Reason: err.Error()}
		}
		if err := f.check(x); err != nil {
			return Set{}, err
		}
		f.set(&s, x)
	}

	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Validate checks every field range and the cross-field rules.
func (s Set) Validate() error {
	for _, f := range fields {
		if err := f.check(f.get(&s)); err != nil {
			return err
		}
	}

	if s.AlreadySterilized > s.InitialColonySize {
		return &ValidationError{
			Field:  "alreadySterilized",
			Value:  s.AlreadySterilized,
			Reason: fmt.Sprintf("must not exceed initialColonySize (%g)", s.InitialColonySize),
		}
	}
	if s.LowerPercentile >= s.UpperPercentile {
		return &ValidationError{
			Field:  "lowerPercentile",
			Value:  s.LowerPercentile,
			Reason: fmt.Sprintf("must be below upperPercentile (%g)", s.UpperPercentile),
		}
	}
	return nil
}

// Map returns the Set as canonical name → value, in schema order when
// iterated via Fields.
func (s Set) Map() map[string]float64 {
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		out[f.Name] = f.get(&s)
	}
	return out
}

// Value returns a single parameter by canonical name or alias.
func (s Set) Value(name string) (float64, bool) {
	canonical, ok := Canonical(name)
	if !ok {
		return 0, false
	}
	return lookup[canonical].get(&s), true
}

// With returns a copy of s with one parameter replaced and validated.
func (s Set) With(name string, value float64) (Set, error) {
	canonical, ok := Canonical(name)
	if !ok {
		return Set{}, &ValidationError{Field: name, Value: value, Reason: "unknown parameter"}
	}
	f := lookup[canonical]
	if err := f.check(value); err != nil {
		return Set{}, err
	}
	f.set(&s, value)
	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// toFloat accepts the numeric types produced by encoding/json, yaml.v3 and
// Go callers. Strings and booleans are rejected.
func toFloat(v any) (float64, error) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int8:
		x = float64(n)
	case int16:
		x = float64(n)
	case int32:
		x = float64(n)
	case int64:
		x = float64(n)
	case uint:
		x = float64(n)
	case uint8:
		x = float64(n)
	case uint16:
		x = float64(n)
	case uint32:
		x = float64(n)
	case uint64:
		x = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n.String())
		}
		x = f
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("must be numeric, got %T", v)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("must be finite")
	}
	return x, nil
}
